package requests

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ziksirlabs/ziksir-backend/pkg/db/models"
	"github.com/ziksirlabs/ziksir-backend/pkg/enums"
	"github.com/ziksirlabs/ziksir-backend/pkg/pagination"
)

// Repository exposes equipment-request persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a requests repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a request using the supplied transaction when present.
func (r *Repository) Create(ctx context.Context, tx *gorm.DB, request *models.EquipmentRequest) (*models.EquipmentRequest, error) {
	conn := r.db
	if tx != nil {
		conn = tx
	}
	if err := conn.WithContext(ctx).Create(request).Error; err != nil {
		return nil, err
	}
	return request, nil
}

// FindByID loads a request by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.EquipmentRequest, error) {
	var request models.EquipmentRequest
	if err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// List returns requests newest first, optionally filtered by status.
func (r *Repository) List(ctx context.Context, status *enums.RequestStatus, page pagination.Page) ([]models.EquipmentRequest, error) {
	page = page.Normalize()
	query := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset)
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var items []models.EquipmentRequest
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateStatus applies an admin decision.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.RequestStatus, adminNote *string) error {
	updates := map[string]any{"status": status}
	if adminNote != nil {
		updates["admin_note"] = *adminNote
	}
	return r.db.WithContext(ctx).
		Model(&models.EquipmentRequest{}).
		Where("id = ?", id).
		Updates(updates).Error
}
