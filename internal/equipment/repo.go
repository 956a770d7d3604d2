package equipment

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ziksirlabs/ziksir-backend/pkg/db/models"
	"github.com/ziksirlabs/ziksir-backend/pkg/enums"
	"github.com/ziksirlabs/ziksir-backend/pkg/pagination"
)

// Repository defines persistence operations for the equipment catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, equipment *models.Equipment) (*models.Equipment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Equipment, error)
	List(ctx context.Context, page pagination.Page) ([]models.Equipment, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	Counts(ctx context.Context) (*CatalogCounts, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an equipment repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, equipment *models.Equipment) (*models.Equipment, error) {
	if err := r.db.WithContext(ctx).Create(equipment).Error; err != nil {
		return nil, err
	}
	return equipment, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Equipment, error) {
	var equipment models.Equipment
	if err := r.db.WithContext(ctx).First(&equipment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &equipment, nil
}

func (r *repository) List(ctx context.Context, page pagination.Page) ([]models.Equipment, error) {
	var items []models.Equipment
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Equipment{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Equipment{}, "id = ?", id).Error
}

type catalogCountRow struct {
	Status enums.EquipmentStatus
	Count  int64
}

func (r *repository) Counts(ctx context.Context) (*CatalogCounts, error) {
	var rows []catalogCountRow
	err := r.db.WithContext(ctx).
		Model(&models.Equipment{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := &CatalogCounts{}
	for _, row := range rows {
		counts.Total += row.Count
		switch row.Status {
		case enums.EquipmentStatusAvailable:
			counts.Available = row.Count
		case enums.EquipmentStatusUnavailable:
			counts.Unavailable = row.Count
		case enums.EquipmentStatusMaintenance:
			counts.Maintenance = row.Count
		}
	}
	return counts, nil
}
