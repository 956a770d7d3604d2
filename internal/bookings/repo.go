package bookings

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ziksirlabs/ziksir-backend/pkg/db/models"
	"github.com/ziksirlabs/ziksir-backend/pkg/enums"
	"github.com/ziksirlabs/ziksir-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a bookings repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	if err := r.db.WithContext(ctx).Create(booking).Error; err != nil {
		return nil, err
	}
	return booking, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).First(&booking, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) FindByIDPopulated(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Equipment").
		First(&booking, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) ListAll(ctx context.Context, page pagination.Page) ([]models.Booking, error) {
	page = page.Normalize()
	var items []models.Booking
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Equipment").
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Booking, error) {
	var items []models.Booking
	err := r.db.WithContext(ctx).
		Preload("Equipment").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Booking{}, "id = ?", id).Error
}

type statusCountRow struct {
	Status enums.BookingStatus
	Count  int64
}

// StatusCounts returns per-status totals from a single GROUP BY pass so the
// numbers are mutually consistent at query time.
func (r *repository) StatusCounts(ctx context.Context) (*StatusCounts, error) {
	return r.statusCounts(ctx, r.db.WithContext(ctx).Model(&models.Booking{}))
}

func (r *repository) StatusCountsByUser(ctx context.Context, userID uuid.UUID) (*StatusCounts, error) {
	query := r.db.WithContext(ctx).Model(&models.Booking{}).Where("user_id = ?", userID)
	return r.statusCounts(ctx, query)
}

func (r *repository) statusCounts(ctx context.Context, query *gorm.DB) (*StatusCounts, error) {
	var rows []statusCountRow
	err := query.
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := &StatusCounts{}
	for _, row := range rows {
		counts.Total += row.Count
		switch row.Status {
		case enums.BookingStatusPending:
			counts.Pending = row.Count
		case enums.BookingStatusApproved:
			counts.Approved = row.Count
		case enums.BookingStatusCompleted:
			counts.Completed = row.Count
		case enums.BookingStatusCancelled:
			counts.Cancelled = row.Count
		case enums.BookingStatusRejected:
			counts.Rejected = row.Count
		}
	}
	return counts, nil
}

// CountActiveByEquipment reports pending/approved bookings still holding the item.
func (r *repository) CountActiveByEquipment(ctx context.Context, equipmentID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("equipment_id = ? AND status IN ?", equipmentID, []enums.BookingStatus{
			enums.BookingStatusPending,
			enums.BookingStatusApproved,
		}).
		Count(&count).Error
	return count, err
}

func (r *repository) FindEquipment(ctx context.Context, equipmentID uuid.UUID) (*models.Equipment, error) {
	var equipment models.Equipment
	if err := r.db.WithContext(ctx).First(&equipment, "id = ?", equipmentID).Error; err != nil {
		return nil, err
	}
	return &equipment, nil
}

// ReserveUnit atomically takes one available unit. The guard keeps available
// from ever going negative; false means nothing was reserved.
func (r *repository) ReserveUnit(ctx context.Context, equipmentID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Exec(
		"UPDATE equipment SET available = available - 1 WHERE id = ? AND available > 0",
		equipmentID,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ReleaseUnit atomically returns one unit, capped at the item's quantity.
func (r *repository) ReleaseUnit(ctx context.Context, equipmentID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Exec(
		"UPDATE equipment SET available = available + 1 WHERE id = ? AND available < quantity",
		equipmentID,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
