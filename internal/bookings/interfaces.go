package bookings

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ziksirlabs/ziksir-backend/pkg/db/models"
	"github.com/ziksirlabs/ziksir-backend/pkg/pagination"
)

// Repository defines persistence operations for bookings and the equipment
// availability counters they reconcile.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, booking *models.Booking) (*models.Booking, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	FindByIDPopulated(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	ListAll(ctx context.Context, page pagination.Page) ([]models.Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Booking, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	StatusCounts(ctx context.Context) (*StatusCounts, error)
	StatusCountsByUser(ctx context.Context, userID uuid.UUID) (*StatusCounts, error)
	CountActiveByEquipment(ctx context.Context, equipmentID uuid.UUID) (int64, error)
	FindEquipment(ctx context.Context, equipmentID uuid.UUID) (*models.Equipment, error)
	ReserveUnit(ctx context.Context, equipmentID uuid.UUID) (bool, error)
	ReleaseUnit(ctx context.Context, equipmentID uuid.UUID) (bool, error)
}
