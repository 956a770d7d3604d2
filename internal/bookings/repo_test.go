package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ziksirlabs/ziksir-backend/pkg/db/models"
	"github.com/ziksirlabs/ziksir-backend/pkg/enums"
	pkgerrors "github.com/ziksirlabs/ziksir-backend/pkg/errors"
)

func setupBookingsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  name TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'user',
  organization TEXT,
  phone TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	equipment := `
CREATE TABLE IF NOT EXISTS equipment (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  category TEXT NOT NULL,
  location TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'available',
  quantity INTEGER NOT NULL DEFAULT 1,
  available INTEGER NOT NULL DEFAULT 1,
  description TEXT,
  specs TEXT,
  tags TEXT,
  image_url TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	bookings := `
CREATE TABLE IF NOT EXISTS bookings (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  equipment_id TEXT NOT NULL,
  booking_date DATETIME NOT NULL,
  slot_date DATETIME NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  sample_count INTEGER NOT NULL DEFAULT 1,
  category TEXT NOT NULL,
  phone TEXT NOT NULL,
  notes TEXT,
  decided_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(users).Error)
	require.NoError(t, db.Exec(equipment).Error)
	require.NoError(t, db.Exec(bookings).Error)
	return db
}

type gormTxRunner struct {
	db *gorm.DB
}

func (g gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return g.db.WithContext(ctx).Transaction(fn)
}

func newTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "hash",
		Name:         "Researcher",
		Role:         enums.UserRoleUser,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func newTestEquipment(t *testing.T, db *gorm.DB, quantity, available int) *models.Equipment {
	t.Helper()
	equipment := &models.Equipment{
		ID:        uuid.New(),
		Name:      "Confocal Microscope",
		Category:  "imaging",
		Location:  "Lab 2",
		Status:    enums.EquipmentStatusAvailable,
		Quantity:  quantity,
		Available: available,
	}
	require.NoError(t, db.Create(equipment).Error)
	return equipment
}

func newTestBooking(t *testing.T, db *gorm.DB, userID, equipmentID uuid.UUID, status enums.BookingStatus) *models.Booking {
	t.Helper()
	booking := &models.Booking{
		ID:          uuid.New(),
		UserID:      userID,
		EquipmentID: equipmentID,
		BookingDate: time.Now(),
		SlotDate:    time.Now().Add(48 * time.Hour),
		Status:      status,
		SampleCount: 1,
		Category:    enums.RequesterCategoryAcademic,
		Phone:       "555-0100",
	}
	require.NoError(t, db.Create(booking).Error)
	return booking
}

func equipmentAvailable(t *testing.T, db *gorm.DB, id uuid.UUID) int {
	t.Helper()
	var equipment models.Equipment
	require.NoError(t, db.First(&equipment, "id = ?", id).Error)
	return equipment.Available
}

func TestReserveUnitStopsAtZero(t *testing.T) {
	db := setupBookingsTestDB(t)
	repo := NewRepository(db)
	equipment := newTestEquipment(t, db, 1, 1)
	ctx := context.Background()

	reserved, err := repo.ReserveUnit(ctx, equipment.ID)
	require.NoError(t, err)
	assert.True(t, reserved)
	assert.Equal(t, 0, equipmentAvailable(t, db, equipment.ID))

	reserved, err = repo.ReserveUnit(ctx, equipment.ID)
	require.NoError(t, err)
	assert.False(t, reserved)
	assert.Equal(t, 0, equipmentAvailable(t, db, equipment.ID))
}

func TestReleaseUnitStopsAtQuantity(t *testing.T) {
	db := setupBookingsTestDB(t)
	repo := NewRepository(db)
	equipment := newTestEquipment(t, db, 2, 1)
	ctx := context.Background()

	released, err := repo.ReleaseUnit(ctx, equipment.ID)
	require.NoError(t, err)
	assert.True(t, released)
	assert.Equal(t, 2, equipmentAvailable(t, db, equipment.ID))

	released, err = repo.ReleaseUnit(ctx, equipment.ID)
	require.NoError(t, err)
	assert.False(t, released)
	assert.Equal(t, 2, equipmentAvailable(t, db, equipment.ID))
}

func TestStatusCountsSinglePass(t *testing.T) {
	db := setupBookingsTestDB(t)
	repo := NewRepository(db)
	user := newTestUser(t, db)
	other := newTestUser(t, db)
	equipment := newTestEquipment(t, db, 10, 10)
	ctx := context.Background()

	newTestBooking(t, db, user.ID, equipment.ID, enums.BookingStatusPending)
	newTestBooking(t, db, user.ID, equipment.ID, enums.BookingStatusPending)
	newTestBooking(t, db, user.ID, equipment.ID, enums.BookingStatusApproved)
	newTestBooking(t, db, user.ID, equipment.ID, enums.BookingStatusCompleted)
	newTestBooking(t, db, other.ID, equipment.ID, enums.BookingStatusRejected)
	newTestBooking(t, db, other.ID, equipment.ID, enums.BookingStatusCancelled)

	counts, err := repo.StatusCounts(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, counts.Pending, int64(2))
	assert.Equal(t, counts.Total,
		counts.Pending+counts.Approved+counts.Completed+counts.Cancelled+counts.Rejected)

	mine, err := repo.StatusCountsByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), mine.Total)
	assert.Equal(t, int64(2), mine.Pending)
	assert.Equal(t, int64(1), mine.Approved)
	assert.Equal(t, int64(1), mine.Completed)
}

func TestCountActiveByEquipment(t *testing.T) {
	db := setupBookingsTestDB(t)
	repo := NewRepository(db)
	user := newTestUser(t, db)
	equipment := newTestEquipment(t, db, 5, 5)
	ctx := context.Background()

	newTestBooking(t, db, user.ID, equipment.ID, enums.BookingStatusPending)
	newTestBooking(t, db, user.ID, equipment.ID, enums.BookingStatusApproved)
	newTestBooking(t, db, user.ID, equipment.ID, enums.BookingStatusCompleted)
	newTestBooking(t, db, user.ID, equipment.ID, enums.BookingStatusRejected)

	count, err := repo.CountActiveByEquipment(ctx, equipment.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestLifecycleReconciliation(t *testing.T) {
	db := setupBookingsTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo, gormTxRunner{db: db}, nil, nil)
	require.NoError(t, err)

	user := newTestUser(t, db)
	equipment := newTestEquipment(t, db, 5, 5)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateBookingInput{
		UserID:      user.ID,
		EquipmentID: equipment.ID,
		BookingDate: time.Now(),
		SlotDate:    time.Now().Add(24 * time.Hour),
		Category:    enums.RequesterCategoryAcademic,
		Phone:       "555-0101",
	})
	require.NoError(t, err)
	assert.Equal(t, enums.BookingStatusPending, created.Status)
	assert.Equal(t, 5, equipmentAvailable(t, db, equipment.ID))

	approved := enums.BookingStatusApproved
	updated, err := svc.Update(ctx, created.ID, UpdateBookingInput{Status: &approved})
	require.NoError(t, err)
	assert.Equal(t, enums.BookingStatusApproved, updated.Status)
	assert.NotNil(t, updated.DecidedAt)
	assert.Equal(t, 4, equipmentAvailable(t, db, equipment.ID))

	completed := enums.BookingStatusCompleted
	updated, err = svc.Update(ctx, created.ID, UpdateBookingInput{Status: &completed})
	require.NoError(t, err)
	assert.Equal(t, enums.BookingStatusCompleted, updated.Status)
	assert.Equal(t, 5, equipmentAvailable(t, db, equipment.ID))

	err = svc.Delete(ctx, created.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
	assert.Equal(t, 5, equipmentAvailable(t, db, equipment.ID))
}

func TestApprovedToRejectedReleasesExactlyOnce(t *testing.T) {
	db := setupBookingsTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo, gormTxRunner{db: db}, nil, nil)
	require.NoError(t, err)

	user := newTestUser(t, db)
	equipment := newTestEquipment(t, db, 3, 3)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateBookingInput{
		UserID:      user.ID,
		EquipmentID: equipment.ID,
		BookingDate: time.Now(),
		SlotDate:    time.Now().Add(24 * time.Hour),
		Category:    enums.RequesterCategoryIndustry,
		Phone:       "555-0102",
		Status:      enums.BookingStatusApproved,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, equipmentAvailable(t, db, equipment.ID))

	rejected := enums.BookingStatusRejected
	_, err = svc.Update(ctx, created.ID, UpdateBookingInput{Status: &rejected})
	require.NoError(t, err)
	assert.Equal(t, 3, equipmentAvailable(t, db, equipment.ID))

	err = svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	_, err = repo.FindByID(ctx, created.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestApprovalsNeverOversubscribe(t *testing.T) {
	db := setupBookingsTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo, gormTxRunner{db: db}, nil, nil)
	require.NoError(t, err)

	user := newTestUser(t, db)
	equipment := newTestEquipment(t, db, 2, 2)
	ctx := context.Background()
	approved := enums.BookingStatusApproved

	ids := make([]uuid.UUID, 0, 3)
	for i := 0; i < 3; i++ {
		created, err := svc.Create(ctx, CreateBookingInput{
			UserID:      user.ID,
			EquipmentID: equipment.ID,
			BookingDate: time.Now(),
			SlotDate:    time.Now().Add(24 * time.Hour),
			Category:    enums.RequesterCategoryAcademic,
			Phone:       "555-0103",
		})
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	_, err = svc.Update(ctx, ids[0], UpdateBookingInput{Status: &approved})
	require.NoError(t, err)
	_, err = svc.Update(ctx, ids[1], UpdateBookingInput{Status: &approved})
	require.NoError(t, err)
	assert.Equal(t, 0, equipmentAvailable(t, db, equipment.ID))

	_, err = svc.Update(ctx, ids[2], UpdateBookingInput{Status: &approved})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
	assert.Equal(t, 0, equipmentAvailable(t, db, equipment.ID))

	// The failed transaction must not leave a partial status write behind.
	stale, err := repo.FindByID(ctx, ids[2])
	require.NoError(t, err)
	assert.Equal(t, enums.BookingStatusPending, stale.Status)
}

func TestCreateApprovedWithNoUnitsFails(t *testing.T) {
	db := setupBookingsTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo, gormTxRunner{db: db}, nil, nil)
	require.NoError(t, err)

	user := newTestUser(t, db)
	equipment := newTestEquipment(t, db, 1, 0)
	ctx := context.Background()

	_, err = svc.Create(ctx, CreateBookingInput{
		UserID:      user.ID,
		EquipmentID: equipment.ID,
		BookingDate: time.Now(),
		SlotDate:    time.Now().Add(24 * time.Hour),
		Category:    enums.RequesterCategoryAcademic,
		Phone:       "555-0104",
		Status:      enums.BookingStatusApproved,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
	assert.Equal(t, 0, equipmentAvailable(t, db, equipment.ID))
}
