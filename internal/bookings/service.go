package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ziksirlabs/ziksir-backend/pkg/db/models"
	"github.com/ziksirlabs/ziksir-backend/pkg/enums"
	pkgerrors "github.com/ziksirlabs/ziksir-backend/pkg/errors"
	"github.com/ziksirlabs/ziksir-backend/pkg/metrics"
	"github.com/ziksirlabs/ziksir-backend/pkg/outbox"
	"github.com/ziksirlabs/ziksir-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service drives the booking lifecycle and keeps equipment availability
// reconciled with it.
type Service interface {
	Create(ctx context.Context, input CreateBookingInput) (*BookingDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*BookingDTO, error)
	ListAll(ctx context.Context, page pagination.Page) ([]BookingDTO, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]BookingDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateBookingInput) (*BookingDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Counts(ctx context.Context) (*StatusCounts, error)
	CountsByUser(ctx context.Context, userID uuid.UUID) (*StatusCounts, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	outbox  outboxPublisher
	metrics *metrics.BookingMetrics
}

// BookingEventData is the outbox payload for booking lifecycle notifications.
type BookingEventData struct {
	BookingID     uuid.UUID           `json:"booking_id"`
	UserID        uuid.UUID           `json:"user_id"`
	UserEmail     string              `json:"user_email"`
	UserName      string              `json:"user_name"`
	EquipmentID   uuid.UUID           `json:"equipment_id"`
	EquipmentName string              `json:"equipment_name"`
	SlotDate      time.Time           `json:"slot_date"`
	Status        enums.BookingStatus `json:"status"`
}

// NewService builds a bookings service with the required dependencies.
func NewService(repo Repository, tx txRunner, publisher outboxPublisher, bookingMetrics *metrics.BookingMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("bookings repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:    repo,
		tx:      tx,
		outbox:  publisher,
		metrics: bookingMetrics,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateBookingInput) (*BookingDTO, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.EquipmentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "equipment id required")
	}

	status := input.Status
	if status == "" {
		status = enums.BookingStatusPending
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid booking status")
	}
	if !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid requester category")
	}

	sampleCount := input.SampleCount
	if sampleCount <= 0 {
		sampleCount = 1
	}

	booking := &models.Booking{
		ID:          uuid.New(),
		UserID:      input.UserID,
		EquipmentID: input.EquipmentID,
		BookingDate: input.BookingDate,
		SlotDate:    input.SlotDate,
		Status:      status,
		SampleCount: sampleCount,
		Category:    input.Category,
		Phone:       input.Phone,
		Notes:       input.Notes,
	}
	if status != enums.BookingStatusPending {
		now := time.Now().UTC()
		booking.DecidedAt = &now
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.FindEquipment(ctx, input.EquipmentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "equipment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load equipment")
		}

		if status.HoldsUnit() {
			reserved, err := repo.ReserveUnit(ctx, input.EquipmentID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve unit")
			}
			if !reserved {
				s.metrics.IncCapacityRejected()
				return pkgerrors.New(pkgerrors.CodeStateConflict, "no units available")
			}
		}

		if _, err := repo.Create(ctx, booking); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create booking")
		}

		return s.emit(ctx, tx, repo, booking.ID, enums.EventTypeBookingCreated)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncTransition("new", status.String())
	return s.Get(ctx, booking.ID)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*BookingDTO, error) {
	booking, err := s.repo.FindByIDPopulated(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
	}
	return FromModel(booking), nil
}

func (s *service) ListAll(ctx context.Context, page pagination.Page) ([]BookingDTO, error) {
	items, err := s.repo.ListAll(ctx, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list bookings")
	}
	return FromModels(items), nil
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID) ([]BookingDTO, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list user bookings")
	}
	return FromModels(items), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateBookingInput) (*BookingDTO, error) {
	if input.Status == nil && input.SlotDate == nil && input.SampleCount == nil && input.Notes == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid booking status")
	}

	var oldStatus, newStatus enums.BookingStatus
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		booking, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
		}

		oldStatus = booking.Status
		newStatus = oldStatus
		updates := map[string]any{}
		if input.SlotDate != nil {
			updates["slot_date"] = *input.SlotDate
		}
		if input.SampleCount != nil {
			updates["sample_count"] = *input.SampleCount
		}
		if input.Notes != nil {
			updates["notes"] = *input.Notes
		}
		if input.Status != nil && *input.Status != oldStatus {
			newStatus = *input.Status
			updates["status"] = newStatus
			if newStatus == enums.BookingStatusApproved || newStatus == enums.BookingStatusRejected {
				updates["decided_at"] = time.Now().UTC()
			}
		}
		if len(updates) == 0 {
			return nil
		}

		// One delta per transition: -1 entering approved, +1 leaving it.
		if newStatus.HoldsUnit() && !oldStatus.HoldsUnit() {
			reserved, err := repo.ReserveUnit(ctx, booking.EquipmentID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve unit")
			}
			if !reserved {
				s.metrics.IncCapacityRejected()
				return pkgerrors.New(pkgerrors.CodeStateConflict, "no units available")
			}
		} else if oldStatus.HoldsUnit() && !newStatus.HoldsUnit() {
			released, err := repo.ReleaseUnit(ctx, booking.EquipmentID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release unit")
			}
			if !released {
				s.metrics.IncReconcileFailure("release_guard")
				return pkgerrors.New(pkgerrors.CodeStateConflict, "equipment availability out of bounds")
			}
		}

		if err := repo.Update(ctx, id, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update booking")
		}

		if newStatus != oldStatus {
			if eventType, ok := decisionEventType(newStatus); ok {
				if err := s.emit(ctx, tx, repo, id, eventType); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if newStatus != oldStatus {
		s.metrics.IncTransition(oldStatus.String(), newStatus.String())
	}
	return s.Get(ctx, id)
}

// Delete removes a booking that is not holding history or a unit. Approved
// bookings must be cancelled or rejected first so the availability counter is
// reconciled on the way out.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		booking, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
		}

		switch booking.Status {
		case enums.BookingStatusApproved, enums.BookingStatusCompleted:
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot delete booking in %s status", booking.Status))
		}

		if err := repo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete booking")
		}
		return nil
	})
}

func (s *service) Counts(ctx context.Context) (*StatusCounts, error) {
	counts, err := s.repo.StatusCounts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count bookings")
	}
	return counts, nil
}

func (s *service) CountsByUser(ctx context.Context, userID uuid.UUID) (*StatusCounts, error) {
	counts, err := s.repo.StatusCountsByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count user bookings")
	}
	return counts, nil
}

func (s *service) emit(ctx context.Context, tx *gorm.DB, repo Repository, bookingID uuid.UUID, eventType enums.EventType) error {
	if s.outbox == nil {
		return nil
	}

	booking, err := repo.FindByIDPopulated(ctx, bookingID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking for event")
	}

	data := BookingEventData{
		BookingID:   booking.ID,
		UserID:      booking.UserID,
		EquipmentID: booking.EquipmentID,
		SlotDate:    booking.SlotDate,
		Status:      booking.Status,
	}
	if booking.User != nil {
		data.UserEmail = booking.User.Email
		data.UserName = booking.User.Name
	}
	if booking.Equipment != nil {
		data.EquipmentName = booking.Equipment.Name
	}

	event := outbox.DomainEvent{
		EventType:     eventType,
		AggregateType: enums.AggregateTypeBooking,
		AggregateID:   booking.ID,
		Data:          data,
	}
	if err := s.outbox.Emit(ctx, tx, event); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "queue booking event")
	}
	return nil
}

func decisionEventType(status enums.BookingStatus) (enums.EventType, bool) {
	switch status {
	case enums.BookingStatusApproved:
		return enums.EventTypeBookingApproved, true
	case enums.BookingStatusRejected:
		return enums.EventTypeBookingRejected, true
	case enums.BookingStatusCancelled:
		return enums.EventTypeBookingCancelled, true
	case enums.BookingStatusCompleted:
		return enums.EventTypeBookingCompleted, true
	default:
		return "", false
	}
}
