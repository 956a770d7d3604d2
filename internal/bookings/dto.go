package bookings

import (
	"time"

	"github.com/google/uuid"

	"github.com/ziksirlabs/ziksir-backend/pkg/db/models"
	"github.com/ziksirlabs/ziksir-backend/pkg/enums"
)

// CreateBookingInput is the payload for reserving an equipment slot.
type CreateBookingInput struct {
	UserID      uuid.UUID
	EquipmentID uuid.UUID               `json:"equipment_id" validate:"required"`
	BookingDate time.Time               `json:"booking_date" validate:"required"`
	SlotDate    time.Time               `json:"slot_date" validate:"required"`
	SampleCount int                     `json:"sample_count" validate:"omitempty,min=1"`
	Category    enums.RequesterCategory `json:"category" validate:"required,oneof=academic industry"`
	Phone       string                  `json:"phone" validate:"required"`
	Notes       *string                 `json:"notes,omitempty"`
	Status      enums.BookingStatus     `json:"status,omitempty"`
}

// UpdateBookingInput carries the mutable booking fields. Nil means unchanged.
type UpdateBookingInput struct {
	Status      *enums.BookingStatus `json:"status,omitempty" validate:"omitempty,oneof=pending approved rejected cancelled completed"`
	SlotDate    *time.Time           `json:"slot_date,omitempty"`
	SampleCount *int                 `json:"sample_count,omitempty" validate:"omitempty,min=1"`
	Notes       *string              `json:"notes,omitempty"`
}

// UserSummary is the booking owner's transport shape.
type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// EquipmentSummary is the booked item's transport shape.
type EquipmentSummary struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
	Location string    `json:"location"`
}

// BookingDTO is the populated transport shape for a booking.
type BookingDTO struct {
	ID          uuid.UUID               `json:"id"`
	UserID      uuid.UUID               `json:"user_id"`
	EquipmentID uuid.UUID               `json:"equipment_id"`
	BookingDate time.Time               `json:"booking_date"`
	SlotDate    time.Time               `json:"slot_date"`
	Status      enums.BookingStatus     `json:"status"`
	SampleCount int                     `json:"sample_count"`
	Category    enums.RequesterCategory `json:"category"`
	Phone       string                  `json:"phone"`
	Notes       *string                 `json:"notes,omitempty"`
	DecidedAt   *time.Time              `json:"decided_at,omitempty"`
	User        *UserSummary            `json:"user,omitempty"`
	Equipment   *EquipmentSummary       `json:"equipment,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// StatusCounts aggregates bookings per status in one consistent pass.
type StatusCounts struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Approved  int64 `json:"approved"`
	Completed int64 `json:"completed"`
	Cancelled int64 `json:"cancelled"`
	Rejected  int64 `json:"rejected"`
}

// FromModel converts a persisted booking into its transport shape.
func FromModel(b *models.Booking) *BookingDTO {
	if b == nil {
		return nil
	}
	dto := &BookingDTO{
		ID:          b.ID,
		UserID:      b.UserID,
		EquipmentID: b.EquipmentID,
		BookingDate: b.BookingDate,
		SlotDate:    b.SlotDate,
		Status:      b.Status,
		SampleCount: b.SampleCount,
		Category:    b.Category,
		Phone:       b.Phone,
		Notes:       b.Notes,
		DecidedAt:   b.DecidedAt,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
	if b.User != nil {
		dto.User = &UserSummary{ID: b.User.ID, Name: b.User.Name, Email: b.User.Email}
	}
	if b.Equipment != nil {
		dto.Equipment = &EquipmentSummary{
			ID:       b.Equipment.ID,
			Name:     b.Equipment.Name,
			Category: b.Equipment.Category,
			Location: b.Equipment.Location,
		}
	}
	return dto
}

// FromModels maps a slice of bookings into DTOs.
func FromModels(items []models.Booking) []BookingDTO {
	dtos := make([]BookingDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, *FromModel(&items[i]))
	}
	return dtos
}
