package requests

import (
	"time"

	"github.com/google/uuid"

	"github.com/ziksirlabs/ziksir-backend/pkg/db/models"
	"github.com/ziksirlabs/ziksir-backend/pkg/enums"
)

// CreateRequestInput is the intake payload asking for new catalog equipment.
type CreateRequestInput struct {
	UserID        *uuid.UUID
	RequesterName string                  `json:"requester_name" validate:"required"`
	Email         string                  `json:"email" validate:"required,email"`
	Phone         *string                 `json:"phone,omitempty"`
	Category      enums.RequesterCategory `json:"category" validate:"required,oneof=academic industry"`
	EquipmentName string                  `json:"equipment_name" validate:"required"`
	Description   string                  `json:"description" validate:"required"`
}

// ResolveRequestInput is the admin decision payload.
type ResolveRequestInput struct {
	Status    enums.RequestStatus `json:"status" validate:"required,oneof=pending approved rejected closed"`
	AdminNote *string             `json:"admin_note,omitempty"`
}

// RequestDTO is the transport shape for an equipment request.
type RequestDTO struct {
	ID            uuid.UUID               `json:"id"`
	UserID        *uuid.UUID              `json:"user_id,omitempty"`
	RequesterName string                  `json:"requester_name"`
	Email         string                  `json:"email"`
	Phone         *string                 `json:"phone,omitempty"`
	Category      enums.RequesterCategory `json:"category"`
	EquipmentName string                  `json:"equipment_name"`
	Description   string                  `json:"description"`
	Status        enums.RequestStatus     `json:"status"`
	AdminNote     *string                 `json:"admin_note,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

// FromModel converts a persisted request into its transport shape.
func FromModel(r *models.EquipmentRequest) *RequestDTO {
	if r == nil {
		return nil
	}
	return &RequestDTO{
		ID:            r.ID,
		UserID:        r.UserID,
		RequesterName: r.RequesterName,
		Email:         r.Email,
		Phone:         r.Phone,
		Category:      r.Category,
		EquipmentName: r.EquipmentName,
		Description:   r.Description,
		Status:        r.Status,
		AdminNote:     r.AdminNote,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// FromModels maps a slice of requests into DTOs.
func FromModels(items []models.EquipmentRequest) []RequestDTO {
	dtos := make([]RequestDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, *FromModel(&items[i]))
	}
	return dtos
}
