package consulting

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ziksirlabs/ziksir-backend/pkg/db/models"
	"github.com/ziksirlabs/ziksir-backend/pkg/enums"
)

// CreateConsultingInput is the public intake payload for consulting inquiries.
type CreateConsultingInput struct {
	RequesterName string                  `json:"requester_name" validate:"required"`
	Email         string                  `json:"email" validate:"required,email"`
	Phone         *string                 `json:"phone,omitempty"`
	Organization  *string                 `json:"organization,omitempty"`
	Category      enums.RequesterCategory `json:"category" validate:"required,oneof=academic industry"`
	Subject       string                  `json:"subject" validate:"required"`
	Details       string                  `json:"details" validate:"required"`
	Budget        *decimal.Decimal        `json:"budget,omitempty"`
}

// ConsultingDTO is the transport shape for a consulting inquiry.
type ConsultingDTO struct {
	ID            uuid.UUID               `json:"id"`
	RequesterName string                  `json:"requester_name"`
	Email         string                  `json:"email"`
	Phone         *string                 `json:"phone,omitempty"`
	Organization  *string                 `json:"organization,omitempty"`
	Category      enums.RequesterCategory `json:"category"`
	Subject       string                  `json:"subject"`
	Details       string                  `json:"details"`
	Budget        *decimal.Decimal        `json:"budget,omitempty"`
	Status        enums.RequestStatus     `json:"status"`
	AdminNote     *string                 `json:"admin_note,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

// FromModel converts a persisted inquiry into its transport shape.
func FromModel(c *models.ConsultingRequest) *ConsultingDTO {
	if c == nil {
		return nil
	}
	return &ConsultingDTO{
		ID:            c.ID,
		RequesterName: c.RequesterName,
		Email:         c.Email,
		Phone:         c.Phone,
		Organization:  c.Organization,
		Category:      c.Category,
		Subject:       c.Subject,
		Details:       c.Details,
		Budget:        c.Budget,
		Status:        c.Status,
		AdminNote:     c.AdminNote,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// FromModels maps a slice of inquiries into DTOs.
func FromModels(items []models.ConsultingRequest) []ConsultingDTO {
	dtos := make([]ConsultingDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, *FromModel(&items[i]))
	}
	return dtos
}
