package prototyping

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ziksirlabs/ziksir-backend/pkg/db/models"
	"github.com/ziksirlabs/ziksir-backend/pkg/enums"
)

// CreatePrototypingInput is the public intake payload for fabrication projects.
type CreatePrototypingInput struct {
	RequesterName string                  `json:"requester_name" validate:"required"`
	Email         string                  `json:"email" validate:"required,email"`
	Phone         *string                 `json:"phone,omitempty"`
	Organization  *string                 `json:"organization,omitempty"`
	Category      enums.RequesterCategory `json:"category" validate:"required,oneof=academic industry"`
	ProjectTitle  string                  `json:"project_title" validate:"required"`
	Details       string                  `json:"details" validate:"required"`
}

// QuoteInput is the admin payload attaching a quoted amount to a project.
type QuoteInput struct {
	QuotedAmount decimal.Decimal     `json:"quoted_amount" validate:"required"`
	Status       enums.RequestStatus `json:"status" validate:"required,oneof=pending approved rejected closed"`
	AdminNote    *string             `json:"admin_note,omitempty"`
}

// PrototypingDTO is the transport shape for a prototyping project.
type PrototypingDTO struct {
	ID            uuid.UUID               `json:"id"`
	RequesterName string                  `json:"requester_name"`
	Email         string                  `json:"email"`
	Phone         *string                 `json:"phone,omitempty"`
	Organization  *string                 `json:"organization,omitempty"`
	Category      enums.RequesterCategory `json:"category"`
	ProjectTitle  string                  `json:"project_title"`
	Details       string                  `json:"details"`
	QuotedAmount  *decimal.Decimal        `json:"quoted_amount,omitempty"`
	Status        enums.RequestStatus     `json:"status"`
	AdminNote     *string                 `json:"admin_note,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

// FromModel converts a persisted project into its transport shape.
func FromModel(p *models.PrototypingRequest) *PrototypingDTO {
	if p == nil {
		return nil
	}
	return &PrototypingDTO{
		ID:            p.ID,
		RequesterName: p.RequesterName,
		Email:         p.Email,
		Phone:         p.Phone,
		Organization:  p.Organization,
		Category:      p.Category,
		ProjectTitle:  p.ProjectTitle,
		Details:       p.Details,
		QuotedAmount:  p.QuotedAmount,
		Status:        p.Status,
		AdminNote:     p.AdminNote,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// FromModels maps a slice of projects into DTOs.
func FromModels(items []models.PrototypingRequest) []PrototypingDTO {
	dtos := make([]PrototypingDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, *FromModel(&items[i]))
	}
	return dtos
}
