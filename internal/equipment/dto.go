package equipment

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ziksirlabs/ziksir-backend/pkg/db/models"
	"github.com/ziksirlabs/ziksir-backend/pkg/enums"
	"github.com/ziksirlabs/ziksir-backend/pkg/types"
)

// CreateEquipmentInput is the admin payload for adding a catalog item.
type CreateEquipmentInput struct {
	Name        string                `json:"name" validate:"required"`
	Category    string                `json:"category" validate:"required"`
	Location    string                `json:"location" validate:"required"`
	Status      enums.EquipmentStatus `json:"status,omitempty" validate:"omitempty,oneof=available unavailable maintenance"`
	Quantity    int                   `json:"quantity,omitempty" validate:"omitempty,min=1"`
	Description *string               `json:"description,omitempty"`
	Specs       types.JSONMap         `json:"specs,omitempty"`
	Tags        []string              `json:"tags,omitempty"`
	ImageURL    *string               `json:"image_url,omitempty"`
}

// UpdateEquipmentInput carries the mutable fields. Nil means unchanged.
type UpdateEquipmentInput struct {
	Name        *string                `json:"name,omitempty"`
	Category    *string                `json:"category,omitempty"`
	Location    *string                `json:"location,omitempty"`
	Status      *enums.EquipmentStatus `json:"status,omitempty" validate:"omitempty,oneof=available unavailable maintenance"`
	Quantity    *int                   `json:"quantity,omitempty" validate:"omitempty,min=1"`
	Description *string                `json:"description,omitempty"`
	Specs       types.JSONMap          `json:"specs,omitempty"`
	Tags        []string               `json:"tags,omitempty"`
	ImageURL    *string                `json:"image_url,omitempty"`
}

// EquipmentDTO is the transport shape for catalog items.
type EquipmentDTO struct {
	ID          uuid.UUID             `json:"id"`
	Name        string                `json:"name"`
	Category    string                `json:"category"`
	Location    string                `json:"location"`
	Status      enums.EquipmentStatus `json:"status"`
	Quantity    int                   `json:"quantity"`
	Available   int                   `json:"available"`
	Description *string               `json:"description,omitempty"`
	Specs       types.JSONMap         `json:"specs,omitempty"`
	Tags        []string              `json:"tags,omitempty"`
	ImageURL    *string               `json:"image_url,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// CatalogCounts aggregates the catalog per operational status.
type CatalogCounts struct {
	Total       int64 `json:"total"`
	Available   int64 `json:"available"`
	Unavailable int64 `json:"unavailable"`
	Maintenance int64 `json:"maintenance"`
}

// FromModel converts a persisted equipment row into its transport shape.
func FromModel(e *models.Equipment) *EquipmentDTO {
	if e == nil {
		return nil
	}
	return &EquipmentDTO{
		ID:          e.ID,
		Name:        e.Name,
		Category:    e.Category,
		Location:    e.Location,
		Status:      e.Status,
		Quantity:    e.Quantity,
		Available:   e.Available,
		Description: e.Description,
		Specs:       e.Specs,
		Tags:        append([]string(nil), []string(e.Tags)...),
		ImageURL:    e.ImageURL,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// FromModels maps a slice of equipment rows into DTOs.
func FromModels(items []models.Equipment) []EquipmentDTO {
	dtos := make([]EquipmentDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, *FromModel(&items[i]))
	}
	return dtos
}

func (c CreateEquipmentInput) toModel() *models.Equipment {
	status := c.Status
	if status == "" {
		status = enums.EquipmentStatusAvailable
	}
	quantity := c.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	return &models.Equipment{
		ID:          uuid.New(),
		Name:        c.Name,
		Category:    c.Category,
		Location:    c.Location,
		Status:      status,
		Quantity:    quantity,
		Available:   quantity,
		Description: c.Description,
		Specs:       c.Specs,
		Tags:        pq.StringArray(c.Tags),
		ImageURL:    c.ImageURL,
	}
}
