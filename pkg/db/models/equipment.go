package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ziksirlabs/ziksir-backend/pkg/enums"
	"github.com/ziksirlabs/ziksir-backend/pkg/types"
)

// Equipment tracks a bookable instrument and its unit counts. Available is
// maintained by the booking service and must stay within [0, Quantity].
// Quantity and Available carry no gorm default: GORM skips zero-valued
// fields with one, which would turn an inserted available=0 into phantom
// capacity. The counts are always set app-side.
type Equipment struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string                `gorm:"column:name;type:text;not null"`
	Category    string                `gorm:"column:category;type:text;not null"`
	Location    string                `gorm:"column:location;type:text;not null"`
	Status      enums.EquipmentStatus `gorm:"column:status;type:text;not null;default:'available'"`
	Quantity    int                   `gorm:"column:quantity;not null"`
	Available   int                   `gorm:"column:available;not null"`
	Description *string               `gorm:"column:description"`
	Specs       types.JSONMap         `gorm:"column:specs;type:jsonb;serializer:json"`
	Tags        pq.StringArray        `gorm:"column:tags;type:text[]"`
	ImageURL    *string               `gorm:"column:image_url"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
