package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ziksirlabs/ziksir-backend/pkg/enums"
)

// Booking reserves one unit of an equipment item for a slot date.
type Booking struct {
	ID          uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID               `gorm:"column:user_id;type:uuid;not null;index"`
	EquipmentID uuid.UUID               `gorm:"column:equipment_id;type:uuid;not null;index"`
	BookingDate time.Time               `gorm:"column:booking_date;not null"`
	SlotDate    time.Time               `gorm:"column:slot_date;not null"`
	Status      enums.BookingStatus     `gorm:"column:status;type:text;not null;default:'pending'"`
	SampleCount int                     `gorm:"column:sample_count;not null;default:1"`
	Category    enums.RequesterCategory `gorm:"column:category;type:text;not null"`
	Phone       string                  `gorm:"column:phone;not null"`
	Notes       *string                 `gorm:"column:notes"`
	DecidedAt   *time.Time              `gorm:"column:decided_at"`
	User        *User                   `gorm:"foreignKey:UserID"`
	Equipment   *Equipment              `gorm:"foreignKey:EquipmentID"`
	CreatedAt   time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
