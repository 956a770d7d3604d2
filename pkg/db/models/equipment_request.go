package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ziksirlabs/ziksir-backend/pkg/enums"
)

// EquipmentRequest is an intake form asking the lab to acquire or expose an
// instrument that is not in the catalog yet.
type EquipmentRequest struct {
	ID            uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        *uuid.UUID              `gorm:"column:user_id;type:uuid;index"`
	RequesterName string                  `gorm:"column:requester_name;not null"`
	Email         string                  `gorm:"column:email;not null"`
	Phone         *string                 `gorm:"column:phone"`
	Category      enums.RequesterCategory `gorm:"column:category;type:text;not null"`
	EquipmentName string                  `gorm:"column:equipment_name;not null"`
	Description   string                  `gorm:"column:description;not null"`
	Status        enums.RequestStatus     `gorm:"column:status;type:text;not null;default:'pending'"`
	AdminNote     *string                 `gorm:"column:admin_note"`
	CreatedAt     time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
