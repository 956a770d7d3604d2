package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ziksirlabs/ziksir-backend/pkg/enums"
)

// ConsultingRequest captures a research consulting engagement inquiry.
type ConsultingRequest struct {
	ID            uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RequesterName string                  `gorm:"column:requester_name;not null"`
	Email         string                  `gorm:"column:email;not null"`
	Phone         *string                 `gorm:"column:phone"`
	Organization  *string                 `gorm:"column:organization"`
	Category      enums.RequesterCategory `gorm:"column:category;type:text;not null"`
	Subject       string                  `gorm:"column:subject;not null"`
	Details       string                  `gorm:"column:details;not null"`
	Budget        *decimal.Decimal        `gorm:"column:budget;type:numeric(12,2)"`
	Status        enums.RequestStatus     `gorm:"column:status;type:text;not null;default:'pending'"`
	AdminNote     *string                 `gorm:"column:admin_note"`
	CreatedAt     time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
