package enums

import "fmt"

// EquipmentStatus is the operational state of a piece of equipment.
// Bookings can only be placed against available equipment.
type EquipmentStatus string

const (
	EquipmentStatusAvailable   EquipmentStatus = "available"
	EquipmentStatusUnavailable EquipmentStatus = "unavailable"
	EquipmentStatusMaintenance EquipmentStatus = "maintenance"
)

var validEquipmentStatuses = []EquipmentStatus{
	EquipmentStatusAvailable,
	EquipmentStatusUnavailable,
	EquipmentStatusMaintenance,
}

func (s EquipmentStatus) String() string {
	return string(s)
}

func (s EquipmentStatus) IsValid() bool {
	for _, valid := range validEquipmentStatuses {
		if s == valid {
			return true
		}
	}
	return false
}

func ParseEquipmentStatus(value string) (EquipmentStatus, error) {
	status := EquipmentStatus(value)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid equipment status: %q", value)
	}
	return status, nil
}
