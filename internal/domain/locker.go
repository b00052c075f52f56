package domain

import "time"

type LockerStatus string

const (
	LockerStatusAvailable LockerStatus = "AVAILABLE"
	LockerStatusOccupied  LockerStatus = "OCCUPIED"
)

type LockerSize string

const (
	LockerSizeSmall  LockerSize = "SMALL"
	LockerSizeMedium LockerSize = "MEDIUM"
	LockerSizeLarge  LockerSize = "LARGE"
)

// Locker is one physical storage compartment at a kiosk. Occupancy is only
// ever toggled by the locker repository's Acquire/Release, which pair the
// status flip with current_rental_id in a single conditional update.
type Locker struct {
	ID              string       `json:"id"`
	KioskID         string       `json:"kiosk_id"`
	LockerNumber    int          `json:"locker_number"`
	Size            LockerSize   `json:"size"`
	Status          LockerStatus `json:"status"`
	CurrentRentalID *string      `json:"current_rental_id,omitempty"`
	IsOperational   bool         `json:"is_operational"`
	LastUsedAt      *time.Time   `json:"last_used_at,omitempty"`
}
