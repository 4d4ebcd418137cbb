package model

import (
	"time"
)

// TheaterStatus is the approval state managed by portal admins
type TheaterStatus string

const (
	TheaterPending   TheaterStatus = "pending"
	TheaterApproved  TheaterStatus = "approved"
	TheaterRejected  TheaterStatus = "rejected"
	TheaterSuspended TheaterStatus = "suspended"
)

// Valid reports whether s is a known approval state
func (s TheaterStatus) Valid() bool {
	switch s {
	case TheaterPending, TheaterApproved, TheaterRejected, TheaterSuspended:
		return true
	}
	return false
}

// Theater is the tenant: a theater company that owns events and has members
type Theater struct {
	ID           uint          `json:"id" gorm:"primaryKey"`
	Name         string        `json:"name" gorm:"type:varchar(150);not null"`
	Description  string        `json:"description" gorm:"type:text"`
	ContactEmail string        `json:"contact_email" gorm:"type:varchar(255)"`
	Website      string        `json:"website" gorm:"type:varchar(255)"`
	City         string        `json:"city" gorm:"type:varchar(100);index"`
	Status       TheaterStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}
