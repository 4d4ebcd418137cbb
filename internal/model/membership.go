package model

import (
	"time"
)

// Role is a member's role within a theater
type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
)

// Membership relates one user to one theater.
// At most one row exists per (user, theater) pair.
type Membership struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_membership_user_theater,priority:1"`
	TheaterID uint      `json:"theater_id" gorm:"not null;index;uniqueIndex:idx_membership_user_theater,priority:2"`
	Role      Role      `json:"role" gorm:"type:varchar(20);not null;default:'editor'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Membership) TableName() string {
	return "theater_memberships"
}

// ActiveTheater stores the theater a user last operated as.
// Created lazily on first resolution; one row per user.
type ActiveTheater struct {
	UserID    uint      `json:"user_id" gorm:"primaryKey;autoIncrement:false"`
	TheaterID uint      `json:"theater_id" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ActiveTheater) TableName() string {
	return "user_active_theaters"
}
