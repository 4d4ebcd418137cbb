package model

import (
	"time"
)

// InviteStatus is the one-way invite lifecycle: pending -> accepted
type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"
	InviteAccepted InviteStatus = "accepted"
)

// Invite is an email-addressed pending grant of membership to a theater.
// At most one pending invite exists per theater and email; accepted rows are history.
type Invite struct {
	ID         uint         `json:"id" gorm:"primaryKey"`
	TheaterID  uint         `json:"theater_id" gorm:"not null;uniqueIndex:idx_invite_theater_email_pending,priority:1,where:status = 'pending'"`
	Email      string       `json:"email" gorm:"type:varchar(255);not null;index;uniqueIndex:idx_invite_theater_email_pending,priority:2,where:status = 'pending'"`
	Status     InviteStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	InvitedBy  uint         `json:"invited_by"`
	AcceptedBy *uint        `json:"accepted_by,omitempty"`
	AcceptedAt *time.Time   `json:"accepted_at,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

func (Invite) TableName() string {
	return "theater_invites"
}
