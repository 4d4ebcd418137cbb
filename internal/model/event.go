package model

import (
	"time"
)

// EventStatus controls public visibility of a listing
type EventStatus string

const (
	EventDraft     EventStatus = "draft"
	EventPublished EventStatus = "published"
)

// Event is a listing owned by a theater; every query is scoped by TheaterID
type Event struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	TheaterID   uint        `json:"theater_id" gorm:"not null;index"`
	Title       string      `json:"title" gorm:"type:varchar(200);not null"`
	Description string      `json:"description" gorm:"type:text"`
	Venue       string      `json:"venue" gorm:"type:varchar(200)"`
	StartsAt    time.Time   `json:"starts_at" gorm:"not null;index"`
	EndsAt      *time.Time  `json:"ends_at,omitempty"`
	TicketURL   string      `json:"ticket_url" gorm:"type:varchar(500)"`
	Status      EventStatus `json:"status" gorm:"type:varchar(20);not null;default:'draft';index"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (Event) TableName() string {
	return "theater_events"
}

