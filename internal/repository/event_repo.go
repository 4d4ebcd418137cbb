package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"theater-portal/internal/model"
	"theater-portal/prometheus"
)

// PublicEvent is a published listing with the owning theater's name
type PublicEvent struct {
	model.Event
	TheaterName string `json:"theater_name"`
}

// EventFilter narrows the public listing
type EventFilter struct {
	Query string
	From  *time.Time
	To    *time.Time
	Limit int
}

const defaultPublicLimit = 100

// likeEscaper makes user input match literally inside a LIKE pattern
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EventRepo stores event listings. Every theater-side method is scoped by theater id.
type EventRepo struct {
	db *gorm.DB
}

// NewEventRepo creates an event repository
func NewEventRepo(db *gorm.DB) *EventRepo {
	return &EventRepo{db: db}
}

// List returns every event of a theater, drafts included, ordered by start time
func (r *EventRepo) List(ctx context.Context, theaterID uint) ([]model.Event, error) {
	defer prometheus.TrackDBOperation("event_list")()

	var events []model.Event
	err := r.db.WithContext(ctx).
		Where("theater_id = ?", theaterID).
		Order("starts_at ASC, id ASC").
		Find(&events).Error
	return events, err
}

// Get returns one event scoped to its theater, or ErrEventNotFound
func (r *EventRepo) Get(ctx context.Context, theaterID, id uint) (*model.Event, error) {
	defer prometheus.TrackDBOperation("event_get")()

	var e model.Event
	err := r.db.WithContext(ctx).
		Where("id = ? AND theater_id = ?", id, theaterID).
		First(&e).Error
	if err != nil {
		return nil, translate(err, ErrEventNotFound, nil)
	}
	return &e, nil
}

// Create inserts a new event
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	defer prometheus.TrackDBOperation("event_insert")()

	return r.db.WithContext(ctx).Create(e).Error
}

// Update writes every editable column of e within its theater
func (r *EventRepo) Update(ctx context.Context, e *model.Event) error {
	defer prometheus.TrackDBOperation("event_update")()

	result := r.db.WithContext(ctx).
		Model(&model.Event{}).
		Where("id = ? AND theater_id = ?", e.ID, e.TheaterID).
		Select("title", "description", "venue", "starts_at", "ends_at", "ticket_url", "status").
		Updates(e)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}

// Delete removes an event scoped to its theater, or returns ErrEventNotFound
func (r *EventRepo) Delete(ctx context.Context, theaterID, id uint) error {
	defer prometheus.TrackDBOperation("event_delete")()

	result := r.db.WithContext(ctx).
		Where("id = ? AND theater_id = ?", id, theaterID).
		Delete(&model.Event{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}

// SearchPublished lists published events of approved theaters ordered by start time
func (r *EventRepo) SearchPublished(ctx context.Context, f EventFilter) ([]PublicEvent, error) {
	defer prometheus.TrackDBOperation("event_search")()

	limit := f.Limit
	if limit <= 0 || limit > defaultPublicLimit {
		limit = defaultPublicLimit
	}

	query := r.db.WithContext(ctx).
		Table("theater_events").
		Select("theater_events.*, theaters.name AS theater_name").
		Joins("JOIN theaters ON theaters.id = theater_events.theater_id").
		Where("theater_events.status = ? AND theaters.status = ?", model.EventPublished, model.TheaterApproved)

	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		like := "%" + likeEscaper.Replace(q) + "%"
		query = query.Where(`(LOWER(theater_events.title) LIKE ? ESCAPE '\' OR LOWER(theater_events.venue) LIKE ? ESCAPE '\')`, like, like)
	}
	if f.From != nil {
		query = query.Where("theater_events.starts_at >= ?", f.From.UTC())
	}
	if f.To != nil {
		query = query.Where("theater_events.starts_at < ?", f.To.UTC())
	}

	events := []PublicEvent{}
	err := query.
		Order("theater_events.starts_at ASC, theater_events.id ASC").
		Limit(limit).
		Find(&events).Error
	return events, err
}
