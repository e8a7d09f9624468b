package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fitcircle/fitcircle/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrEventNotFound = errors.New("event not found")
)

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	ByID(ctx context.Context, eventID string) (*model.Event, error)
	Upcoming(ctx context.Context, groupID string, from time.Time, limit int) ([]*model.Event, error)
}

type eventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *model.Event) error {
	query := `INSERT INTO events (id, group_id, title, description, starts_at, location, max_participants, creator_id, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.GroupID,
		event.Title,
		event.Description,
		event.StartsAt.UTC(),
		event.Location,
		event.MaxParticipants,
		event.CreatorID,
		event.CreatedAt.UTC(),
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}

	return err
}

func (r *eventRepository) ByID(ctx context.Context, eventID string) (*model.Event, error) {
	event := &model.Event{}
	query := `SELECT id, group_id, title, description, starts_at, location, max_participants, creator_id, created_at
	          FROM events WHERE id = $1`

	err := r.db.GetContext(ctx, event, query, eventID)
	if err == sql.ErrNoRows {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}

	return event, nil
}

// Upcoming returns the group's events starting at or after from, soonest first.
func (r *eventRepository) Upcoming(ctx context.Context, groupID string, from time.Time, limit int) ([]*model.Event, error) {
	events := []*model.Event{}
	query := `SELECT id, group_id, title, description, starts_at, location, max_participants, creator_id, created_at
	          FROM events
	          WHERE group_id = $1 AND starts_at >= $2
	          ORDER BY starts_at ASC, created_at ASC
	          LIMIT $3`

	if err := r.db.SelectContext(ctx, &events, query, groupID, from.UTC(), limit); err != nil {
		return nil, err
	}

	return events, nil
}
