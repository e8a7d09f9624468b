package repository

import (
	"context"

	"github.com/fitcircle/fitcircle/internal/model"
	"github.com/jmoiron/sqlx"
)

type AttendanceRepository interface {
	Create(ctx context.Context, attendance *model.Attendance) error
	Exists(ctx context.Context, eventID, userID string) (bool, error)
	Count(ctx context.Context, eventID string) (int, error)
}

type attendanceRepository struct {
	db *sqlx.DB
}

func NewAttendanceRepository(db *sqlx.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

// Create records an RSVP. A repeated RSVP fails with ErrDuplicate.
func (r *attendanceRepository) Create(ctx context.Context, attendance *model.Attendance) error {
	query := `INSERT INTO attendances (event_id, user_id, rsvp_at) VALUES ($1, $2, $3)`

	_, err := r.db.ExecContext(ctx, query, attendance.EventID, attendance.UserID, attendance.RSVPAt.UTC())
	if isUniqueViolation(err) {
		return ErrDuplicate
	}

	return err
}

func (r *attendanceRepository) Exists(ctx context.Context, eventID, userID string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM attendances WHERE event_id = $1 AND user_id = $2`
	if err := r.db.GetContext(ctx, &count, query, eventID, userID); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *attendanceRepository) Count(ctx context.Context, eventID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM attendances WHERE event_id = $1`
	err := r.db.GetContext(ctx, &count, query, eventID)
	return count, err
}
