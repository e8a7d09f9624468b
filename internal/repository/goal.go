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
	ErrGoalNotFound = errors.New("goal not found")
	// ErrGoalAlreadyClaimed is returned by ClaimReward when the reward flag was
	// already set by an earlier claim.
	ErrGoalAlreadyClaimed = errors.New("goal reward already claimed")
)

const goalColumns = `id, owner_type, owner_id, title, description, target_value, current_value,
	contribution, reward_claimed, start_date, end_date, completed, custom, created_at`

type GoalRepository interface {
	Create(ctx context.Context, goal *model.Goal) error
	ByID(ctx context.Context, goalID string) (*model.Goal, error)
	// ActiveByTitle returns the owner's incomplete goals whose title matches
	// case-insensitively.
	ActiveByTitle(ctx context.Context, ownerType, ownerID, title string) ([]*model.Goal, error)
	MarkCompleted(ctx context.Context, goalID string) error
	Weekly(ctx context.Context, userID string, since time.Time) ([]*model.Goal, error)
	Completed(ctx context.Context, userID string) ([]*model.Goal, error)
	CountCompleted(ctx context.Context, userID string) (int, error)
	ForGroups(ctx context.Context, userID string) ([]*model.Goal, error)
	AddContribution(ctx context.Context, goalID string, amount int) error
	ClaimReward(ctx context.Context, goalID string) error
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(ctx context.Context, goal *model.Goal) error {
	query := `INSERT INTO goals (` + goalColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.db.ExecContext(ctx, query,
		goal.ID,
		goal.OwnerType,
		goal.OwnerID,
		goal.Title,
		goal.Description,
		goal.TargetValue,
		goal.CurrentValue,
		goal.Contribution,
		goal.RewardClaimed,
		goal.StartDate.UTC(),
		goal.EndDate.UTC(),
		goal.Completed,
		goal.Custom,
		goal.CreatedAt.UTC(),
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}

	return err
}

func (r *goalRepository) ByID(ctx context.Context, goalID string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1`

	err := r.db.GetContext(ctx, goal, query, goalID)
	if err == sql.ErrNoRows {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	return goal, nil
}

func (r *goalRepository) ActiveByTitle(ctx context.Context, ownerType, ownerID, title string) ([]*model.Goal, error) {
	goals := []*model.Goal{}
	query := `SELECT ` + goalColumns + ` FROM goals
	          WHERE owner_type = $1 AND owner_id = $2 AND LOWER(title) = LOWER($3) AND completed = $4
	          ORDER BY start_date DESC, created_at DESC`

	if err := r.db.SelectContext(ctx, &goals, query, ownerType, ownerID, title, false); err != nil {
		return nil, err
	}

	return goals, nil
}

// MarkCompleted flips an incomplete goal to completed and fills its progress.
// Completed goals are never reopened; a goal that was already completed
// reports ErrGoalNotFound.
func (r *goalRepository) MarkCompleted(ctx context.Context, goalID string) error {
	query := `UPDATE goals SET completed = $1, current_value = target_value
	          WHERE id = $2 AND completed = $3`

	return r.execOne(ctx, ErrGoalNotFound, query, true, goalID, false)
}

// Weekly returns the user's personal goals started on or after since, newest first.
func (r *goalRepository) Weekly(ctx context.Context, userID string, since time.Time) ([]*model.Goal, error) {
	goals := []*model.Goal{}
	query := `SELECT ` + goalColumns + ` FROM goals
	          WHERE owner_type = $1 AND owner_id = $2 AND start_date >= $3
	          ORDER BY start_date DESC, created_at DESC`

	if err := r.db.SelectContext(ctx, &goals, query, model.GoalOwnerUser, userID, since.UTC()); err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *goalRepository) Completed(ctx context.Context, userID string) ([]*model.Goal, error) {
	goals := []*model.Goal{}
	query := `SELECT ` + goalColumns + ` FROM goals
	          WHERE owner_type = $1 AND owner_id = $2 AND completed = $3
	          ORDER BY end_date DESC, created_at DESC`

	if err := r.db.SelectContext(ctx, &goals, query, model.GoalOwnerUser, userID, true); err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *goalRepository) CountCompleted(ctx context.Context, userID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM goals WHERE owner_type = $1 AND owner_id = $2 AND completed = $3`
	err := r.db.GetContext(ctx, &count, query, model.GoalOwnerUser, userID, true)
	return count, err
}

// ForGroups returns the goals of every group the user belongs to.
func (r *goalRepository) ForGroups(ctx context.Context, userID string) ([]*model.Goal, error) {
	goals := []*model.Goal{}
	query := `SELECT g.id, g.owner_type, g.owner_id, g.title, g.description, g.target_value, g.current_value,
	                 g.contribution, g.reward_claimed, g.start_date, g.end_date, g.completed, g.custom, g.created_at
	          FROM goals g
	          JOIN memberships m ON m.group_id = g.owner_id
	          WHERE g.owner_type = $1 AND m.user_id = $2
	          ORDER BY g.start_date DESC, g.created_at DESC`

	if err := r.db.SelectContext(ctx, &goals, query, model.GoalOwnerGroup, userID); err != nil {
		return nil, err
	}

	return goals, nil
}

// AddContribution increments the shared counter in a single statement so
// concurrent contributions are never lost.
func (r *goalRepository) AddContribution(ctx context.Context, goalID string, amount int) error {
	query := `UPDATE goals SET contribution = contribution + $1 WHERE id = $2 AND owner_type = $3`
	return r.execOne(ctx, ErrGoalNotFound, query, amount, goalID, model.GoalOwnerGroup)
}

// ClaimReward sets the reward flag once the target is reached. Only the first
// claim succeeds; later ones get ErrGoalAlreadyClaimed.
func (r *goalRepository) ClaimReward(ctx context.Context, goalID string) error {
	query := `UPDATE goals SET reward_claimed = $1, completed = $1
	          WHERE id = $2 AND owner_type = $3 AND reward_claimed = $4 AND contribution >= target_value`

	return r.execOne(ctx, ErrGoalAlreadyClaimed, query, true, goalID, model.GoalOwnerGroup, false)
}

func (r *goalRepository) execOne(ctx context.Context, noRows error, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return noRows
	}

	return nil
}
