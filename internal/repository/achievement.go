package repository

import (
	"context"

	"github.com/fitcircle/fitcircle/internal/model"
	"github.com/jmoiron/sqlx"
)

type AchievementRepository interface {
	// Tiers returns every achievement, lowest threshold first.
	Tiers(ctx context.Context) ([]*model.Achievement, error)
	Grant(ctx context.Context, grant *model.UserAchievement) error
	HeldIDs(ctx context.Context, userID string) (map[string]bool, error)
	Earned(ctx context.Context, userID string) ([]*model.EarnedAchievement, error)
}

type achievementRepository struct {
	db *sqlx.DB
}

func NewAchievementRepository(db *sqlx.DB) AchievementRepository {
	return &achievementRepository{db: db}
}

func (r *achievementRepository) Tiers(ctx context.Context) ([]*model.Achievement, error) {
	tiers := []*model.Achievement{}
	query := `SELECT id, name, description, threshold FROM achievements ORDER BY threshold ASC`

	if err := r.db.SelectContext(ctx, &tiers, query); err != nil {
		return nil, err
	}

	return tiers, nil
}

// Grant awards an achievement. A second grant of the same achievement to the
// same user fails with ErrDuplicate.
func (r *achievementRepository) Grant(ctx context.Context, grant *model.UserAchievement) error {
	query := `INSERT INTO user_achievements (user_id, achievement_id, earned_at) VALUES ($1, $2, $3)`

	_, err := r.db.ExecContext(ctx, query, grant.UserID, grant.AchievementID, grant.EarnedAt.UTC())
	if isUniqueViolation(err) {
		return ErrDuplicate
	}

	return err
}

func (r *achievementRepository) HeldIDs(ctx context.Context, userID string) (map[string]bool, error) {
	ids := []string{}
	query := `SELECT achievement_id FROM user_achievements WHERE user_id = $1`

	if err := r.db.SelectContext(ctx, &ids, query, userID); err != nil {
		return nil, err
	}

	held := make(map[string]bool, len(ids))
	for _, id := range ids {
		held[id] = true
	}

	return held, nil
}

func (r *achievementRepository) Earned(ctx context.Context, userID string) ([]*model.EarnedAchievement, error) {
	earned := []*model.EarnedAchievement{}
	query := `SELECT ua.user_id, ua.achievement_id, ua.earned_at, a.name, a.description, a.threshold
	          FROM user_achievements ua
	          JOIN achievements a ON a.id = ua.achievement_id
	          WHERE ua.user_id = $1
	          ORDER BY ua.earned_at ASC, a.threshold ASC`

	if err := r.db.SelectContext(ctx, &earned, query, userID); err != nil {
		return nil, err
	}

	return earned, nil
}
