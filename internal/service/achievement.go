package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fitcircle/fitcircle/internal/apperror"
	"github.com/fitcircle/fitcircle/internal/model"
	"github.com/fitcircle/fitcircle/internal/repository"
)

// AchievementService grants threshold achievements for completed goals. It
// keeps no state between calls; callers decide how often to evaluate.
type AchievementService struct {
	achievementRepository repository.AchievementRepository
	goalRepository        repository.GoalRepository
	now                   func() time.Time
}

func NewAchievementService(
	achievementRepository repository.AchievementRepository,
	goalRepository repository.GoalRepository,
) *AchievementService {
	return &AchievementService{
		achievementRepository: achievementRepository,
		goalRepository:        goalRepository,
		now:                   time.Now,
	}
}

// Evaluate grants every tier the user's completed goal count has reached and
// returns only the grants made by this call. Every tier is checked on each
// call, so tiers skipped by earlier evaluations are caught up.
func (s *AchievementService) Evaluate(ctx context.Context, userID string) ([]*model.EarnedAchievement, error) {
	const op = "achievement.Evaluate"

	completed, err := s.goalRepository.CountCompleted(ctx, userID)
	if err != nil {
		return nil, apperror.Storage(op, err)
	}

	tiers, err := s.achievementRepository.Tiers(ctx)
	if err != nil {
		return nil, apperror.Storage(op, err)
	}

	held, err := s.achievementRepository.HeldIDs(ctx, userID)
	if err != nil {
		return nil, apperror.Storage(op, err)
	}

	today := startOfDay(s.now())
	var granted []*model.EarnedAchievement

	for _, tier := range tiers {
		if tier.Threshold > completed || held[tier.ID] {
			continue
		}

		grant := model.UserAchievement{
			UserID:        userID,
			AchievementID: tier.ID,
			EarnedAt:      today,
		}

		err := s.achievementRepository.Grant(ctx, &grant)
		if errors.Is(err, repository.ErrDuplicate) {
			// Granted by a concurrent evaluation
			continue
		}
		if err != nil {
			return nil, apperror.Storage(op, err)
		}

		slog.Info("achievement granted", "user_id", userID, "achievement_id", tier.ID, "threshold", tier.Threshold)
		granted = append(granted, &model.EarnedAchievement{
			UserAchievement: grant,
			Name:            tier.Name,
			Description:     tier.Description,
			Threshold:       tier.Threshold,
		})
	}

	return granted, nil
}

// Earned lists the user's achievements in the order they were earned.
func (s *AchievementService) Earned(ctx context.Context, userID string) ([]*model.EarnedAchievement, error) {
	earned, err := s.achievementRepository.Earned(ctx, userID)
	if err != nil {
		return nil, apperror.Storage("achievement.Earned", err)
	}
	return earned, nil
}

func (s *AchievementService) Tiers(ctx context.Context) ([]*model.Achievement, error) {
	tiers, err := s.achievementRepository.Tiers(ctx)
	if err != nil {
		return nil, apperror.Storage("achievement.Tiers", err)
	}
	return tiers, nil
}
