package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/fitcircle/fitcircle/internal/apperror"
	"github.com/fitcircle/fitcircle/internal/model"
	"github.com/fitcircle/fitcircle/internal/repository"
	"github.com/fitcircle/fitcircle/internal/validation"
	"github.com/google/uuid"
)

var weeklySuggestions = []model.GoalSuggestion{
	{Title: "Run 10 miles", TargetValue: 10},
	{Title: "Complete 3 strength workouts", TargetValue: 3},
	{Title: "Walk 50000 steps", TargetValue: 50000},
	{Title: "Attend 2 group events", TargetValue: 2},
	{Title: "Stretch for 60 minutes", TargetValue: 60},
}

type GoalService struct {
	goalRepository    repository.GoalRepository
	membershipService *MembershipService
	now               func() time.Time
}

func NewGoalService(goalRepository repository.GoalRepository, membershipService *MembershipService) *GoalService {
	return &GoalService{
		goalRepository:    goalRepository,
		membershipService: membershipService,
		now:               time.Now,
	}
}

// SuggestWeekly returns the fixed advisory list. Nothing is stored until the
// user adds a suggestion.
func (s *GoalService) SuggestWeekly() []model.GoalSuggestion {
	suggestions := make([]model.GoalSuggestion, len(weeklySuggestions))
	copy(suggestions, weeklySuggestions)
	return suggestions
}

// AddToWeekly creates a personal goal running for a week from today.
func (s *GoalService) AddToWeekly(ctx context.Context, userID, title string, target int, custom bool) (*model.Goal, error) {
	const op = "goal.AddToWeekly"

	goal, err := s.newGoal(op, model.GoalOwnerUser, userID, title, target)
	if err != nil {
		return nil, err
	}
	goal.Custom = custom

	if err := s.goalRepository.Create(ctx, goal); err != nil {
		return nil, apperror.Storage(op, err)
	}

	slog.Info("weekly goal added", "goal_id", goal.ID, "user_id", userID, "custom", custom)
	return goal, nil
}

// MarkCompleted completes the user's most specific active goal with the given
// title: an exact-case match beats a case-insensitive one, then the most
// recently started, then the most recently created.
func (s *GoalService) MarkCompleted(ctx context.Context, userID, title string) (*model.Goal, error) {
	const op = "goal.MarkCompleted"

	title = strings.TrimSpace(title)
	if err := validation.ValidateTitle(title); err != nil {
		return nil, apperror.Validation(op, err.Error())
	}

	candidates, err := s.goalRepository.ActiveByTitle(ctx, model.GoalOwnerUser, userID, title)
	if err != nil {
		return nil, apperror.Storage(op, err)
	}
	if len(candidates) == 0 {
		return nil, ErrGoalNotFound.At(op)
	}

	goal := mostSpecific(candidates, title)

	err = s.goalRepository.MarkCompleted(ctx, goal.ID)
	if errors.Is(err, repository.ErrGoalNotFound) {
		// Completed by a concurrent call
		return nil, ErrGoalNotFound.At(op)
	}
	if err != nil {
		return nil, apperror.Storage(op, err)
	}

	goal.Completed = true
	goal.CurrentValue = goal.TargetValue

	slog.Info("goal completed", "goal_id", goal.ID, "user_id", userID)
	return goal, nil
}

// mostSpecific expects candidates ordered by start date then creation, newest first.
func mostSpecific(candidates []*model.Goal, title string) *model.Goal {
	for _, goal := range candidates {
		if strings.TrimSpace(goal.Title) == title {
			return goal
		}
	}
	return candidates[0]
}

// Weekly returns personal goals that started within the last seven days.
func (s *GoalService) Weekly(ctx context.Context, userID string) ([]*model.Goal, error) {
	since := startOfDay(s.now()).Add(-model.WeekLength)

	goals, err := s.goalRepository.Weekly(ctx, userID, since)
	if err != nil {
		return nil, apperror.Storage("goal.Weekly", err)
	}
	return goals, nil
}

func (s *GoalService) Completed(ctx context.Context, userID string) ([]*model.Goal, error) {
	goals, err := s.goalRepository.Completed(ctx, userID)
	if err != nil {
		return nil, apperror.Storage("goal.Completed", err)
	}
	return goals, nil
}

// AddGroupGoal creates a goal shared by every member of the group.
func (s *GoalService) AddGroupGoal(ctx context.Context, actorID, groupID, title string, target int) (*model.Goal, error) {
	const op = "goal.AddGroupGoal"

	goal, err := s.newGoal(op, model.GoalOwnerGroup, groupID, title, target)
	if err != nil {
		return nil, err
	}

	if err := s.membershipService.RequireAdmin(ctx, op, actorID, groupID); err != nil {
		return nil, err
	}

	if err := s.goalRepository.Create(ctx, goal); err != nil {
		return nil, apperror.Storage(op, err)
	}

	slog.Info("group goal added", "goal_id", goal.ID, "group_id", groupID, "user_id", actorID)
	return goal, nil
}

// GroupGoals returns the goals of every group the user belongs to.
func (s *GoalService) GroupGoals(ctx context.Context, userID string) ([]*model.Goal, error) {
	goals, err := s.goalRepository.ForGroups(ctx, userID)
	if err != nil {
		return nil, apperror.Storage("goal.GroupGoals", err)
	}
	return goals, nil
}

// Contribute adds to a group goal's shared counter. Every member drives the
// same counter.
func (s *GoalService) Contribute(ctx context.Context, userID, goalID string, amount int) (*model.Goal, error) {
	const op = "goal.Contribute"

	if err := validation.ValidatePositive("amount", amount); err != nil {
		return nil, apperror.Validation(op, err.Error())
	}

	goal, err := s.groupGoal(ctx, op, userID, goalID)
	if err != nil {
		return nil, err
	}

	err = s.goalRepository.AddContribution(ctx, goal.ID, amount)
	if errors.Is(err, repository.ErrGoalNotFound) {
		return nil, ErrGroupGoalNotFound.At(op)
	}
	if err != nil {
		return nil, apperror.Storage(op, err)
	}

	updated, err := s.goalRepository.ByID(ctx, goal.ID)
	if err != nil {
		return nil, apperror.Storage(op, err)
	}

	slog.Info("group goal contribution", "goal_id", goal.ID, "user_id", userID, "amount", amount, "contribution", updated.Contribution)
	return updated, nil
}

// ClaimReward marks a reached group goal as claimed and completed. The reward
// is claimed once per goal, not once per member.
func (s *GoalService) ClaimReward(ctx context.Context, userID, goalID string) (ClaimOutcome, error) {
	const op = "goal.ClaimReward"

	goal, err := s.groupGoal(ctx, op, userID, goalID)
	if err != nil {
		return "", err
	}

	if goal.RewardClaimed {
		return AlreadyClaimed, nil
	}
	if !goal.Reached() {
		return "", ErrGoalTargetNotReached.At(op)
	}

	err = s.goalRepository.ClaimReward(ctx, goal.ID)
	if errors.Is(err, repository.ErrGoalAlreadyClaimed) {
		return AlreadyClaimed, nil
	}
	if err != nil {
		return "", apperror.Storage(op, err)
	}

	slog.Info("group goal reward claimed", "goal_id", goal.ID, "group_id", goal.OwnerID, "user_id", userID)
	return Claimed, nil
}

// groupGoal loads a group goal the user is allowed to act on.
func (s *GoalService) groupGoal(ctx context.Context, op, userID, goalID string) (*model.Goal, error) {
	goal, err := s.goalRepository.ByID(ctx, goalID)
	if errors.Is(err, repository.ErrGoalNotFound) {
		return nil, ErrGroupGoalNotFound.At(op)
	}
	if err != nil {
		return nil, apperror.Storage(op, err)
	}
	if !goal.IsGroupGoal() {
		return nil, ErrGroupGoalNotFound.At(op)
	}

	if err := s.membershipService.RequireMember(ctx, op, userID, goal.OwnerID); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *GoalService) newGoal(op, ownerType, ownerID, title string, target int) (*model.Goal, error) {
	if err := validation.ValidateTitle(title); err != nil {
		return nil, apperror.Validation(op, err.Error())
	}
	if err := validation.ValidatePositive("target", target); err != nil {
		return nil, apperror.Validation(op, err.Error())
	}

	now := s.now()
	start := startOfDay(now)

	return &model.Goal{
		ID:          uuid.New().String(),
		OwnerType:   ownerType,
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(title),
		TargetValue: target,
		StartDate:   start,
		EndDate:     start.Add(model.WeekLength),
		CreatedAt:   now,
	}, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
