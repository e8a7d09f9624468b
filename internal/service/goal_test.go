package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitcircle/fitcircle/internal/apperror"
	"github.com/fitcircle/fitcircle/internal/model"
)

func TestSuggestWeekly(t *testing.T) {
	env := newTestEnv(t)

	suggestions := env.goals.SuggestWeekly()
	require.Len(t, suggestions, 5)
	for _, s := range suggestions {
		assert.NotEmpty(t, s.Title)
		assert.Positive(t, s.TargetValue)
	}

	// Callers get their own copy
	suggestions[0].Title = "changed"
	assert.NotEqual(t, "changed", env.goals.SuggestWeekly()[0].Title)
	assert.Equal(t, 0, env.count(t, `SELECT COUNT(*) FROM goals`))
}

func TestAddToWeekly(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	goal, err := env.goals.AddToWeekly(ctx, "u1", "Run 10 miles", 10, true)
	require.NoError(t, err)

	today := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, model.GoalOwnerUser, goal.OwnerType)
	assert.True(t, goal.StartDate.Equal(today))
	assert.True(t, goal.EndDate.Equal(today.AddDate(0, 0, 7)))
	assert.Zero(t, goal.CurrentValue)
	assert.False(t, goal.Completed)
	assert.True(t, goal.Custom)

	_, err = env.goals.AddToWeekly(ctx, "u1", "", 10, false)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = env.goals.AddToWeekly(ctx, "u1", "Rest", 0, false)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestMarkCompleted(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.goals.MarkCompleted(ctx, "u1", "Run 10 miles")
	assert.ErrorIs(t, err, ErrGoalNotFound)

	added, err := env.goals.AddToWeekly(ctx, "u1", "Run 10 miles", 10, false)
	require.NoError(t, err)

	goal, err := env.goals.MarkCompleted(ctx, "u1", "run 10 MILES")
	require.NoError(t, err)
	assert.Equal(t, added.ID, goal.ID)
	assert.True(t, goal.Completed)
	assert.Equal(t, 10, goal.CurrentValue)

	// Completion is one-way; there is no longer an active goal to complete
	_, err = env.goals.MarkCompleted(ctx, "u1", "Run 10 miles")
	assert.ErrorIs(t, err, ErrGoalNotFound)

	// Other users' goals never match
	_, err = env.goals.MarkCompleted(ctx, "u2", "Run 10 miles")
	assert.ErrorIs(t, err, ErrGoalNotFound)

	completed, err := env.goals.Completed(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, completed, 1)
}

func TestMarkCompletedPicksMostSpecificGoal(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	older, err := env.goals.AddToWeekly(ctx, "u1", "Yoga", 3, false)
	require.NoError(t, err)

	env.now = env.now.Add(24 * time.Hour)
	newer, err := env.goals.AddToWeekly(ctx, "u1", "Yoga", 5, false)
	require.NoError(t, err)
	lower, err := env.goals.AddToWeekly(ctx, "u1", "yoga", 2, false)
	require.NoError(t, err)

	// Exact case wins over a newer case-insensitive match
	goal, err := env.goals.MarkCompleted(ctx, "u1", "yoga")
	require.NoError(t, err)
	assert.Equal(t, lower.ID, goal.ID)

	// Among exact matches the latest start wins
	goal, err = env.goals.MarkCompleted(ctx, "u1", "Yoga")
	require.NoError(t, err)
	assert.Equal(t, newer.ID, goal.ID)

	goal, err = env.goals.MarkCompleted(ctx, "u1", "YOGA")
	require.NoError(t, err)
	assert.Equal(t, older.ID, goal.ID)
}

func TestWeeklyWindow(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.goals.AddToWeekly(ctx, "u1", "Old goal", 1, false)
	require.NoError(t, err)

	env.now = env.now.AddDate(0, 0, 9)
	_, err = env.goals.AddToWeekly(ctx, "u1", "Fresh goal", 1, false)
	require.NoError(t, err)

	weekly, err := env.goals.Weekly(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, weekly, 1)
	assert.Equal(t, "Fresh goal", weekly[0].Title)
}

func TestGroupGoalSharedProgress(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	g1 := env.group(t, "owner", "Morning Riders")
	env.join(t, "u1", g1.ID)
	env.join(t, "u2", g1.ID)

	_, err := env.goals.AddGroupGoal(ctx, "u1", g1.ID, "Ride 100km", 100)
	assert.ErrorIs(t, err, ErrAdminRequired)

	goal, err := env.goals.AddGroupGoal(ctx, "owner", g1.ID, "Ride 100km", 100)
	require.NoError(t, err)
	assert.True(t, goal.IsGroupGoal())

	_, err = env.goals.Contribute(ctx, "u1", goal.ID, 0)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = env.goals.Contribute(ctx, "stranger", goal.ID, 10)
	assert.ErrorIs(t, err, ErrMembershipRequired)

	updated, err := env.goals.Contribute(ctx, "u1", goal.ID, 60)
	require.NoError(t, err)
	assert.Equal(t, 60, updated.Contribution)

	_, err = env.goals.ClaimReward(ctx, "u2", goal.ID)
	assert.ErrorIs(t, err, ErrGoalTargetNotReached)

	updated, err = env.goals.Contribute(ctx, "u2", goal.ID, 40)
	require.NoError(t, err)
	assert.Equal(t, 100, updated.Contribution)

	outcome, err := env.goals.ClaimReward(ctx, "u2", goal.ID)
	require.NoError(t, err)
	assert.Equal(t, Claimed, outcome)

	// The reward belongs to the group, so another member sees it claimed
	outcome, err = env.goals.ClaimReward(ctx, "u1", goal.ID)
	require.NoError(t, err)
	assert.Equal(t, AlreadyClaimed, outcome)

	goals, err := env.goals.GroupGoals(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.True(t, goals[0].RewardClaimed)
	assert.True(t, goals[0].Completed)
}

func TestGroupGoalOperationsRejectPersonalGoals(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	personal, err := env.goals.AddToWeekly(ctx, "u1", "Run", 5, false)
	require.NoError(t, err)

	_, err = env.goals.Contribute(ctx, "u1", personal.ID, 5)
	assert.ErrorIs(t, err, ErrGroupGoalNotFound)

	_, err = env.goals.ClaimReward(ctx, "u1", "missing")
	assert.ErrorIs(t, err, ErrGroupGoalNotFound)
}

func TestGroupGoalsDoNotCountTowardAchievements(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	g1 := env.group(t, "owner", "Morning Riders")

	goal, err := env.goals.AddGroupGoal(ctx, "owner", g1.ID, "Ride", 1)
	require.NoError(t, err)
	_, err = env.goals.Contribute(ctx, "owner", goal.ID, 1)
	require.NoError(t, err)
	_, err = env.goals.ClaimReward(ctx, "owner", goal.ID)
	require.NoError(t, err)

	completed, err := env.goals.Completed(ctx, "owner")
	require.NoError(t, err)
	assert.Empty(t, completed)
}
