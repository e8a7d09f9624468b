package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const grantCount = `SELECT COUNT(*) FROM user_achievements WHERE user_id = $1`

func TestAchievementThresholdScenario(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	env.completeGoals(t, "u3", 4, "Warmup")

	granted, err := env.achievements.Evaluate(ctx, "u3")
	require.NoError(t, err)
	assert.Empty(t, granted)

	env.completeGoals(t, "u3", 1, "Fifth")

	granted, err = env.achievements.Evaluate(ctx, "u3")
	require.NoError(t, err)
	require.Len(t, granted, 1)
	assert.Equal(t, 5, granted[0].Threshold)
	assert.Equal(t, "Goal Getter", granted[0].Name)

	env.completeGoals(t, "u3", 1, "Sixth")

	granted, err = env.achievements.Evaluate(ctx, "u3")
	require.NoError(t, err)
	assert.Empty(t, granted)
	assert.Equal(t, 1, env.count(t, grantCount, "u3"))
}

func TestEvaluateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.completeGoals(t, "u1", 5, "Goal")

	_, err := env.achievements.Evaluate(ctx, "u1")
	require.NoError(t, err)
	before, err := env.achievements.Earned(ctx, "u1")
	require.NoError(t, err)

	granted, err := env.achievements.Evaluate(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, granted)

	after, err := env.achievements.Earned(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestEvaluateCatchesUpEveryTier(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	// Never evaluated while crossing two thresholds
	env.completeGoals(t, "u1", 11, "Goal")

	granted, err := env.achievements.Evaluate(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, granted, 2)
	assert.Equal(t, 5, granted[0].Threshold)
	assert.Equal(t, 10, granted[1].Threshold)

	earned, err := env.achievements.Earned(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, earned, 2)
	assert.Equal(t, "Goal Getter", earned[0].Name)
	assert.Equal(t, "Habit Builder", earned[1].Name)
}

func TestEvaluateGrantsOnlyMissingTiers(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	env.completeGoals(t, "u1", 4, "First")
	_, err := env.achievements.Evaluate(ctx, "u1")
	require.NoError(t, err)

	// Count jumps from 4 to 6 in one step
	env.completeGoals(t, "u1", 2, "Second")
	granted, err := env.achievements.Evaluate(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, granted, 1)
	assert.Equal(t, 5, granted[0].Threshold)
}

func TestConcurrentEvaluationsGrantOnce(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.completeGoals(t, "u1", 5, "Goal")

	var wg sync.WaitGroup
	total := make([]int, 6)
	for i := range total {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			granted, err := env.achievements.Evaluate(ctx, "u1")
			assert.NoError(t, err)
			total[i] = len(granted)
		}(i)
	}
	wg.Wait()

	sum := 0
	for _, n := range total {
		sum += n
	}
	assert.Equal(t, 1, sum)
	assert.Equal(t, 1, env.count(t, grantCount, "u1"))
}

func TestTiers(t *testing.T) {
	env := newTestEnv(t)

	tiers, err := env.achievements.Tiers(context.Background())
	require.NoError(t, err)
	require.Len(t, tiers, 3)
	assert.Equal(t, []int{5, 10, 20}, []int{tiers[0].Threshold, tiers[1].Threshold, tiers[2].Threshold})
}
