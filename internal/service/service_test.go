package service

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/fitcircle/fitcircle/internal/db/dbtest"
	"github.com/fitcircle/fitcircle/internal/model"
	"github.com/fitcircle/fitcircle/internal/repository"
)

type testEnv struct {
	db  *sqlx.DB
	now time.Time

	membershipRepository repository.MembershipRepository
	goalRepository       repository.GoalRepository

	memberships  *MembershipService
	groups       *GroupService
	events       *EventService
	goals        *GoalService
	achievements *AchievementService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conn := dbtest.Open(t)
	env := &testEnv{
		db:  conn,
		now: time.Date(2026, time.March, 10, 9, 30, 0, 0, time.UTC),
	}
	clock := func() time.Time { return env.now }

	groupRepository := repository.NewGroupRepository(conn)
	env.membershipRepository = repository.NewMembershipRepository(conn)
	env.goalRepository = repository.NewGoalRepository(conn)

	env.memberships = NewMembershipService(groupRepository, env.membershipRepository)
	env.memberships.now = clock

	env.groups = NewGroupService(groupRepository, env.membershipRepository, env.memberships)
	env.groups.now = clock

	env.events = NewEventService(
		repository.NewEventRepository(conn),
		repository.NewAttendanceRepository(conn),
		env.memberships,
		0,
		0,
	)
	env.events.now = clock

	env.goals = NewGoalService(env.goalRepository, env.memberships)
	env.goals.now = clock

	env.achievements = NewAchievementService(repository.NewAchievementRepository(conn), env.goalRepository)
	env.achievements.now = clock

	return env
}

// group creates a group owned (and administered) by ownerID.
func (e *testEnv) group(t *testing.T, ownerID, name string) *model.Group {
	t.Helper()
	group, err := e.groups.Create(context.Background(), ownerID, name, "", "cycling")
	require.NoError(t, err)
	return group
}

func (e *testEnv) join(t *testing.T, userID, groupID string) {
	t.Helper()
	outcome, err := e.memberships.Join(context.Background(), userID, groupID)
	require.NoError(t, err)
	require.Equal(t, Joined, outcome)
}

func (e *testEnv) count(t *testing.T, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, e.db.Get(&n, query, args...))
	return n
}

// completeGoals adds and completes n distinct personal goals for the user.
func (e *testEnv) completeGoals(t *testing.T, userID string, n int, prefix string) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < n; i++ {
		title := prefix + " " + string(rune('A'+i))
		_, err := e.goals.AddToWeekly(ctx, userID, title, 3, false)
		require.NoError(t, err)
		_, err = e.goals.MarkCompleted(ctx, userID, title)
		require.NoError(t, err)
	}
}
