package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitcircle/fitcircle/internal/apperror"
)

const membershipCount = `SELECT COUNT(*) FROM memberships WHERE group_id = $1 AND user_id = $2`

func TestMembershipLifecycleScenario(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	g1 := env.group(t, "owner", "Morning Riders")

	outcome, err := env.memberships.Join(ctx, "u1", g1.ID)
	require.NoError(t, err)
	assert.Equal(t, Joined, outcome)

	outcome, err = env.memberships.Join(ctx, "u1", g1.ID)
	require.NoError(t, err)
	assert.Equal(t, AlreadyMember, outcome)
	assert.Equal(t, 1, env.count(t, membershipCount, g1.ID, "u1"))

	require.NoError(t, env.memberships.PromoteAdmin(ctx, "owner", g1.ID, "u1"))
	isAdmin, err := env.memberships.IsAdmin(ctx, "u1", g1.ID)
	require.NoError(t, err)
	assert.True(t, isAdmin)

	_, err = env.memberships.Leave(ctx, "u1", g1.ID)
	assert.ErrorIs(t, err, ErrAdminMustTransfer)
	assert.ErrorIs(t, err, apperror.ErrPermission)
	assert.Equal(t, 1, env.count(t, membershipCount, g1.ID, "u1"))

	stillAdmin, err := env.memberships.IsAdmin(ctx, "u1", g1.ID)
	require.NoError(t, err)
	assert.True(t, stillAdmin)

	require.NoError(t, env.membershipRepository.SetAdmin(ctx, g1.ID, "u1", false))

	left, err := env.memberships.Leave(ctx, "u1", g1.ID)
	require.NoError(t, err)
	assert.Equal(t, Left, left)
	assert.Equal(t, 0, env.count(t, membershipCount, g1.ID, "u1"))
}

func TestJoinUnknownGroup(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.memberships.Join(context.Background(), "u1", "missing")
	assert.ErrorIs(t, err, ErrGroupNotFound)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Equal(t, 0, env.count(t, `SELECT COUNT(*) FROM memberships WHERE user_id = $1`, "u1"))
}

func TestJoinAlwaysCreatesRegularMember(t *testing.T) {
	env := newTestEnv(t)
	g1 := env.group(t, "owner", "Morning Riders")
	env.join(t, "u1", g1.ID)

	isAdmin, err := env.memberships.IsAdmin(context.Background(), "u1", g1.ID)
	require.NoError(t, err)
	assert.False(t, isAdmin)
}

func TestConcurrentJoinsCreateOneMembership(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	g1 := env.group(t, "owner", "Morning Riders")

	const callers = 8
	outcomes := make([]JoinOutcome, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcomes[i], errs[i] = env.memberships.Join(ctx, "u1", g1.ID)
		}(i)
	}
	wg.Wait()

	joined := 0
	for i := range outcomes {
		require.NoError(t, errs[i])
		if outcomes[i] == Joined {
			joined++
		} else {
			assert.Equal(t, AlreadyMember, outcomes[i])
		}
	}
	assert.Equal(t, 1, joined)
	assert.Equal(t, 1, env.count(t, membershipCount, g1.ID, "u1"))
}

func TestLeaveWithoutMembership(t *testing.T) {
	env := newTestEnv(t)
	g1 := env.group(t, "owner", "Morning Riders")

	_, err := env.memberships.Leave(context.Background(), "u1", g1.ID)
	assert.ErrorIs(t, err, ErrNotMember)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestCreatorIsAdminAndCannotLeave(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	g1 := env.group(t, "owner", "Morning Riders")
	assert.Equal(t, 1, g1.MemberCount)

	isAdmin, err := env.memberships.IsAdmin(ctx, "owner", g1.ID)
	require.NoError(t, err)
	assert.True(t, isAdmin)

	_, err = env.memberships.Leave(ctx, "owner", g1.ID)
	assert.ErrorIs(t, err, ErrAdminMustTransfer)
}

func TestTransferAdminKeepsOneAdmin(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	g1 := env.group(t, "owner", "Morning Riders")
	env.join(t, "u1", g1.ID)

	err := env.memberships.TransferAdmin(ctx, "u1", g1.ID, "owner")
	assert.ErrorIs(t, err, ErrAdminRequired)

	err = env.memberships.TransferAdmin(ctx, "owner", g1.ID, "stranger")
	assert.ErrorIs(t, err, ErrTargetNotMember)

	err = env.memberships.TransferAdmin(ctx, "owner", g1.ID, "owner")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	require.NoError(t, env.memberships.TransferAdmin(ctx, "owner", g1.ID, "u1"))

	admins := env.count(t, `SELECT COUNT(*) FROM memberships WHERE group_id = $1 AND is_admin = $2`, g1.ID, true)
	assert.Equal(t, 1, admins)

	outcome, err := env.memberships.Leave(ctx, "owner", g1.ID)
	require.NoError(t, err)
	assert.Equal(t, Left, outcome)
}

func TestAdminOperationsOnUnknownGroup(t *testing.T) {
	env := newTestEnv(t)

	err := env.memberships.PromoteAdmin(context.Background(), "owner", "missing", "u1")
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestMembersListsProfiles(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	g1 := env.group(t, "owner", "Morning Riders")
	env.join(t, "u1", g1.ID)

	members, err := env.memberships.Members(ctx, g1.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.True(t, members[0].IsAdmin)

	_, err = env.memberships.Members(ctx, "missing")
	assert.ErrorIs(t, err, ErrGroupNotFound)
}
