package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitcircle/fitcircle/internal/apperror"
	"github.com/fitcircle/fitcircle/internal/model"
)

const attendanceCount = `SELECT COUNT(*) FROM attendances WHERE event_id = $1 AND user_id = $2`

func TestCreatorSelfRSVPScenario(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	g1 := env.group(t, "owner", "Morning Riders")
	env.join(t, "u2", g1.ID)

	e1, err := env.events.Create(ctx, CreateEventInput{
		GroupID:   g1.ID,
		CreatorID: "u2",
		Title:     "Saturday ride",
		StartsAt:  env.now.Add(48 * time.Hour),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, e1.ID)
	assert.Equal(t, model.DefaultMaxParticipants, e1.MaxParticipants)

	outcome, err := env.events.RSVP(ctx, "u2", e1.ID)
	require.NoError(t, err)
	assert.Equal(t, Confirmed, outcome)

	outcome, err = env.events.RSVP(ctx, "u2", e1.ID)
	require.NoError(t, err)
	assert.Equal(t, AlreadyRSVPed, outcome)
	assert.Equal(t, 1, env.count(t, attendanceCount, e1.ID, "u2"))

	isCreator, err := env.events.IsCreator(ctx, "u2", e1.ID)
	require.NoError(t, err)
	assert.True(t, isCreator)

	relation, err := env.events.Relation(ctx, "u2", e1.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EventRelationCreated, relation)
}

func TestRSVPIsIdempotent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	g1 := env.group(t, "owner", "Morning Riders")
	env.join(t, "u1", g1.ID)

	event, err := env.events.Create(ctx, CreateEventInput{
		GroupID: g1.ID, CreatorID: "owner", Title: "Hill repeats", StartsAt: env.now.Add(time.Hour),
	})
	require.NoError(t, err)

	relation, err := env.events.Relation(ctx, "u1", event.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EventRelationNone, relation)

	first, err := env.events.RSVP(ctx, "u1", event.ID)
	require.NoError(t, err)
	second, err := env.events.RSVP(ctx, "u1", event.ID)
	require.NoError(t, err)

	assert.Equal(t, Confirmed, first)
	assert.Equal(t, AlreadyRSVPed, second)
	assert.Equal(t, 1, env.count(t, attendanceCount, event.ID, "u1"))

	attending, err := env.events.HasRSVPed(ctx, "u1", event.ID)
	require.NoError(t, err)
	assert.True(t, attending)

	relation, err = env.events.Relation(ctx, "u1", event.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EventRelationAttending, relation)
}

func TestCreateEventValidation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	g1 := env.group(t, "owner", "Morning Riders")
	future := env.now.Add(time.Hour)

	tests := []struct {
		name  string
		input CreateEventInput
		want  error
	}{
		{"empty title", CreateEventInput{GroupID: g1.ID, CreatorID: "owner", Title: " ", StartsAt: future}, apperror.ErrValidation},
		{"past start", CreateEventInput{GroupID: g1.ID, CreatorID: "owner", Title: "Ride", StartsAt: env.now.Add(-time.Minute)}, ErrEventInPast},
		{"negative capacity", CreateEventInput{GroupID: g1.ID, CreatorID: "owner", Title: "Ride", StartsAt: future, MaxParticipants: -1}, ErrInvalidCapacity},
		{"unknown group", CreateEventInput{GroupID: "missing", CreatorID: "owner", Title: "Ride", StartsAt: future}, ErrGroupNotFound},
		{"not a member", CreateEventInput{GroupID: g1.ID, CreatorID: "stranger", Title: "Ride", StartsAt: future}, ErrMembershipRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.events.Create(ctx, tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.Equal(t, 0, env.count(t, `SELECT COUNT(*) FROM events`))
}

func TestEventsInSameMinuteGetDistinctIDs(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	g1 := env.group(t, "owner", "Morning Riders")
	when := env.now.Add(24 * time.Hour)

	a, err := env.events.Create(ctx, CreateEventInput{GroupID: g1.ID, CreatorID: "owner", Title: "Ride A", StartsAt: when})
	require.NoError(t, err)
	b, err := env.events.Create(ctx, CreateEventInput{GroupID: g1.ID, CreatorID: "owner", Title: "Ride B", StartsAt: when.Add(10 * time.Second)})
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestRSVPRules(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	g1 := env.group(t, "owner", "Morning Riders")
	env.join(t, "u1", g1.ID)
	env.join(t, "u2", g1.ID)

	event, err := env.events.Create(ctx, CreateEventInput{
		GroupID: g1.ID, CreatorID: "owner", Title: "Track session", StartsAt: env.now.Add(time.Hour), MaxParticipants: 1,
	})
	require.NoError(t, err)

	_, err = env.events.RSVP(ctx, "u1", "missing")
	assert.ErrorIs(t, err, ErrEventNotFound)

	_, err = env.events.RSVP(ctx, "stranger", event.ID)
	assert.ErrorIs(t, err, ErrMembershipRequired)

	outcome, err := env.events.RSVP(ctx, "u1", event.ID)
	require.NoError(t, err)
	assert.Equal(t, Confirmed, outcome)

	_, err = env.events.RSVP(ctx, "u2", event.ID)
	assert.ErrorIs(t, err, ErrEventFull)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	// The holder of the only seat still gets the idempotent answer
	outcome, err = env.events.RSVP(ctx, "u1", event.ID)
	require.NoError(t, err)
	assert.Equal(t, AlreadyRSVPed, outcome)

	attendees, err := env.events.Attendees(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, attendees)
}

func TestUpcomingEvents(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	g1 := env.group(t, "owner", "Morning Riders")

	for i, offset := range []time.Duration{5, 1, 4, 2, 3} {
		_, err := env.events.Create(ctx, CreateEventInput{
			GroupID:   g1.ID,
			CreatorID: "owner",
			Title:     fmt.Sprintf("Ride %d", i),
			StartsAt:  env.now.Add(offset * time.Hour),
		})
		require.NoError(t, err)
	}

	events, err := env.events.Upcoming(ctx, g1.ID, 0)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, []string{"Ride 1", "Ride 3", "Ride 4"}, []string{events[0].Title, events[1].Title, events[2].Title})

	// Time moves on; the next snapshot drops events that already started
	env.now = env.now.Add(150 * time.Minute)
	events, err = env.events.Upcoming(ctx, g1.ID, 10)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "Ride 4", events[0].Title)

	none, err := env.events.Upcoming(ctx, "missing", 3)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLookupsOnUnknownEvent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	isCreator, err := env.events.IsCreator(ctx, "u1", "missing")
	require.NoError(t, err)
	assert.False(t, isCreator)

	attending, err := env.events.HasRSVPed(ctx, "u1", "missing")
	require.NoError(t, err)
	assert.False(t, attending)

	_, err = env.events.Relation(ctx, "u1", "missing")
	assert.ErrorIs(t, err, ErrEventNotFound)
}
