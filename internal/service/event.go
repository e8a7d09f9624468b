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

type CreateEventInput struct {
	GroupID     string
	CreatorID   string
	Title       string
	Description string
	StartsAt    time.Time
	Location    *string
	// Zero means the default capacity
	MaxParticipants int
}

type EventService struct {
	eventRepository      repository.EventRepository
	attendanceRepository repository.AttendanceRepository
	membershipService    *MembershipService
	defaultCapacity      int
	upcomingLimit        int
	now                  func() time.Time
}

func NewEventService(
	eventRepository repository.EventRepository,
	attendanceRepository repository.AttendanceRepository,
	membershipService *MembershipService,
	defaultCapacity int,
	upcomingLimit int,
) *EventService {
	if defaultCapacity <= 0 {
		defaultCapacity = model.DefaultMaxParticipants
	}
	if upcomingLimit <= 0 {
		upcomingLimit = 3
	}

	return &EventService{
		eventRepository:      eventRepository,
		attendanceRepository: attendanceRepository,
		membershipService:    membershipService,
		defaultCapacity:      defaultCapacity,
		upcomingLimit:        upcomingLimit,
		now:                  time.Now,
	}
}

// Create schedules an event. Validation runs before any lookup so malformed
// input never touches the store.
func (s *EventService) Create(ctx context.Context, in CreateEventInput) (*model.Event, error) {
	const op = "event.Create"

	if err := validation.ValidateTitle(in.Title); err != nil {
		return nil, apperror.Validation(op, err.Error())
	}
	if err := validation.ValidateDescription(in.Description); err != nil {
		return nil, apperror.Validation(op, err.Error())
	}
	if in.MaxParticipants < 0 {
		return nil, ErrInvalidCapacity.At(op)
	}

	now := s.now()
	if in.StartsAt.Before(now) {
		return nil, ErrEventInPast.At(op)
	}

	if err := s.membershipService.RequireMember(ctx, op, in.CreatorID, in.GroupID); err != nil {
		return nil, err
	}

	capacity := in.MaxParticipants
	if capacity == 0 {
		capacity = s.defaultCapacity
	}

	var location *string
	if in.Location != nil {
		if trimmed := strings.TrimSpace(*in.Location); trimmed != "" {
			location = &trimmed
		}
	}

	event := &model.Event{
		ID:              uuid.New().String(),
		GroupID:         in.GroupID,
		Title:           strings.TrimSpace(in.Title),
		Description:     strings.TrimSpace(in.Description),
		StartsAt:        in.StartsAt,
		Location:        location,
		MaxParticipants: capacity,
		CreatorID:       in.CreatorID,
		CreatedAt:       now,
	}

	if err := s.eventRepository.Create(ctx, event); err != nil {
		return nil, apperror.Storage(op, err)
	}

	slog.Info("event created", "event_id", event.ID, "group_id", event.GroupID, "user_id", in.CreatorID)
	return event, nil
}

// Upcoming returns the group's next events, soonest first. A limit of zero
// or less uses the configured default.
func (s *EventService) Upcoming(ctx context.Context, groupID string, limit int) ([]*model.Event, error) {
	if limit <= 0 {
		limit = s.upcomingLimit
	}

	events, err := s.eventRepository.Upcoming(ctx, groupID, s.now(), limit)
	if err != nil {
		return nil, apperror.Storage("event.Upcoming", err)
	}
	return events, nil
}

func (s *EventService) ByID(ctx context.Context, eventID string) (*model.Event, error) {
	return s.event(ctx, "event.ByID", eventID)
}

// RSVP confirms the user's attendance. Only members of the event's group may
// RSVP, and never past the event's capacity.
func (s *EventService) RSVP(ctx context.Context, userID, eventID string) (RSVPOutcome, error) {
	const op = "event.RSVP"

	event, err := s.event(ctx, op, eventID)
	if err != nil {
		return "", err
	}

	if err := s.membershipService.RequireMember(ctx, op, userID, event.GroupID); err != nil {
		return "", err
	}

	attending, err := s.attendanceRepository.Exists(ctx, eventID, userID)
	if err != nil {
		return "", apperror.Storage(op, err)
	}
	if attending {
		return AlreadyRSVPed, nil
	}

	count, err := s.attendanceRepository.Count(ctx, eventID)
	if err != nil {
		return "", apperror.Storage(op, err)
	}
	if count >= event.MaxParticipants {
		return "", ErrEventFull.At(op)
	}

	err = s.attendanceRepository.Create(ctx, &model.Attendance{
		EventID: eventID,
		UserID:  userID,
		RSVPAt:  s.now(),
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return AlreadyRSVPed, nil
	}
	if err != nil {
		return "", apperror.Storage(op, err)
	}

	slog.Info("rsvp confirmed", "event_id", eventID, "user_id", userID)
	return Confirmed, nil
}

func (s *EventService) IsCreator(ctx context.Context, userID, eventID string) (bool, error) {
	event, err := s.eventRepository.ByID(ctx, eventID)
	if errors.Is(err, repository.ErrEventNotFound) {
		return false, nil
	}
	if err != nil {
		return false, apperror.Storage("event.IsCreator", err)
	}
	return event.CreatorID == userID, nil
}

func (s *EventService) HasRSVPed(ctx context.Context, userID, eventID string) (bool, error) {
	attending, err := s.attendanceRepository.Exists(ctx, eventID, userID)
	if err != nil {
		return false, apperror.Storage("event.HasRSVPed", err)
	}
	return attending, nil
}

// Relation picks the single state to show the user for an event. The creator
// relation wins over an RSVP.
func (s *EventService) Relation(ctx context.Context, userID, eventID string) (model.EventRelation, error) {
	const op = "event.Relation"

	event, err := s.event(ctx, op, eventID)
	if err != nil {
		return "", err
	}
	if event.CreatorID == userID {
		return model.EventRelationCreated, nil
	}

	attending, err := s.attendanceRepository.Exists(ctx, eventID, userID)
	if err != nil {
		return "", apperror.Storage(op, err)
	}
	if attending {
		return model.EventRelationAttending, nil
	}
	return model.EventRelationNone, nil
}

func (s *EventService) Attendees(ctx context.Context, eventID string) (int, error) {
	count, err := s.attendanceRepository.Count(ctx, eventID)
	if err != nil {
		return 0, apperror.Storage("event.Attendees", err)
	}
	return count, nil
}

func (s *EventService) event(ctx context.Context, op, eventID string) (*model.Event, error) {
	event, err := s.eventRepository.ByID(ctx, eventID)
	if errors.Is(err, repository.ErrEventNotFound) {
		return nil, ErrEventNotFound.At(op)
	}
	if err != nil {
		return nil, apperror.Storage(op, err)
	}
	return event, nil
}
