package handler

import (
	"net/http"
	"time"

	"github.com/fitcircle/fitcircle/internal/ctxkeys"
	"github.com/fitcircle/fitcircle/internal/service"
)

type EventHandler struct {
	eventService *service.EventService
}

func NewEventHandler(eventService *service.EventService) *EventHandler {
	return &EventHandler{
		eventService: eventService,
	}
}

type createEventRequest struct {
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	StartsAt        time.Time `json:"starts_at"`
	Location        *string   `json:"location"`
	MaxParticipants int       `json:"max_participants"`
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "event.Create"

	var req createEventRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		writeError(w, r, op, err)
		return
	}

	event, err := h.eventService.Create(r.Context(), service.CreateEventInput{
		GroupID:         r.PathValue("id"),
		CreatorID:       ctxkeys.UserID(r.Context()),
		Title:           req.Title,
		Description:     req.Description,
		StartsAt:        req.StartsAt,
		Location:        req.Location,
		MaxParticipants: req.MaxParticipants,
	})
	if err != nil {
		writeError(w, r, op, err)
		return
	}

	writeOutcome(w, http.StatusCreated, op, "created", map[string]any{"event": event})
}

func (h *EventHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	const op = "event.Upcoming"

	limit, err := queryInt(r, op, "limit")
	if err != nil {
		writeError(w, r, op, err)
		return
	}

	events, err := h.eventService.Upcoming(r.Context(), r.PathValue("id"), limit)
	if err != nil {
		writeError(w, r, op, err)
		return
	}

	writeOutcome(w, http.StatusOK, op, outcomeOK, map[string]any{"events": events})
}

func (h *EventHandler) RSVP(w http.ResponseWriter, r *http.Request) {
	const op = "event.RSVP"

	outcome, err := h.eventService.RSVP(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, op, err)
		return
	}

	writeOutcome(w, http.StatusOK, op, string(outcome), nil)
}

// Relation reports which of created, attending or none applies to the
// caller, with the current attendee count.
func (h *EventHandler) Relation(w http.ResponseWriter, r *http.Request) {
	const op = "event.Relation"
	ctx := r.Context()
	eventID := r.PathValue("id")

	relation, err := h.eventService.Relation(ctx, ctxkeys.UserID(ctx), eventID)
	if err != nil {
		writeError(w, r, op, err)
		return
	}

	attendees, err := h.eventService.Attendees(ctx, eventID)
	if err != nil {
		writeError(w, r, op, err)
		return
	}

	writeOutcome(w, http.StatusOK, op, outcomeOK, map[string]any{
		"relation":  relation,
		"attendees": attendees,
	})
}
