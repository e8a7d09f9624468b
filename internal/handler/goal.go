package handler

import (
	"net/http"

	"github.com/fitcircle/fitcircle/internal/ctxkeys"
	"github.com/fitcircle/fitcircle/internal/service"
)

type GoalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
	}
}

type addGoalRequest struct {
	Title       string `json:"title"`
	TargetValue int    `json:"target_value"`
	Custom      bool   `json:"custom"`
}

type completeGoalRequest struct {
	Title string `json:"title"`
}

type contributeRequest struct {
	Amount int `json:"amount"`
}

func (h *GoalHandler) Suggested(w http.ResponseWriter, r *http.Request) {
	writeOutcome(w, http.StatusOK, "goal.SuggestWeekly", outcomeOK, map[string]any{
		"suggestions": h.goalService.SuggestWeekly(),
	})
}

func (h *GoalHandler) AddWeekly(w http.ResponseWriter, r *http.Request) {
	const op = "goal.AddToWeekly"

	var req addGoalRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		writeError(w, r, op, err)
		return
	}

	goal, err := h.goalService.AddToWeekly(r.Context(), ctxkeys.UserID(r.Context()), req.Title, req.TargetValue, req.Custom)
	if err != nil {
		writeError(w, r, op, err)
		return
	}

	writeOutcome(w, http.StatusCreated, op, "created", map[string]any{"goal": goal})
}

func (h *GoalHandler) Weekly(w http.ResponseWriter, r *http.Request) {
	const op = "goal.Weekly"

	goals, err := h.goalService.Weekly(r.Context(), ctxkeys.UserID(r.Context()))
	if err != nil {
		writeError(w, r, op, err)
		return
	}

	writeOutcome(w, http.StatusOK, op, outcomeOK, map[string]any{"goals": goals})
}

func (h *GoalHandler) Completed(w http.ResponseWriter, r *http.Request) {
	const op = "goal.Completed"

	goals, err := h.goalService.Completed(r.Context(), ctxkeys.UserID(r.Context()))
	if err != nil {
		writeError(w, r, op, err)
		return
	}

	writeOutcome(w, http.StatusOK, op, outcomeOK, map[string]any{"goals": goals})
}

func (h *GoalHandler) Complete(w http.ResponseWriter, r *http.Request) {
	const op = "goal.MarkCompleted"

	var req completeGoalRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		writeError(w, r, op, err)
		return
	}

	goal, err := h.goalService.MarkCompleted(r.Context(), ctxkeys.UserID(r.Context()), req.Title)
	if err != nil {
		writeError(w, r, op, err)
		return
	}

	writeOutcome(w, http.StatusOK, op, "completed", map[string]any{"goal": goal})
}

func (h *GoalHandler) AddGroupGoal(w http.ResponseWriter, r *http.Request) {
	const op = "goal.AddGroupGoal"

	var req addGoalRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		writeError(w, r, op, err)
		return
	}

	goal, err := h.goalService.AddGroupGoal(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"), req.Title, req.TargetValue)
	if err != nil {
		writeError(w, r, op, err)
		return
	}

	writeOutcome(w, http.StatusCreated, op, "created", map[string]any{"goal": goal})
}

func (h *GoalHandler) GroupGoals(w http.ResponseWriter, r *http.Request) {
	const op = "goal.GroupGoals"

	goals, err := h.goalService.GroupGoals(r.Context(), ctxkeys.UserID(r.Context()))
	if err != nil {
		writeError(w, r, op, err)
		return
	}

	writeOutcome(w, http.StatusOK, op, outcomeOK, map[string]any{"goals": goals})
}

func (h *GoalHandler) Contribute(w http.ResponseWriter, r *http.Request) {
	const op = "goal.Contribute"

	var req contributeRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		writeError(w, r, op, err)
		return
	}

	goal, err := h.goalService.Contribute(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"), req.Amount)
	if err != nil {
		writeError(w, r, op, err)
		return
	}

	writeOutcome(w, http.StatusOK, op, "contributed", map[string]any{
		"goal":    goal,
		"reached": goal.Reached(),
	})
}

func (h *GoalHandler) Claim(w http.ResponseWriter, r *http.Request) {
	const op = "goal.ClaimReward"

	outcome, err := h.goalService.ClaimReward(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, op, err)
		return
	}

	writeOutcome(w, http.StatusOK, op, string(outcome), nil)
}
