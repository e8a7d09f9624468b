package handler

import (
	"log/slog"
	"net/http"

	"github.com/fitcircle/fitcircle/internal/ctxkeys"
	"github.com/fitcircle/fitcircle/internal/model"
	"github.com/fitcircle/fitcircle/internal/service"
	"github.com/fitcircle/fitcircle/internal/session"
)

type DashboardHandler struct {
	goalService        *service.GoalService
	achievementService *service.AchievementService
	groupService       *service.GroupService
	gate               session.Gate
}

func NewDashboardHandler(
	goalService *service.GoalService,
	achievementService *service.AchievementService,
	groupService *service.GroupService,
	gate session.Gate,
) *DashboardHandler {
	return &DashboardHandler{
		goalService:        goalService,
		achievementService: achievementService,
		groupService:       groupService,
		gate:               gate,
	}
}

// Dashboard assembles the caller's goals, achievements and groups.
// Achievements are evaluated on the first dashboard load of each session.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	const op = "dashboard.Load"
	ctx := r.Context()
	userID := ctxkeys.UserID(ctx)
	sessionID := ctxkeys.SessionID(ctx)

	first, err := h.gate.First(ctx, userID, sessionID, session.PurposeAchievements)
	if err != nil {
		// Evaluation is idempotent, so running it again is safe
		slog.Warn("session gate unavailable, evaluating achievements", "error", err, "user_id", userID)
		first = true
	}

	newlyEarned := []*model.EarnedAchievement{}
	if first {
		granted, err := h.achievementService.Evaluate(ctx, userID)
		if err != nil {
			// Let a retry in the same session evaluate again
			if forgetErr := h.gate.Forget(ctx, userID, sessionID, session.PurposeAchievements); forgetErr != nil {
				slog.Warn("failed to reset session gate", "error", forgetErr, "user_id", userID)
			}
			writeError(w, r, op, err)
			return
		}
		if granted != nil {
			newlyEarned = granted
		}
	}

	weekly, err := h.goalService.Weekly(ctx, userID)
	if err != nil {
		writeError(w, r, op, err)
		return
	}

	completed, err := h.goalService.Completed(ctx, userID)
	if err != nil {
		writeError(w, r, op, err)
		return
	}

	groupGoals, err := h.goalService.GroupGoals(ctx, userID)
	if err != nil {
		writeError(w, r, op, err)
		return
	}

	earned, err := h.achievementService.Earned(ctx, userID)
	if err != nil {
		writeError(w, r, op, err)
		return
	}

	groups, err := h.groupService.ForUser(ctx, userID)
	if err != nil {
		writeError(w, r, op, err)
		return
	}

	writeOutcome(w, http.StatusOK, op, outcomeOK, map[string]any{
		"weekly_goals":         weekly,
		"completed_goals":      completed,
		"group_goals":          groupGoals,
		"suggestions":          h.goalService.SuggestWeekly(),
		"achievements":         earned,
		"new_achievements":     newlyEarned,
		"achievements_checked": first,
		"groups":               groups,
	})
}
