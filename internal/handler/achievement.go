package handler

import (
	"net/http"

	"github.com/fitcircle/fitcircle/internal/ctxkeys"
	"github.com/fitcircle/fitcircle/internal/service"
)

type AchievementHandler struct {
	achievementService *service.AchievementService
}

func NewAchievementHandler(achievementService *service.AchievementService) *AchievementHandler {
	return &AchievementHandler{
		achievementService: achievementService,
	}
}

// Earned lists the caller's achievements alongside the full tier table.
func (h *AchievementHandler) Earned(w http.ResponseWriter, r *http.Request) {
	const op = "achievement.Earned"
	ctx := r.Context()

	earned, err := h.achievementService.Earned(ctx, ctxkeys.UserID(ctx))
	if err != nil {
		writeError(w, r, op, err)
		return
	}

	tiers, err := h.achievementService.Tiers(ctx)
	if err != nil {
		writeError(w, r, op, err)
		return
	}

	writeOutcome(w, http.StatusOK, op, outcomeOK, map[string]any{
		"earned": earned,
		"tiers":  tiers,
	})
}
