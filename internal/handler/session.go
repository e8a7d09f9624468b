package handler

import (
	"net/http"

	"github.com/fitcircle/fitcircle/internal/apperror"
	"github.com/fitcircle/fitcircle/internal/ctxkeys"
	"github.com/fitcircle/fitcircle/internal/middleware"
	"github.com/fitcircle/fitcircle/internal/service"
)

type SessionHandler struct {
	authService *service.AuthService
}

func NewSessionHandler(authService *service.AuthService) *SessionHandler {
	return &SessionHandler{
		authService: authService,
	}
}

// Start records the caller's profile from their token so member lists can
// show names and avatars.
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	const op = "auth.SyncProfile"

	token, _ := middleware.RequestToken(r)
	identity, err := h.authService.VerifyJWT(token)
	if err != nil {
		writeError(w, r, op, err)
		return
	}

	user, err := h.authService.SyncProfile(r.Context(), identity)
	if err != nil {
		writeError(w, r, op, err)
		return
	}

	writeOutcome(w, http.StatusOK, op, outcomeOK, map[string]any{
		"user":       user,
		"avatar_url": user.Avatar(),
		"session_id": ctxkeys.SessionID(r.Context()),
	})
}

func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearJWTCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

type devTokenRequest struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	ImageURL    string `json:"image_url"`
}

// DevToken issues a token for any user id. Only routed in development.
func (h *SessionHandler) DevToken(w http.ResponseWriter, r *http.Request) {
	const op = "auth.IssueToken"

	var req devTokenRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		writeError(w, r, op, err)
		return
	}
	if req.UserID == "" {
		writeError(w, r, op, apperror.Validation(op, "user_id is required"))
		return
	}

	token, expiry, err := h.authService.IssueToken(service.Identity{
		UserID:      req.UserID,
		DisplayName: req.DisplayName,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		writeError(w, r, op, apperror.Storage(op, err))
		return
	}

	h.authService.SetJWTCookie(w, token, expiry)
	writeOutcome(w, http.StatusCreated, op, "issued", map[string]any{
		"token":      token,
		"expires_at": expiry,
	})
}
