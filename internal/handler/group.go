package handler

import (
	"net/http"

	"github.com/fitcircle/fitcircle/internal/apperror"
	"github.com/fitcircle/fitcircle/internal/ctxkeys"
	"github.com/fitcircle/fitcircle/internal/repository"
	"github.com/fitcircle/fitcircle/internal/service"
)

const (
	adminActionTransfer = "transfer"
	adminActionPromote  = "promote"
)

type GroupHandler struct {
	groupService      *service.GroupService
	membershipService *service.MembershipService
}

func NewGroupHandler(groupService *service.GroupService, membershipService *service.MembershipService) *GroupHandler {
	return &GroupHandler{
		groupService:      groupService,
		membershipService: membershipService,
	}
}

type createGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "group.Create"
	userID := ctxkeys.UserID(r.Context())

	var req createGroupRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		writeError(w, r, op, err)
		return
	}

	group, err := h.groupService.Create(r.Context(), userID, req.Name, req.Description, req.Category)
	if err != nil {
		writeError(w, r, op, err)
		return
	}

	writeOutcome(w, http.StatusCreated, op, "created", map[string]any{
		"group":     group,
		"image_url": group.ImageURL(),
	})
}

func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	const op = "group.List"

	filter := repository.GroupFilter{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("q"),
	}

	groups, err := h.groupService.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, op, err)
		return
	}

	writeOutcome(w, http.StatusOK, op, outcomeOK, map[string]any{"groups": groups})
}

func (h *GroupHandler) Mine(w http.ResponseWriter, r *http.Request) {
	const op = "group.ForUser"

	groups, err := h.groupService.ForUser(r.Context(), ctxkeys.UserID(r.Context()))
	if err != nil {
		writeError(w, r, op, err)
		return
	}

	writeOutcome(w, http.StatusOK, op, outcomeOK, map[string]any{"groups": groups})
}

func (h *GroupHandler) Categories(w http.ResponseWriter, r *http.Request) {
	const op = "group.Categories"

	categories, err := h.groupService.Categories(r.Context())
	if err != nil {
		writeError(w, r, op, err)
		return
	}

	writeOutcome(w, http.StatusOK, op, outcomeOK, map[string]any{"categories": categories})
}

func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "group.ByID"
	ctx := r.Context()
	groupID := r.PathValue("id")

	group, err := h.groupService.ByID(ctx, groupID)
	if err != nil {
		writeError(w, r, op, err)
		return
	}

	userID := ctxkeys.UserID(ctx)
	isMember, err := h.membershipService.IsMember(ctx, userID, groupID)
	if err != nil {
		writeError(w, r, op, err)
		return
	}
	isAdmin, err := h.membershipService.IsAdmin(ctx, userID, groupID)
	if err != nil {
		writeError(w, r, op, err)
		return
	}

	writeOutcome(w, http.StatusOK, op, outcomeOK, map[string]any{
		"group":     group,
		"image_url": group.ImageURL(),
		"is_member": isMember,
		"is_admin":  isAdmin,
	})
}

func (h *GroupHandler) Members(w http.ResponseWriter, r *http.Request) {
	const op = "membership.Members"

	members, err := h.membershipService.Members(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, op, err)
		return
	}

	writeOutcome(w, http.StatusOK, op, outcomeOK, map[string]any{"members": members})
}

func (h *GroupHandler) Join(w http.ResponseWriter, r *http.Request) {
	const op = "membership.Join"

	outcome, err := h.membershipService.Join(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, op, err)
		return
	}

	writeOutcome(w, http.StatusOK, op, string(outcome), nil)
}

func (h *GroupHandler) Leave(w http.ResponseWriter, r *http.Request) {
	const op = "membership.Leave"

	outcome, err := h.membershipService.Leave(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, op, err)
		return
	}

	writeOutcome(w, http.StatusOK, op, string(outcome), nil)
}

type adminRequest struct {
	UserID string `json:"user_id"`
	Action string `json:"action"` // "transfer" (default) or "promote"
}

// Admin hands admin rights to another member, or shares them.
func (h *GroupHandler) Admin(w http.ResponseWriter, r *http.Request) {
	const op = "membership.Admin"
	ctx := r.Context()

	var req adminRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		writeError(w, r, op, err)
		return
	}
	if req.UserID == "" {
		writeError(w, r, op, apperror.Validation(op, "user_id is required"))
		return
	}

	actorID := ctxkeys.UserID(ctx)
	groupID := r.PathValue("id")

	var (
		outcome string
		err     error
	)
	switch req.Action {
	case "", adminActionTransfer:
		outcome = "transferred"
		err = h.membershipService.TransferAdmin(ctx, actorID, groupID, req.UserID)
	case adminActionPromote:
		outcome = "promoted"
		err = h.membershipService.PromoteAdmin(ctx, actorID, groupID, req.UserID)
	default:
		err = apperror.Validation(op, "action must be transfer or promote")
	}
	if err != nil {
		writeError(w, r, op, err)
		return
	}

	writeOutcome(w, http.StatusOK, op, outcome, nil)
}
