package service

import (
	"github.com/fitcircle/fitcircle/internal/apperror"
)

// Declared failures. Services return them with .At(op) so errors.Is matches
// both the value below and the kind sentinel in apperror.
var (
	ErrGroupNotFound        = apperror.New(apperror.KindNotFound, "group not found")
	ErrNotMember            = apperror.New(apperror.KindNotFound, "you are not a member of this group")
	ErrTargetNotMember      = apperror.New(apperror.KindNotFound, "that user is not a member of this group")
	ErrAdminMustTransfer    = apperror.New(apperror.KindPermission, "transfer admin rights to another member before leaving")
	ErrMembershipRequired   = apperror.New(apperror.KindPermission, "only group members can do this")
	ErrAdminRequired        = apperror.New(apperror.KindPermission, "only group admins can do this")
	ErrEventNotFound        = apperror.New(apperror.KindNotFound, "event not found")
	ErrEventInPast          = apperror.New(apperror.KindValidation, "event cannot start in the past")
	ErrInvalidCapacity      = apperror.New(apperror.KindValidation, "max participants cannot be negative")
	ErrEventFull            = apperror.New(apperror.KindConflict, "event is full")
	ErrGoalNotFound         = apperror.New(apperror.KindNotFound, "no active goal with that title")
	ErrGroupGoalNotFound    = apperror.New(apperror.KindNotFound, "group goal not found")
	ErrGoalTargetNotReached = apperror.New(apperror.KindValidation, "the group has not reached this goal yet")
	ErrSelfTransfer         = apperror.New(apperror.KindValidation, "choose another member to become admin")
	ErrInvalidToken         = apperror.New(apperror.KindPermission, "invalid or expired token")
)
