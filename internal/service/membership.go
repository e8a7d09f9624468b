package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fitcircle/fitcircle/internal/apperror"
	"github.com/fitcircle/fitcircle/internal/model"
	"github.com/fitcircle/fitcircle/internal/repository"
)

type MembershipService struct {
	groupRepository      repository.GroupRepository
	membershipRepository repository.MembershipRepository
	now                  func() time.Time
}

func NewMembershipService(
	groupRepository repository.GroupRepository,
	membershipRepository repository.MembershipRepository,
) *MembershipService {
	return &MembershipService{
		groupRepository:      groupRepository,
		membershipRepository: membershipRepository,
		now:                  time.Now,
	}
}

// Join adds the user to the group as a regular member.
func (s *MembershipService) Join(ctx context.Context, userID, groupID string) (JoinOutcome, error) {
	const op = "membership.Join"

	if _, err := s.Group(ctx, op, groupID); err != nil {
		return "", err
	}

	_, err := s.membershipRepository.Get(ctx, groupID, userID)
	if err == nil {
		return AlreadyMember, nil
	}
	if !errors.Is(err, repository.ErrMembershipNotFound) {
		return "", apperror.Storage(op, err)
	}

	err = s.membershipRepository.Create(ctx, &model.Membership{
		GroupID:  groupID,
		UserID:   userID,
		JoinedAt: s.now(),
		IsAdmin:  false,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		// A concurrent join won the race
		return AlreadyMember, nil
	}
	if err != nil {
		return "", apperror.Storage(op, err)
	}

	slog.Info("user joined group", "user_id", userID, "group_id", groupID)
	return Joined, nil
}

// Leave removes a regular member. Admins must hand over their rights first.
func (s *MembershipService) Leave(ctx context.Context, userID, groupID string) (LeaveOutcome, error) {
	const op = "membership.Leave"

	membership, err := s.membershipRepository.Get(ctx, groupID, userID)
	if errors.Is(err, repository.ErrMembershipNotFound) {
		return "", ErrNotMember.At(op)
	}
	if err != nil {
		return "", apperror.Storage(op, err)
	}

	if membership.IsAdmin {
		return "", ErrAdminMustTransfer.At(op)
	}

	err = s.membershipRepository.DeleteMember(ctx, groupID, userID)
	if errors.Is(err, repository.ErrMembershipNotFound) {
		// Changed since the read: either already gone or promoted meanwhile
		current, getErr := s.membershipRepository.Get(ctx, groupID, userID)
		switch {
		case errors.Is(getErr, repository.ErrMembershipNotFound):
			return "", ErrNotMember.At(op)
		case getErr != nil:
			return "", apperror.Storage(op, getErr)
		case current.IsAdmin:
			return "", ErrAdminMustTransfer.At(op)
		}
		return "", apperror.Storage(op, err)
	}
	if err != nil {
		return "", apperror.Storage(op, err)
	}

	slog.Info("user left group", "user_id", userID, "group_id", groupID)
	return Left, nil
}

func (s *MembershipService) IsAdmin(ctx context.Context, userID, groupID string) (bool, error) {
	membership, err := s.membershipRepository.Get(ctx, groupID, userID)
	if errors.Is(err, repository.ErrMembershipNotFound) {
		return false, nil
	}
	if err != nil {
		return false, apperror.Storage("membership.IsAdmin", err)
	}
	return membership.IsAdmin, nil
}

func (s *MembershipService) IsMember(ctx context.Context, userID, groupID string) (bool, error) {
	_, err := s.membershipRepository.Get(ctx, groupID, userID)
	if errors.Is(err, repository.ErrMembershipNotFound) {
		return false, nil
	}
	if err != nil {
		return false, apperror.Storage("membership.IsMember", err)
	}
	return true, nil
}

func (s *MembershipService) Members(ctx context.Context, groupID string) ([]*model.Member, error) {
	const op = "membership.Members"

	if _, err := s.Group(ctx, op, groupID); err != nil {
		return nil, err
	}

	members, err := s.membershipRepository.Members(ctx, groupID)
	if err != nil {
		return nil, apperror.Storage(op, err)
	}
	return members, nil
}

// TransferAdmin hands the actor's admin rights to another member. The target
// is promoted before the actor is demoted so the group always keeps an admin.
func (s *MembershipService) TransferAdmin(ctx context.Context, actorID, groupID, newAdminID string) error {
	const op = "membership.TransferAdmin"

	if actorID == newAdminID {
		return ErrSelfTransfer.At(op)
	}
	if err := s.RequireAdmin(ctx, op, actorID, groupID); err != nil {
		return err
	}
	if err := s.promote(ctx, op, groupID, newAdminID); err != nil {
		return err
	}

	if err := s.membershipRepository.SetAdmin(ctx, groupID, actorID, false); err != nil {
		return apperror.Storage(op, err)
	}

	slog.Info("admin transferred", "group_id", groupID, "from_user_id", actorID, "to_user_id", newAdminID)
	return nil
}

// PromoteAdmin grants admin rights to another member without demoting the actor.
func (s *MembershipService) PromoteAdmin(ctx context.Context, actorID, groupID, targetID string) error {
	const op = "membership.PromoteAdmin"

	if err := s.RequireAdmin(ctx, op, actorID, groupID); err != nil {
		return err
	}
	if err := s.promote(ctx, op, groupID, targetID); err != nil {
		return err
	}

	slog.Info("admin promoted", "group_id", groupID, "by_user_id", actorID, "user_id", targetID)
	return nil
}

func (s *MembershipService) promote(ctx context.Context, op, groupID, userID string) error {
	err := s.membershipRepository.SetAdmin(ctx, groupID, userID, true)
	if errors.Is(err, repository.ErrMembershipNotFound) {
		return ErrTargetNotMember.At(op)
	}
	if err != nil {
		return apperror.Storage(op, err)
	}
	return nil
}

// Group resolves a group or fails with ErrGroupNotFound.
func (s *MembershipService) Group(ctx context.Context, op, groupID string) (*model.Group, error) {
	group, err := s.groupRepository.ByID(ctx, groupID)
	if errors.Is(err, repository.ErrGroupNotFound) {
		return nil, ErrGroupNotFound.At(op)
	}
	if err != nil {
		return nil, apperror.Storage(op, err)
	}
	return group, nil
}

// RequireMember fails with a permission error unless the user belongs to the
// group. A missing group is reported as not found.
func (s *MembershipService) RequireMember(ctx context.Context, op, userID, groupID string) error {
	_, err := s.membershipRepository.Get(ctx, groupID, userID)
	if errors.Is(err, repository.ErrMembershipNotFound) {
		if _, groupErr := s.Group(ctx, op, groupID); groupErr != nil {
			return groupErr
		}
		return ErrMembershipRequired.At(op)
	}
	if err != nil {
		return apperror.Storage(op, err)
	}
	return nil
}

func (s *MembershipService) RequireAdmin(ctx context.Context, op, userID, groupID string) error {
	membership, err := s.membershipRepository.Get(ctx, groupID, userID)
	if errors.Is(err, repository.ErrMembershipNotFound) {
		if _, groupErr := s.Group(ctx, op, groupID); groupErr != nil {
			return groupErr
		}
		return ErrAdminRequired.At(op)
	}
	if err != nil {
		return apperror.Storage(op, err)
	}
	if !membership.IsAdmin {
		return ErrAdminRequired.At(op)
	}
	return nil
}
