package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fitcircle/fitcircle/internal/apperror"
	"github.com/fitcircle/fitcircle/internal/model"
	"github.com/fitcircle/fitcircle/internal/repository"
	"github.com/fitcircle/fitcircle/internal/validation"
	"github.com/google/uuid"
)

type GroupService struct {
	groupRepository      repository.GroupRepository
	membershipRepository repository.MembershipRepository
	membershipService    *MembershipService
	now                  func() time.Time
}

func NewGroupService(
	groupRepository repository.GroupRepository,
	membershipRepository repository.MembershipRepository,
	membershipService *MembershipService,
) *GroupService {
	return &GroupService{
		groupRepository:      groupRepository,
		membershipRepository: membershipRepository,
		membershipService:    membershipService,
		now:                  time.Now,
	}
}

// Create makes a new group with the creator as its first admin.
func (s *GroupService) Create(ctx context.Context, creatorID, name, description, category string) (*model.Group, error) {
	const op = "group.Create"

	if err := validation.ValidateName(name); err != nil {
		return nil, apperror.Validation(op, err.Error())
	}
	if err := validation.ValidateDescription(description); err != nil {
		return nil, apperror.Validation(op, err.Error())
	}

	now := s.now()
	group := &model.Group{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Category:    model.NormalizeCategory(category),
		CreatedAt:   now,
	}

	if err := s.groupRepository.Create(ctx, group); err != nil {
		return nil, apperror.Storage(op, err)
	}

	err := s.membershipRepository.Create(ctx, &model.Membership{
		GroupID:  group.ID,
		UserID:   creatorID,
		JoinedAt: now,
		IsAdmin:  true,
	})
	if err != nil {
		// Rollback: a group without an admin must not exist
		delErr := s.groupRepository.Delete(ctx, group.ID)
		if delErr != nil {
			slog.Error("failed to delete group during rollback", "error", delErr, "group_id", group.ID)
		}
		return nil, apperror.Storage(op, err)
	}

	group.MemberCount = 1
	slog.Info("group created", "group_id", group.ID, "user_id", creatorID, "category", group.Category)
	return group, nil
}

func (s *GroupService) ByID(ctx context.Context, groupID string) (*model.Group, error) {
	return s.membershipService.Group(ctx, "group.ByID", groupID)
}

func (s *GroupService) List(ctx context.Context, filter repository.GroupFilter) ([]*model.Group, error) {
	groups, err := s.groupRepository.List(ctx, filter)
	if err != nil {
		return nil, apperror.Storage("group.List", err)
	}
	return groups, nil
}

func (s *GroupService) ForUser(ctx context.Context, userID string) ([]*model.JoinedGroup, error) {
	groups, err := s.groupRepository.ForUser(ctx, userID)
	if err != nil {
		return nil, apperror.Storage("group.ForUser", err)
	}
	return groups, nil
}

func (s *GroupService) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.groupRepository.Categories(ctx)
	if err != nil {
		return nil, apperror.Storage("group.Categories", err)
	}
	return categories, nil
}
