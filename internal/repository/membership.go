package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fitcircle/fitcircle/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrMembershipNotFound = errors.New("membership not found")
)

type MembershipRepository interface {
	Create(ctx context.Context, membership *model.Membership) error
	Get(ctx context.Context, groupID, userID string) (*model.Membership, error)
	// DeleteMember removes a non-admin membership. Admin rows are left untouched
	// and reported as ErrMembershipNotFound.
	DeleteMember(ctx context.Context, groupID, userID string) error
	SetAdmin(ctx context.Context, groupID, userID string, isAdmin bool) error
	Members(ctx context.Context, groupID string) ([]*model.Member, error)
}

type membershipRepository struct {
	db *sqlx.DB
}

func NewMembershipRepository(db *sqlx.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

// Create inserts a membership. A second membership for the same pair fails
// with ErrDuplicate.
func (r *membershipRepository) Create(ctx context.Context, membership *model.Membership) error {
	query := `INSERT INTO memberships (group_id, user_id, joined_at, is_admin)
	          VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query,
		membership.GroupID,
		membership.UserID,
		membership.JoinedAt.UTC(),
		membership.IsAdmin,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}

	return err
}

func (r *membershipRepository) Get(ctx context.Context, groupID, userID string) (*model.Membership, error) {
	membership := &model.Membership{}
	query := `SELECT group_id, user_id, joined_at, is_admin FROM memberships
	          WHERE group_id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, membership, query, groupID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrMembershipNotFound
	}
	if err != nil {
		return nil, err
	}

	return membership, nil
}

func (r *membershipRepository) DeleteMember(ctx context.Context, groupID, userID string) error {
	query := `DELETE FROM memberships WHERE group_id = $1 AND user_id = $2 AND is_admin = $3`
	result, err := r.db.ExecContext(ctx, query, groupID, userID, false)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrMembershipNotFound
	}

	return nil
}

func (r *membershipRepository) SetAdmin(ctx context.Context, groupID, userID string, isAdmin bool) error {
	query := `UPDATE memberships SET is_admin = $1 WHERE group_id = $2 AND user_id = $3`
	result, err := r.db.ExecContext(ctx, query, isAdmin, groupID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrMembershipNotFound
	}

	return nil
}

// Members lists a group's members with their public profile, oldest first.
// Members without a local users row get empty profile fields.
func (r *membershipRepository) Members(ctx context.Context, groupID string) ([]*model.Member, error) {
	members := []*model.Member{}
	query := `SELECT m.group_id, m.user_id, m.joined_at, m.is_admin,
	                 COALESCE(u.display_name, '') AS display_name,
	                 COALESCE(u.image_url, '') AS image_url
	          FROM memberships m
	          LEFT JOIN users u ON u.id = m.user_id
	          WHERE m.group_id = $1
	          ORDER BY m.joined_at ASC, m.user_id ASC`

	if err := r.db.SelectContext(ctx, &members, query, groupID); err != nil {
		return nil, err
	}

	return members, nil
}
