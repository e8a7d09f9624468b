package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fitcircle/fitcircle/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrGroupNotFound = errors.New("group not found")
)

// GroupFilter narrows the group listing. Empty fields match everything.
type GroupFilter struct {
	Category string
	Search   string
}

type GroupRepository interface {
	Create(ctx context.Context, group *model.Group) error
	ByID(ctx context.Context, groupID string) (*model.Group, error)
	Delete(ctx context.Context, groupID string) error
	List(ctx context.Context, filter GroupFilter) ([]*model.Group, error)
	ForUser(ctx context.Context, userID string) ([]*model.JoinedGroup, error)
	Categories(ctx context.Context) ([]string, error)
}

type groupRepository struct {
	db *sqlx.DB
}

func NewGroupRepository(db *sqlx.DB) GroupRepository {
	return &groupRepository{db: db}
}

const groupColumns = `g.id, g.name, g.description, g.category, g.created_at,
	(SELECT COUNT(*) FROM memberships m WHERE m.group_id = g.id) AS member_count`

func (r *groupRepository) Create(ctx context.Context, group *model.Group) error {
	query := `INSERT INTO groups (id, name, description, category, created_at)
	          VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query,
		group.ID,
		group.Name,
		group.Description,
		group.Category,
		group.CreatedAt.UTC(),
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}

	return err
}

func (r *groupRepository) ByID(ctx context.Context, groupID string) (*model.Group, error) {
	group := &model.Group{}
	query := `SELECT ` + groupColumns + ` FROM groups g WHERE g.id = $1`

	err := r.db.GetContext(ctx, group, query, groupID)
	if err == sql.ErrNoRows {
		return nil, ErrGroupNotFound
	}
	if err != nil {
		return nil, err
	}

	return group, nil
}

func (r *groupRepository) Delete(ctx context.Context, groupID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, groupID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGroupNotFound
	}

	return nil
}

func (r *groupRepository) List(ctx context.Context, filter GroupFilter) ([]*model.Group, error) {
	var (
		conditions []string
		args       []any
	)

	// Placeholders are numbered as conditions are added; values never enter the SQL text
	if filter.Category != "" {
		args = append(args, model.NormalizeCategory(filter.Category))
		conditions = append(conditions, fmt.Sprintf("g.category = $%d", len(args)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, likePattern(search))
		n := len(args)
		conditions = append(conditions,
			fmt.Sprintf(`(LOWER(g.name) LIKE $%d ESCAPE '\' OR LOWER(g.description) LIKE $%d ESCAPE '\')`, n, n))
	}

	query := `SELECT ` + groupColumns + ` FROM groups g`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY LOWER(g.name) ASC, g.created_at ASC`

	groups := []*model.Group{}
	if err := r.db.SelectContext(ctx, &groups, query, args...); err != nil {
		return nil, err
	}

	return groups, nil
}

// ForUser returns the groups a user belongs to, most recently joined first.
func (r *groupRepository) ForUser(ctx context.Context, userID string) ([]*model.JoinedGroup, error) {
	groups := []*model.JoinedGroup{}
	query := `SELECT ` + groupColumns + `, mm.joined_at, mm.is_admin
	          FROM groups g
	          JOIN memberships mm ON mm.group_id = g.id
	          WHERE mm.user_id = $1
	          ORDER BY mm.joined_at DESC`

	if err := r.db.SelectContext(ctx, &groups, query, userID); err != nil {
		return nil, err
	}

	return groups, nil
}

func (r *groupRepository) Categories(ctx context.Context) ([]string, error) {
	categories := []string{}
	query := `SELECT DISTINCT category FROM groups ORDER BY category ASC`

	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, err
	}

	return categories, nil
}
