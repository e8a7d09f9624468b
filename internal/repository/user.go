package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fitcircle/fitcircle/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrUserNotFound = errors.New("user not found")
)

type UserRepository interface {
	Upsert(ctx context.Context, user *model.User) error
	ByID(ctx context.Context, id string) (*model.User, error)
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

// Upsert stores the public profile supplied by the identity provider.
func (r *userRepository) Upsert(ctx context.Context, user *model.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO users (id, display_name, image_url, created_at)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (id) DO UPDATE SET display_name = excluded.display_name, image_url = excluded.image_url`

	_, err := r.db.ExecContext(ctx, query, user.ID, user.DisplayName, user.ImageURL, user.CreatedAt.UTC())
	return err
}

func (r *userRepository) ByID(ctx context.Context, id string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT id, display_name, image_url, created_at FROM users WHERE id = $1`

	err := r.db.GetContext(ctx, user, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}
