// internal/app/store/pgstore/users.go
package pgstore

import (
	"context"

	"github.com/dalemusser/yatube/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserStore struct {
	pool *pgxpool.Pool
}

const userColumns = `id, username, username_ci, full_name, password_hash, created_at`

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.UsernameCI, &u.FullName, &u.PasswordHash, &u.CreatedAt)
	u.CreatedAt = u.CreatedAt.UTC()
	return u, err
}

func (s *UserStore) Create(ctx context.Context, u models.User) (models.User, error) {
	u.UsernameCI = text.Fold(u.Username)
	u.CreatedAt = now()
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (username, username_ci, full_name, password_hash, created_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		u.Username, u.UsernameCI, u.FullName, u.PasswordHash, u.CreatedAt,
	).Scan(&u.ID)
	if err != nil {
		return models.User{}, mapErr(err)
	}
	return u, nil
}

func (s *UserStore) GetByID(ctx context.Context, id int64) (models.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	return u, mapErr(err)
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (models.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	return u, mapErr(err)
}

func (s *UserStore) GetByUsernameCI(ctx context.Context, usernameCI string) (models.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username_ci = $1`, usernameCI))
	return u, mapErr(err)
}

// Delete relies on ON DELETE CASCADE for the posts.
func (s *UserStore) Delete(ctx context.Context, id int64) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
