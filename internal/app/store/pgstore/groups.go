// internal/app/store/pgstore/groups.go
package pgstore

import (
	"context"

	"github.com/dalemusser/yatube/internal/domain/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GroupStore struct {
	pool *pgxpool.Pool
}

const groupColumns = `id, title, slug, description, created_at`

func scanGroup(row pgx.Row) (models.Group, error) {
	var g models.Group
	err := row.Scan(&g.ID, &g.Title, &g.Slug, &g.Description, &g.CreatedAt)
	g.CreatedAt = g.CreatedAt.UTC()
	return g, err
}

func (s *GroupStore) Create(ctx context.Context, g models.Group) (models.Group, error) {
	g.CreatedAt = now()
	err := s.pool.QueryRow(ctx,
		`INSERT INTO groups (title, slug, description, created_at)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		g.Title, g.Slug, g.Description, g.CreatedAt,
	).Scan(&g.ID)
	if err != nil {
		return models.Group{}, mapErr(err)
	}
	return g, nil
}

func (s *GroupStore) GetByID(ctx context.Context, id int64) (models.Group, error) {
	g, err := scanGroup(s.pool.QueryRow(ctx,
		`SELECT `+groupColumns+` FROM groups WHERE id = $1`, id))
	return g, mapErr(err)
}

func (s *GroupStore) GetBySlug(ctx context.Context, slug string) (models.Group, error) {
	g, err := scanGroup(s.pool.QueryRow(ctx,
		`SELECT `+groupColumns+` FROM groups WHERE slug = $1`, slug))
	return g, mapErr(err)
}

func (s *GroupStore) List(ctx context.Context) ([]models.Group, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+groupColumns+` FROM groups ORDER BY title, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Delete relies on ON DELETE SET NULL for the posts.
func (s *GroupStore) Delete(ctx context.Context, id int64) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
