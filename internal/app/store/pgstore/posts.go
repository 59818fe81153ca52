// internal/app/store/pgstore/posts.go
package pgstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/yatube/internal/app/store"
	"github.com/dalemusser/yatube/internal/domain/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostStore struct {
	pool *pgxpool.Pool
}

// postSelect joins each post with its author and (optional) group.
const postSelect = `
SELECT p.id, p.text, p.pub_date, p.author_id, p.group_id,
       u.id, u.username, u.username_ci, u.full_name, u.password_hash, u.created_at,
       g.id, g.title, g.slug, g.description, g.created_at
FROM posts p
JOIN users u ON u.id = p.author_id
LEFT JOIN groups g ON g.id = p.group_id`

func scanPost(row pgx.Row) (models.Post, error) {
	var (
		p models.Post
		a models.User

		gID        *int64
		gTitle     *string
		gSlug      *string
		gDesc      *string
		gCreatedAt *time.Time
	)
	err := row.Scan(
		&p.ID, &p.Text, &p.PubDate, &p.AuthorID, &p.GroupID,
		&a.ID, &a.Username, &a.UsernameCI, &a.FullName, &a.PasswordHash, &a.CreatedAt,
		&gID, &gTitle, &gSlug, &gDesc, &gCreatedAt,
	)
	if err != nil {
		return models.Post{}, err
	}
	p.PubDate = p.PubDate.UTC()
	a.CreatedAt = a.CreatedAt.UTC()
	p.Author = &a
	if gID != nil {
		p.Group = &models.Group{
			ID:          *gID,
			Title:       deref(gTitle),
			Slug:        deref(gSlug),
			Description: deref(gDesc),
		}
		if gCreatedAt != nil {
			p.Group.CreatedAt = gCreatedAt.UTC()
		}
	}
	return p, nil
}

func (s *PostStore) Create(ctx context.Context, p models.Post) (models.Post, error) {
	p.PubDate = now()
	err := s.pool.QueryRow(ctx,
		`INSERT INTO posts (text, pub_date, author_id, group_id)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		p.Text, p.PubDate, p.AuthorID, p.GroupID,
	).Scan(&p.ID)
	if err != nil {
		return models.Post{}, mapErr(err)
	}
	return p, nil
}

func (s *PostStore) GetByID(ctx context.Context, id int64) (models.Post, error) {
	p, err := scanPost(s.pool.QueryRow(ctx, postSelect+` WHERE p.id = $1`, id))
	return p, mapErr(err)
}

func (s *PostStore) Update(ctx context.Context, id int64, text string, groupID *int64) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE posts SET text = $1, group_id = $2 WHERE id = $3`,
		text, groupID, id,
	)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *PostStore) Count(ctx context.Context, f store.PostFilter) (int64, error) {
	where, args := whereClause(f)
	var n int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM posts p`+where, args...).Scan(&n)
	return n, err
}

func (s *PostStore) List(ctx context.Context, f store.PostFilter, offset, limit int) ([]models.Post, error) {
	where, args := whereClause(f)
	q := postSelect + where + ` ORDER BY p.pub_date DESC, p.id DESC`
	args = append(args, offset)
	q += fmt.Sprintf(` OFFSET $%d`, len(args))
	if limit > 0 {
		args = append(args, limit)
		q += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func whereClause(f store.PostFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.GroupID != nil {
		args = append(args, *f.GroupID)
		conds = append(conds, fmt.Sprintf("p.group_id = $%d", len(args)))
	}
	if f.AuthorID != nil {
		args = append(args, *f.AuthorID)
		conds = append(conds, fmt.Sprintf("p.author_id = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
