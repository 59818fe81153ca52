// internal/app/store/sqlstore/posts.go
package sqlstore

import (
	"context"

	"github.com/dalemusser/yatube/internal/app/store"
	"github.com/dalemusser/yatube/internal/domain/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostStore struct {
	db *gorm.DB
}

func (s *PostStore) Create(ctx context.Context, p models.Post) (models.Post, error) {
	row := postRow{
		Text:     p.Text,
		PubDate:  now(),
		AuthorID: p.AuthorID,
		GroupID:  p.GroupID,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkRefs(tx, &p.AuthorID, p.GroupID); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Create(&row).Error
	})
	if err != nil {
		return models.Post{}, mapErr(err)
	}
	return row.toModel(), nil
}

func (s *PostStore) GetByID(ctx context.Context, id int64) (models.Post, error) {
	var row postRow
	if err := s.withRelations(ctx).First(&row, id).Error; err != nil {
		return models.Post{}, mapErr(err)
	}
	return row.toModel(), nil
}

func (s *PostStore) Update(ctx context.Context, id int64, text string, groupID *int64) error {
	return mapErr(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkRefs(tx, nil, groupID); err != nil {
			return err
		}
		// Map form so a nil group_id is written as NULL instead of skipped.
		res := tx.Model(&postRow{}).Where("id = ?", id).Updates(map[string]any{
			"text":     text,
			"group_id": groupID,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return store.ErrNotFound
		}
		return nil
	}))
}

func (s *PostStore) Count(ctx context.Context, f store.PostFilter) (int64, error) {
	var n int64
	err := applyFilter(s.db.WithContext(ctx).Model(&postRow{}), f).Count(&n).Error
	return n, err
}

func (s *PostStore) List(ctx context.Context, f store.PostFilter, offset, limit int) ([]models.Post, error) {
	q := applyFilter(s.withRelations(ctx), f).
		Order("pub_date DESC").
		Order("id DESC").
		Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []postRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.Post, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out, nil
}

func (s *PostStore) withRelations(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Preload("Author").Preload("Group")
}

func applyFilter(q *gorm.DB, f store.PostFilter) *gorm.DB {
	if f.GroupID != nil {
		q = q.Where("group_id = ?", *f.GroupID)
	}
	if f.AuthorID != nil {
		q = q.Where("author_id = ?", *f.AuthorID)
	}
	return q
}

// checkRefs verifies the referenced author and group exist.
func checkRefs(tx *gorm.DB, authorID, groupID *int64) error {
	if authorID != nil {
		var n int64
		if err := tx.Model(&userRow{}).Where("id = ?", *authorID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return store.ErrInvalidReference
		}
	}
	if groupID != nil {
		var n int64
		if err := tx.Model(&groupRow{}).Where("id = ?", *groupID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return store.ErrInvalidReference
		}
	}
	return nil
}
