// internal/app/store/sqlstore/groups.go
package sqlstore

import (
	"context"

	"github.com/dalemusser/yatube/internal/domain/models"
	"gorm.io/gorm"
)

type GroupStore struct {
	db *gorm.DB
}

func (s *GroupStore) Create(ctx context.Context, g models.Group) (models.Group, error) {
	row := groupRow{
		Title:       g.Title,
		Slug:        g.Slug,
		Description: g.Description,
		CreatedAt:   now(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return models.Group{}, mapErr(err)
	}
	return row.toModel(), nil
}

func (s *GroupStore) GetByID(ctx context.Context, id int64) (models.Group, error) {
	var row groupRow
	if err := s.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return models.Group{}, mapErr(err)
	}
	return row.toModel(), nil
}

func (s *GroupStore) GetBySlug(ctx context.Context, slug string) (models.Group, error) {
	var row groupRow
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&row).Error; err != nil {
		return models.Group{}, mapErr(err)
	}
	return row.toModel(), nil
}

func (s *GroupStore) List(ctx context.Context) ([]models.Group, error) {
	var rows []groupRow
	if err := s.db.WithContext(ctx).Order("title ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.Group, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out, nil
}

func (s *GroupStore) Delete(ctx context.Context, id int64) (int64, error) {
	var deleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&postRow{}).Where("group_id = ?", id).Update("group_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&groupRow{}, id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return nil
	})
	return deleted, err
}
