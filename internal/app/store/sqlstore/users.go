// internal/app/store/sqlstore/users.go
package sqlstore

import (
	"context"

	"github.com/dalemusser/yatube/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"gorm.io/gorm"
)

type UserStore struct {
	db *gorm.DB
}

func (s *UserStore) Create(ctx context.Context, u models.User) (models.User, error) {
	row := userRow{
		Username:     u.Username,
		UsernameCI:   text.Fold(u.Username),
		FullName:     u.FullName,
		PasswordHash: u.PasswordHash,
		CreatedAt:    now(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return models.User{}, mapErr(err)
	}
	return row.toModel(), nil
}

func (s *UserStore) GetByID(ctx context.Context, id int64) (models.User, error) {
	var row userRow
	if err := s.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return models.User{}, mapErr(err)
	}
	return row.toModel(), nil
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (models.User, error) {
	return s.first(ctx, "username = ?", username)
}

func (s *UserStore) GetByUsernameCI(ctx context.Context, usernameCI string) (models.User, error) {
	return s.first(ctx, "username_ci = ?", usernameCI)
}

func (s *UserStore) Delete(ctx context.Context, id int64) (int64, error) {
	var deleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("author_id = ?", id).Delete(&postRow{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&userRow{}, id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return nil
	})
	return deleted, err
}

func (s *UserStore) first(ctx context.Context, where string, arg any) (models.User, error) {
	var row userRow
	if err := s.db.WithContext(ctx).Where(where, arg).First(&row).Error; err != nil {
		return models.User{}, mapErr(err)
	}
	return row.toModel(), nil
}
