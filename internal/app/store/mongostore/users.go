// internal/app/store/mongostore/users.go
package mongostore

import (
	"context"
	"time"

	"github.com/dalemusser/yatube/internal/app/store"
	"github.com/dalemusser/yatube/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserStore struct {
	db *mongo.Database
	c  *mongo.Collection
}

func (s *UserStore) Create(ctx context.Context, u models.User) (models.User, error) {
	id, err := nextID(ctx, s.db, collUsers)
	if err != nil {
		return models.User{}, err
	}
	u.ID = id
	u.UsernameCI = text.Fold(u.Username)
	u.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, store.ErrDuplicate
		}
		return models.User{}, err
	}
	return u, nil
}

func (s *UserStore) GetByID(ctx context.Context, id int64) (models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (models.User, error) {
	return s.findOne(ctx, bson.M{"username": username})
}

func (s *UserStore) GetByUsernameCI(ctx context.Context, usernameCI string) (models.User, error) {
	return s.findOne(ctx, bson.M{"username_ci": usernameCI})
}

// Delete removes the user's posts, then the user.
func (s *UserStore) Delete(ctx context.Context, id int64) (int64, error) {
	if _, err := s.db.Collection(collPosts).DeleteMany(ctx, bson.M{"author_id": id}); err != nil {
		return 0, err
	}
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *UserStore) findOne(ctx context.Context, filter bson.M) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, filter).Decode(&u); err != nil {
		return models.User{}, mapErr(err)
	}
	return u, nil
}
