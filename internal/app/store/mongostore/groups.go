// internal/app/store/mongostore/groups.go
package mongostore

import (
	"context"
	"time"

	"github.com/dalemusser/yatube/internal/app/store"
	"github.com/dalemusser/yatube/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type GroupStore struct {
	db *mongo.Database
	c  *mongo.Collection
}

func (s *GroupStore) Create(ctx context.Context, g models.Group) (models.Group, error) {
	id, err := nextID(ctx, s.db, collGroups)
	if err != nil {
		return models.Group{}, err
	}
	g.ID = id
	g.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if _, err := s.c.InsertOne(ctx, g); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Group{}, store.ErrDuplicate
		}
		return models.Group{}, err
	}
	return g, nil
}

func (s *GroupStore) GetByID(ctx context.Context, id int64) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		return models.Group{}, mapErr(err)
	}
	return g, nil
}

func (s *GroupStore) GetBySlug(ctx context.Context, slug string) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"slug": slug}).Decode(&g); err != nil {
		return models.Group{}, mapErr(err)
	}
	return g, nil
}

func (s *GroupStore) List(ctx context.Context) ([]models.Group, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{
		{Key: "title", Value: 1},
		{Key: "_id", Value: 1},
	}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Group
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete clears group_id on the group's posts, then removes the group.
func (s *GroupStore) Delete(ctx context.Context, id int64) (int64, error) {
	if _, err := s.db.Collection(collPosts).UpdateMany(ctx,
		bson.M{"group_id": id},
		bson.M{"$set": bson.M{"group_id": nil}},
	); err != nil {
		return 0, err
	}
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
