// internal/app/store/mongostore/posts.go
package mongostore

import (
	"context"
	"time"

	"github.com/dalemusser/yatube/internal/app/store"
	"github.com/dalemusser/yatube/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type PostStore struct {
	db *mongo.Database
	c  *mongo.Collection
}

// postRow is a post joined with its author and group by $lookup.
type postRow struct {
	models.Post `bson:",inline"`
	Authors     []models.User  `bson:"author_docs"`
	Groups      []models.Group `bson:"group_docs"`
}

func (row postRow) toPost() models.Post {
	p := row.Post
	if len(row.Authors) > 0 {
		a := row.Authors[0]
		p.Author = &a
	}
	if len(row.Groups) > 0 {
		g := row.Groups[0]
		p.Group = &g
	}
	return p
}

// newestFirst is the listing order for every post query.
var newestFirst = bson.D{
	{Key: "pub_date", Value: -1},
	{Key: "_id", Value: -1},
}

func (s *PostStore) Create(ctx context.Context, p models.Post) (models.Post, error) {
	if err := s.checkRefs(ctx, p.AuthorID, p.GroupID); err != nil {
		return models.Post{}, err
	}
	id, err := nextID(ctx, s.db, collPosts)
	if err != nil {
		return models.Post{}, err
	}
	p.ID = id
	p.PubDate = time.Now().UTC().Truncate(time.Millisecond)
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Post{}, err
	}
	return p, nil
}

func (s *PostStore) GetByID(ctx context.Context, id int64) (models.Post, error) {
	rows, err := s.aggregate(ctx, bson.M{"_id": id}, 0, 1)
	if err != nil {
		return models.Post{}, err
	}
	if len(rows) == 0 {
		return models.Post{}, store.ErrNotFound
	}
	return rows[0], nil
}

func (s *PostStore) Update(ctx context.Context, id int64, text string, groupID *int64) error {
	if groupID != nil {
		ok, err := exists(ctx, s.db, collGroups, *groupID)
		if err != nil {
			return err
		}
		if !ok {
			return store.ErrInvalidReference
		}
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"text":     text,
		"group_id": groupID,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *PostStore) Count(ctx context.Context, f store.PostFilter) (int64, error) {
	return s.c.CountDocuments(ctx, filterDoc(f))
}

func (s *PostStore) List(ctx context.Context, f store.PostFilter, offset, limit int) ([]models.Post, error) {
	return s.aggregate(ctx, filterDoc(f), offset, limit)
}

// aggregate runs match → sort → skip → limit → lookups. The lookups run
// after the window is cut so only one page of posts is joined.
func (s *PostStore) aggregate(ctx context.Context, match bson.M, offset, limit int) ([]models.Post, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: newestFirst}},
	}
	if offset > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$skip", Value: int64(offset)}})
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: int64(limit)}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         collUsers,
			"localField":   "author_id",
			"foreignField": "_id",
			"as":           "author_docs",
		}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         collGroups,
			"localField":   "group_id",
			"foreignField": "_id",
			"as":           "group_docs",
		}}},
	)

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []postRow
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make([]models.Post, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toPost())
	}
	return out, nil
}

func (s *PostStore) checkRefs(ctx context.Context, authorID int64, groupID *int64) error {
	ok, err := exists(ctx, s.db, collUsers, authorID)
	if err != nil {
		return err
	}
	if !ok {
		return store.ErrInvalidReference
	}
	if groupID != nil {
		ok, err := exists(ctx, s.db, collGroups, *groupID)
		if err != nil {
			return err
		}
		if !ok {
			return store.ErrInvalidReference
		}
	}
	return nil
}

func filterDoc(f store.PostFilter) bson.M {
	m := bson.M{}
	if f.GroupID != nil {
		m["group_id"] = *f.GroupID
	}
	if f.AuthorID != nil {
		m["author_id"] = *f.AuthorID
	}
	return m
}
