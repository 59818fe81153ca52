// internal/app/store/mongostore/mongostore.go
package mongostore

import (
	"context"
	"fmt"

	"github.com/dalemusser/yatube/internal/app/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Collection names.
const (
	collPosts    = "posts"
	collGroups   = "groups"
	collUsers    = "users"
	collCounters = "counters"
)

// Store is the MongoDB backend. Relations the relational backends enforce
// with foreign keys (group SET NULL, author CASCADE) are applied here by
// the Delete methods.
//
// Post writes check that the author and group exist and then write, with
// no transaction (a standalone server has none). A group deleted between
// the two steps leaves the post holding a dangling group_id. Reads treat
// that like a null group, since the $lookup finds no document.
type Store struct {
	client *mongo.Client
	db     *mongo.Database

	posts  *PostStore
	groups *GroupStore
	users  *UserStore
}

// Connect dials MongoDB, verifies the connection and returns a Store bound
// to dbName.
func Connect(ctx context.Context, uri, dbName string, maxPool uint64, logger *zap.Logger) (*Store, error) {
	opts := options.Client().ApplyURI(uri)
	if maxPool > 0 {
		opts.SetMaxPoolSize(maxPool)
	}
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	logger.Info("connected to MongoDB", zap.String("database", dbName))
	return New(client.Database(dbName)), nil
}

// New wraps an already connected database.
func New(db *mongo.Database) *Store {
	return &Store{
		client: db.Client(),
		db:     db,
		posts:  &PostStore{db: db, c: db.Collection(collPosts)},
		groups: &GroupStore{db: db, c: db.Collection(collGroups)},
		users:  &UserStore{db: db, c: db.Collection(collUsers)},
	}
}

func (s *Store) Posts() store.Posts   { return s.posts }
func (s *Store) Groups() store.Groups { return s.groups }
func (s *Store) Users() store.Users   { return s.users }
func (s *Store) Name() string         { return "mongo" }

// Database exposes the underlying database (tests, schema setup).
func (s *Store) Database() *mongo.Database { return s.db }

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// nextID atomically increments and returns the sequence named name.
// Sequences live in the counters collection, one document per entity.
func nextID(ctx context.Context, db *mongo.Database, name string) (int64, error) {
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)
	err := db.Collection(collCounters).FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("next %s id: %w", name, err)
	}
	return doc.Seq, nil
}

// exists reports whether a document with the given _id is in coll.
func exists(ctx context.Context, db *mongo.Database, coll string, id int64) (bool, error) {
	n, err := db.Collection(coll).CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func mapErr(err error) error {
	if err == mongo.ErrNoDocuments {
		return store.ErrNotFound
	}
	return err
}
