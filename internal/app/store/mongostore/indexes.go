// internal/app/store/mongostore/indexes.go
package mongostore

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureIndexes is called at startup. CreateMany is idempotent for
identical specs, so reruns are no-ops. Errors are aggregated so every
problem is visible at once.
*/
func (s *Store) EnsureIndexes(ctx context.Context) error {
	var problems []string

	ensure := func(coll string, models []mongo.IndexModel) {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure(collGroups, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetName("uniq_slug").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "title", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_title__id"),
		},
	})

	ensure(collUsers, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetName("uniq_username").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "username_ci", Value: 1}},
			Options: options.Index().SetName("uniq_username_ci").SetUnique(true),
		},
	})

	// Every listing sorts by pub_date desc, _id desc, optionally scoped to
	// one group or one author.
	ensure(collPosts, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "pub_date", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName("idx_pub_date__id"),
		},
		{
			Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "pub_date", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName("idx_group_pub_date"),
		},
		{
			Keys:    bson.D{{Key: "author_id", Value: 1}, {Key: "pub_date", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName("idx_author_pub_date"),
		},
	})

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
