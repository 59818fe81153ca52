package testutil

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/yatube/internal/app/store/mongostore"
	"github.com/dalemusser/yatube/internal/app/store/pgstore"
	"github.com/dalemusser/yatube/internal/app/store/sqlstore"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Environment variables for external test databases.
const (
	EnvMongoURI    = "YATUBE_TEST_MONGO_URI"
	EnvPostgresDSN = "YATUBE_TEST_POSTGRES_DSN"
)

// TestContext returns a context bounded for one test's store calls.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// SetupTestDB connects to MongoDB and returns a uniquely named database that
// is dropped when the test ends. The test is skipped when no server answers.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv(EnvMongoURI)
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerSelectionTimeout(2*time.Second))
	if err != nil {
		t.Skipf("mongo unavailable: %v", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		t.Skipf("mongo unavailable: %v", err)
	}

	name := "yatube_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	db := client.Database(name)

	t.Cleanup(func() {
		ctx, cancel := TestContext()
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}

// SetupMongoStore wraps SetupTestDB in a mongostore with indexes in place.
func SetupMongoStore(t *testing.T) *mongostore.Store {
	t.Helper()
	s := mongostore.New(SetupTestDB(t))

	ctx, cancel := TestContext()
	defer cancel()
	if err := s.EnsureIndexes(ctx); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	return s
}

// SetupSQLStore opens a private in-memory SQLite store.
func SetupSQLStore(t *testing.T) *sqlstore.Store {
	t.Helper()
	s, err := sqlstore.Open(sqlstore.MemoryPath, zap.NewNop())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

// SetupPGStore connects to the PostgreSQL named by YATUBE_TEST_POSTGRES_DSN
// and empties its tables. The test is skipped when the variable is unset.
func SetupPGStore(t *testing.T) *pgstore.Store {
	t.Helper()
	dsn := os.Getenv(EnvPostgresDSN)
	if dsn == "" {
		t.Skipf("%s not set", EnvPostgresDSN)
	}

	ctx, cancel := TestContext()
	defer cancel()

	s, err := pgstore.Connect(ctx, dsn, zap.NewNop())
	if err != nil {
		t.Skipf("postgres unavailable: %v", err)
	}
	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	if _, err := s.Pool().Exec(ctx, `TRUNCATE posts, groups, users RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}
