package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/yatube/internal/app/store/sqlstore"
	"github.com/dalemusser/yatube/internal/app/system/auth"
	"github.com/dalemusser/yatube/internal/testutil"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func validAppConfig() AppConfig {
	return AppConfig{
		StoreBackend:  "sqlite",
		SQLitePath:    sqlstore.MemoryPath,
		SessionKey:    "a-real-session-key-of-sufficient-length",
		SessionMaxAge: time.Hour,
		PostsPerPage:  10,
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		modify  func(*AppConfig)
		wantErr string
	}{
		{"valid", "dev", func(*AppConfig) {}, ""},
		{"unknown backend", "dev", func(c *AppConfig) { c.StoreBackend = "cassandra" }, "unknown store backend"},
		{"postgres without dsn", "dev", func(c *AppConfig) { c.StoreBackend = "postgres" }, "postgres_dsn"},
		{"dev key in dev", "dev", func(c *AppConfig) { c.SessionKey = devSessionKey }, ""},
		{"dev key in prod", "prod", func(c *AppConfig) { c.SessionKey = devSessionKey }, "session_key"},
		{"short csrf key", "dev", func(c *AppConfig) { c.CSRFKey = "short" }, "csrf_key"},
		{"zero page size", "dev", func(c *AppConfig) { c.PostsPerPage = 0 }, "posts_per_page"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validAppConfig()
			tt.modify(&cfg)
			err := ValidateConfig(&config.CoreConfig{Env: tt.env}, cfg, testLogger())

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestStoreOptions(t *testing.T) {
	cfg := validAppConfig()
	cfg.MongoURI = "mongodb://db:27017"
	cfg.MongoDatabase = "yatube"
	cfg.MongoMaxPoolSize = 50
	cfg.PostgresDSN = "postgres://localhost/yatube"

	o := storeOptions(cfg)
	if o.Backend != "sqlite" || o.SQLitePath != sqlstore.MemoryPath {
		t.Errorf("sqlite settings not carried: %+v", o)
	}
	if o.MongoURI != cfg.MongoURI || o.MongoDatabase != "yatube" || o.MongoMaxPoolSize != 50 {
		t.Errorf("mongo settings not carried: %+v", o)
	}
	if o.PostgresDSN != cfg.PostgresDSN {
		t.Errorf("postgres dsn not carried: %+v", o)
	}
}

func TestConnectDB_SQLite(t *testing.T) {
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps, err := ConnectDB(ctx, &config.CoreConfig{Env: "dev"}, validAppConfig(), testLogger())
	if err != nil {
		t.Fatalf("ConnectDB: %v", err)
	}
	if err := EnsureSchema(ctx, nil, validAppConfig(), deps, testLogger()); err != nil {
		t.Errorf("EnsureSchema: %v", err)
	}
	if err := Shutdown(ctx, nil, validAppConfig(), deps, testLogger()); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	deps := DBDeps{Store: testutil.SetupSQLStore(t)}

	sm, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", time.Hour, false, testLogger())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}

	r := chi.NewRouter()
	mountRoutes(r, deps, validAppConfig(), sm, testLogger())
	return r
}

func TestMountRoutes_Health(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("GET /health: status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"backend":"sqlite"`) {
		t.Errorf("GET /health: body %s", rec.Body.String())
	}
}

func TestMountRoutes_SignInRequired(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		method string
		path   string
	}{
		{"GET", "/create"},
		{"POST", "/create"},
		{"GET", "/posts/1/edit"},
		{"POST", "/posts/1/edit"},
		{"GET", "/logout"},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

		if rec.Code != http.StatusSeeOther {
			t.Errorf("%s %s: status %d, want 303", tt.method, tt.path, rec.Code)
			continue
		}
		if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/login?next=") {
			t.Errorf("%s %s: Location %q", tt.method, tt.path, loc)
		}
	}
}
