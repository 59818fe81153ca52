// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/yatube/internal/app/store/backends"
	"github.com/dalemusser/yatube/internal/app/system/paging"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// devSessionKey is the shipped default; production refuses to start with it.
const devSessionKey = "dev-only-change-me-please-0123456789ABCDEF"

// appConfigKeys defines the configuration keys for yatube.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: YATUBE_MONGO_URI, YATUBE_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "store_backend", Default: backends.Mongo, Desc: "Data store: 'mongo', 'postgres' or 'sqlite'"},

	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "yatube", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},

	{Name: "postgres_dsn", Default: "", Desc: "Postgres connection string (postgres backend)"},
	{Name: "sqlite_path", Default: "yatube.db", Desc: "SQLite database file (sqlite backend)"},

	{Name: "session_key", Default: devSessionKey, Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "yatube-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "336h", Desc: "Session cookie lifetime (e.g., 24h, 336h)"},

	{Name: "csrf_key", Default: "", Desc: "32-byte CSRF key (blank generates one per process)"},

	{Name: "posts_per_page", Default: paging.PostsPerPage, Desc: "Posts per listing page"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, YATUBE_* for app) and flags,
// merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "YATUBE", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		StoreBackend: backends.Normalize(appValues.String("store_backend")),

		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),

		PostgresDSN: appValues.String("postgres_dsn"),
		SQLitePath:  appValues.String("sqlite_path"),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 14*24*time.Hour),

		CSRFKey: appValues.String("csrf_key"),

		PostsPerPage: appValues.Int("posts_per_page"),
	}

	return coreCfg, appCfg, nil
}

// storeOptions maps the app config onto backend connection settings.
func storeOptions(appCfg AppConfig) backends.Options {
	return backends.Options{
		Backend:          appCfg.StoreBackend,
		MongoURI:         appCfg.MongoURI,
		MongoDatabase:    appCfg.MongoDatabase,
		MongoMaxPoolSize: appCfg.MongoMaxPoolSize,
		PostgresDSN:      appCfg.PostgresDSN,
		SQLitePath:       appCfg.SQLitePath,
	}
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// The selected store's settings are checked here so a typo fails before
// any connection attempt.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := storeOptions(appCfg).Validate(); err != nil {
		logger.Error("invalid store configuration",
			zap.String("store_backend", appCfg.StoreBackend), zap.Error(err))
		return err
	}

	if coreCfg != nil && coreCfg.Env == "prod" && appCfg.SessionKey == devSessionKey {
		return fmt.Errorf("session_key must be changed from the development default in production")
	}

	if appCfg.CSRFKey != "" && len(appCfg.CSRFKey) != 32 {
		return fmt.Errorf("csrf_key must be exactly 32 bytes, got %d", len(appCfg.CSRFKey))
	}

	if appCfg.PostsPerPage < 1 {
		return fmt.Errorf("posts_per_page must be at least 1, got %d", appCfg.PostsPerPage)
	}

	return nil
}
