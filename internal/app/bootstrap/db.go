// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/yatube/internal/app/store/backends"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// ConnectDB opens the configured store backend.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	b, err := backends.Open(ctx, storeOptions(appCfg), logger)
	if err != nil {
		logger.Error("store connect failed",
			zap.String("store_backend", appCfg.StoreBackend), zap.Error(err))
		return DBDeps{}, err
	}
	logger.Info("store connected", zap.String("store_backend", b.Name()))
	return DBDeps{Store: b}, nil
}

// EnsureSchema sets up indexes or schema as needed.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := backends.EnsureSchema(ctx, deps.Store); err != nil {
		logger.Error("ensure schema failed", zap.String("store_backend", deps.Store.Name()), zap.Error(err))
		return err
	}
	return nil
}
