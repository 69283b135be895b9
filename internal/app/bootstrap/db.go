// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/learnloop/learnloop/internal/app/store/persist"
	"github.com/learnloop/learnloop/internal/app/store/repo"
	"github.com/learnloop/learnloop/internal/app/system/auth"
	"github.com/learnloop/learnloop/internal/app/system/reconcile"
)

// ConnectDB opens the configured storage backend and builds the
// repository, session manager, and reconcile worker on top of it.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	var deps DBDeps

	switch appCfg.StorageBackend {
	case "file":
		store, err := persist.NewFileStore(appCfg.DataDir)
		if err != nil {
			return deps, fmt.Errorf("opening file store at %s: %w", appCfg.DataDir, err)
		}
		deps.Store = store
		logger.Info("using file storage backend", zap.String("data_dir", appCfg.DataDir))

	case "mongo":
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(appCfg.MongoURI))
		if err != nil {
			return deps, fmt.Errorf("connecting to MongoDB: %w", err)
		}
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			_ = client.Disconnect(ctx)
			return deps, fmt.Errorf("pinging MongoDB: %w", err)
		}
		deps.MongoClient = client
		deps.MongoDatabase = client.Database(appCfg.MongoDatabase)
		deps.Store = persist.NewMongoStore(deps.MongoDatabase)
		logger.Info("using mongo storage backend", zap.String("database", appCfg.MongoDatabase))

	default:
		return deps, fmt.Errorf("unknown storage backend %q", appCfg.StorageBackend)
	}

	store, err := repo.Load(ctx, deps.Store, logger)
	if err != nil {
		return deps, fmt.Errorf("loading repository: %w", err)
	}
	deps.Repo = store
	deps.Auth = auth.NewManager(store, logger)
	deps.Reconciler = reconcile.NewReconciler(deps.Store, logger, appCfg.SyncInterval)

	return deps, nil
}

// EnsureSchema sets up indexes or schema as needed. Partitions are
// replaced wholesale on write, so neither backend needs indexes.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	return nil
}
