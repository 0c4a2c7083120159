// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"

	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/blobstore"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/indexes"
)

// ConnectDB connects to MongoDB and initializes media storage.
//
// WAFFLE calls this after configuration is loaded but before
// EnsureSchema and Startup.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	poolCfg := wafflemongo.DefaultPoolConfig()
	if appCfg.MongoMaxPoolSize > 0 {
		poolCfg.MaxPoolSize = appCfg.MongoMaxPoolSize
	}
	if appCfg.MongoMinPoolSize > 0 {
		poolCfg.MinPoolSize = appCfg.MongoMinPoolSize
	}

	client, err := wafflemongo.ConnectWithPool(ctx, appCfg.MongoURI, appCfg.MongoDatabase, poolCfg)
	if err != nil {
		return DBDeps{}, err
	}

	db := client.Database(appCfg.MongoDatabase)

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase),
		zap.Uint64("max_pool_size", poolCfg.MaxPoolSize),
		zap.Uint64("min_pool_size", poolCfg.MinPoolSize),
	)

	var store blobstore.Store
	switch appCfg.StorageType {
	case "s3":
		store, err = blobstore.NewS3(ctx, blobstore.S3Config{
			Region:    appCfg.StorageS3Region,
			Bucket:    appCfg.StorageS3Bucket,
			Prefix:    appCfg.StorageS3Prefix,
			PublicURL: appCfg.StorageS3PublicURL,
		})
		if err != nil {
			return DBDeps{}, fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		logger.Info("initialized S3 media storage",
			zap.String("bucket", appCfg.StorageS3Bucket),
			zap.String("prefix", appCfg.StorageS3Prefix),
		)
	case "local", "":
		store, err = blobstore.NewLocal(blobstore.LocalConfig{
			BasePath: appCfg.StorageLocalPath,
			BaseURL:  appCfg.StorageLocalURL,
		})
		if err != nil {
			return DBDeps{}, fmt.Errorf("failed to initialize local storage: %w", err)
		}
		logger.Info("initialized local media storage",
			zap.String("path", appCfg.StorageLocalPath),
			zap.String("url", appCfg.StorageLocalURL),
		)
	default:
		return DBDeps{}, fmt.Errorf("unknown storage type: %s", appCfg.StorageType)
	}

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: db,
		MediaStorage:  store,
	}, nil
}

// EnsureSchema creates database indexes. It runs after ConnectDB
// succeeds but before Startup and before the HTTP handler is built.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	logger.Info("ensuring database indexes")
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("failed to ensure indexes", zap.Error(err))
		return err
	}
	return nil
}
