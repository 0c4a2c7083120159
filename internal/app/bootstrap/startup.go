// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/resources"
	userstore "github.com/JamesMorphed/immersive-agency-sub000/internal/app/store/user"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/authutil"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/normalize"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/timeouts"
)

// Startup runs once after DB connections and index setup are complete,
// but before the HTTP handler is built and requests are served.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	if overridden := timeouts.ConfigureFromEnv(); overridden > 0 {
		logger.Info("store timeouts overridden from environment", zap.Int("count", overridden))
	}

	if appCfg.SeedAdminEmail != "" {
		if err := seedAdmin(ctx, deps, appCfg, logger); err != nil {
			logger.Error("failed to seed admin user", zap.Error(err))
			return err
		}
	}

	return nil
}

// seedAdmin ensures the configured admin account exists so a fresh
// deployment is immediately usable. An existing account is left alone;
// the seed password only applies on first creation.
func seedAdmin(ctx context.Context, deps DBDeps, appCfg AppConfig, logger *zap.Logger) error {
	hash, err := authutil.HashPassword(appCfg.SeedAdminPassword)
	if err != nil {
		return err
	}

	email := normalize.Email(appCfg.SeedAdminEmail)
	user, created, err := userstore.New(deps.MongoDatabase).EnsureAdmin(ctx, email, appCfg.SeedAdminName, hash)
	if err != nil {
		return err
	}

	if created {
		logger.Info("created admin user",
			zap.String("email", email),
			zap.String("user_id", user.ID.Hex()))
	} else {
		logger.Debug("admin user already exists", zap.String("email", email))
	}
	return nil
}
