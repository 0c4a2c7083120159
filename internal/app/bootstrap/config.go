// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// EnvVarPrefix is the prefix for environment variables.
const EnvVarPrefix = "IMMERSIVE"

// appConfigKeys defines the configuration keys for this application.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: IMMERSIVE_MONGO_URI, IMMERSIVE_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "immersive", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "immersive-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session cookie max age (e.g., 24h, 720h, 30m)"},

	{Name: "csrf_key", Default: "dev-only-csrf-key-please-change-0123456789", Desc: "CSRF token signing key (32+ chars in production)"},

	// Media storage configuration
	{Name: "storage_type", Default: "local", Desc: "Storage backend: 'local' or 's3'"},
	{Name: "storage_local_path", Default: "./media", Desc: "Local storage path for uploaded media"},
	{Name: "storage_local_url", Default: "/media", Desc: "URL prefix for serving local media"},
	{Name: "storage_s3_region", Default: "", Desc: "AWS region for S3"},
	{Name: "storage_s3_bucket", Default: "", Desc: "S3 bucket name"},
	{Name: "storage_s3_prefix", Default: "", Desc: "S3 key prefix"},
	{Name: "storage_s3_public_url", Default: "", Desc: "Public URL prefix for S3 objects (CDN); blank uses the S3 URL"},

	// Outbound webhooks (blank disables the integration)
	{Name: "extract_webhook_url", Default: "", Desc: "PDF extraction webhook URL"},
	{Name: "podcast_webhook_url", Default: "", Desc: "Podcast transcription webhook URL"},
	{Name: "chat_webhook_url", Default: "", Desc: "Chat assistant webhook URL"},

	// Admin seeding configuration
	{Name: "seed_admin_email", Default: "", Desc: "Email of admin user to create on startup"},
	{Name: "seed_admin_name", Default: "Admin", Desc: "Name of admin user to create on startup"},
	{Name: "seed_admin_password", Default: "", Desc: "Initial password for the seeded admin user"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, IMMERSIVE_* for app), and
// command-line flags, merged with precedence flags > env > files >
// defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvVarPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 24*time.Hour),

		CSRFKey: appValues.String("csrf_key"),

		StorageType:        appValues.String("storage_type"),
		StorageLocalPath:   appValues.String("storage_local_path"),
		StorageLocalURL:    appValues.String("storage_local_url"),
		StorageS3Region:    appValues.String("storage_s3_region"),
		StorageS3Bucket:    appValues.String("storage_s3_bucket"),
		StorageS3Prefix:    appValues.String("storage_s3_prefix"),
		StorageS3PublicURL: appValues.String("storage_s3_public_url"),

		ExtractWebhookURL: appValues.String("extract_webhook_url"),
		PodcastWebhookURL: appValues.String("podcast_webhook_url"),
		ChatWebhookURL:    appValues.String("chat_webhook_url"),

		SeedAdminEmail:    appValues.String("seed_admin_email"),
		SeedAdminName:     appValues.String("seed_admin_name"),
		SeedAdminPassword: appValues.String("seed_admin_password"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation. Returning an
// error aborts startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.StorageType == "s3" && appCfg.StorageS3Bucket == "" {
		return fmt.Errorf("storage_s3_bucket is required when storage_type is s3")
	}

	if appCfg.SeedAdminEmail != "" && appCfg.SeedAdminPassword == "" {
		return fmt.Errorf("seed_admin_password is required when seed_admin_email is set")
	}

	return nil
}
