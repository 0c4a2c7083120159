// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig handles
// framework-level settings (ports, TLS, logging, CORS); AppConfig is
// everything specific to this application.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Maximum session cookie lifetime

	// CSRF protection configuration
	CSRFKey string // Secret key for CSRF token signing (32 bytes, must be strong in production)

	// Media storage configuration
	StorageType      string // Storage backend: "local" or "s3"
	StorageLocalPath string // Local storage path (e.g., "./media")
	StorageLocalURL  string // URL prefix for serving local files (e.g., "/media")

	// S3 configuration (only used if StorageType is "s3")
	StorageS3Region    string
	StorageS3Bucket    string
	StorageS3Prefix    string
	StorageS3PublicURL string // CDN or bucket website URL; blank uses the standard S3 URL

	// Outbound webhook endpoints. Each feature that uses one degrades
	// gracefully when its URL is blank: import returns 503, podcast
	// notifications are skipped, chat answers 503.
	ExtractWebhookURL string // PDF text extraction
	PodcastWebhookURL string // podcast transcription kickoff
	ChatWebhookURL    string // site assistant

	// Admin seeding configuration
	SeedAdminEmail    string // Email of the admin user to create on startup (if set)
	SeedAdminName     string // Name of the admin user to create on startup
	SeedAdminPassword string // Initial password for the seeded admin
}
