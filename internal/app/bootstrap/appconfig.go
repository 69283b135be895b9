// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//   - Database connection timeouts
//
// AppConfig is where everything specific to LearnLoop lives.
type AppConfig struct {
	// Storage backend selection: "file" keeps JSON partitions under
	// DataDir, "mongo" keeps one collection per partition.
	StorageBackend string
	DataDir        string

	// MongoDB connection configuration (used when StorageBackend is "mongo")
	MongoURI      string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase string // Database name within MongoDB

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: learnloop-session)
	SessionDomain string // Cookie domain (blank means current host)

	// First-run admin account. Created only when no admin exists.
	SeedAdminEmail    string
	SeedAdminPassword string

	// Background reconcile interval for the message/response snapshot.
	SyncInterval time.Duration

	// Bulk import limits
	ImportMaxRows int
}
