// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for LearnLoop.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: storage_backend, session_name, etc.
//   - Environment variables: LEARNLOOP_STORAGE_BACKEND, LEARNLOOP_SESSION_NAME, etc.
//   - Command-line flags: --storage_backend, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "storage_backend", Default: "file", Desc: "Storage backend: 'file' or 'mongo'"},
	{Name: "data_dir", Default: "./data", Desc: "Directory for JSON partitions (file backend)"},

	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI (mongo backend)"},
	{Name: "mongo_database", Default: "learnloop", Desc: "MongoDB database name (mongo backend)"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "learnloop-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	// First-run admin bootstrap
	{Name: "seed_admin_email", Default: "admin@company.com", Desc: "Email of the seed admin (created when no admin exists)"},
	{Name: "seed_admin_password", Default: "admin123", Desc: "Password of the seed admin (change after first login)"},

	{Name: "sync_interval", Default: "5s", Desc: "Message/response snapshot reconcile interval (e.g., 5s, 1m)"},
	{Name: "import_max_rows", Default: 5000, Desc: "Maximum data rows accepted in one import file"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
// CoreConfig comes from the shared WAFFLE layer; AppConfig is specific
// to this app and can be extended as the app grows.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, LEARNLOOP_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "LEARNLOOP", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		StorageBackend: appValues.String("storage_backend"),
		DataDir:        appValues.String("data_dir"),

		MongoURI:      appValues.String("mongo_uri"),
		MongoDatabase: appValues.String("mongo_database"),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),

		SeedAdminEmail:    appValues.String("seed_admin_email"),
		SeedAdminPassword: appValues.String("seed_admin_password"),

		SyncInterval:  appValues.Duration("sync_interval", 5*time.Second),
		ImportMaxRows: appValues.Int("import_max_rows"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// This is the right place to enforce required fields or invariants that
// involve both the core and app configs.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	switch appCfg.StorageBackend {
	case "file":
		if appCfg.DataDir == "" {
			return fmt.Errorf("data_dir is required for the file backend")
		}
	case "mongo":
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
	default:
		return fmt.Errorf("storage_backend must be 'file' or 'mongo', got %q", appCfg.StorageBackend)
	}

	if appCfg.SyncInterval <= 0 {
		return fmt.Errorf("sync_interval must be positive")
	}
	if appCfg.SeedAdminEmail == "" || appCfg.SeedAdminPassword == "" {
		return fmt.Errorf("seed_admin_email and seed_admin_password must be set")
	}

	return nil
}
