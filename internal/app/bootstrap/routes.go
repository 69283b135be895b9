// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	chatfeature "github.com/learnloop/learnloop/internal/app/features/chat"
	groupsfeature "github.com/learnloop/learnloop/internal/app/features/groups"
	healthfeature "github.com/learnloop/learnloop/internal/app/features/health"
	importusersfeature "github.com/learnloop/learnloop/internal/app/features/importusers"
	loginfeature "github.com/learnloop/learnloop/internal/app/features/login"
	reportsfeature "github.com/learnloop/learnloop/internal/app/features/reports"
	responsesfeature "github.com/learnloop/learnloop/internal/app/features/responses"
	usersfeature "github.com/learnloop/learnloop/internal/app/features/users"
	"github.com/learnloop/learnloop/internal/app/system/auth"
)

// BuildHandler constructs the root HTTP handler (router) for this
// WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and any Startup hooks have completed. At this point you have access
// to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: the storage backend, repository, and workers from DBDeps
//   - logger: the fully configured zap.Logger for this app
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(deps.Auth, appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	r := chi.NewRouter()

	// Global auth middleware: resolves the session cookie to a fresh
	// user record on every request.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, deps.Reconciler, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(sessionMgr, logger)
	r.Mount("/", loginfeature.Routes(loginHandler))

	// User management (admin)
	usersHandler := usersfeature.NewHandler(deps.Repo, sessionMgr, logger)
	r.Mount("/users", usersfeature.Routes(usersHandler))

	// Bulk import (admin)
	importHandler := importusersfeature.NewHandler(deps.Repo, logger, appCfg.ImportMaxRows)
	r.Mount("/import", importusersfeature.Routes(importHandler))

	// Group management
	groupsHandler := groupsfeature.NewHandler(deps.Repo, logger)
	r.Mount("/groups", groupsfeature.Routes(groupsHandler))

	// Chat timelines and sync
	chatHandler := chatfeature.NewHandler(deps.Repo, deps.Reconciler, logger)
	r.Mount("/chat", chatfeature.Routes(chatHandler))

	// Question answers
	responsesHandler := responsesfeature.NewHandler(deps.Repo, deps.Reconciler, logger)
	r.Mount("/responses", responsesfeature.Routes(responsesHandler))

	// Reports and exports (admin)
	reportsHandler := reportsfeature.NewHandler(deps.Repo, logger)
	r.Mount("/reports", reportsfeature.Routes(reportsHandler))

	return r, nil
}
