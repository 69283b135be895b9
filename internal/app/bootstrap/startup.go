// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/learnloop/learnloop/internal/app/store/repo"
	"github.com/learnloop/learnloop/internal/app/system/passwords"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
// LearnLoop seeds the first admin account, restores any persisted
// session, and starts the snapshot reconciler.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := seedAdmin(ctx, appCfg, deps, logger); err != nil {
		return err
	}

	if err := deps.Auth.Restore(ctx); err != nil {
		logger.Warn("restoring persisted session failed", zap.Error(err))
	}

	deps.Reconciler.Start(ctx)
	return nil
}

// seedAdmin creates the configured admin account when no admin exists
// yet, so a fresh install is reachable.
func seedAdmin(ctx context.Context, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	for _, u := range deps.Repo.ListUsers() {
		if u.IsAdmin {
			return nil
		}
	}

	hash, err := passwords.Hash(appCfg.SeedAdminPassword)
	if err != nil {
		return fmt.Errorf("hashing seed admin password: %w", err)
	}

	admin, err := deps.Repo.CreateUser(ctx, repo.UserDraft{
		Email:        appCfg.SeedAdminEmail,
		Name:         "Administrator",
		IsAdmin:      true,
		PasswordHash: hash,
		CreatedBy:    "system",
	})
	if err != nil {
		return fmt.Errorf("creating seed admin: %w", err)
	}

	logger.Info("seeded initial admin account",
		zap.String("email", admin.Email),
		zap.String("id", admin.ID))
	return nil
}
