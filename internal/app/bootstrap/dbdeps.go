// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/learnloop/learnloop/internal/app/store/persist"
	"github.com/learnloop/learnloop/internal/app/store/repo"
	"github.com/learnloop/learnloop/internal/app/system/auth"
	"github.com/learnloop/learnloop/internal/app/system/reconcile"
)

// DBDeps holds storage and back-end dependencies for the app.
// MongoClient and MongoDatabase are nil when the file backend is in
// use.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	Store      persist.Store
	Repo       *repo.Repository
	Auth       *auth.Manager
	Reconciler *reconcile.Reconciler
}
