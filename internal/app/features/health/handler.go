package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/learnloop/learnloop/internal/app/system/reconcile"
)

const pingTimeout = 5 * time.Second

// Handler holds dependencies needed for health checks. Client is nil
// when the file backend is in use.
type Handler struct {
	Client     *mongo.Client
	Reconciler *reconcile.Reconciler
	Log        *zap.Logger
}

// NewHandler constructs a health Handler.
func NewHandler(client *mongo.Client, rec *reconcile.Reconciler, logger *zap.Logger) *Handler {
	return &Handler{
		Client:     client,
		Reconciler: rec,
		Log:        logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string     `json:"status"`
	Database string     `json:"database"`
	SyncedAt *time.Time `json:"synced_at,omitempty"`
	Message  string     `json:"message,omitempty"`
	Error    string     `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "synced_at":"…" }
//
// On DB failure: 503 and
//
//	{ "status":"error", "message":"Database unavailable", "error":"…"}
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status:   "ok",
		Database: "file",
	}

	if h.Client != nil {
		resp.Database = "connected"
		if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
			h.Log.Error("health-check: mongo ping failed", zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			resp.Status = "error"
			resp.Database = "disconnected"
			resp.Message = "Database unavailable"
			resp.Error = err.Error()
			_ = json.NewEncoder(w).Encode(resp)
			return
		}
	}

	if h.Reconciler != nil {
		if t := h.Reconciler.SyncedAt(); !t.IsZero() {
			resp.SyncedAt = &t
		}
	}

	_ = json.NewEncoder(w).Encode(resp)
}
