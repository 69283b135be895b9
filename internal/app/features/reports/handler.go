// internal/app/features/reports/handler.go

// Package reports computes answer statistics and exports them as
// spreadsheets. All of it is admin only.
package reports

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/learnloop/learnloop/internal/app/store/repo"
	"github.com/learnloop/learnloop/internal/app/system/analytics"
	"github.com/learnloop/learnloop/internal/app/system/httpapi"
	"github.com/learnloop/learnloop/internal/app/system/tabular"
	"github.com/learnloop/learnloop/internal/domain/models"
)

// Handler carries the reports feature's dependencies.
type Handler struct {
	Repo *repo.Repository
	Log  *zap.Logger
}

// NewHandler creates the reports handler.
func NewHandler(store *repo.Repository, logger *zap.Logger) *Handler {
	return &Handler{Repo: store, Log: logger}
}

// question resolves a message id to an MCQ, or writes the error.
func (h *Handler) question(w http.ResponseWriter, messageID string) (models.Message, models.MCQPayload, bool) {
	msg, found := h.Repo.MessageByID(messageID)
	if !found {
		httpapi.Error(w, http.StatusNotFound, "question not found")
		return models.Message{}, models.MCQPayload{}, false
	}
	payload, err := msg.DecodeMCQ()
	if err != nil {
		httpapi.Error(w, http.StatusBadRequest, "message is not a multiple-choice question")
		return models.Message{}, models.MCQPayload{}, false
	}
	return msg, payload, true
}

// HandleStats handles GET /messages/{messageID}/stats.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	messageID := chi.URLParam(r, "messageID")
	if _, _, ok := h.question(w, messageID); !ok {
		return
	}
	stats := analytics.StatsForMessage(h.Repo.ListResponsesForMessage(messageID))
	httpapi.JSON(w, http.StatusOK, stats)
}

// HandleDistribution handles GET /messages/{messageID}/distribution.
func (h *Handler) HandleDistribution(w http.ResponseWriter, r *http.Request) {
	messageID := chi.URLParam(r, "messageID")
	_, payload, ok := h.question(w, messageID)
	if !ok {
		return
	}
	dist := analytics.DistributionForMessage(payload, h.Repo.ListResponsesForMessage(messageID))
	httpapi.JSON(w, http.StatusOK, dist)
}

// HandleOverall handles GET /overall: accuracy across every response
// in the system, or within one group when ?group= is given.
func (h *Handler) HandleOverall(w http.ResponseWriter, r *http.Request) {
	responses := h.Repo.ListResponses()
	if groupID := r.URL.Query().Get("group"); groupID != "" {
		if _, found := h.Repo.GroupByID(groupID); !found {
			httpapi.Error(w, http.StatusNotFound, "group not found")
			return
		}
		filtered := responses[:0:0]
		for _, resp := range responses {
			if resp.GroupID == groupID {
				filtered = append(filtered, resp)
			}
		}
		responses = filtered
	}
	httpapi.JSON(w, http.StatusOK, map[string]any{
		"responses":    len(responses),
		"accuracy_pct": analytics.OverallAccuracy(responses),
	})
}

// collect gathers the MCQ reports for a group (or all groups when the
// id is empty), in message append order.
func (h *Handler) collect(groupID string) []tabular.ResponseReport {
	var msgs []models.Message
	if groupID == "" {
		msgs = h.Repo.ListMessages()
	} else {
		msgs = h.Repo.ListMessagesForGroup(groupID)
	}

	var out []tabular.ResponseReport
	for _, msg := range msgs {
		if msg.Type != models.MessageMCQ {
			continue
		}
		payload, err := msg.DecodeMCQ()
		if err != nil {
			continue
		}
		out = append(out, tabular.ResponseReport{
			Message:   msg,
			Payload:   payload,
			Responses: h.Repo.ListResponsesForMessage(msg.ID),
		})
	}
	return out
}

// HandleExportXLSX handles GET /export.xlsx[?group=].
func (h *Handler) HandleExportXLSX(w http.ResponseWriter, r *http.Request) {
	groupID := r.URL.Query().Get("group")
	if groupID != "" {
		if _, found := h.Repo.GroupByID(groupID); !found {
			httpapi.Error(w, http.StatusNotFound, "group not found")
			return
		}
	}

	reports := h.collect(groupID)
	if len(reports) == 0 {
		httpapi.Error(w, http.StatusNotFound, "no questions to export")
		return
	}

	buf, err := tabular.WriteResponseReportXLSX(reports)
	if err != nil {
		h.Log.Error("building response report failed", zap.Error(err))
		httpapi.Error(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="responses.xlsx"`)
	_, _ = w.Write(buf.Bytes())
}

// HandleExportCSV handles GET /export.csv[?group=].
func (h *Handler) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	groupID := r.URL.Query().Get("group")
	if groupID != "" {
		if _, found := h.Repo.GroupByID(groupID); !found {
			httpapi.Error(w, http.StatusNotFound, "group not found")
			return
		}
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="responses.csv"`)
	if err := tabular.WriteResponseReportCSV(w, h.collect(groupID)); err != nil {
		h.Log.Error("writing response csv failed", zap.Error(err))
	}
}
