// internal/app/features/importusers/handler.go

// Package importusers implements bulk user creation from uploaded
// spreadsheet or CSV files: per-row validation, one generated
// credential per created account, and an import report that names
// every rejected row.
package importusers

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/learnloop/learnloop/internal/app/store/repo"
	"github.com/learnloop/learnloop/internal/app/system/auth"
	"github.com/learnloop/learnloop/internal/app/system/httpapi"
	"github.com/learnloop/learnloop/internal/app/system/passwords"
	"github.com/learnloop/learnloop/internal/app/system/tabular"
)

const uploadMemoryLimit = 10 << 20 // 10 MiB before spilling to disk

// Handler carries the import feature's dependencies.
type Handler struct {
	Repo    *repo.Repository
	Log     *zap.Logger
	MaxRows int
}

// NewHandler creates the import handler.
func NewHandler(store *repo.Repository, logger *zap.Logger, maxRows int) *Handler {
	return &Handler{Repo: store, Log: logger, MaxRows: maxRows}
}

// HandleUpload handles POST /. The multipart field "file" carries a
// .csv or .xlsx import; the optional "strategy" form value selects the
// password style ("simple" or "secure", default secure).
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(uploadMemoryLimit); err != nil {
		httpapi.Error(w, http.StatusBadRequest, "malformed multipart request")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httpapi.Error(w, http.StatusBadRequest, "import file is required")
		return
	}
	defer file.Close()

	opts := tabular.ReadOptions{MaxRows: h.MaxRows}
	var rows []tabular.Row
	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".csv":
		rows, err = tabular.ReadCSV(file, opts)
	case ".xlsx":
		rows, err = tabular.ReadXLSX(file, opts)
	default:
		httpapi.Error(w, http.StatusBadRequest, "unsupported file type (use .csv or .xlsx)")
		return
	}
	if errors.Is(err, tabular.ErrTooManyRows) {
		httpapi.Error(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}
	if err != nil {
		httpapi.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	strategy := passwords.StrategySecure
	if strings.EqualFold(r.FormValue("strategy"), "simple") {
		strategy = passwords.StrategySimple
	}

	createdBy := ""
	if u, ok := auth.CurrentUser(r); ok {
		createdBy = u.ID
	}

	report, err := Run(r.Context(), h.Repo, rows, Options{
		Strategy:  strategy,
		CreatedBy: createdBy,
	})
	if err != nil {
		h.Log.Error("import run failed", zap.Error(err))
		httpapi.Error(w, http.StatusInternalServerError, "import failed")
		return
	}

	h.Log.Info("import finished",
		zap.Int("rows", len(rows)),
		zap.Int("created", len(report.Created)),
		zap.Int("rejected", len(report.Errors)))
	httpapi.JSON(w, http.StatusOK, report)
}

// HandleTemplate handles GET /template: the blank .xlsx import form.
func (h *Handler) HandleTemplate(w http.ResponseWriter, r *http.Request) {
	buf, err := tabular.WriteImportTemplate()
	if err != nil {
		h.Log.Error("building import template failed", zap.Error(err))
		httpapi.Error(w, http.StatusInternalServerError, "template generation failed")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="user_import_template.xlsx"`)
	_, _ = w.Write(buf.Bytes())
}
