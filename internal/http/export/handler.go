package export

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/spendwise/internal/http/respond"
	"github.com/MrJamesThe3rd/spendwise/internal/report"
)

const (
	formatXLSX = "xlsx"
	formatCSV  = "csv"

	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeCSV  = "text/csv; charset=utf-8"
)

type Handler struct {
	svc *report.Service
	now func() time.Time
}

func NewHandler(svc *report.Service) *Handler {
	return &Handler{svc: svc, now: func() time.Time { return time.Now().UTC() }}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.download)
}

// download renders the report into memory first so a failure can still become a 500.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = formatXLSX
	}

	var (
		write       func(io.Writer, *report.Report) error
		contentType string
	)

	switch format {
	case formatXLSX:
		write, contentType = h.svc.WriteXLSX, contentTypeXLSX
	case formatCSV:
		write, contentType = h.svc.WriteCSV, contentTypeCSV
	default:
		http.Error(w, "format must be xlsx or csv", http.StatusBadRequest)
		return
	}

	now := h.now()
	period := report.ParsePeriod(r.URL.Query().Get("period"))

	rep, err := h.svc.Build(r.Context(), period, now)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := write(&buf, rep); err != nil {
		respond.Error(w, r, fmt.Errorf("rendering %s report: %w", format, err))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", report.FileName(period, now, format)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))

	if _, err := buf.WriteTo(w); err != nil {
		slog.ErrorContext(r.Context(), "failed to write report", "error", err)
	}
}
