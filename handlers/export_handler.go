package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"fitFlowAPI/services"
)

type ExportHandler struct {
	exportService *services.ExportService
}

func NewExportHandler(exportService *services.ExportService) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
	}
}

// ExportCSV streams ?type=all|weight|foods as a CSV attachment.
func (h *ExportHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	uid, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	kind, err := services.ParseExportKind(r.URL.Query().Get("type"))
	if err != nil {
		respondWithServiceError(w, "ExportCSV", err)
		return
	}

	// buffered so a failed export can still answer with an error status
	var buf bytes.Buffer
	if err := h.exportService.Export(ctx, uid, kind, &buf); err != nil {
		respondWithServiceError(w, "ExportCSV", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.exportService.Filename(kind)))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
