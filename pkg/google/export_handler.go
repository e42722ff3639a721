package google

import (
	"errors"
	"net/http"

	"github.com/fiscus/fiscus/internal/rest"
	"github.com/fiscus/fiscus/pkg/fiscal"
	log "github.com/sirupsen/logrus"
)

type exportResponse struct {
	SpreadsheetId  string `json:"spreadsheetId"`
	SpreadsheetUrl string `json:"spreadsheetUrl"`
	RowsWritten    int    `json:"rowsWritten"`
}

type ExportHandler struct {
	exporter *SheetsExporter
}

func NewExportHandler(exporter *SheetsExporter) *ExportHandler {
	return &ExportHandler{exporter}
}

func (h *ExportHandler) ExportCycle(w http.ResponseWriter, r *http.Request) {
	monthLabel := r.URL.Query().Get("month")
	result, err := h.exporter.ExportCycle(r.Context(), monthLabel)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnauthenticated):
			rest.WriteError(w, http.StatusUnauthorized, "Google account not connected")
		case errors.Is(err, fiscal.ErrInvalidMonthLabel):
			rest.WriteError(w, http.StatusBadRequest, err.Error())
		default:
			log.Errorf("failed to export fiscal cycle report: %v", err)
			rest.WriteError(w, http.StatusInternalServerError, "failed to export report")
		}
		return
	}
	rest.WriteJSON(w, http.StatusOK, exportResponse{
		SpreadsheetId:  result.SpreadsheetId,
		SpreadsheetUrl: result.SpreadsheetUrl,
		RowsWritten:    result.RowsWritten,
	})
}
