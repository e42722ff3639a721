package insight

import (
	"net/http"
	"time"

	"github.com/fiscus/fiscus/internal/rest"
	log "github.com/sirupsen/logrus"
)

type InsightDTO struct {
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	CreatedAt string `json:"createdAt"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	insights, err := h.service.List(r.Context())
	if err != nil {
		log.Errorf("failed to list insights: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "failed to list insights")
		return
	}
	dtos := make([]InsightDTO, 0, len(insights))
	for _, insight := range insights {
		dtos = append(dtos, InsightDTO{
			Type:      string(insight.Type),
			Title:     insight.Title,
			Message:   insight.Message,
			CreatedAt: insight.CreatedAt.Format(time.RFC3339),
		})
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}
