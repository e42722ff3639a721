package fiscal

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/fiscus/fiscus/internal/rest"
	"github.com/fiscus/fiscus/pkg/money"
	log "github.com/sirupsen/logrus"
)

type WindowDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type FiscalMonthDTO struct {
	Uid        string `json:"uid"`
	MonthLabel string `json:"monthLabel"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate,omitempty"`
	IsActive   bool   `json:"isActive"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) GetWindow(w http.ResponseWriter, r *http.Request) {
	monthLabel := r.URL.Query().Get("month")

	window, err := h.service.ResolveWindow(r.Context(), monthLabel)
	if err != nil {
		if errors.Is(err, ErrInvalidMonthLabel) {
			rest.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Errorf("failed to resolve fiscal window: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "failed to resolve fiscal window")
		return
	}
	rest.WriteJSON(w, http.StatusOK, WindowDTO{
		Start: window.Start.UTC().Format(time.RFC3339),
		End:   window.End.UTC().Format(time.RFC3339),
	})
}

func (h *Handler) ListMonths(w http.ResponseWriter, r *http.Request) {
	months, err := h.service.ListMonths(r.Context())
	if err != nil {
		log.Errorf("failed to list fiscal months: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "failed to list fiscal months")
		return
	}
	dtos := make([]FiscalMonthDTO, 0, len(months))
	for _, month := range months {
		dtos = append(dtos, monthToDTO(month))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

func (h *Handler) StartCycle(w http.ResponseWriter, r *http.Request) {
	var dto struct {
		StartDate string `json:"startDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	var startDate time.Time
	if dto.StartDate != "" {
		parsed, err := money.NormalizeDate(dto.StartDate)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		startDate = parsed
	}

	month, err := h.service.StartNewCycle(r.Context(), startDate)
	if err != nil {
		log.Errorf("failed to start fiscal cycle: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "failed to start fiscal cycle")
		return
	}
	rest.WriteJSON(w, http.StatusCreated, monthToDTO(month))
}

func monthToDTO(month FiscalMonth) FiscalMonthDTO {
	dto := FiscalMonthDTO{
		Uid:        month.Uid,
		MonthLabel: month.MonthLabel,
		StartDate:  month.StartDate.UTC().Format(time.RFC3339),
		IsActive:   month.IsActive,
	}
	if !month.Open() {
		dto.EndDate = month.EndDate.UTC().Format(time.RFC3339)
	}
	return dto
}
