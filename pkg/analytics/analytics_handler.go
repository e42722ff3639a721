package analytics

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fiscus/fiscus/internal/rest"
	"github.com/fiscus/fiscus/pkg/fiscal"
	log "github.com/sirupsen/logrus"
)

type OverviewDTO struct {
	Income        string `json:"income"`
	Spending      string `json:"spending"`
	SavingsAmount string `json:"savingsAmount"`
	Balance       string `json:"balance"`
}

type DailySpendDTO struct {
	Date   string `json:"date"`
	Amount string `json:"amount"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.CycleOverview(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		writeAnalyticsError(w, err, "failed to compute overview")
		return
	}
	rest.WriteJSON(w, http.StatusOK, OverviewDTO{
		Income:        overview.Income.String(),
		Spending:      overview.Spending.String(),
		SavingsAmount: overview.SavingsAmount.String(),
		Balance:       overview.Balance.String(),
	})
}

func (h *Handler) GetDailySpending(w http.ResponseWriter, r *http.Request) {
	bucketDays := 0
	if daysParam := r.URL.Query().Get("days"); daysParam != "" {
		parsed, err := strconv.Atoi(daysParam)
		if err != nil || parsed < 1 {
			rest.WriteError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		bucketDays = parsed
	}

	daily, err := h.service.DailySpending(r.Context(), r.URL.Query().Get("month"), bucketDays)
	if err != nil {
		writeAnalyticsError(w, err, "failed to compute daily spending")
		return
	}
	dtos := make([]DailySpendDTO, 0, len(daily))
	for _, day := range daily {
		dtos = append(dtos, DailySpendDTO{Date: day.Date, Amount: day.Amount.String()})
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetCategoryTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := h.service.CategoryTotals(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		writeAnalyticsError(w, err, "failed to compute category totals")
		return
	}
	dto := make(map[string]string, len(totals))
	for name, total := range totals {
		dto[name] = total.String()
	}
	rest.WriteJSON(w, http.StatusOK, dto)
}

func writeAnalyticsError(w http.ResponseWriter, err error, message string) {
	if errors.Is(err, fiscal.ErrInvalidMonthLabel) {
		rest.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	log.Errorf("%s: %v", message, err)
	rest.WriteError(w, http.StatusInternalServerError, message)
}
