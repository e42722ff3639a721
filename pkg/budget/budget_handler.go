package budget

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fiscus/fiscus/internal/rest"
	"github.com/fiscus/fiscus/pkg/category"
	"github.com/fiscus/fiscus/pkg/fiscal"
	"github.com/fiscus/fiscus/pkg/money"
	log "github.com/sirupsen/logrus"
)

type BudgetDTO struct {
	Uid          string `json:"uid"`
	Category     string `json:"category"`
	MonthlyLimit string `json:"monthlyLimit"`
	CurrentSpent string `json:"currentSpent"`
	Remaining    string `json:"remaining"`
	Status       string `json:"status"`
}

type upsertBudgetRequest struct {
	Category     string `json:"category"`
	MonthlyLimit string `json:"monthlyLimit"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	monthLabel := r.URL.Query().Get("month")
	budgets, err := h.service.ListWithSpend(r.Context(), monthLabel)
	if err != nil {
		if errors.Is(err, fiscal.ErrInvalidMonthLabel) {
			rest.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Errorf("failed to list budgets: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "failed to list budgets")
		return
	}
	dtos := make([]BudgetDTO, 0, len(budgets))
	for _, budget := range budgets {
		dtos = append(dtos, BudgetToDTO(budget))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	log.Debug("Upserting budget")
	var req upsertBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := money.ParseAmount(req.MonthlyLimit)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid monthly limit: "+req.MonthlyLimit)
		return
	}

	stored, err := h.service.Upsert(r.Context(), req.Category, limit)
	if err != nil {
		switch {
		case errors.Is(err, ErrNegativeLimit):
			rest.WriteError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, category.ErrCategoryNotFound):
			rest.WriteError(w, http.StatusNotFound, "category not found: "+req.Category)
		default:
			log.Errorf("failed to upsert budget: %v", err)
			rest.WriteError(w, http.StatusInternalServerError, "failed to upsert budget")
		}
		return
	}
	rest.WriteJSON(w, http.StatusOK, BudgetToDTO(stored))
}

func BudgetToDTO(budget Budget) BudgetDTO {
	return BudgetDTO{
		Uid:          budget.Uid,
		Category:     budget.CategoryName,
		MonthlyLimit: budget.MonthlyLimit.String(),
		CurrentSpent: budget.CurrentSpent.String(),
		Remaining:    budget.Remaining().String(),
		Status:       string(budget.Status()),
	}
}
