package consistency

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fiscus/fiscus/internal/rest"
	"github.com/fiscus/fiscus/pkg/budget"
	"github.com/fiscus/fiscus/pkg/category"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type renameCategoryRequest struct {
	Name string `json:"name"`
}

type renameCategoryResponse struct {
	OldName             string   `json:"oldName"`
	NewName             string   `json:"newName"`
	BudgetsUpdated      int64    `json:"budgetsUpdated"`
	TransactionsUpdated int64    `json:"transactionsUpdated"`
	Warnings            []string `json:"warnings,omitempty"`
}

type deleteBudgetResponse struct {
	DeletedBudget   string   `json:"deletedBudget"`
	DeletedCategory string   `json:"deletedCategory,omitempty"`
	Warnings        []string `json:"warnings,omitempty"`
}

type cleanupResponse struct {
	CleanedUp  int                    `json:"cleanedUp"`
	Categories []category.CategoryDTO `json:"categories"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) RenameCategory(w http.ResponseWriter, r *http.Request) {
	categoryUid := mux.Vars(r)["categoryUid"]
	var req renameCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.RenameCategory(r.Context(), categoryUid, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, category.ErrCategoryNotFound):
			rest.WriteError(w, http.StatusNotFound, "category not found")
		case errors.Is(err, category.ErrEmptyName):
			rest.WriteError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, category.ErrCategoryExists):
			rest.WriteError(w, http.StatusConflict, err.Error())
		default:
			log.Errorf("failed to rename category %s: %v", categoryUid, err)
			rest.WriteError(w, http.StatusInternalServerError, "failed to rename category")
		}
		return
	}
	// Partial cascade failures still return 200; the warnings tell the
	// client which stores may show the old name.
	rest.WriteJSON(w, http.StatusOK, renameCategoryResponse{
		OldName:             result.OldName,
		NewName:             result.NewName,
		BudgetsUpdated:      result.BudgetsUpdated,
		TransactionsUpdated: result.TransactionsUpdated,
		Warnings:            result.Warnings,
	})
}

func (h *Handler) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	budgetUid := mux.Vars(r)["budgetUid"]

	result, err := h.service.DeleteBudget(r.Context(), budgetUid)
	if err != nil {
		if errors.Is(err, budget.ErrBudgetNotFound) {
			rest.WriteError(w, http.StatusNotFound, "budget not found")
			return
		}
		log.Errorf("failed to delete budget %s: %v", budgetUid, err)
		rest.WriteError(w, http.StatusInternalServerError, "failed to delete budget")
		return
	}
	resp := deleteBudgetResponse{
		DeletedBudget: result.DeletedBudget.Uid,
		Warnings:      result.Warnings,
	}
	if result.DeletedCategory != nil {
		resp.DeletedCategory = result.DeletedCategory.Name
	}
	rest.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) CleanupOrphanedCategories(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.CleanupOrphanedCategories(r.Context())
	if err != nil {
		log.Errorf("failed to clean up orphaned categories: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "failed to clean up orphaned categories")
		return
	}
	dtos := make([]category.CategoryDTO, 0, len(result.Categories))
	for _, cat := range result.Categories {
		dtos = append(dtos, category.CategoryToDTO(cat))
	}
	rest.WriteJSON(w, http.StatusOK, cleanupResponse{CleanedUp: result.CleanedUp, Categories: dtos})
}
