package transaction

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/fiscus/fiscus/internal/rest"
	"github.com/fiscus/fiscus/pkg/category"
	"github.com/fiscus/fiscus/pkg/money"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type TransactionDTO struct {
	Uid         string `json:"uid,omitempty"`
	Amount      string `json:"amount"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category"`
	Type        string `json:"type"`
	Date        string `json:"date"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Recording new transaction")
	var dto TransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.service.Create(r.Context(), CreateRequest{
		Amount:      dto.Amount,
		Description: dto.Description,
		Category:    dto.Category,
		Type:        dto.Type,
		Date:        dto.Date,
	})
	if err != nil {
		switch {
		case errors.Is(err, money.ErrInvalidAmount),
			errors.Is(err, money.ErrInvalidDate),
			errors.Is(err, ErrInvalidType):
			rest.WriteError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, category.ErrCategoryNotFound):
			rest.WriteError(w, http.StatusNotFound, err.Error())
		default:
			log.Errorf("failed to record transaction: %v", err)
			rest.WriteError(w, http.StatusInternalServerError, "failed to record transaction")
		}
		return
	}
	rest.WriteJSON(w, http.StatusCreated, TransactionToDTO(created))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	monthLabel := r.URL.Query().Get("month")

	transactions, err := h.service.ListForCycle(r.Context(), monthLabel)
	if err != nil {
		log.Errorf("failed to list transactions: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}
	dtos := make([]TransactionDTO, 0, len(transactions))
	for _, tx := range transactions {
		dtos = append(dtos, TransactionToDTO(tx))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	uid := vars["transactionUid"]

	if err := h.service.Delete(r.Context(), uid); err != nil {
		if errors.Is(err, ErrTransactionNotFound) {
			rest.WriteError(w, http.StatusNotFound, "transaction not found")
			return
		}
		log.Errorf("failed to delete transaction: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "failed to delete transaction")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func TransactionToDTO(tx Transaction) TransactionDTO {
	return TransactionDTO{
		Uid:         tx.Uid,
		Amount:      tx.Amount.String(),
		Description: tx.Description,
		Category:    tx.CategoryName,
		Type:        string(tx.Type),
		Date:        tx.Date.UTC().Format(time.RFC3339),
	}
}
