package category

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fiscus/fiscus/internal/rest"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type CategoryDTO struct {
	Uid   string `json:"uid"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Color string `json:"color,omitempty"`
	Icon  string `json:"icon,omitempty"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new category")
	var dto CategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.service.Create(r.Context(), Category{
		Name:  dto.Name,
		Type:  CategoryType(dto.Type),
		Color: dto.Color,
		Icon:  dto.Icon,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyName), errors.Is(err, ErrInvalidType):
			rest.WriteError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrCategoryExists):
			rest.WriteError(w, http.StatusConflict, err.Error())
		default:
			log.Errorf("failed to create category: %v", err)
			rest.WriteError(w, http.StatusInternalServerError, "failed to create category")
		}
		return
	}
	rest.WriteJSON(w, http.StatusCreated, CategoryToDTO(created))
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.GetAll(r.Context())
	if err != nil {
		log.Errorf("failed to list categories: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}
	dtos := make([]CategoryDTO, 0, len(categories))
	for _, category := range categories {
		dtos = append(dtos, CategoryToDTO(category))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	uid := vars["categoryUid"]

	if err := h.service.Delete(r.Context(), uid); err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			rest.WriteError(w, http.StatusNotFound, "category not found")
			return
		}
		log.Errorf("failed to delete category: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "failed to delete category")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func CategoryToDTO(category Category) CategoryDTO {
	return CategoryDTO{
		Uid:   category.Uid,
		Name:  category.Name,
		Type:  string(category.Type),
		Color: category.Color,
		Icon:  category.Icon,
	}
}
