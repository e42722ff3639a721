package user

import (
	"encoding/json"
	"net/http"

	"github.com/fiscus/fiscus/internal/rest"
	log "github.com/sirupsen/logrus"
)

type UserDTO struct {
	Uid         string `json:"uid"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName,omitempty"`
	Timezone    string `json:"timezone,omitempty"`
	Currency    string `json:"currency,omitempty"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var dto UserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if dto.Username == "" {
		rest.WriteError(w, http.StatusBadRequest, "username is required")
		return
	}

	created, err := h.service.CreateUser(r.Context(), User{
		Username:    dto.Username,
		DisplayName: dto.DisplayName,
		Settings: Settings{
			Timezone: dto.Timezone,
			Currency: dto.Currency,
		},
	})
	if err != nil {
		log.Errorf("failed to create user: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "failed to create user")
		return
	}
	rest.WriteJSON(w, http.StatusCreated, userToDTO(created))
}

func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	current, err := h.service.GetCurrentUser(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusUnauthorized, "no current user")
		return
	}
	rest.WriteJSON(w, http.StatusOK, userToDTO(current))
}

func userToDTO(u User) UserDTO {
	return UserDTO{
		Uid:         u.Uid,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Timezone:    u.Settings.Timezone,
		Currency:    u.Settings.Currency,
	}
}
