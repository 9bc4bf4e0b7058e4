package handler

import (
	"net/http"
)

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Timezone string `json:"timezone"`
	}
	if !h.decodeBody(w, r, &input) {
		return
	}

	user, err := h.userService.CreateUser(input.Name, input.Email, input.Timezone)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}

	h.respondJSON(w, http.StatusCreated, user)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetUser(id)
	if err != nil {
		h.respondError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, user)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers()
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{"users": users})
}
