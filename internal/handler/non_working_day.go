package handler

import (
	"io"
	"net/http"
	"strconv"
)

func (h *Handler) ListNonWorkingDays(w http.ResponseWriter, r *http.Request) {
	year := 0
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "invalid_input", "year inválido")
			return
		}
		year = parsed
	}

	days, err := h.nonWorkingDayService.List(year)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{"non_working_days": days})
}

func (h *Handler) AddNonWorkingDay(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Date        string `json:"date"`
		Description string `json:"description"`
	}
	if !h.decodeBody(w, r, &input) {
		return
	}

	day, err := h.nonWorkingDayService.Add(input.Date, input.Description)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}

	h.respondJSON(w, http.StatusCreated, day)
}

// ImportNonWorkingDays bulk-loads a yearly holiday calendar JSON document
// posted as the request body.
func (h *Handler) ImportNonWorkingDays(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	imported, err := h.nonWorkingDayService.ImportJSON(body)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{"imported": imported})
}

func (h *Handler) DeleteNonWorkingDay(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.nonWorkingDayService.Delete(id); err != nil {
		h.respondError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{"deleted": 1})
}
