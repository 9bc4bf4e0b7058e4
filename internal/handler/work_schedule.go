package handler

import (
	"net/http"
	"strconv"

	"agenda-service/internal/models"
)

func (h *Handler) GetWorkSchedule(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	schedule, err := h.workScheduleService.GetUserWorkSchedule(userID)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, schedule)
}

func (h *Handler) PutWorkSchedule(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	var input struct {
		Name     string                    `json:"name"`
		Timezone string                    `json:"timezone"`
		Rules    []models.WorkScheduleRule `json:"rules"`
	}
	if !h.decodeBody(w, r, &input) {
		return
	}

	schedule, err := h.workScheduleService.SetUserWorkSchedule(userID, input.Name, input.Timezone, input.Rules)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, schedule)
}

func (h *Handler) GetMonthlySummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	q := r.URL.Query()
	year, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_input", "year inválido")
		return
	}
	month, err := strconv.Atoi(q.Get("month"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_input", "month inválido")
		return
	}

	summary, err := h.summaryService.ComputeMonthly(userID, year, month)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, summary)
}
