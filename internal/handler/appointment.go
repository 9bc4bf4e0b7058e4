package handler

import (
	"errors"
	"net/http"
	"strconv"

	"agenda-service/internal/metrics"
	"agenda-service/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// CreateAppointment runs the scheduling decision pipeline.
//
// The three outcomes map to three distinct statuses: 201 when committed, 409
// when the slot needs an explicit encaixe confirmation (resubmit with the
// override flag), 422 when the request must change to succeed.
func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var input service.CreateAppointmentInput
	if !h.decodeBody(w, r, &input) {
		return
	}

	outcome, err := h.scheduler.CreateAppointment(input)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}

	h.respondOutcome(w, outcome, http.StatusCreated)
}

func (h *Handler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	var input service.UpdateAppointmentInput
	if !h.decodeBody(w, r, &input) {
		return
	}

	outcome, err := h.scheduler.UpdateAppointment(id, input)
	if err != nil {
		if errors.Is(err, service.ErrAppointmentNotFound) {
			h.respondError(w, http.StatusNotFound, "not_found", err.Error())
			return
		}
		h.respondError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}

	h.respondOutcome(w, outcome, http.StatusOK)
}

func (h *Handler) respondOutcome(w http.ResponseWriter, outcome *service.ScheduleOutcome, acceptedStatus int) {
	metrics.RecordOutcome(outcome.Status)

	switch outcome.Status {
	case service.OutcomeAccepted:
		h.respondJSON(w, acceptedStatus, outcome)
	case service.OutcomeConfirmationRequired:
		h.respondJSON(w, http.StatusConflict, outcome)
	default:
		h.respondJSON(w, http.StatusUnprocessableEntity, outcome)
	}
}

func (h *Handler) ValidateAppointment(w http.ResponseWriter, r *http.Request) {
	var input struct {
		UserID          uint   `json:"user_id"`
		Date            string `json:"date"`
		StartTime       string `json:"start_time"`
		DurationMinutes int    `json:"duration_minutes"`
		IsPomodoro      bool   `json:"is_pomodoro"`
	}
	if !h.decodeBody(w, r, &input) {
		return
	}

	result, err := h.validator.Validate(input.UserID, input.Date, input.StartTime, input.DurationMinutes, input.IsPomodoro)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

func (h *Handler) FindConflicts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	userID, err := strconv.ParseUint(q.Get("user_id"), 10, 32)
	if err != nil || userID == 0 {
		h.respondError(w, http.StatusBadRequest, "invalid_input", "user_id inválido")
		return
	}
	duration, err := strconv.Atoi(q.Get("duration"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_input", "duration inválida")
		return
	}

	var excludeID *uint
	if raw := q.Get("exclude_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "invalid_input", "exclude_id inválido")
			return
		}
		id := uint(parsed)
		excludeID = &id
	}

	conflicts, err := h.scheduler.FindConflictsForSlot(uint(userID), q.Get("date"), q.Get("start"), duration, excludeID)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{"conflicts": conflicts})
}

func (h *Handler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	appt, err := h.scheduler.GetAppointment(id)
	if err != nil {
		if errors.Is(err, service.ErrAppointmentNotFound) {
			h.respondError(w, http.StatusNotFound, "not_found", err.Error())
			return
		}
		h.respondError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, appt)
}

func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	userID, err := strconv.ParseUint(q.Get("user_id"), 10, 32)
	if err != nil || userID == 0 {
		h.respondError(w, http.StatusBadRequest, "invalid_input", "user_id inválido")
		return
	}

	appointments, err := h.scheduler.ListByUserAndDate(uint(userID), q.Get("date"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{"appointments": appointments})
}

func (h *Handler) CompleteAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	var input struct {
		ActualMinutes *int `json:"actual_minutes"`
	}
	if r.ContentLength > 0 && !h.decodeBody(w, r, &input) {
		return
	}

	appt, err := h.scheduler.CompleteAppointment(id, input.ActualMinutes)
	if err != nil {
		if errors.Is(err, service.ErrAppointmentNotFound) {
			h.respondError(w, http.StatusNotFound, "not_found", err.Error())
			return
		}
		h.respondError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, appt)
}

func (h *Handler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	appt, err := h.scheduler.CancelAppointment(id)
	if err != nil {
		if errors.Is(err, service.ErrAppointmentNotFound) {
			h.respondError(w, http.StatusNotFound, "not_found", err.Error())
			return
		}
		h.respondError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, appt)
}

func (h *Handler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.scheduler.DeleteAppointment(id); err != nil {
		h.respondError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{"deleted": 1})
}

func (h *Handler) SweepDelayed(w http.ResponseWriter, r *http.Request) {
	count, err := h.scheduler.SweepDelayed()
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{"delayed": count})
}

func (h *Handler) CreateRecurringAppointment(w http.ResponseWriter, r *http.Request) {
	var input struct {
		service.CreateAppointmentInput
		Recurrence service.RecurrenceInput `json:"recurrence"`
	}
	if !h.decodeBody(w, r, &input) {
		return
	}

	result, err := h.expander.CreateRecurringSeries(input.CreateAppointmentInput, input.Recurrence)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}

	h.logger.WithFields(logrus.Fields{
		"recurring_task_id": result.RecurringTaskID,
		"instances":         len(result.Instances),
		"skipped":           len(result.Skipped),
	}).Info("Recurring series created")

	h.respondJSON(w, http.StatusCreated, result)
}

func (h *Handler) GetRecurringSeries(w http.ResponseWriter, r *http.Request) {
	seriesID := chi.URLParam(r, "recurringTaskId")

	appointments, err := h.expander.GetSeries(seriesID)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	if len(appointments) == 0 {
		h.respondError(w, http.StatusNotFound, "not_found", "série não encontrada")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{"appointments": appointments})
}

func (h *Handler) DeleteRecurringSeries(w http.ResponseWriter, r *http.Request) {
	seriesID := chi.URLParam(r, "recurringTaskId")

	deleted, err := h.expander.DeleteSeries(seriesID)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}
	if deleted == 0 {
		h.respondError(w, http.StatusNotFound, "not_found", "série não encontrada")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{"deleted": deleted})
}
