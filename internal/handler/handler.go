package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"agenda-service/internal/config"
	"agenda-service/internal/metrics"
	"agenda-service/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	userService          *service.UserService
	workScheduleService  *service.WorkScheduleService
	validator            *service.ScheduleValidator
	scheduler            *service.AppointmentScheduler
	expander             *service.RecurrenceExpander
	nonWorkingDayService *service.NonWorkingDayService
	summaryService       *service.SummaryService
	config               *config.ServerConfig
	logger               *logrus.Logger
}

func NewHandler(
	userService *service.UserService,
	workScheduleService *service.WorkScheduleService,
	validator *service.ScheduleValidator,
	scheduler *service.AppointmentScheduler,
	expander *service.RecurrenceExpander,
	nonWorkingDayService *service.NonWorkingDayService,
	summaryService *service.SummaryService,
	cfg *config.ServerConfig,
) *Handler {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &Handler{
		userService:          userService,
		workScheduleService:  workScheduleService,
		validator:            validator,
		scheduler:            scheduler,
		expander:             expander,
		nonWorkingDayService: nonWorkingDayService,
		summaryService:       summaryService,
		config:               cfg,
		logger:               logger,
	}
}

// Routes wires the full API route tree.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware())

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if h.config.MetricsEnabled {
		r.Handle("/metrics", metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/", h.CreateUser)
			r.Get("/", h.ListUsers)
			r.Get("/{id}", h.GetUser)
			r.Get("/{id}/work-schedule", h.GetWorkSchedule)
			r.Put("/{id}/work-schedule", h.PutWorkSchedule)
			r.Get("/{id}/summary", h.GetMonthlySummary)
		})

		r.Route("/appointments", func(r chi.Router) {
			r.Post("/", h.CreateAppointment)
			r.Get("/", h.ListAppointments)
			r.Post("/validate", h.ValidateAppointment)
			r.Post("/recurring", h.CreateRecurringAppointment)
			r.Post("/sweep-delayed", h.SweepDelayed)
			r.Get("/{id}", h.GetAppointment)
			r.Put("/{id}", h.UpdateAppointment)
			r.Delete("/{id}", h.DeleteAppointment)
			r.Post("/{id}/complete", h.CompleteAppointment)
			r.Post("/{id}/cancel", h.CancelAppointment)
		})

		r.Get("/conflicts", h.FindConflicts)

		r.Route("/recurring", func(r chi.Router) {
			r.Get("/{recurringTaskId}", h.GetRecurringSeries)
			r.Delete("/{recurringTaskId}", h.DeleteRecurringSeries)
		})

		r.Route("/non-working-days", func(r chi.Router) {
			r.Get("/", h.ListNonWorkingDays)
			r.Post("/", h.AddNonWorkingDay)
			r.Post("/import", h.ImportNonWorkingDays)
			r.Delete("/{id}", h.DeleteNonWorkingDay)
		})
	})

	return r
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.WithError(err).Error("Failed to encode response")
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, code, message string) {
	h.respondJSON(w, status, errorResponse{Code: code, Message: message})
}

func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_body", "corpo da requisição inválido: "+err.Error())
		return false
	}
	return true
}

func (h *Handler) idParam(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		h.respondError(w, http.StatusBadRequest, "invalid_id", "identificador inválido: "+raw)
		return 0, false
	}
	return uint(id), true
}
