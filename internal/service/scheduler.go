package service

import (
	"errors"
	"fmt"
	"time"

	"agenda-service/internal/models"
	"agenda-service/internal/repository"
	"agenda-service/pkg/calendar"

	"github.com/sirupsen/logrus"
)

var ErrAppointmentNotFound = errors.New("agendamento não encontrado")

// Scheduling outcome kinds. Rejections and confirmation requests are distinct
// on purpose: a rejection needs different input, a confirmation request only
// needs the same input resubmitted with the override flag.
const (
	OutcomeAccepted             = "accepted"
	OutcomeConfirmationRequired = "confirmation_required"
	OutcomeRejected             = "rejected"
)

// ScheduleOutcome is the tagged result of a scheduling decision.
type ScheduleOutcome struct {
	Status      string               `json:"status"`
	Appointment *models.Appointment  `json:"appointment,omitempty"`
	Reason      string               `json:"reason,omitempty"`
	Message     string               `json:"message,omitempty"`
	DayType     string               `json:"day_type,omitempty"`

	SuggestedTime string                `json:"suggested_time,omitempty"`
	Conflicts     []*models.Appointment `json:"conflicts,omitempty"`
	FreeSlots     []TimeSlot            `json:"free_slots,omitempty"`
}

// Accepted reports whether the decision committed an appointment.
func (o *ScheduleOutcome) Accepted() bool {
	return o.Status == OutcomeAccepted
}

// CreateAppointmentInput carries the user-supplied fields plus the override
// flags of a single scheduling request.
type CreateAppointmentInput struct {
	UserID          uint   `json:"user_id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`
	IsPomodoro      bool   `json:"is_pomodoro"`

	AllowOverlap         bool `json:"allow_overlap"`
	AllowWeekendOverride bool `json:"allow_weekend_override"`

	// Recurrence linkage, set by the expander only.
	RecurringTaskID           *string `json:"-"`
	ParentTaskID              *uint   `json:"-"`
	OriginalDate              *string `json:"-"`
	WasRescheduledFromWeekend bool    `json:"-"`
}

// UpdateAppointmentInput carries an edit. Empty strings/zero values keep the
// stored field.
type UpdateAppointmentInput struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`

	AllowOverlap         bool `json:"allow_overlap"`
	AllowWeekendOverride bool `json:"allow_weekend_override"`
}

// AppointmentScheduler orchestrates the per-appointment decision: validator
// verdict, override flags, conflict scan, derived fields, persistence.
type AppointmentScheduler struct {
	appointmentRepo repository.AppointmentRepository
	validator       *ScheduleValidator
	clock           calendar.Clock
	logger          *logrus.Logger
}

func NewAppointmentScheduler(
	appointmentRepo repository.AppointmentRepository,
	validator *ScheduleValidator,
	clock calendar.Clock,
) *AppointmentScheduler {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if clock == nil {
		clock = calendar.SystemClock{}
	}

	return &AppointmentScheduler{
		appointmentRepo: appointmentRepo,
		validator:       validator,
		clock:           clock,
		logger:          logger,
	}
}

// CreateAppointment runs the full decision pipeline and persists the row when
// accepted. Malformed input returns an error; business outcomes come back in
// the ScheduleOutcome.
func (s *AppointmentScheduler) CreateAppointment(input CreateAppointmentInput) (*ScheduleOutcome, error) {
	if input.Title == "" {
		return nil, errors.New("título é obrigatório")
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":    input.UserID,
		"date":       input.Date,
		"start_time": input.StartTime,
	}).Info("Scheduling appointment")

	outcome, appt, err := s.decide(input, nil)
	if err != nil {
		return nil, err
	}
	if !outcome.Accepted() {
		return outcome, nil
	}

	if err := s.appointmentRepo.Create(appt); err != nil {
		return nil, err
	}
	outcome.Appointment = appt

	s.logger.WithFields(logrus.Fields{
		"id":          appt.ID,
		"is_overtime": appt.IsOvertime,
	}).Info("Appointment scheduled")

	return outcome, nil
}

// UpdateAppointment re-runs the pipeline for an edit, excluding the row's own
// id from the conflict scan. A changed date or start time bumps
// RescheduleCount even when the new slot ends up rejected: the counter tracks
// change attempts, and it is persisted on the stored row either way.
func (s *AppointmentScheduler) UpdateAppointment(id uint, input UpdateAppointmentInput) (*ScheduleOutcome, error) {
	existing, err := s.appointmentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrAppointmentNotFound
	}

	merged := CreateAppointmentInput{
		UserID:               existing.UserID,
		Title:                existing.Title,
		Description:          existing.Description,
		Date:                 existing.Date,
		StartTime:            existing.StartTime,
		DurationMinutes:      existing.DurationMinutes,
		IsPomodoro:           existing.IsPomodoro,
		AllowOverlap:         input.AllowOverlap,
		AllowWeekendOverride: input.AllowWeekendOverride,
	}
	if input.Title != "" {
		merged.Title = input.Title
	}
	if input.Description != "" {
		merged.Description = input.Description
	}
	if input.Date != "" {
		merged.Date = input.Date
	}
	if input.StartTime != "" {
		merged.StartTime = input.StartTime
	}
	if input.DurationMinutes > 0 {
		merged.DurationMinutes = input.DurationMinutes
	}

	timeChanged := merged.Date != existing.Date || merged.StartTime != existing.StartTime

	outcome, updated, err := s.decide(merged, &id)
	if err != nil {
		return nil, err
	}

	if !outcome.Accepted() {
		if timeChanged {
			existing.RescheduleCount++
			if err := s.appointmentRepo.Update(existing); err != nil {
				return nil, err
			}
		}
		return outcome, nil
	}

	existing.Title = updated.Title
	existing.Description = updated.Description
	existing.Date = updated.Date
	existing.StartTime = updated.StartTime
	existing.DurationMinutes = updated.DurationMinutes
	existing.AllowOverlap = updated.AllowOverlap
	existing.IsWithinWorkHours = updated.IsWithinWorkHours
	existing.IsOvertime = updated.IsOvertime
	existing.WorkScheduleViolation = updated.WorkScheduleViolation
	if timeChanged {
		existing.RescheduleCount++
		existing.Status = models.StatusRescheduled
	}

	if err := s.appointmentRepo.Update(existing); err != nil {
		return nil, err
	}
	outcome.Appointment = existing

	return outcome, nil
}

// decide runs the scheduling decision table without touching storage, and
// returns the row to persist when accepted.
func (s *AppointmentScheduler) decide(input CreateAppointmentInput, excludeID *uint) (*ScheduleOutcome, *models.Appointment, error) {
	verdict, err := s.validator.Validate(input.UserID, input.Date, input.StartTime, input.DurationMinutes, input.IsPomodoro)
	if err != nil {
		return nil, nil, err
	}

	appt := s.buildAppointment(input, verdict)

	if verdict.RequiresConfirmation {
		if !input.AllowWeekendOverride {
			return &ScheduleOutcome{
				Status:  OutcomeConfirmationRequired,
				DayType: verdict.DayType,
				Message: verdict.Message,
			}, nil, nil
		}
		// Confirmed encaixe on a non-working day: accepted as overtime.
		appt.IsOvertime = true
		appt.IsWithinWorkHours = false
		violation := models.ViolationWeekend
		appt.WorkScheduleViolation = &violation
	} else if !verdict.IsValid {
		if !input.AllowOverlap {
			return &ScheduleOutcome{
				Status:        OutcomeRejected,
				Reason:        derefOr(verdict.Violation, "horário indisponível"),
				Message:       verdict.Message,
				SuggestedTime: verdict.SuggestedTime,
			}, nil, nil
		}
		// Explicit encaixe into a blocked block: accepted, flagged overtime.
		appt.IsOvertime = true
		appt.IsWithinWorkHours = false
	}

	sameDay, err := s.appointmentRepo.GetByUserAndDate(input.UserID, input.Date)
	if err != nil {
		return nil, nil, err
	}

	startMin, _ := calendar.ParseTimeOfDay(input.StartTime)
	conflicts := FindConflicts(sameDay, startMin, input.DurationMinutes, excludeID)

	if len(conflicts) > 0 {
		if !input.AllowOverlap {
			return &ScheduleOutcome{
				Status:    OutcomeRejected,
				Reason:    "conflito de horário",
				Message:   fmt.Sprintf("Conflito com %d agendamento(s) existente(s)", len(conflicts)),
				Conflicts: conflicts,
				FreeSlots: FindFreeSlots(sameDay, input.DurationMinutes, 8*60, 18*60),
			}, nil, nil
		}
		// Overlap alone does not imply overtime inside normal hours.
		if !appt.IsWithinWorkHours {
			appt.IsOvertime = true
		}
	}

	return &ScheduleOutcome{Status: OutcomeAccepted, Message: verdict.Message}, appt, nil
}

func (s *AppointmentScheduler) buildAppointment(input CreateAppointmentInput, verdict *ValidationResult) *models.Appointment {
	appt := &models.Appointment{
		UserID:            input.UserID,
		Title:             input.Title,
		Description:       input.Description,
		Date:              input.Date,
		StartTime:         input.StartTime,
		DurationMinutes:   input.DurationMinutes,
		Status:            models.StatusScheduled,
		IsPomodoro:        input.IsPomodoro,
		AllowOverlap:      input.AllowOverlap,
		IsWithinWorkHours: verdict.IsWithinWorkHours,
		IsOvertime:        verdict.IsOvertime,

		RecurringTaskID:           input.RecurringTaskID,
		ParentTaskID:              input.ParentTaskID,
		OriginalDate:              input.OriginalDate,
		WasRescheduledFromWeekend: input.WasRescheduledFromWeekend,
	}
	if verdict.Violation != nil {
		violation := *verdict.Violation
		appt.WorkScheduleViolation = &violation
	}
	appt.UpdateCalculatedFields()
	return appt
}

// CompleteAppointment marks the row completed, capturing the actual elapsed
// minutes when a timer was used.
func (s *AppointmentScheduler) CompleteAppointment(id uint, actualMinutes *int) (*models.Appointment, error) {
	appt, err := s.appointmentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, ErrAppointmentNotFound
	}

	now := s.clock.Now()
	appt.Status = models.StatusCompleted
	appt.CompletedAt = &now
	if actualMinutes != nil {
		if *actualMinutes <= 0 {
			return nil, errors.New("minutos trabalhados devem ser positivos")
		}
		appt.ActualMinutes = actualMinutes
	}

	if err := s.appointmentRepo.Update(appt); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"id":      appt.ID,
		"user_id": appt.UserID,
	}).Info("Appointment completed")

	return appt, nil
}

// CancelAppointment releases the slot without deleting the row.
func (s *AppointmentScheduler) CancelAppointment(id uint) (*models.Appointment, error) {
	appt, err := s.appointmentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, ErrAppointmentNotFound
	}

	appt.Status = models.StatusCancelled
	if err := s.appointmentRepo.Update(appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// DeleteAppointment removes a single row; siblings of a recurring series are
// untouched.
func (s *AppointmentScheduler) DeleteAppointment(id uint) error {
	return s.appointmentRepo.DeleteByID(id)
}

// GetAppointment loads one row.
func (s *AppointmentScheduler) GetAppointment(id uint) (*models.Appointment, error) {
	appt, err := s.appointmentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, ErrAppointmentNotFound
	}
	return appt, nil
}

// ListByUserAndDate returns the user's appointments for one date.
func (s *AppointmentScheduler) ListByUserAndDate(userID uint, date string) ([]*models.Appointment, error) {
	if _, _, _, err := calendar.ParseDate(date); err != nil {
		return nil, err
	}
	return s.appointmentRepo.GetByUserAndDate(userID, date)
}

// FindConflictsForSlot exposes the conflict scan for the pre-check endpoint.
func (s *AppointmentScheduler) FindConflictsForSlot(userID uint, date, startTime string, durationMinutes int, excludeID *uint) ([]*models.Appointment, error) {
	if _, _, _, err := calendar.ParseDate(date); err != nil {
		return nil, err
	}
	startMin, err := calendar.ParseTimeOfDay(startTime)
	if err != nil {
		return nil, err
	}
	if durationMinutes <= 0 {
		return nil, errors.New("duração deve ser positiva")
	}

	sameDay, err := s.appointmentRepo.GetByUserAndDate(userID, date)
	if err != nil {
		return nil, err
	}
	return FindConflicts(sameDay, startMin, durationMinutes, excludeID), nil
}

// SweepDelayed flags still-scheduled appointments dated before today as
// delayed. "Today" comes from the injected clock in the default zone.
func (s *AppointmentScheduler) SweepDelayed() (int, error) {
	loc, err := time.LoadLocation(models.DefaultTimezone)
	if err != nil {
		return 0, err
	}
	now := s.clock.Now().In(loc)
	today := calendar.FormatDate(now.Year(), int(now.Month()), now.Day())

	overdue, err := s.appointmentRepo.GetScheduledBefore(today)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, appt := range overdue {
		appt.Status = models.StatusDelayed
		if err := s.appointmentRepo.Update(appt); err != nil {
			return count, err
		}
		count++
	}

	if count > 0 {
		s.logger.WithField("count", count).Info("Delayed appointments flagged")
	}
	return count, nil
}

func derefOr(s *string, fallback string) string {
	if s != nil {
		return *s
	}
	return fallback
}
