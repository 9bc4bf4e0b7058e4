package service

import (
	"errors"
	"fmt"

	"agenda-service/internal/models"
	"agenda-service/internal/repository"
	"agenda-service/pkg/calendar"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Recurrence patterns.
const (
	PatternDaily   = "daily"
	PatternWeekly  = "weekly"
	PatternMonthly = "monthly"
	PatternYearly  = "yearly"
)

// maxSeriesOccurrences bounds end-date terminated expansion so a distant end
// date cannot generate an unbounded batch.
const maxSeriesOccurrences = 366

// RecurrenceInput terminates either by end date or by occurrence count,
// never both.
type RecurrenceInput struct {
	Pattern  string `json:"pattern"`
	Interval int    `json:"interval"`
	EndDate  string `json:"end_date,omitempty"`
	Count    int    `json:"count,omitempty"`
}

// SkippedOccurrence reports one occurrence that could not be committed; the
// rest of the series proceeds without it.
type SkippedOccurrence struct {
	Date         string `json:"date"`
	OriginalDate string `json:"original_date,omitempty"`
	Reason       string `json:"reason"`
}

// SeriesResult tracks every generated occurrence: committed instances plus
// per-date skip reports, so nothing is silently lost.
type SeriesResult struct {
	RecurringTaskID string                `json:"recurring_task_id"`
	Template        *models.Appointment   `json:"template"`
	Instances       []*models.Appointment `json:"instances"`
	Skipped         []SkippedOccurrence   `json:"skipped"`
}

// RecurrenceExpander generates the occurrence dates of a recurring series and
// delegates each one to the appointment scheduler.
type RecurrenceExpander struct {
	appointmentRepo repository.AppointmentRepository
	scheduler       *AppointmentScheduler
	holidayRepo     repository.NonWorkingDayRepository
	logger          *logrus.Logger
}

func NewRecurrenceExpander(
	appointmentRepo repository.AppointmentRepository,
	scheduler *AppointmentScheduler,
	holidayRepo repository.NonWorkingDayRepository,
) *RecurrenceExpander {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &RecurrenceExpander{
		appointmentRepo: appointmentRepo,
		scheduler:       scheduler,
		holidayRepo:     holidayRepo,
		logger:          logger,
	}
}

// CreateRecurringSeries expands the template into dated occurrences and
// schedules each one. Weekend and holiday dates are not skipped: they move to
// the next business day, rolling one day further while the same series
// already holds that date. One rejected occurrence never aborts the series.
func (e *RecurrenceExpander) CreateRecurringSeries(input CreateAppointmentInput, rec RecurrenceInput) (*SeriesResult, error) {
	if err := validateRecurrence(rec); err != nil {
		return nil, err
	}
	baseYear, baseMonth, baseDay, err := calendar.ParseDate(input.Date)
	if err != nil {
		return nil, err
	}
	if _, err := calendar.ParseTimeOfDay(input.StartTime); err != nil {
		return nil, err
	}
	if input.DurationMinutes <= 0 {
		return nil, errors.New("duração deve ser positiva")
	}
	if input.Title == "" {
		return nil, errors.New("título é obrigatório")
	}

	var endY, endM, endD int
	if rec.EndDate != "" {
		endY, endM, endD, err = calendar.ParseDate(rec.EndDate)
		if err != nil {
			return nil, err
		}
	}

	seriesID := uuid.New().String()

	e.logger.WithFields(logrus.Fields{
		"user_id":           input.UserID,
		"pattern":           rec.Pattern,
		"interval":          rec.Interval,
		"recurring_task_id": seriesID,
	}).Info("Expanding recurring series")

	template := &models.Appointment{
		UserID:              input.UserID,
		Title:               input.Title,
		Description:         input.Description,
		Date:                input.Date,
		StartTime:           input.StartTime,
		DurationMinutes:     input.DurationMinutes,
		Status:              models.StatusScheduled,
		IsPomodoro:          input.IsPomodoro,
		AllowOverlap:        input.AllowOverlap,
		IsRecurringTemplate: true,
		RecurringTaskID:     &seriesID,
	}
	if err := e.appointmentRepo.Create(template); err != nil {
		return nil, err
	}

	result := &SeriesResult{
		RecurringTaskID: seriesID,
		Template:        template,
		Instances:       []*models.Appointment{},
		Skipped:         []SkippedOccurrence{},
	}

	// Dates already claimed by this series, for the weekend roll-forward.
	taken := map[string]bool{}

	for n := 0; ; n++ {
		if rec.Count > 0 && n >= rec.Count {
			break
		}
		if n >= maxSeriesOccurrences {
			e.logger.WithField("recurring_task_id", seriesID).
				Warn("Series truncated at occurrence cap")
			break
		}

		y, m, d := advance(baseYear, baseMonth, baseDay, rec.Pattern, rec.Interval*n)
		if rec.EndDate != "" && calendar.CompareDates(y, m, d, endY, endM, endD) > 0 {
			break
		}

		originalDate := calendar.FormatDate(y, m, d)
		y, m, d = e.nextOpenBusinessDay(y, m, d, taken)
		finalDate := calendar.FormatDate(y, m, d)
		rescheduled := finalDate != originalDate

		occInput := input
		occInput.Date = finalDate
		occInput.RecurringTaskID = &seriesID
		occInput.ParentTaskID = &template.ID
		if rescheduled {
			orig := originalDate
			occInput.OriginalDate = &orig
			occInput.WasRescheduledFromWeekend = true
		}

		outcome, err := e.scheduler.CreateAppointment(occInput)
		if err != nil {
			// Storage failure: report and keep expanding; the series is
			// retryable and the shared id allows cleanup.
			result.Skipped = append(result.Skipped, SkippedOccurrence{
				Date:         finalDate,
				OriginalDate: originalDate,
				Reason:       err.Error(),
			})
			continue
		}

		if outcome.Accepted() {
			taken[finalDate] = true
			result.Instances = append(result.Instances, outcome.Appointment)
			continue
		}

		skip := SkippedOccurrence{Date: finalDate, Reason: outcome.Reason}
		if skip.Reason == "" {
			skip.Reason = outcome.Message
		}
		if rescheduled {
			skip.OriginalDate = originalDate
		}
		result.Skipped = append(result.Skipped, skip)
	}

	e.logger.WithFields(logrus.Fields{
		"recurring_task_id": seriesID,
		"instances":         len(result.Instances),
		"skipped":           len(result.Skipped),
	}).Info("Recurring series created")

	return result, nil
}

// DeleteSeries removes the template and every instance sharing the recurring
// task id.
func (e *RecurrenceExpander) DeleteSeries(recurringTaskID string) (int64, error) {
	if recurringTaskID == "" {
		return 0, errors.New("recurring_task_id é obrigatório")
	}
	return e.appointmentRepo.DeleteByRecurringTaskID(recurringTaskID)
}

// GetSeries lists template plus instances of one series.
func (e *RecurrenceExpander) GetSeries(recurringTaskID string) ([]*models.Appointment, error) {
	return e.appointmentRepo.GetByRecurringTaskID(recurringTaskID)
}

// nextOpenBusinessDay moves a date off weekends and holidays, then keeps
// stepping one business day while this series already occupies the slot.
// Dates the series claimed naturally are not rolled; those go through the
// conflict scan like any other appointment.
func (e *RecurrenceExpander) nextOpenBusinessDay(y, m, d int, taken map[string]bool) (int, int, int) {
	isHoliday := func(hy, hm, hd int) bool {
		day, err := e.holidayRepo.GetByDate(calendar.FormatDate(hy, hm, hd))
		return err == nil && day != nil
	}

	ny, nm, nd := calendar.NextBusinessDay(y, m, d, isHoliday)
	if ny == y && nm == m && nd == d {
		return y, m, d
	}
	for taken[calendar.FormatDate(ny, nm, nd)] {
		ny, nm, nd = calendar.AddDays(ny, nm, nd, 1)
		ny, nm, nd = calendar.NextBusinessDay(ny, nm, nd, isHoliday)
	}
	return ny, nm, nd
}

// advance computes the n-th step from the base date for the given pattern.
// Monthly and yearly steps clamp the day of month, always stepping from the
// base so a short month does not shorten the rest of the series.
func advance(year, month, day int, pattern string, steps int) (int, int, int) {
	switch pattern {
	case PatternDaily:
		return calendar.AddDays(year, month, day, steps)
	case PatternWeekly:
		return calendar.AddDays(year, month, day, steps*7)
	case PatternMonthly:
		return calendar.AddMonthsClamped(year, month, day, steps)
	case PatternYearly:
		return calendar.AddYearsClamped(year, month, day, steps)
	}
	return year, month, day
}

func validateRecurrence(rec RecurrenceInput) error {
	switch rec.Pattern {
	case PatternDaily, PatternWeekly, PatternMonthly, PatternYearly:
	default:
		return fmt.Errorf("padrão de recorrência inválido: %q", rec.Pattern)
	}
	if rec.Interval < 1 {
		return errors.New("intervalo de recorrência deve ser >= 1")
	}
	hasEnd := rec.EndDate != ""
	hasCount := rec.Count > 0
	if hasEnd == hasCount {
		return errors.New("recorrência exige data final ou quantidade, nunca ambos")
	}
	return nil
}
