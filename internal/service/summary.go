package service

import (
	"errors"

	"agenda-service/internal/models"
	"agenda-service/internal/repository"
)

// MonthlySummary aggregates a user's month of appointments: planned minutes
// come from scheduled durations, worked minutes prefer the timer-captured
// actual time, and the overtime/deficit split follows from their difference.
type MonthlySummary struct {
	UserID int `json:"user_id"`
	Year   int `json:"year"`
	Month  int `json:"month"`

	ScheduledCount int `json:"scheduled_count"`
	CompletedCount int `json:"completed_count"`
	DelayedCount   int `json:"delayed_count"`
	CancelledCount int `json:"cancelled_count"`

	PlannedMinutes  int `json:"planned_minutes"`
	WorkedMinutes   int `json:"worked_minutes"`
	OvertimeMinutes int `json:"overtime_minutes"`
	DeficitMinutes  int `json:"deficit_minutes"`
}

// CalculateBalance splits the worked-vs-planned difference into overtime and
// deficit, never both.
func (m *MonthlySummary) CalculateBalance() {
	diff := m.WorkedMinutes - m.PlannedMinutes
	if diff > 0 {
		m.OvertimeMinutes = diff
		m.DeficitMinutes = 0
	} else {
		m.OvertimeMinutes = 0
		m.DeficitMinutes = -diff
	}
}

// SummaryService computes monthly summaries straight from the appointment
// store; nothing is persisted.
type SummaryService struct {
	appointmentRepo repository.AppointmentRepository
}

func NewSummaryService(appointmentRepo repository.AppointmentRepository) *SummaryService {
	return &SummaryService{appointmentRepo: appointmentRepo}
}

// ComputeMonthly builds the summary for one user and month.
func (s *SummaryService) ComputeMonthly(userID uint, year, month int) (*MonthlySummary, error) {
	if month < 1 || month > 12 {
		return nil, errors.New("mês deve estar entre 1 e 12")
	}
	if year < 2000 || year > 2100 {
		return nil, errors.New("ano fora do intervalo suportado")
	}

	appointments, err := s.appointmentRepo.GetByUserAndMonth(userID, year, month)
	if err != nil {
		return nil, err
	}

	summary := &MonthlySummary{UserID: int(userID), Year: year, Month: month}

	for _, appt := range appointments {
		if appt.IsRecurringTemplate {
			continue
		}

		switch appt.Status {
		case models.StatusCancelled:
			summary.CancelledCount++
			continue
		case models.StatusDelayed:
			summary.DelayedCount++
		case models.StatusCompleted:
			summary.CompletedCount++
		default:
			summary.ScheduledCount++
		}

		summary.PlannedMinutes += appt.DurationMinutes

		if appt.Status == models.StatusCompleted {
			if appt.ActualMinutes != nil {
				summary.WorkedMinutes += *appt.ActualMinutes
			} else {
				summary.WorkedMinutes += appt.DurationMinutes
			}
		}
	}

	summary.CalculateBalance()
	return summary, nil
}
