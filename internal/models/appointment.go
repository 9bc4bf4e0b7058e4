package models

import (
	"time"

	"agenda-service/pkg/calendar"
)

// Appointment statuses.
const (
	StatusScheduled   = "scheduled"
	StatusCompleted   = "completed"
	StatusDelayed     = "delayed"
	StatusRescheduled = "rescheduled"
	StatusCancelled   = "cancelled"
)

// Work-schedule violation reasons carried on accepted-with-warning rows.
const (
	ViolationWeekend      = "weekend"
	ViolationLunchBreak   = "lunch_break"
	ViolationAfterHours   = "after_hours"
	ViolationOutsideHours = "outside_hours"
)

type Appointment struct {
	ID              uint   `gorm:"primarykey" json:"id"`
	UserID          uint   `gorm:"not null;index" json:"user_id"`
	Title           string `gorm:"not null" json:"title"`
	Description     string `json:"description"`
	Date            string `gorm:"type:varchar(10);not null;index" json:"date"`      // YYYY-MM-DD
	StartTime       string `gorm:"type:varchar(5);not null" json:"start_time"`       // HH:MM
	DurationMinutes int    `gorm:"not null;default:60" json:"duration_minutes"`
	EndTime         string `gorm:"type:varchar(5);not null" json:"end_time"`         // derived

	Status     string `gorm:"type:varchar(20);not null;default:'scheduled';index" json:"status"`
	IsPomodoro bool   `gorm:"default:false" json:"is_pomodoro"`

	// Derived by the scheduler.
	AllowOverlap          bool    `gorm:"default:false" json:"allow_overlap"`
	IsWithinWorkHours     bool    `gorm:"default:true" json:"is_within_work_hours"`
	IsOvertime            bool    `gorm:"default:false" json:"is_overtime"`
	WorkScheduleViolation *string `gorm:"type:varchar(20)" json:"work_schedule_violation"`

	RescheduleCount int `gorm:"not null;default:0" json:"reschedule_count"`

	// Recurrence linkage: flat rows correlated by RecurringTaskID.
	IsRecurringTemplate       bool    `gorm:"default:false;index" json:"is_recurring_template"`
	RecurringTaskID           *string `gorm:"type:varchar(36);index" json:"recurring_task_id"`
	ParentTaskID              *uint   `json:"parent_task_id"`
	OriginalDate              *string `gorm:"type:varchar(10)" json:"original_date"`
	WasRescheduledFromWeekend bool    `gorm:"default:false" json:"was_rescheduled_from_weekend"`

	ActualMinutes *int       `json:"actual_minutes"`
	CompletedAt   *time.Time `json:"completed_at"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// StartMinutes returns the start as minutes since midnight. The row is
// assumed valid.
func (a *Appointment) StartMinutes() int {
	m, _ := calendar.ParseTimeOfDay(a.StartTime)
	return m
}

// EndMinutes returns the exclusive end as minutes since midnight. Ends may
// pass 23:59 arithmetically; overlap checks stay within the same date.
func (a *Appointment) EndMinutes() int {
	return a.StartMinutes() + a.DurationMinutes
}

// UpdateCalculatedFields refreshes the derived end time.
func (a *Appointment) UpdateCalculatedFields() {
	a.EndTime = calendar.FormatTimeOfDay(a.EndMinutes())
}

// IsCancelled reports whether the row no longer occupies its slot.
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelled
}

// OccupiesSlot reports whether the row counts as a busy calendar interval.
// Templates are bookkeeping only and never block other appointments.
func (a *Appointment) OccupiesSlot() bool {
	return !a.IsCancelled() && !a.IsRecurringTemplate
}

// IsValid checks the fields the scheduler relies on.
func (a *Appointment) IsValid() bool {
	if a.UserID == 0 || a.Title == "" {
		return false
	}
	if _, _, _, err := calendar.ParseDate(a.Date); err != nil {
		return false
	}
	if _, err := calendar.ParseTimeOfDay(a.StartTime); err != nil {
		return false
	}
	if a.DurationMinutes <= 0 {
		return false
	}
	switch a.Status {
	case StatusScheduled, StatusCompleted, StatusDelayed, StatusRescheduled, StatusCancelled:
		return true
	}
	return false
}
