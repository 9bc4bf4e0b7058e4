package models

import (
	"time"

	"agenda-service/pkg/calendar"
)

type WorkSchedule struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Name      string    `gorm:"not null;default:'Horário Padrão'" json:"name"`
	Timezone  string    `gorm:"default:'America/Sao_Paulo'" json:"timezone"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Rules []WorkScheduleRule `gorm:"foreignKey:WorkScheduleID" json:"rules"`
}

func (WorkSchedule) TableName() string {
	return "work_schedules"
}

// Rule block types.
const (
	RuleTypeWork        = "work"
	RuleTypeLunch       = "lunch"
	RuleTypeBreak       = "break"
	RuleTypeUnavailable = "unavailable"
)

type WorkScheduleRule struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	WorkScheduleID uint      `gorm:"not null;index" json:"work_schedule_id"`
	DayOfWeek      int       `gorm:"not null;check:day_of_week >= 0 AND day_of_week <= 6;index" json:"day_of_week"`
	StartTime      string    `gorm:"type:varchar(5);not null" json:"start_time"` // HH:MM, 24h
	EndTime        string    `gorm:"type:varchar(5);not null" json:"end_time"`   // HH:MM, 24h
	RuleType       string    `gorm:"type:varchar(20);not null;default:'work'" json:"rule_type"`
	IsWorkingTime  bool      `gorm:"default:true" json:"is_working_time"`
	AllowOverlap   bool      `gorm:"default:false" json:"allow_overlap"`
	Description    string    `json:"description"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (WorkScheduleRule) TableName() string {
	return "work_schedule_rules"
}

// IsValid checks the rule's day, times and type.
func (r *WorkScheduleRule) IsValid() bool {
	if r.DayOfWeek < 0 || r.DayOfWeek > 6 {
		return false
	}
	start, err := calendar.ParseTimeOfDay(r.StartTime)
	if err != nil {
		return false
	}
	end, err := calendar.ParseTimeOfDay(r.EndTime)
	if err != nil {
		return false
	}
	if end <= start {
		return false
	}
	switch r.RuleType {
	case RuleTypeWork, RuleTypeLunch, RuleTypeBreak, RuleTypeUnavailable:
		return true
	}
	return false
}

// StartMinutes returns the block start as minutes since midnight. The rule is
// assumed valid.
func (r *WorkScheduleRule) StartMinutes() int {
	m, _ := calendar.ParseTimeOfDay(r.StartTime)
	return m
}

// EndMinutes returns the block end as minutes since midnight.
func (r *WorkScheduleRule) EndMinutes() int {
	m, _ := calendar.ParseTimeOfDay(r.EndTime)
	return m
}

// Contains reports whether the block covers the given minute of the day.
func (r *WorkScheduleRule) Contains(minute int) bool {
	return minute >= r.StartMinutes() && minute < r.EndMinutes()
}

// OverlapMinutes returns how many minutes of [start, end) fall inside the block.
func (r *WorkScheduleRule) OverlapMinutes(start, end int) int {
	s := max(start, r.StartMinutes())
	e := min(end, r.EndMinutes())
	if e <= s {
		return 0
	}
	return e - s
}

// DefaultRules builds the out-of-the-box weekly template used when a user has
// no configured schedule: Mon-Fri 08:00-12:00 and 13:00-18:00 working, a
// 12:00-13:00 lunch break, and an 18:00-23:59 overtime-eligible block.
func DefaultRules() []WorkScheduleRule {
	rules := make([]WorkScheduleRule, 0, 20)
	for dow := calendar.Monday; dow <= calendar.Friday; dow++ {
		rules = append(rules,
			WorkScheduleRule{DayOfWeek: dow, StartTime: "08:00", EndTime: "12:00", RuleType: RuleTypeWork, IsWorkingTime: true},
			WorkScheduleRule{DayOfWeek: dow, StartTime: "12:00", EndTime: "13:00", RuleType: RuleTypeLunch, IsWorkingTime: false, Description: "Almoço"},
			WorkScheduleRule{DayOfWeek: dow, StartTime: "13:00", EndTime: "18:00", RuleType: RuleTypeWork, IsWorkingTime: true},
			WorkScheduleRule{DayOfWeek: dow, StartTime: "18:00", EndTime: "23:59", RuleType: RuleTypeUnavailable, IsWorkingTime: false, AllowOverlap: true, Description: "Horário extra"},
		)
	}
	return rules
}
