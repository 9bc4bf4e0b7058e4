package service

import (
	"fmt"

	"agenda-service/internal/models"
	"agenda-service/internal/repository"
	"agenda-service/pkg/calendar"

	"github.com/sirupsen/logrus"
)

// ValidationResult is the verdict for a proposed (date, time, duration)
// against the user's work-schedule rules and the weekend/holiday policy.
type ValidationResult struct {
	IsValid           bool    `json:"is_valid"`
	IsWithinWorkHours bool    `json:"is_within_work_hours"`
	IsOvertime        bool    `json:"is_overtime"`
	Violation         *string `json:"violation"`

	// RequiresConfirmation marks a weekend/holiday soft block: the request is
	// not broken, it just needs the user to explicitly confirm the encaixe.
	RequiresConfirmation bool   `json:"requires_confirmation"`
	DayType              string `json:"day_type,omitempty"`

	Message       string `json:"message"`
	SuggestedTime string `json:"suggested_time,omitempty"`
}

type ScheduleValidator struct {
	workScheduleRepo  repository.WorkScheduleRepository
	nonWorkingDayRepo repository.NonWorkingDayRepository
	logger            *logrus.Logger
}

func NewScheduleValidator(
	workScheduleRepo repository.WorkScheduleRepository,
	nonWorkingDayRepo repository.NonWorkingDayRepository,
) *ScheduleValidator {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &ScheduleValidator{
		workScheduleRepo:  workScheduleRepo,
		nonWorkingDayRepo: nonWorkingDayRepo,
		logger:            logger,
	}
}

// Validate evaluates a proposed appointment slot. Malformed input returns an
// error; business-rule outcomes are reported in the result, never defaulted.
//
// The weekday is derived from the (year, month, day) integers directly.
// Parsing the date string through a timezone-aware layer can shift it across
// midnight and flip the weekday, which is exactly the bug this avoids.
func (v *ScheduleValidator) Validate(userID uint, date, startTime string, durationMinutes int, isPomodoro bool) (*ValidationResult, error) {
	year, month, day, err := calendar.ParseDate(date)
	if err != nil {
		return nil, err
	}
	startMin, err := calendar.ParseTimeOfDay(startTime)
	if err != nil {
		return nil, err
	}
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("duração inválida %d: deve ser positiva", durationMinutes)
	}

	// Pomodoro blocks are personal focus time, not business commitments.
	if isPomodoro {
		return &ValidationResult{
			IsValid:           true,
			IsWithinWorkHours: true,
			Message:           "Sessão pomodoro: regras de horário não se aplicam",
		}, nil
	}

	dow := calendar.DayOfWeek(year, month, day)

	holiday, err := v.nonWorkingDayRepo.GetByDate(date)
	if err != nil {
		return nil, err
	}

	if dow == calendar.Saturday || dow == calendar.Sunday || holiday != nil {
		dayType := calendar.DayTypeLabel(dow, holiday != nil)
		violation := models.ViolationWeekend

		v.logger.WithFields(logrus.Fields{
			"user_id":  userID,
			"date":     date,
			"day_type": dayType,
		}).Debug("Non-working day requires confirmation")

		return &ValidationResult{
			IsValid:              false,
			RequiresConfirmation: true,
			DayType:              dayType,
			Violation:            &violation,
			Message:              fmt.Sprintf("Agendamento em %s requer confirmação de encaixe", dayType),
		}, nil
	}

	rules, err := v.rulesForDay(userID, dow)
	if err != nil {
		return nil, err
	}

	// A schedule that says nothing about a weekday leaves it overridable: the
	// slot is accepted but flagged overtime.
	if len(rules) == 0 {
		violation := models.ViolationOutsideHours
		return &ValidationResult{
			IsValid:    true,
			IsOvertime: true,
			Violation:  &violation,
			Message:    "Dia sem regras de horário: agendado como hora extra",
		}, nil
	}

	endMin := startMin + durationMinutes
	rule := matchRule(rules, startMin, endMin)

	if rule == nil {
		violation := models.ViolationOutsideHours
		return &ValidationResult{
			IsValid:       false,
			Violation:     &violation,
			Message:       "Horário fora dos blocos configurados",
			SuggestedTime: suggestNextWorkingStart(rules, startMin),
		}, nil
	}

	if rule.IsWorkingTime {
		return &ValidationResult{
			IsValid:           true,
			IsWithinWorkHours: true,
			Message:           "Dentro do horário de trabalho",
		}, nil
	}

	if rule.AllowOverlap {
		violation := models.ViolationAfterHours
		return &ValidationResult{
			IsValid:    true,
			IsOvertime: true,
			Violation:  &violation,
			Message:    "Bloco extra: agendado como hora extra",
		}, nil
	}

	violation := models.ViolationOutsideHours
	if rule.RuleType == models.RuleTypeLunch {
		violation = models.ViolationLunchBreak
	}

	return &ValidationResult{
		IsValid:       false,
		Violation:     &violation,
		Message:       fmt.Sprintf("Horário bloqueado (%s)", rule.RuleType),
		SuggestedTime: suggestNextWorkingStart(rules, startMin),
	}, nil
}

// rulesForDay resolves the user's rules for a weekday, falling back to the
// built-in default template when the user has no active schedule.
func (v *ScheduleValidator) rulesForDay(userID uint, dow int) ([]models.WorkScheduleRule, error) {
	schedule, err := v.workScheduleRepo.GetActiveByUserID(userID)
	if err != nil {
		return nil, err
	}

	source := models.DefaultRules()
	if schedule != nil {
		source = schedule.Rules
	}

	rules := make([]models.WorkScheduleRule, 0, 4)
	for _, r := range source {
		if r.DayOfWeek == dow {
			rules = append(rules, r)
		}
	}
	return rules, nil
}

// matchRule finds the rule containing the requested start, falling back to
// the rule with the largest overlap with [start, end).
func matchRule(rules []models.WorkScheduleRule, startMin, endMin int) *models.WorkScheduleRule {
	for i := range rules {
		if rules[i].Contains(startMin) {
			return &rules[i]
		}
	}

	var best *models.WorkScheduleRule
	bestOverlap := 0
	for i := range rules {
		if overlap := rules[i].OverlapMinutes(startMin, endMin); overlap > bestOverlap {
			best = &rules[i]
			bestOverlap = overlap
		}
	}
	return best
}

// suggestNextWorkingStart returns the start of the nearest working block at
// or after the requested start, or empty when the day has none left.
func suggestNextWorkingStart(rules []models.WorkScheduleRule, startMin int) string {
	best := -1
	for i := range rules {
		if !rules[i].IsWorkingTime {
			continue
		}
		s := rules[i].StartMinutes()
		if s >= startMin && (best == -1 || s < best) {
			best = s
		}
	}
	if best == -1 {
		return ""
	}
	return calendar.FormatTimeOfDay(best)
}
