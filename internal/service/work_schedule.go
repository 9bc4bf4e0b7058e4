package service

import (
	"errors"

	"agenda-service/internal/models"
	"agenda-service/internal/repository"

	"github.com/sirupsen/logrus"
)

// WorkScheduleService resolves and maintains per-user weekly rule templates.
type WorkScheduleService struct {
	repo     repository.WorkScheduleRepository
	userRepo repository.UserRepository
	logger   *logrus.Logger
}

func NewWorkScheduleService(
	repo repository.WorkScheduleRepository,
	userRepo repository.UserRepository,
) *WorkScheduleService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &WorkScheduleService{
		repo:     repo,
		userRepo: userRepo,
		logger:   logger,
	}
}

// GetUserWorkSchedule returns the user's active schedule with rules. A user
// without a schedule gets the built-in default template (not persisted), so
// the system is usable out of the box.
func (s *WorkScheduleService) GetUserWorkSchedule(userID uint) (*models.WorkSchedule, error) {
	schedule, err := s.repo.GetActiveByUserID(userID)
	if err != nil {
		return nil, err
	}
	if schedule != nil {
		return schedule, nil
	}

	s.logger.WithField("user_id", userID).Debug("No schedule configured, using default template")

	return &models.WorkSchedule{
		UserID:   userID,
		Name:     "Horário Padrão",
		Timezone: models.DefaultTimezone,
		IsActive: true,
		Rules:    models.DefaultRules(),
	}, nil
}

// SetUserWorkSchedule creates the user's schedule on first write and replaces
// its weekly rules on subsequent ones.
func (s *WorkScheduleService) SetUserWorkSchedule(userID uint, name, timezone string, rules []models.WorkScheduleRule) (*models.WorkSchedule, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("usuário não encontrado")
	}

	for i := range rules {
		if !rules[i].IsValid() {
			return nil, errors.New("regra de horário inválida")
		}
	}

	if timezone == "" {
		timezone = user.EffectiveTimezone()
	}
	if name == "" {
		name = "Horário Padrão"
	}

	schedule, err := s.repo.GetActiveByUserID(userID)
	if err != nil {
		return nil, err
	}

	if schedule == nil {
		schedule = &models.WorkSchedule{
			UserID:   userID,
			Name:     name,
			Timezone: timezone,
			IsActive: true,
			Rules:    rules,
		}
		for i := range schedule.Rules {
			schedule.Rules[i].ID = 0
		}
		if err := s.repo.Create(schedule); err != nil {
			return nil, err
		}
		return s.repo.GetByID(schedule.ID)
	}

	schedule.Name = name
	schedule.Timezone = timezone
	if err := s.repo.Update(schedule); err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceRules(schedule.ID, rules); err != nil {
		return nil, err
	}

	return s.repo.GetByID(schedule.ID)
}
