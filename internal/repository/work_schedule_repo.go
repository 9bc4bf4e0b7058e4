package repository

import (
	"errors"

	"agenda-service/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type WorkScheduleRepository interface {
	Create(schedule *models.WorkSchedule) error
	Update(schedule *models.WorkSchedule) error
	Delete(id uint) error
	GetByID(id uint) (*models.WorkSchedule, error)
	GetActiveByUserID(userID uint) (*models.WorkSchedule, error)
	ReplaceRules(scheduleID uint, rules []models.WorkScheduleRule) error
}

type GormWorkScheduleRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormWorkScheduleRepository(db *gorm.DB) (*GormWorkScheduleRepository, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if err := db.AutoMigrate(&models.WorkSchedule{}, &models.WorkScheduleRule{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate work schedule tables")
		return nil, err
	}

	logger.Info("Work schedule repository initialized")

	return &GormWorkScheduleRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormWorkScheduleRepository) Create(schedule *models.WorkSchedule) error {
	r.logger.WithFields(logrus.Fields{
		"user_id": schedule.UserID,
		"name":    schedule.Name,
		"rules":   len(schedule.Rules),
	}).Info("Creating work schedule")

	for i := range schedule.Rules {
		if !schedule.Rules[i].IsValid() {
			r.logger.WithFields(logrus.Fields{
				"user_id":     schedule.UserID,
				"day_of_week": schedule.Rules[i].DayOfWeek,
				"start_time":  schedule.Rules[i].StartTime,
			}).Warn("Invalid work schedule rule")
			return errors.New("regra de horário inválida")
		}
	}

	result := r.db.Create(schedule)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to create work schedule")
		return result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"id":      schedule.ID,
		"user_id": schedule.UserID,
	}).Info("Work schedule created successfully")

	return nil
}

func (r *GormWorkScheduleRepository) Update(schedule *models.WorkSchedule) error {
	r.logger.WithFields(logrus.Fields{
		"id":      schedule.ID,
		"user_id": schedule.UserID,
	}).Info("Updating work schedule")

	result := r.db.Omit("Rules").Save(schedule)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to update work schedule")
		return result.Error
	}

	return nil
}

func (r *GormWorkScheduleRepository) Delete(id uint) error {
	r.logger.WithField("id", id).Info("Deleting work schedule")

	if err := r.db.Where("work_schedule_id = ?", id).Delete(&models.WorkScheduleRule{}).Error; err != nil {
		r.logger.WithError(err).Error("Failed to delete work schedule rules")
		return err
	}

	result := r.db.Delete(&models.WorkSchedule{}, id)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to delete work schedule")
		return result.Error
	}

	if result.RowsAffected == 0 {
		r.logger.WithField("id", id).Warn("Work schedule not found for deletion")
		return errors.New("horário de trabalho não encontrado")
	}

	return nil
}

func (r *GormWorkScheduleRepository) GetByID(id uint) (*models.WorkSchedule, error) {
	var schedule models.WorkSchedule
	result := r.db.Preload("Rules").First(&schedule, id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.WithField("id", id).Debug("Work schedule not found")
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get work schedule by ID")
		return nil, result.Error
	}

	return &schedule, nil
}

func (r *GormWorkScheduleRepository) GetActiveByUserID(userID uint) (*models.WorkSchedule, error) {
	var schedule models.WorkSchedule
	result := r.db.Preload("Rules").
		Where("user_id = ? AND is_active = ?", userID, true).
		First(&schedule)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.WithField("user_id", userID).Debug("No active work schedule for user")
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get work schedule by user")
		return nil, result.Error
	}

	return &schedule, nil
}

// ReplaceRules swaps the full weekly rule set of a schedule in one transaction.
func (r *GormWorkScheduleRepository) ReplaceRules(scheduleID uint, rules []models.WorkScheduleRule) error {
	r.logger.WithFields(logrus.Fields{
		"schedule_id": scheduleID,
		"rules":       len(rules),
	}).Info("Replacing work schedule rules")

	for i := range rules {
		if !rules[i].IsValid() {
			return errors.New("regra de horário inválida")
		}
		rules[i].ID = 0
		rules[i].WorkScheduleID = scheduleID
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("work_schedule_id = ?", scheduleID).Delete(&models.WorkScheduleRule{}).Error; err != nil {
			return err
		}
		if len(rules) == 0 {
			return nil
		}
		return tx.Create(&rules).Error
	})
	if err != nil {
		r.logger.WithError(err).Error("Failed to replace work schedule rules")
		return err
	}

	return nil
}
