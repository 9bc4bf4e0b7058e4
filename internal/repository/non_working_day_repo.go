package repository

import (
	"errors"

	"agenda-service/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NonWorkingDayRepository interface {
	Create(day *models.NonWorkingDay) error
	Upsert(days []models.NonWorkingDay) (int64, error)
	GetByDate(date string) (*models.NonWorkingDay, error)
	GetByYear(year int) ([]*models.NonWorkingDay, error)
	GetAll() ([]*models.NonWorkingDay, error)
	DeleteByID(id uint) error
}

type GormNonWorkingDayRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormNonWorkingDayRepository(db *gorm.DB) (*GormNonWorkingDayRepository, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if err := db.AutoMigrate(&models.NonWorkingDay{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate non_working_days table")
		return nil, err
	}

	logger.Info("Non-working day repository initialized")

	return &GormNonWorkingDayRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormNonWorkingDayRepository) Create(day *models.NonWorkingDay) error {
	r.logger.WithField("date", day.Date).Info("Creating non-working day")

	result := r.db.Create(day)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to create non-working day")
		return result.Error
	}

	return nil
}

// Upsert inserts holiday rows, ignoring dates already registered. Returns the
// number of new rows, so repeated imports of the same calendar are idempotent.
func (r *GormNonWorkingDayRepository) Upsert(days []models.NonWorkingDay) (int64, error) {
	if len(days) == 0 {
		return 0, nil
	}

	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoNothing: true,
	}).Create(&days)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to upsert non-working days")
		return 0, result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"imported": result.RowsAffected,
		"total":    len(days),
	}).Info("Non-working days imported")

	return result.RowsAffected, nil
}

func (r *GormNonWorkingDayRepository) GetByDate(date string) (*models.NonWorkingDay, error) {
	var day models.NonWorkingDay
	result := r.db.Where("date = ?", date).First(&day)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get non-working day by date")
		return nil, result.Error
	}

	return &day, nil
}

func (r *GormNonWorkingDayRepository) GetByYear(year int) ([]*models.NonWorkingDay, error) {
	var days []*models.NonWorkingDay
	result := r.db.Where("year = ?", year).Order("date ASC").Find(&days)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get non-working days by year")
		return nil, result.Error
	}

	return days, nil
}

func (r *GormNonWorkingDayRepository) GetAll() ([]*models.NonWorkingDay, error) {
	var days []*models.NonWorkingDay
	result := r.db.Order("date ASC").Find(&days)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get all non-working days")
		return nil, result.Error
	}

	return days, nil
}

func (r *GormNonWorkingDayRepository) DeleteByID(id uint) error {
	r.logger.WithField("id", id).Info("Deleting non-working day")

	result := r.db.Delete(&models.NonWorkingDay{}, id)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to delete non-working day")
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errors.New("feriado não encontrado")
	}

	return nil
}
