package repository

import (
	"errors"

	"agenda-service/internal/models"
	"agenda-service/pkg/calendar"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(appointment *models.Appointment) error
	Update(appointment *models.Appointment) error
	GetByID(id uint) (*models.Appointment, error)
	GetByUserAndDate(userID uint, date string) ([]*models.Appointment, error)
	GetByUserAndMonth(userID uint, year, month int) ([]*models.Appointment, error)
	GetByRecurringTaskID(recurringTaskID string) ([]*models.Appointment, error)
	GetScheduledBefore(date string) ([]*models.Appointment, error)
	DeleteByID(id uint) error
	DeleteByRecurringTaskID(recurringTaskID string) (int64, error)
}

type GormAppointmentRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormAppointmentRepository(db *gorm.DB) (*GormAppointmentRepository, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if err := db.AutoMigrate(&models.Appointment{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate appointments table")
		return nil, err
	}

	logger.Info("Appointment repository initialized")

	return &GormAppointmentRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormAppointmentRepository) Create(appointment *models.Appointment) error {
	r.logger.WithFields(logrus.Fields{
		"user_id":    appointment.UserID,
		"date":       appointment.Date,
		"start_time": appointment.StartTime,
	}).Info("Creating appointment")

	if !appointment.IsValid() {
		r.logger.WithFields(logrus.Fields{
			"user_id": appointment.UserID,
			"date":    appointment.Date,
		}).Warn("Invalid appointment data")
		return errors.New("dados de agendamento inválidos")
	}

	appointment.UpdateCalculatedFields()

	result := r.db.Create(appointment)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to create appointment")
		return result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"id":      appointment.ID,
		"user_id": appointment.UserID,
		"status":  appointment.Status,
	}).Info("Appointment created successfully")

	return nil
}

func (r *GormAppointmentRepository) Update(appointment *models.Appointment) error {
	r.logger.WithFields(logrus.Fields{
		"id":      appointment.ID,
		"user_id": appointment.UserID,
	}).Info("Updating appointment")

	if !appointment.IsValid() {
		r.logger.WithField("id", appointment.ID).Warn("Invalid appointment data for update")
		return errors.New("dados de agendamento inválidos")
	}

	appointment.UpdateCalculatedFields()

	result := r.db.Save(appointment)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to update appointment")
		return result.Error
	}

	return nil
}

func (r *GormAppointmentRepository) GetByID(id uint) (*models.Appointment, error) {
	var appointment models.Appointment
	result := r.db.First(&appointment, id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.WithField("id", id).Debug("Appointment not found")
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get appointment by ID")
		return nil, result.Error
	}

	return &appointment, nil
}

func (r *GormAppointmentRepository) GetByUserAndDate(userID uint, date string) ([]*models.Appointment, error) {
	var appointments []*models.Appointment
	result := r.db.Where("user_id = ? AND date = ?", userID, date).
		Order("start_time ASC").
		Find(&appointments)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get appointments by user and date")
		return nil, result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"date":    date,
		"count":   len(appointments),
	}).Debug("Retrieved appointments by user and date")

	return appointments, nil
}

func (r *GormAppointmentRepository) GetByUserAndMonth(userID uint, year, month int) ([]*models.Appointment, error) {
	var appointments []*models.Appointment

	// YYYY-MM-DD strings order lexicographically, so BETWEEN covers the month.
	start := calendar.FormatDate(year, month, 1)
	end := calendar.FormatDate(year, month, calendar.DaysInMonth(year, month))

	result := r.db.Where("user_id = ? AND date BETWEEN ? AND ?", userID, start, end).
		Order("date ASC, start_time ASC").
		Find(&appointments)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get appointments by user and month")
		return nil, result.Error
	}

	return appointments, nil
}

func (r *GormAppointmentRepository) GetByRecurringTaskID(recurringTaskID string) ([]*models.Appointment, error) {
	var appointments []*models.Appointment
	result := r.db.Where("recurring_task_id = ?", recurringTaskID).
		Order("date ASC, start_time ASC").
		Find(&appointments)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get appointments by recurring task ID")
		return nil, result.Error
	}

	return appointments, nil
}

// GetScheduledBefore lists still-scheduled appointments dated strictly before
// the given date, used by the delayed sweep.
func (r *GormAppointmentRepository) GetScheduledBefore(date string) ([]*models.Appointment, error) {
	var appointments []*models.Appointment
	result := r.db.Where("date < ? AND status = ? AND is_recurring_template = ?",
		date, models.StatusScheduled, false).
		Find(&appointments)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get overdue appointments")
		return nil, result.Error
	}

	return appointments, nil
}

func (r *GormAppointmentRepository) DeleteByID(id uint) error {
	r.logger.WithField("id", id).Info("Deleting appointment")

	result := r.db.Delete(&models.Appointment{}, id)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to delete appointment")
		return result.Error
	}

	if result.RowsAffected == 0 {
		r.logger.WithField("id", id).Warn("Appointment not found for deletion")
		return errors.New("agendamento não encontrado")
	}

	r.logger.WithField("id", id).Info("Appointment deleted successfully")
	return nil
}

func (r *GormAppointmentRepository) DeleteByRecurringTaskID(recurringTaskID string) (int64, error) {
	r.logger.WithField("recurring_task_id", recurringTaskID).Info("Deleting recurring series")

	result := r.db.Where("recurring_task_id = ?", recurringTaskID).Delete(&models.Appointment{})
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to delete recurring series")
		return 0, result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"recurring_task_id": recurringTaskID,
		"rows_affected":     result.RowsAffected,
	}).Info("Recurring series deleted successfully")

	return result.RowsAffected, nil
}
