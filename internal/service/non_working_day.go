package service

import (
	"agenda-service/internal/models"
	"agenda-service/internal/repository"
	"agenda-service/pkg/calendar"
	"agenda-service/pkg/holidays"

	"github.com/sirupsen/logrus"
)

// NonWorkingDayService maintains the holiday calendar the validator and the
// recurrence expander consult.
type NonWorkingDayService struct {
	repo   repository.NonWorkingDayRepository
	logger *logrus.Logger
}

func NewNonWorkingDayService(repo repository.NonWorkingDayRepository) *NonWorkingDayService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &NonWorkingDayService{
		repo:   repo,
		logger: logger,
	}
}

// Add registers a single holiday.
func (s *NonWorkingDayService) Add(date, description string) (*models.NonWorkingDay, error) {
	year, month, day, err := calendar.ParseDate(date)
	if err != nil {
		return nil, err
	}

	nwd := &models.NonWorkingDay{
		Date:        date,
		Year:        year,
		Month:       month,
		Day:         day,
		Description: description,
	}
	if err := s.repo.Create(nwd); err != nil {
		return nil, err
	}
	return nwd, nil
}

// ImportJSON loads a yearly holiday calendar document. Re-importing the same
// calendar is a no-op per date.
func (s *NonWorkingDayService) ImportJSON(data []byte) (int64, error) {
	parsed, err := holidays.Parse(data)
	if err != nil {
		return 0, err
	}

	rows := make([]models.NonWorkingDay, 0, len(parsed))
	for _, h := range parsed {
		rows = append(rows, models.NonWorkingDay{
			Date:        h.Date(),
			Year:        h.Year,
			Month:       h.Month,
			Day:         h.Day,
			Description: h.Description,
		})
	}

	imported, err := s.repo.Upsert(rows)
	if err != nil {
		return 0, err
	}

	s.logger.WithFields(logrus.Fields{
		"parsed":   len(rows),
		"imported": imported,
	}).Info("Holiday calendar imported")

	return imported, nil
}

// List returns all registered holidays, optionally filtered by year.
func (s *NonWorkingDayService) List(year int) ([]*models.NonWorkingDay, error) {
	if year > 0 {
		return s.repo.GetByYear(year)
	}
	return s.repo.GetAll()
}

// Delete removes one holiday.
func (s *NonWorkingDayService) Delete(id uint) error {
	return s.repo.DeleteByID(id)
}
