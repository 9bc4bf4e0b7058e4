package service

import (
	"errors"
	"time"

	"agenda-service/internal/models"
	"agenda-service/internal/repository"

	"github.com/sirupsen/logrus"
)

type UserService struct {
	repo   repository.UserRepository
	logger *logrus.Logger
}

func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{
		repo:   repo,
		logger: logrus.New(),
	}
}

// CreateUser registers a user, validating the timezone when one is given.
func (s *UserService) CreateUser(name, email, timezone string) (*models.User, error) {
	if name == "" {
		return nil, errors.New("nome é obrigatório")
	}
	if timezone != "" {
		if _, err := time.LoadLocation(timezone); err != nil {
			return nil, errors.New("fuso horário inválido")
		}
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Timezone: timezone,
	}
	if user.Timezone == "" {
		user.Timezone = models.DefaultTimezone
	}

	if err := s.repo.Create(user); err != nil {
		s.logger.WithError(err).Error("Failed to create user")
		return nil, err
	}

	return user, nil
}

func (s *UserService) GetUser(id uint) (*models.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("usuário não encontrado")
	}
	return user, nil
}

func (s *UserService) ListUsers() ([]*models.User, error) {
	return s.repo.GetAll()
}
