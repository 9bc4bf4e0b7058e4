package repository

import (
	"errors"

	"agenda-service/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *models.User) error
	Update(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetAll() ([]*models.User, error)
}

type GormUserRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormUserRepository(db *gorm.DB) (*GormUserRepository, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if err := db.AutoMigrate(&models.User{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate users table")
		return nil, err
	}

	logger.Info("User repository initialized")

	return &GormUserRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormUserRepository) Create(user *models.User) error {
	r.logger.WithField("name", user.Name).Info("Creating user")

	if !user.IsValid() {
		r.logger.Warn("Invalid user data")
		return errors.New("dados de usuário inválidos")
	}

	result := r.db.Create(user)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to create user")
		return result.Error
	}

	r.logger.WithField("id", user.ID).Info("User created successfully")
	return nil
}

func (r *GormUserRepository) Update(user *models.User) error {
	r.logger.WithField("id", user.ID).Info("Updating user")

	if !user.IsValid() {
		r.logger.Warn("Invalid user data for update")
		return errors.New("dados de usuário inválidos")
	}

	result := r.db.Save(user)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to update user")
		return result.Error
	}

	return nil
}

func (r *GormUserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	result := r.db.First(&user, id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.WithField("id", id).Debug("User not found")
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get user by ID")
		return nil, result.Error
	}

	return &user, nil
}

func (r *GormUserRepository) GetAll() ([]*models.User, error) {
	var users []*models.User
	result := r.db.Order("name ASC").Find(&users)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get all users")
		return nil, result.Error
	}

	r.logger.WithField("count", len(users)).Debug("Retrieved all users")
	return users, nil
}
