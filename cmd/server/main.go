package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agenda-service/internal/config"
	"agenda-service/internal/handler"
	"agenda-service/internal/repository"
	"agenda-service/internal/service"
	"agenda-service/pkg/calendar"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	logrus.Info("Initializing config...")
	cfg := config.GetServerConfig()
	logrus.Info("Config initialized...")

	db, err := gorm.Open(sqlite.Open(cfg.DatabaseURL), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true, // SQLite limitation
	})
	if err != nil {
		logrus.Fatal("Failed to connect to database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		logrus.Fatal("Failed to get database instance:", err)
	}

	// SQLite needs foreign keys switched on per connection.
	_, err = sqlDB.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		logrus.Infof("Warning: Failed to enable foreign keys: %v", err)
	}

	userRepo, err := repository.NewGormUserRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create user repository")
	}

	workScheduleRepo, err := repository.NewGormWorkScheduleRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create work schedule repository")
	}

	appointmentRepo, err := repository.NewGormAppointmentRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create appointment repository")
	}

	nonWorkingDayRepo, err := repository.NewGormNonWorkingDayRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create non-working day repository")
	}

	userService := service.NewUserService(userRepo)
	workScheduleService := service.NewWorkScheduleService(workScheduleRepo, userRepo)
	nonWorkingDayService := service.NewNonWorkingDayService(nonWorkingDayRepo)
	summaryService := service.NewSummaryService(appointmentRepo)

	validator := service.NewScheduleValidator(workScheduleRepo, nonWorkingDayRepo)
	scheduler := service.NewAppointmentScheduler(appointmentRepo, validator, calendar.SystemClock{})
	expander := service.NewRecurrenceExpander(appointmentRepo, scheduler, nonWorkingDayRepo)

	apiHandler := handler.NewHandler(
		userService,
		workScheduleService,
		validator,
		scheduler,
		expander,
		nonWorkingDayService,
		summaryService,
		cfg,
	)

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      apiHandler.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logrus.Infof("Server listening on %s", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatal("Server failed:", err)
		}
	}()

	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.Infof("Error during shutdown: %v", err)
	}

	if err := sqlDB.Close(); err != nil {
		logrus.Infof("Error closing database: %v", err)
	}

	logrus.Info("Server stopped gracefully")
}
