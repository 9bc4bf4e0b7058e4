package config

import (
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type ServerConfig struct {
	ListenAddr      string
	DatabaseURL     string
	DefaultTimezone string
	MetricsEnabled  bool
}

var instance *ServerConfig
var once sync.Once

func GetServerConfig() *ServerConfig {
	once.Do(func() {
		instance = &ServerConfig{}

		if err := godotenv.Load(); err != nil {
			logrus.Infof("no .env file loaded: %s", err.Error())
		}

		instance.ListenAddr = getEnv("LISTEN_ADDR", ":8080")

		instance.DatabaseURL = getEnv("DATABASE_URL", "")
		if instance.DatabaseURL == "" {
			logrus.Fatal("could not get db url")
		}

		instance.DefaultTimezone = getEnv("DEFAULT_TIMEZONE", "America/Sao_Paulo")
		instance.MetricsEnabled = getEnvAsBool("METRICS_ENABLED", true)
	})

	return instance
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultVal
}

func getEnvAsBool(name string, defaultVal bool) bool {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}

	return defaultVal
}
