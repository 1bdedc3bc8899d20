package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
)

type Config struct {
	DatabaseBusyTimeout       time.Duration
	DatabaseConnectRetryCount int
	DatabaseConnectRetryDelay time.Duration
	DatabaseDebug             bool
	DatabaseFilePath          string
	DatabaseMaxRetries        int
	Hostname                  string
	MaxOpenLoans              int
	MaxWindowDays             int
	ServerHost                string
	ServerPort                int
	SweepInterval             time.Duration
}

const environmentENV = "ENVIRONMENT"

func New() (*Config, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	cfg := &Config{
		DatabaseBusyTimeout:       5 * time.Second,
		DatabaseConnectRetryCount: 5,
		DatabaseConnectRetryDelay: 2 * time.Second,
		DatabaseMaxRetries:        3,
		Hostname:                  hostname,
		MaxOpenLoans:              10,
		MaxWindowDays:             14,
		ServerPort:                3690,
		SweepInterval:             15 * time.Minute,
	}

	switch os.Getenv(environmentENV) {
	case "development", "":
		loadDevelopmentConfig(cfg)
	case "test":
		loadTestConfig(cfg)
	case "production":
		loadProductionConfig(cfg)
	}

	return cfg, nil
}

// NewForTest returns a config suitable for package tests: an in-memory
// database and the background sweep loop disabled.
func NewForTest() *Config {
	cfg := &Config{
		DatabaseBusyTimeout:       5 * time.Second,
		DatabaseConnectRetryCount: 1,
		DatabaseConnectRetryDelay: time.Millisecond,
		DatabaseMaxRetries:        3,
		Hostname:                  "test",
		MaxOpenLoans:              10,
		MaxWindowDays:             14,
		ServerHost:                "127.0.0.1",
	}
	loadTestConfig(cfg)
	return cfg
}
