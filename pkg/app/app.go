// Package app bootstraps process wide concerns: configuration, logging,
// metrics and the session store backend.
package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	pg "github.com/lazor-kit/wallet-client/pkg/database/postgres"
	"github.com/lazor-kit/wallet-client/pkg/metrics"
	"github.com/lazor-kit/wallet-client/pkg/session"
	file_session "github.com/lazor-kit/wallet-client/pkg/session/file"
	memory_session "github.com/lazor-kit/wallet-client/pkg/session/memory"
	postgres_session "github.com/lazor-kit/wallet-client/pkg/session/postgres"
	redis_session "github.com/lazor-kit/wallet-client/pkg/session/redis"
)

// Load reads configuration from the optional file at configPath, the
// environment, and any flags already bound to v, in increasing precedence.
func Load(v *viper.Viper, configPath string) (*BaseConfig, error) {
	bindEnv(v)

	// viper.ReadInConfig only returns ConfigFileNotFoundError when searching
	// for a default file, so a missing explicit path is checked here.
	if len(configPath) > 0 {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)

			if err := v.ReadInConfig(); err != nil {
				return nil, errors.Wrap(err, "failed to load config")
			}
		} else if !os.IsNotExist(err) {
			return nil, errors.Wrap(err, "failed to check if config exists")
		}
	}

	config := defaultConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	if len(config.AppName) == 0 {
		return nil, errors.New("must specify an application name")
	}

	return &config, nil
}

// NewMetricsProvider returns nil when no license key is configured.
func NewMetricsProvider(config *BaseConfig) (*newrelic.Application, error) {
	if len(config.NewRelicLicenseKey) == 0 {
		return nil, nil
	}

	return newrelic.NewApplication(
		newrelic.ConfigFromEnvironment(),
		newrelic.ConfigAppName(config.AppName),
		newrelic.ConfigLicense(config.NewRelicLicenseKey),
		newrelic.ConfigDistributedTracerEnabled(true),
		newrelic.ConfigAppLogForwardingEnabled(true),
	)
}

func ConfigureLogger(config *BaseConfig, metricsProvider *newrelic.Application) {
	var formatter logrus.Formatter = &logrus.JSONFormatter{}
	if strings.ToLower(config.LogFormat) == "text" {
		formatter = &logrus.TextFormatter{FullTimestamp: true}
	}

	if metricsProvider != nil {
		logrus.SetFormatter(metrics.NewCustomNewRelicLogFormatter(metricsProvider, formatter))
	} else {
		logrus.SetFormatter(formatter)
	}

	level, err := logrus.ParseLevel(strings.ToLower(config.LogLevel))
	if err != nil {
		logrus.StandardLogger().WithField("log_level", config.LogLevel).Warn("unknown log level, ignoring")
	} else {
		logrus.SetLevel(level)
	}

	logrus.SetOutput(os.Stderr)
}

// NewSessionStore opens the configured session backend. The returned close
// function releases any connections.
func NewSessionStore(ctx context.Context, config *BaseConfig) (session.Store, func(), error) {
	switch strings.ToLower(config.SessionStore) {
	case "", SessionStoreMemory:
		return memory_session.New(), func() {}, nil
	case SessionStoreFile:
		path := config.SessionFilePath
		if len(path) == 0 {
			dir, err := os.UserConfigDir()
			if err != nil {
				return nil, nil, errors.Wrap(err, "error locating user config directory")
			}
			path = filepath.Join(dir, "lazorkit", "session.json")
		}
		return file_session.New(path), func() {}, nil
	case SessionStoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     config.RedisAddress,
			Password: config.RedisPassword,
			DB:       config.RedisDb,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, errors.Wrap(err, "error connecting to redis")
		}
		return redis_session.New(client), func() { client.Close() }, nil
	case SessionStorePostgres:
		db, err := pg.New(&pg.Config{
			User:     config.PostgresUser,
			Password: config.PostgresPassword,
			Host:     config.PostgresHost,
			Port:     config.PostgresPort,
			DbName:   config.PostgresDbName,
		})
		if err != nil {
			return nil, nil, errors.Wrap(err, "error connecting to postgres")
		}
		return postgres_session.New(db), func() { db.Close() }, nil
	default:
		return nil, nil, errors.Errorf("unsupported session store %q", config.SessionStore)
	}
}
