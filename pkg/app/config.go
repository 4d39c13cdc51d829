package app

import (
	"github.com/spf13/viper"
)

const (
	SessionStoreMemory   = "memory"
	SessionStoreRedis    = "redis"
	SessionStorePostgres = "postgres"
	SessionStoreFile     = "file"
)

// BaseConfig contains the process level configuration. Component knobs (auth
// driver, relayer) are read from their own environment variables.
type BaseConfig struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	AppName string `mapstructure:"app_name"`

	SolanaRpcEndpoint string `mapstructure:"solana_rpc_endpoint"`

	// Loopback listener receiving portal redirects on desktop hosts
	CallbackListenAddress string  `mapstructure:"callback_listen_address"`
	CallbackRateLimit     float64 `mapstructure:"callback_rate_limit"`
	CallbackRateBurst     int     `mapstructure:"callback_rate_burst"`

	SessionStore string `mapstructure:"session_store"`

	// Defaults to lazorkit/session.json under the user config directory
	SessionFilePath string `mapstructure:"session_file_path"`

	RedisAddress  string `mapstructure:"redis_address"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDb       int    `mapstructure:"redis_db"`

	PostgresHost     string `mapstructure:"postgres_host"`
	PostgresPort     int    `mapstructure:"postgres_port"`
	PostgresUser     string `mapstructure:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password"`
	PostgresDbName   string `mapstructure:"postgres_db_name"`

	// Metrics are disabled without a license key
	NewRelicLicenseKey string `mapstructure:"new_relic_license_key"`
}

var defaultConfig = BaseConfig{
	LogLevel:  "info",
	LogFormat: "json",

	AppName: "lazorkit",

	SolanaRpcEndpoint: "https://api.devnet.solana.com",

	CallbackListenAddress: "127.0.0.1:0",
	CallbackRateLimit:     5,
	CallbackRateBurst:     5,

	SessionStore: SessionStoreMemory,

	RedisAddress: "localhost:6379",

	PostgresHost:   "localhost",
	PostgresPort:   5432,
	PostgresDbName: "lazorkit",
}

func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("log_level", "LOG_LEVEL")
	_ = v.BindEnv("log_format", "LOG_FORMAT")

	_ = v.BindEnv("app_name", "APP_NAME")

	_ = v.BindEnv("solana_rpc_endpoint", "SOLANA_RPC_ENDPOINT")

	_ = v.BindEnv("callback_listen_address", "CALLBACK_LISTEN_ADDRESS")
	_ = v.BindEnv("callback_rate_limit", "CALLBACK_RATE_LIMIT")
	_ = v.BindEnv("callback_rate_burst", "CALLBACK_RATE_BURST")

	_ = v.BindEnv("session_store", "SESSION_STORE")
	_ = v.BindEnv("session_file_path", "SESSION_FILE_PATH")

	_ = v.BindEnv("redis_address", "REDIS_ADDRESS")
	_ = v.BindEnv("redis_password", "REDIS_PASSWORD")
	_ = v.BindEnv("redis_db", "REDIS_DB")

	_ = v.BindEnv("postgres_host", "POSTGRES_HOST")
	_ = v.BindEnv("postgres_port", "POSTGRES_PORT")
	_ = v.BindEnv("postgres_user", "POSTGRES_USER")
	_ = v.BindEnv("postgres_password", "POSTGRES_PASSWORD")
	_ = v.BindEnv("postgres_db_name", "POSTGRES_DB_NAME")

	_ = v.BindEnv("new_relic_license_key", "NEW_RELIC_LICENSE_KEY")
}
