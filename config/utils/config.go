// Package config provides utilities to load environment variables & set config structs, it includes app, logger, dispatch, http server, db, redis and amqp sections.
package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/likethemonth/Four-Seasons-Task-sub001/internal/core/domain"
)

// AppConfig contains environment variables for the application, dispatch
// engine, http server, database, cache and message broker
type (
	AppConfig struct {
		App      *App      `mapstructure:"app"`
		Logger   *Logger   `mapstructure:"logger"`
		Dispatch *Dispatch `mapstructure:"dispatch"`
		HTTP     *HTTP     `mapstructure:"http"`
		DB       *DB       `mapstructure:"db"`
		Redis    *Redis    `mapstructure:"redis"`
		AMQP     *AMQP     `mapstructure:"amqp"`
	}

	// App contains all the environment variables for the application
	App struct {
		Name  string `mapstructure:"name"`
		Env   string `mapstructure:"env"`
		Owner string `mapstructure:"owner"`
	}

	// Dispatch contains the dispatch engine settings: the sweep interval and
	// the roster seed. An empty roster falls back to the built-in default.
	Dispatch struct {
		SweepInterval time.Duration       `mapstructure:"sweepInterval"`
		Roster        []domain.WorkerSeed `mapstructure:"roster"`
	}

	// HTTP contains all the environment variables for the http server
	HTTP struct {
		Addr string `mapstructure:"addr"`
	}

	// Redis contains all the environment variables for the cache service
	Redis struct {
		Enabled  bool   `mapstructure:"enabled"`
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
	}

	// DB contains all the environment variables for the database
	DB struct {
		Enabled    bool   `mapstructure:"enabled"`
		Connection string `mapstructure:"connection"`
		Host       string `mapstructure:"host"`
		Port       string `mapstructure:"port"`
		User       string `mapstructure:"user"`
		Password   string `mapstructure:"password"`
		Name       string `mapstructure:"name"`
	}

	// AMQP contains all the environment variables for the message broker
	AMQP struct {
		Enabled bool   `mapstructure:"enabled"`
		URL     string `mapstructure:"url"`
	}

	// Logger contains all the environment variables for the logger
	Logger struct {
		Level             string                `mapstructure:"level"`
		Development       bool                  `mapstructure:"development"`
		DisableStacktrace bool                  `mapstructure:"disableStacktrace"`
		Encoding          string                `mapstructure:"encoding"`
		EncoderConfig     zapcore.EncoderConfig `mapstructure:"encoderConfig"`
	}
)

// addZapEncoderConfig fills encoder config with zapcore types
func addZapEncoderConfig(cfg *zapcore.EncoderConfig) {
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeDuration = zapcore.SecondsDurationEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	cfg.EncodeName = func(s string, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString("[" + s + "]")
	}
}

// New creates a new AppConfig instance
func New() *AppConfig {
	// Set up viper to read the config.yaml file
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/secrets/")

	viper.AutomaticEnv()
	viper.SetEnvPrefix("env")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("dispatch.sweepInterval", 30*time.Second)
	viper.SetDefault("http.addr", ":8080")

	// Read the config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Fatalf("config file not found: %v", err)
		} else {
			log.Fatalf("error reading config file: %v", err)
		}
	}

	// Bind the app.name key to the APP_NAME environment variable
	if err := viper.BindEnv("app.name", "APP_NAME"); err != nil {
		log.Fatalf("error finding APP_NAME env variable")
	}

	// Bind DB variables
	viper.BindEnv("db.host", "PG_HOST")
	viper.BindEnv("db.port", "PG_PORT")
	viper.BindEnv("db.user", "PG_USER")
	viper.BindEnv("db.password", "PG_PASS")
	viper.BindEnv("db.name", "PG_DB")

	// Bind Redis variables
	viper.BindEnv("redis.addr", "REDIS_ADDR")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Bind AMQP variables
	viper.BindEnv("amqp.url", "AMQP_URL")

	// Create an instance of AppConfig
	var config *AppConfig
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("unable to decode into struct: %v", err)
	}
	addZapEncoderConfig(&config.Logger.EncoderConfig)

	if config.Dispatch == nil {
		config.Dispatch = &Dispatch{SweepInterval: 30 * time.Second}
	}
	if len(config.Dispatch.Roster) == 0 {
		config.Dispatch.Roster = domain.DefaultRoster()
	}

	return config
}
