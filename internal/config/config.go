package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	defaultAddr         = "127.0.0.1:8000"
	defaultReadTimeout  = 5 * time.Second
	defaultWriteTimeout = 10 * time.Second
	defaultIdleTimeout  = 60 * time.Second
	defaultTokenTTL     = time.Hour
	defaultLogLevel     = "info"
	defaultLogFormat    = "json"
)

var (
	ErrMissingSecret = errors.New("JWT_SECRET is not set")
	ErrInvalidTTL    = errors.New("JWT_TTL must be positive")
)

type AppConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type JWTConfig struct {
	// Secret is read once at startup and never rotated.
	Secret []byte
	TTL    time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type Config struct {
	AppConfig *AppConfig
	JWTConfig *JWTConfig
	LogConfig *LogConfig
}

// LoadConfig reads .env (if any) and then the process environment.
// Every invalid variable is reported in the returned error.
func LoadConfig(logger *zap.Logger, files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	if err := godotenv.Load(files...); err != nil {
		logger.Warn("no .env file loaded, using process environment", zap.Error(err))
	}

	var errs error

	/** app config */
	readTimeout, err := durationEnv("APP_READ_TIMEOUT", defaultReadTimeout)
	errs = multierr.Append(errs, err)
	writeTimeout, err := durationEnv("APP_WRITE_TIMEOUT", defaultWriteTimeout)
	errs = multierr.Append(errs, err)
	idleTimeout, err := durationEnv("APP_IDLE_TIMEOUT", defaultIdleTimeout)
	errs = multierr.Append(errs, err)

	appConfig := &AppConfig{
		Addr:         stringEnv("APP_ADDR", defaultAddr),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	/** jwt config */
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		errs = multierr.Append(errs, ErrMissingSecret)
	}
	ttl, err := durationEnv("JWT_TTL", defaultTokenTTL)
	errs = multierr.Append(errs, err)
	if err == nil && ttl <= 0 {
		errs = multierr.Append(errs, ErrInvalidTTL)
	}

	jwtConfig := &JWTConfig{
		Secret: []byte(secret),
		TTL:    ttl,
	}

	/** log config */
	logConfig := &LogConfig{
		Level:  stringEnv("LOG_LEVEL", defaultLogLevel),
		Format: stringEnv("LOG_FORMAT", defaultLogFormat),
	}

	if errs != nil {
		return nil, errs
	}

	return &Config{
		AppConfig: appConfig,
		JWTConfig: jwtConfig,
		LogConfig: logConfig,
	}, nil
}

func stringEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
