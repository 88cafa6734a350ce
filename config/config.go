package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DefaultPort                       = "8080"
	DefaultDBMaxConns                 = 10
	DefaultDevAccessTokenExpiryMin    = 24 * 60
	DefaultAccessTokenExpiryMin       = 15
	DefaultRefreshTokenExpiryMin      = 7 * 24 * 60
	DefaultVerificationTokenExpiryMin = 24 * 60
	DefaultResetTokenExpiryMin        = 60
	DefaultLogLevel                   = "info"
	DefaultFrontendURL                = "http://localhost:5173"

	MinSecretLength = 32
)

// Config is built once at start-up and shared read-only afterwards.
type Config struct {
	Env        string
	Port       string
	DBURL      string
	DBMaxConns int

	AccessTokenSecret       string
	RefreshTokenSecret      string
	VerificationTokenSecret string
	ResetTokenSecret        string

	AccessExpiryMin       int
	RefreshExpiryMin      int
	VerificationExpiryMin int
	ResetExpiryMin        int

	LogLevel    string
	FrontendURL string
	AutoMigrate bool
}

func (c *Config) IsDevelopment() bool {
	return c.Env != EnvProduction
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessExpiryMin) * time.Minute
}

func (c *Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.RefreshExpiryMin) * time.Minute
}

func (c *Config) VerificationTokenTTL() time.Duration {
	return time.Duration(c.VerificationExpiryMin) * time.Minute
}

func (c *Config) ResetTokenTTL() time.Duration {
	return time.Duration(c.ResetExpiryMin) * time.Minute
}

// Load reads config/.env.dev or config/.env.prod (picked by ENV) and lets process
// environment variables override the file.
func Load() (*Config, error) {
	env := getEnv("ENV", EnvDevelopment)

	file, err := readEnvFile(env)
	if err != nil {
		return nil, err
	}
	src := source{file: file}

	defaultAccessExpiry := DefaultAccessTokenExpiryMin
	if env != EnvProduction {
		defaultAccessExpiry = DefaultDevAccessTokenExpiryMin
	}

	cfg := &Config{
		Env:                     env,
		Port:                    src.get("PORT", DefaultPort),
		DBURL:                   src.get("DB_URL", ""),
		DBMaxConns:              src.getInt("DB_MAX_CONNS", DefaultDBMaxConns),
		AccessTokenSecret:       src.get("ACCESS_TOKEN_SECRET", ""),
		RefreshTokenSecret:      src.get("REFRESH_TOKEN_SECRET", ""),
		VerificationTokenSecret: src.get("VERIFICATION_TOKEN_SECRET", ""),
		ResetTokenSecret:        src.get("RESET_TOKEN_SECRET", ""),
		AccessExpiryMin:         src.getInt("ACCESS_TOKEN_EXPIRY", defaultAccessExpiry),
		RefreshExpiryMin:        src.getInt("REFRESH_TOKEN_EXPIRY", DefaultRefreshTokenExpiryMin),
		VerificationExpiryMin:   src.getInt("VERIFICATION_TOKEN_EXPIRY", DefaultVerificationTokenExpiryMin),
		ResetExpiryMin:          src.getInt("RESET_TOKEN_EXPIRY", DefaultResetTokenExpiryMin),
		LogLevel:                src.get("LOG_LEVEL", DefaultLogLevel),
		FrontendURL:             strings.TrimRight(src.get("FRONTEND_URL", DefaultFrontendURL), "/"),
		AutoMigrate:             src.getBool("AUTO_MIGRATE", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every problem at once so a misconfigured deploy fails with a full list.
func (c *Config) Validate() error {
	var errs []error

	required := []struct {
		key, value string
	}{
		{"DB_URL", c.DBURL},
		{"ACCESS_TOKEN_SECRET", c.AccessTokenSecret},
		{"REFRESH_TOKEN_SECRET", c.RefreshTokenSecret},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Errorf("missing required config: %s", r.key))
		}
	}

	secrets := []struct {
		key, value string
	}{
		{"ACCESS_TOKEN_SECRET", c.AccessTokenSecret},
		{"REFRESH_TOKEN_SECRET", c.RefreshTokenSecret},
		{"VERIFICATION_TOKEN_SECRET", c.VerificationTokenSecret},
		{"RESET_TOKEN_SECRET", c.ResetTokenSecret},
	}
	for _, s := range secrets {
		if s.value != "" && len(s.value) < MinSecretLength {
			errs = append(errs, fmt.Errorf("%s must be at least %d characters", s.key, MinSecretLength))
		}
	}

	if c.AccessTokenSecret != "" && c.AccessTokenSecret == c.RefreshTokenSecret {
		errs = append(errs, errors.New("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ"))
	}

	expiries := []struct {
		key   string
		value int
	}{
		{"ACCESS_TOKEN_EXPIRY", c.AccessExpiryMin},
		{"REFRESH_TOKEN_EXPIRY", c.RefreshExpiryMin},
		{"VERIFICATION_TOKEN_EXPIRY", c.VerificationExpiryMin},
		{"RESET_TOKEN_EXPIRY", c.ResetExpiryMin},
	}
	for _, e := range expiries {
		if e.value <= 0 {
			errs = append(errs, fmt.Errorf("%s must be a positive number of minutes", e.key))
		}
	}

	return errors.Join(errs...)
}

func readEnvFile(env string) (map[string]string, error) {
	name := ".env.dev"
	if env == EnvProduction {
		name = ".env.prod"
	}
	path := filepath.Join("config", name)

	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return values, nil
}

type source struct {
	file map[string]string
}

func (s source) get(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if value := s.file[key]; value != "" {
		return value
	}
	return defaultVal
}

func (s source) getInt(key string, defaultVal int) int {
	valStr := s.get(key, "")
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}

func (s source) getBool(key string, defaultVal bool) bool {
	valStr := s.get(key, "")
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}
