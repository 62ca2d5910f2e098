// Package config loads server settings from an optional YAML file and the environment.
// Environment variables always win over the file.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	// Load .env before anything reads the environment
	_ "github.com/joho/godotenv/autoload"
	"gopkg.in/yaml.v3"
)

const (
	// SessionStoreDatabase keeps sessions in Postgres
	SessionStoreDatabase = "database"
	// SessionStoreMemory keeps sessions in process, for single instance development
	SessionStoreMemory = "memory"
)

// Config is the full server configuration
type Config struct {
	Port         int            `yaml:"port"`
	AllowOrigins []string       `yaml:"allow_origins"`
	RateLimit    uint           `yaml:"rate_limit"`
	Logging      bool           `yaml:"logging"`
	Database     DatabaseConfig `yaml:"database"`
	Auth         AuthConfig     `yaml:"auth"`
	Google       GoogleConfig   `yaml:"google"`
	Bootstrap    CompanySeed    `yaml:"bootstrap_company"`
}

// DatabaseConfig describes how to reach Postgres
type DatabaseConfig struct {
	Host          string `yaml:"host"`
	Port          string `yaml:"port"`
	User          string `yaml:"user"`
	Password      string `yaml:"password"`
	Name          string `yaml:"name"`
	UseConnString bool   `yaml:"use_connection_string"`
	ConnString    string `yaml:"connection_string"`
}

// AuthConfig controls bearer credentials
type AuthConfig struct {
	SecretKey    string        `yaml:"secret_key"`
	Issuer       string        `yaml:"issuer"`
	TokenTTL     time.Duration `yaml:"token_ttl"`
	SessionStore string        `yaml:"session_store"`
}

// GoogleConfig holds the OAuth client used for Google sign-in
type GoogleConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURL  string `yaml:"redirect_url"`
}

// CompanySeed is an optional company created at startup when its code is unused
type CompanySeed struct {
	Name string `yaml:"name"`
	Code string `yaml:"code"`
}

// Load reads CONFIG_FILE (default config.yaml), applies environment overrides,
// fills defaults and validates the result
func Load() (Config, error) {
	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = "config.yaml"
	}

	cfg := Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Printf("No config file at %s, using environment only", path)
	case err != nil:
		return cfg, fmt.Errorf("failed to read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	cfg.applyDefaults()

	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	var err error

	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USERNAME")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.Name, "DB_DATABASE")
	setString(&c.Database.ConnString, "DB_CONNECTION_STR")
	setString(&c.Auth.SecretKey, "SECRET_KEY")
	setString(&c.Auth.Issuer, "JWT_ISSUER")
	setString(&c.Auth.SessionStore, "SESSION_STORE")
	setString(&c.Google.ClientID, "GOOGLE_AUTH_CLIENT")
	setString(&c.Google.ClientSecret, "GOOGLE_AUTH_SECRET")
	setString(&c.Google.RedirectURL, "OAUTH_REDIRECT_URL")
	setString(&c.Bootstrap.Name, "BOOTSTRAP_COMPANY_NAME")
	setString(&c.Bootstrap.Code, "BOOTSTRAP_COMPANY_CODE")

	if v := os.Getenv("ALLOW_ORIGIN"); v != "" {
		c.AllowOrigins = nil
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				c.AllowOrigins = append(c.AllowOrigins, origin)
			}
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		if c.Port, err = strconv.Atoi(v); err != nil {
			return fmt.Errorf("invalid PORT: %w", err)
		}
	}

	if v := os.Getenv("RATE_LIMIT_REQUESTS_PER_SECOND"); v != "" {
		rate, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_REQUESTS_PER_SECOND: %w", err)
		}
		c.RateLimit = uint(rate)
	}

	if v := os.Getenv("TOKEN_TTL"); v != "" {
		if c.Auth.TokenTTL, err = time.ParseDuration(v); err != nil {
			return fmt.Errorf("invalid TOKEN_TTL: %w", err)
		}
	}

	if v := os.Getenv("USE_CONNECTION_STR"); v != "" {
		if c.Database.UseConnString, err = strconv.ParseBool(v); err != nil {
			return fmt.Errorf("invalid USE_CONNECTION_STR: %w", err)
		}
	}

	if v := os.Getenv("LOGGING"); v != "" {
		if c.Logging, err = strconv.ParseBool(v); err != nil {
			return fmt.Errorf("invalid LOGGING: %w", err)
		}
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	if len(c.AllowOrigins) == 0 {
		c.AllowOrigins = []string{"http://localhost:3000"}
	}
	if c.RateLimit == 0 {
		c.RateLimit = 5
	}
	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = 24 * time.Hour
	}
	if c.Auth.Issuer == "" {
		c.Auth.Issuer = "hr-back"
	}
	if c.Auth.SessionStore == "" {
		c.Auth.SessionStore = SessionStoreDatabase
	}
	if c.Database.Port == "" {
		c.Database.Port = "5432"
	}
}

// Validate reports the first setting the server cannot start without
func (c Config) Validate() error {
	if c.Auth.SecretKey == "" {
		return errors.New("SECRET_KEY is required")
	}
	if c.Auth.TokenTTL < 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.Auth.SessionStore != SessionStoreDatabase && c.Auth.SessionStore != SessionStoreMemory {
		return fmt.Errorf("unknown session store %q", c.Auth.SessionStore)
	}
	if c.Database.UseConnString && c.Database.ConnString == "" {
		return errors.New("DB_CONNECTION_STR is required when USE_CONNECTION_STR is set")
	}
	if (c.Bootstrap.Name == "") != (c.Bootstrap.Code == "") {
		return errors.New("BOOTSTRAP_COMPANY_NAME and BOOTSTRAP_COMPANY_CODE must be set together")
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}
