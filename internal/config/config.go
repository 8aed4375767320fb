package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/yukikurage/task-tracker-api/internal/constants"
	"golang.org/x/crypto/bcrypt"
)

// DefaultJWTSecret is only acceptable outside release mode.
const DefaultJWTSecret = "default-secret-key-change-me"

type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	GinMode string `env:"GIN_MODE" envDefault:"debug"`

	DB    DBConfig    `envPrefix:"DB_"`
	Token TokenConfig
	Log   LogConfig `envPrefix:"LOG_"`
}

type DBConfig struct {
	Driver   string `env:"DRIVER" envDefault:"sqlite"`
	Path     string `env:"PATH" envDefault:"task_tracker.db"`
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     string `env:"PORT" envDefault:"3306"`
	User     string `env:"USER" envDefault:"taskuser"`
	Password string `env:"PASSWORD" envDefault:"taskpassword"`
	Name     string `env:"NAME" envDefault:"task_tracker"`
	SSLMode  string `env:"SSLMODE" envDefault:"disable"`
}

// TokenConfig holds the signing secret and lifetime of bearer tokens.
// It is read once at startup and injected into the token service.
type TokenConfig struct {
	JWTSecret  string        `env:"JWT_SECRET" envDefault:"default-secret-key-change-me"`
	TTL        time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	Issuer     string        `env:"TOKEN_ISSUER" envDefault:"task-tracker-api"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"10"`
}

type LogConfig struct {
	Level      string `env:"LEVEL" envDefault:"info"`
	Format     string `env:"FORMAT" envDefault:"json"`
	Output     string `env:"OUTPUT" envDefault:"stdout"`
	FilePath   string `env:"FILE" envDefault:"logs/app.log"`
	MaxSize    int    `env:"MAX_SIZE" envDefault:"100"`
	MaxBackups int    `env:"MAX_BACKUPS" envDefault:"5"`
	MaxAge     int    `env:"MAX_AGE" envDefault:"30"`
	Compress   bool   `env:"COMPRESS" envDefault:"true"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// a missing .env file is fine, the environment may already be populated
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.DB.Driver {
	case "sqlite", "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}

	if len(c.Token.JWTSecret) < constants.MinJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", constants.MinJWTSecretLength)
	}
	if c.IsRelease() && c.Token.JWTSecret == DefaultJWTSecret {
		return errors.New("JWT_SECRET must be set in release mode")
	}
	if c.Token.TTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.Token.BcryptCost < bcrypt.MinCost || c.Token.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}

func (c *Config) IsRelease() bool {
	return c.GinMode == "release"
}
