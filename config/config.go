// Package config resolves database connection settings for a named
// environment from a KEY=VALUE environment file.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	DefaultEnvironment    = "test"
	ProductionEnvironment = "production"
	baseEnvFile           = ".env"
)

// Supported database types.
const (
	PostgresType = "postgres"
	SqliteType   = "sqlite"
)

var ErrConfigNotFound = errors.New("environment file not found")

// NotFoundError reports the environment file that could not be located.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("environment file %s not found", e.Path)
}

func (e *NotFoundError) Unwrap() error { return ErrConfigNotFound }

// Connection describes how to reach the target database. Every field falls
// back to a fixed default when its key is absent from the environment file.
type Connection struct {
	Host     string `env:"DB_HOST" envDefault:"localhost" validate:"required"`
	Port     string `env:"DB_PORT" envDefault:"5432" validate:"required,numeric"`
	Name     string `env:"DB_NAME" envDefault:"builderai" validate:"required"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD"`
	Type     string `env:"DB_TYPE" envDefault:"postgres" validate:"required,oneof=postgres sqlite"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable" validate:"required,oneof=disable allow prefer require verify-ca verify-full"`
}

// Validate checks that all fields in Connection are usable.
func (c *Connection) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("validation failed for Connection: %w", err)
	}
	return nil
}

// DSN renders the driver connection string. For sqlite the database name is
// the path of the database file.
func (c Connection) DSN() string {
	if c.Type == SqliteType {
		return c.Name
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": []string{c.SSLMode}}.Encode(),
	}
	return u.String()
}

// Target is a password-free description of the connection, safe to log.
func (c Connection) Target() string {
	if c.Type == SqliteType {
		return fmt.Sprintf("%s (sqlite)", c.Name)
	}
	return fmt.Sprintf("%s on %s:%s", c.Name, c.Host, c.Port)
}

// FileName returns the environment file name for env: the production
// environment uses the base name, every other one is suffixed.
func FileName(environment string) string {
	if environment == "" {
		environment = DefaultEnvironment
	}
	if environment == ProductionEnvironment {
		return baseEnvFile
	}
	return baseEnvFile + "." + environment
}

// Load reads the environment file for env from dir and returns the resulting
// Connection.
func Load(dir, environment string) (Connection, error) {
	path := filepath.Join(dir, FileName(environment))
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Connection{}, &NotFoundError{Path: path}
		}
		return Connection{}, fmt.Errorf("stat %s: %w", path, err)
	}

	vars, err := godotenv.Read(path)
	if err != nil {
		return Connection{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return FromMap(vars)
}

// FromMap builds a Connection from already parsed KEY=VALUE pairs.
func FromMap(vars map[string]string) (Connection, error) {
	if vars == nil {
		vars = map[string]string{}
	}
	var c Connection
	if err := env.ParseWithOptions(&c, env.Options{Environment: vars}); err != nil {
		return Connection{}, fmt.Errorf("parse env: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Connection{}, err
	}
	return c, nil
}
