package config

import (
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
)

type Configuration struct {
	Server   Server
	Database Database
	Log      Log
	Query    Query
}

type Server struct {
	HTTPPort   int    `default:"8000" validate:"min=1,max=65535"`
	ServerMode string `default:"dev" validate:"oneof=dev prod"`
}

type Database struct {
	// Path of the DuckDB file. ":memory:" keeps the database in memory.
	Path string `default:":memory:" validate:"required"`
}

type Log struct {
	Level  string `default:"info" validate:"oneof=debug info warn error"`
	Format string `default:"console" validate:"oneof=console json"`
}

// Query holds the paging limits applied to record listings.
type Query struct {
	DefaultLimit int `default:"10" validate:"min=1"`
	MaxLimit     int `default:"100" validate:"min=1,gtefield=DefaultLimit"`
}

type ConfigurationOption func(*Configuration)

func WithDatabasePath(path string) ConfigurationOption {
	return func(c *Configuration) {
		c.Database.Path = path
	}
}

func WithServerMode(mode string) ConfigurationOption {
	return func(c *Configuration) {
		c.Server.ServerMode = mode
	}
}

func NewConfigurationWithOptionsAndDefaults(opts ...ConfigurationOption) *Configuration {
	c := &Configuration{}
	defaults.MustSet(c)

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Validate checks the configuration against its validate tags.
func (c *Configuration) Validate() error {
	return validator.New().Struct(c)
}
