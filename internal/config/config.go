package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	Generation GenerationConfig `mapstructure:"generation" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// GenerationConfig controls the background recurring-task generation cycle.
type GenerationConfig struct {
	// IntervalMinutes is how often the scheduler runs a generation cycle.
	IntervalMinutes int `mapstructure:"interval_minutes" validate:"required,gt=0"`

	// Disabled turns the background scheduler off entirely; generation then
	// only happens through the explicit processing endpoint.
	Disabled bool `mapstructure:"disabled"`
}
