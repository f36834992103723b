package config

import "time"

// WidgetConfig is the root configuration for the widget process.
type WidgetConfig struct {
	Widget  WidgetSection `yaml:"widget"`
	Display DisplayConfig `yaml:"display"`
	Log     LogConfig     `yaml:"log"`
}

// WidgetSection holds refresh loop settings.
type WidgetSection struct {
	ResourceURL     string        `yaml:"resource_url"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	SlotCount       int           `yaml:"slot_count"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`

	// InactivityThreshold is declared for parity with the published widget.
	// Nothing reads it yet.
	InactivityThreshold time.Duration `yaml:"inactivity_threshold"`
}

// DisplayConfig holds the display hub's HTTP and websocket settings.
type DisplayConfig struct {
	Port           int           `yaml:"port"`
	AllowedOrigins []string      `yaml:"allowed_origins"` // Empty allows any origin
	QueueSize      int           `yaml:"queue_size"`
	PingInterval   time.Duration `yaml:"ping_interval"`
	WriteTimeout   time.Duration `yaml:"write_timeout"` // Per-frame write deadline
}

// ServerConfig is the root configuration for the leaderboard API.
type ServerConfig struct {
	Server   APIServerConfig `yaml:"server"`
	Database DatabaseConfig  `yaml:"database"`
	Cache    CacheConfig     `yaml:"cache"`
	Log      LogConfig       `yaml:"log"`
}

// APIServerConfig holds HTTP API settings.
type APIServerConfig struct {
	Port          int           `yaml:"port"`
	AllowedOrigin string        `yaml:"allowed_origin"` // CORS origin for /api/*
	DefaultWindow time.Duration `yaml:"default_window"` // Activity window when ?minutes is absent
	Limit         int           `yaml:"limit"`          // Users per snapshot
	QueryTimeout  time.Duration `yaml:"query_timeout"`
}

// DatabaseConfig holds the PostgreSQL connection for user data.
type DatabaseConfig struct {
	Postgres DBConfig `yaml:"postgres"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// CacheConfig holds snapshot cache settings.
type CacheConfig struct {
	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig holds a Redis connection. An empty Addr disables caching.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// Enabled reports whether a Redis address is configured.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// LogConfig holds slog handler settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}
