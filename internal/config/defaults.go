package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultRefreshInterval     = 300000 * time.Millisecond
	DefaultSlotCount           = 25
	DefaultRequestTimeout      = 30 * time.Second
	DefaultInactivityThreshold = 15 * time.Minute
	DefaultDisplayPort         = 8081
	DefaultQueueSize           = 64
	DefaultPingInterval        = 30 * time.Second
	DefaultWriteTimeout        = 10 * time.Second
	DefaultAPIPort             = 5000
	DefaultAllowedOrigin       = "https://esemicolonr.github.io"
	DefaultWindow              = 30 * time.Minute
	DefaultLimit               = 25
	DefaultQueryTimeout        = 5 * time.Second
	DefaultDBHost              = "localhost"
	DefaultDBPort              = 5432
	DefaultDBName              = "loyalty_points"
	DefaultDBUser              = "postgres"
	DefaultDBSSLMode           = "prefer"
	DefaultMaxConns            = 10
	DefaultMinConns            = 2
	DefaultCacheTTL            = 30 * time.Second
	DefaultLogLevel            = "info"
	DefaultLogFormat           = "text"
)

func (c *WidgetConfig) applyDefaults() {
	// Widget defaults
	if c.Widget.RefreshInterval == 0 {
		c.Widget.RefreshInterval = DefaultRefreshInterval
	}
	if c.Widget.SlotCount == 0 {
		c.Widget.SlotCount = DefaultSlotCount
	}
	if c.Widget.RequestTimeout == 0 {
		c.Widget.RequestTimeout = DefaultRequestTimeout
	}
	if c.Widget.InactivityThreshold == 0 {
		c.Widget.InactivityThreshold = DefaultInactivityThreshold
	}

	// Display defaults
	if c.Display.Port == 0 {
		c.Display.Port = DefaultDisplayPort
	}
	if c.Display.QueueSize == 0 {
		c.Display.QueueSize = DefaultQueueSize
	}
	if c.Display.PingInterval == 0 {
		c.Display.PingInterval = DefaultPingInterval
	}
	if c.Display.WriteTimeout == 0 {
		c.Display.WriteTimeout = DefaultWriteTimeout
	}

	c.Log.applyDefaults()
}

func (c *ServerConfig) applyDefaults() {
	// Server defaults
	if c.Server.Port == 0 {
		c.Server.Port = DefaultAPIPort
	}
	if c.Server.AllowedOrigin == "" {
		c.Server.AllowedOrigin = DefaultAllowedOrigin
	}
	if c.Server.DefaultWindow == 0 {
		c.Server.DefaultWindow = DefaultWindow
	}
	if c.Server.Limit == 0 {
		c.Server.Limit = DefaultLimit
	}
	if c.Server.QueryTimeout == 0 {
		c.Server.QueryTimeout = DefaultQueryTimeout
	}

	// Database defaults
	applyDBDefaults(&c.Database.Postgres)

	// Cache defaults
	if c.Cache.Redis.TTL == 0 {
		c.Cache.Redis.TTL = DefaultCacheTTL
	}

	c.Log.applyDefaults()
}

func applyDBDefaults(db *DBConfig) {
	if db.Host == "" {
		db.Host = DefaultDBHost
	}
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.Name == "" {
		db.Name = DefaultDBName
	}
	if db.User == "" {
		db.User = DefaultDBUser
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}

func (l *LogConfig) applyDefaults() {
	if l.Level == "" {
		l.Level = DefaultLogLevel
	}
	if l.Format == "" {
		l.Format = DefaultLogFormat
	}
}
