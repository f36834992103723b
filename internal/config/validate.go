package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
)

// Validate checks that all required fields are set and values are valid.
func (c *WidgetConfig) Validate() error {
	if c.Widget.ResourceURL == "" {
		return errors.New("widget.resource_url is required")
	}
	u, err := url.Parse(c.Widget.ResourceURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("widget.resource_url must be an absolute http(s) url, got %q", c.Widget.ResourceURL)
	}

	if c.Widget.RefreshInterval <= 0 {
		return errors.New("widget.refresh_interval must be > 0")
	}
	if c.Widget.SlotCount < 1 {
		return errors.New("widget.slot_count must be >= 1")
	}
	if c.Widget.RequestTimeout < 0 {
		return errors.New("widget.request_timeout must be >= 0")
	}
	if c.Widget.InactivityThreshold <= 0 {
		return errors.New("widget.inactivity_threshold must be > 0")
	}

	if err := validatePort("display.port", c.Display.Port); err != nil {
		return err
	}
	if c.Display.QueueSize < 1 {
		return errors.New("display.queue_size must be >= 1")
	}
	if c.Display.PingInterval <= 0 {
		return errors.New("display.ping_interval must be > 0")
	}
	if c.Display.WriteTimeout <= 0 {
		return errors.New("display.write_timeout must be > 0")
	}

	return c.Log.validate("log")
}

// Validate checks that all required fields are set and values are valid.
func (c *ServerConfig) Validate() error {
	if err := validatePort("server.port", c.Server.Port); err != nil {
		return err
	}
	if c.Server.DefaultWindow <= 0 {
		return errors.New("server.default_window must be > 0")
	}
	if c.Server.Limit < 1 {
		return errors.New("server.limit must be >= 1")
	}

	if err := c.Database.Postgres.validate("database.postgres"); err != nil {
		return err
	}

	if c.Cache.Redis.Enabled() && c.Cache.Redis.TTL <= 0 {
		return errors.New("cache.redis.ttl must be > 0")
	}

	return c.Log.validate("log")
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}

func (l *LogConfig) validate(prefix string) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return fmt.Errorf("%s.level %q is not a valid level", prefix, l.Level)
	}
	if l.Format != "text" && l.Format != "json" {
		return fmt.Errorf("%s.format must be text or json, got %q", prefix, l.Format)
	}
	return nil
}

func validatePort(field string, port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("%s must be between 1 and 65535, got %d", field, port)
	}
	return nil
}
