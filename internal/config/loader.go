package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// readYAML reads a YAML config file, expands environment variables and decodes into out.
func readYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	// Expand ${VAR} environment variables
	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), out); err != nil {
		return fmt.Errorf("parse config yaml: %w", err)
	}

	return nil
}

// LoadWidget reads a widget config file without defaults or validation.
func LoadWidget(path string) (*WidgetConfig, error) {
	var cfg WidgetConfig
	if err := readYAML(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadWidgetWithDefaults loads a widget config and applies default values.
func LoadWidgetWithDefaults(path string) (*WidgetConfig, error) {
	cfg, err := LoadWidget(path)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// LoadWidgetAndValidate loads a widget config, applies defaults, and validates.
func LoadWidgetAndValidate(path string) (*WidgetConfig, error) {
	cfg, err := LoadWidgetWithDefaults(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// LoadServer reads a server config file without defaults or validation.
func LoadServer(path string) (*ServerConfig, error) {
	var cfg ServerConfig
	if err := readYAML(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadServerWithDefaults loads a server config and applies default values.
func LoadServerWithDefaults(path string) (*ServerConfig, error) {
	cfg, err := LoadServer(path)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// LoadServerAndValidate loads a server config, applies defaults, and validates.
func LoadServerAndValidate(path string) (*ServerConfig, error) {
	cfg, err := LoadServerWithDefaults(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}
