// Package config handles YAML configuration loading with environment variable substitution.
//
// Configuration files support ${VAR} syntax for environment variable interpolation.
// An unset variable expands to the empty string, so the field falls back to its default.
//
// Two root configs exist, one per binary:
//   - WidgetConfig: refresh loop and display hub (cmd/widget)
//   - ServerConfig: leaderboard API, Postgres, Redis cache (cmd/leaderboard)
package config
