// Package config loads, validates, and defaults the daemon's TOML
// configuration, including the pipeline policy knobs (classifier confidence,
// topic and summary counts, plan duration) and backend connection settings.
package config
