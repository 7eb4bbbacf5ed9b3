// Package config loads, normalizes, and validates ytcomments configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// collector, sorter, and CLI need so cache folders, yt-dlp invocation details,
// and output locations are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical log formats, and clear validation errors.
package config
