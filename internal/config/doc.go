// Package config loads, normalizes, and validates fslkit configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// FSLDIR. The Config type centralizes every knob the CLI needs: tool binary
// overrides, the default image output format, and where run history and logs
// live.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
