// Package file provides a TOML-backed implementation of the
// ConfigStore port. Configuration lives in a single config.toml whose
// nested tables are flattened into dot-notation keys.
package file
