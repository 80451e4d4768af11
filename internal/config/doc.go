// Package config loads, normalizes, and validates curator's TOML
// configuration. The organize engine's own rule file is deliberately not
// modeled here; curator passes it through as an opaque path.
package config
