// Package config loads and validates the texkit configuration file.
//
// Configuration lives in a TOML file, by default at
// ~/.config/texkit/config.toml, with a project-local texkit.toml as a
// fallback. All path fields are expanded (~ and relative segments) during
// load, so downstream packages can treat them as absolute.
package config
