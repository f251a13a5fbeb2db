// Package config loads cartographer settings.
//
// Values are layered in order: built-in defaults, an optional YAML file,
// CARTOGRAPHER_* environment variables, then command-line flags applied by
// the caller. The merged result is checked against an embedded CUE schema.
package config
