// Package config loads, normalizes, and validates the TOML configuration for
// the pipeline daemon and CLI.
//
// Resolution order: explicit --config path, ~/.config/inspira/config.toml,
// ./inspira.toml, then built-in defaults. The environment variables used by
// the original deployment (API keys, AUDIO_DIR, PORT, Drive settings) always
// override file values.
package config
