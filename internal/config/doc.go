// Package config loads promofinder's TOML configuration.
//
// # Resolution
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise use ~/.config/promofinder/config.toml
//  3. A missing file is not an error; Default() is returned
//  4. Keys absent from the file keep their default values
//
// # TOML Format
//
//	[location]
//	latitude = 40.4168
//	longitude = -3.7038
//
//	[source]
//	latency_ms = 500
//	fail = []            # any of "promotions", "categories", "stores"
//
//	[notifications]
//	arrival_delay_ms = 5000
//	display_ms = 6000
//
//	[log]
//	file = "~/.local/state/promofinder/promofinder.log"
//	level = "info"
//
// Tilde expansion is applied to the config path and to log.file.
//
// # Validation
//
// After parsing, Load validates ranges with go-playground/validator:
// coordinates must be valid degrees, durations non-negative, the log level
// one of debug/info/warn/error, and every source.fail entry a known endpoint.
// Parse and validation errors are returned wrapped; the caller reports them
// and exits.
//
// Note that these checks cover the configuration only. Values the user
// enters at runtime reach the state store unvalidated.
package config
