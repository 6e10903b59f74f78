// Package config handles configuration loading and merging for lens.
//
// # Configuration Precedence
//
// Configuration values are resolved in the following order (highest to lowest priority):
//
//  1. CLI flags (--interpreter, --no-color, --format, --theme, etc.)
//  2. Environment variables (LENS_*, NO_COLOR, CI)
//  3. Config file (.lens.yaml or .lens.toml in the working directory, then
//     the same names under the user config dir, e.g. ~/.config/lens/)
//  4. Hardcoded defaults
//
// When a higher-priority source sets a value, it overrides any lower-priority values.
//
// # Script Resolution
//
// Each command runs one script. A relative script path is joined with
// script_dir; when script_dir is unset, the directory holding the lens
// executable is used, so scripts can ship next to the binary.
//
// # CI Mode Behavior
//
// When CI mode is enabled (CI=true env var or ci: true in the file):
//   - Colors are disabled (monochrome output)
//   - The spinner is disabled
//   - Panels are not opened interactively
//
// # Environment Variables
//
//   - LENS_INTERPRETER, LENS_TESTS_INTERPRETER, LENS_SCRIPT_DIR
//   - LENS_FORMAT, LENS_THEME, LENS_PANEL, LENS_MERMAID_URL
//   - LENS_MAX_BUFFER_SIZE: bytes kept per output stream
//   - LENS_NO_COLOR or NO_COLOR: "true" or "1" disables colors
//   - LENS_CI or CI: "true" or "1" enables CI mode
//   - LENS_DEBUG: "true" or "1" enables debug logging
package config
