// Package config loads the pricing run configuration from YAML.
//
// Values are resolved in three layers: built-in defaults (the reference
// run), the YAML file, and command-line flags applied by the caller.
// ${VAR} references in the file are expanded from the environment before
// parsing.
package config
