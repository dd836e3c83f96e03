// Package config handles configuration loading, parsing, and validation
// from a YAML file and PATIENTEDU_-prefixed environment variables. It
// provides type-safe access to the settings of the content origin, the
// administrator credential, banner rotation, document export and the
// optional revision journal.
package config
