package config

import "errors"

var (
	// ErrReadFailed is returned when the configuration file cannot be read.
	ErrReadFailed = errors.New("config: failed to read file")

	// ErrParseFailed is returned when the configuration file is not valid YAML.
	ErrParseFailed = errors.New("config: failed to parse file")

	// ErrInvalid is returned when the parsed configuration fails validation.
	ErrInvalid = errors.New("config: invalid configuration")
)
