package config

import "errors"

var (
	ErrReadingConfigFile   = errors.New("failed to read config file")
	ErrUnmarshallingConfig = errors.New("failed to unmarshal config")
	ErrConfigFileMissing   = errors.New("config file not found")
	ErrMissingTimeSpan     = errors.New("window startTime and endTime are required")
	ErrMissingInterval     = errors.New("window interval is required")
)
