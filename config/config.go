// Package config loads window and logging settings from a file and GROUPBYTIME_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/rulego/groupbytime/logger"
	"github.com/rulego/groupbytime/types"
	"github.com/rulego/groupbytime/utils/cast"
	"github.com/rulego/groupbytime/utils/timex"
	"github.com/spf13/viper"
)

const (
	defaultAscending      = true
	defaultPrecision      = string(timex.Millisecond)
	defaultLogLevel       = "info"
	defaultLogFormat      = "console"
	defaultLogFileEnabled = false
	defaultLogDirectory   = "log"
	defaultLogFilename    = "groupbytime.log"
	defaultLogMaxSizeMB   = 100
	defaultLogMaxBackups  = 3
	defaultLogMaxAgeDays  = 7
	defaultLogCompress    = false

	// Environment variable prefix
	envPrefix = "GROUPBYTIME"
)

type Config struct {
	Window WindowConfig  `mapstructure:"window"`
	Filter string        `mapstructure:"filter"`
	Log    logger.Config `mapstructure:"log"`
}

// WindowConfig holds the raw window settings. Times accept epoch values or date
// strings, intervals accept tick counts or literals such as "5s", "2d" or "3mo".
type WindowConfig struct {
	StartTime     any    `mapstructure:"startTime"`
	EndTime       any    `mapstructure:"endTime"`
	Interval      any    `mapstructure:"interval"`
	SlidingStep   any    `mapstructure:"slidingStep"` // defaults to interval
	Ascending     bool   `mapstructure:"ascending"`
	PreAggregated bool   `mapstructure:"preAggregated"`
	HeapMaxSize   int    `mapstructure:"heapMaxSize"`
	Precision     string `mapstructure:"precision"`
}

// Load initializes viper, reads config, applies defaults and unmarshals. An empty
// configPath reads environment variables and defaults only.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	configureViper(v, configPath)

	setDefaults(v)

	if configPath != "" {
		if err := readConfigFile(v); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnmarshallingConfig, err)
	}
	return &cfg, nil
}

// configureViper sets up viper instance for file and environment variables.
func configureViper(v *viper.Viper, configPath string) {
	if configPath != "" {
		v.SetConfigFile(configPath)
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

// setDefaults registers every key, so that environment variables can override
// keys missing from the file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("window.startTime", "")
	v.SetDefault("window.endTime", "")
	v.SetDefault("window.interval", "")
	v.SetDefault("window.slidingStep", "")
	v.SetDefault("window.ascending", defaultAscending)
	v.SetDefault("window.preAggregated", false)
	v.SetDefault("window.heapMaxSize", types.DefaultHeapMaxSize)
	v.SetDefault("window.precision", defaultPrecision)
	v.SetDefault("filter", "")
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.format", defaultLogFormat)
	v.SetDefault("log.fileLoggingEnabled", defaultLogFileEnabled)
	v.SetDefault("log.directory", defaultLogDirectory)
	v.SetDefault("log.filename", defaultLogFilename)
	v.SetDefault("log.maxSize", defaultLogMaxSizeMB)
	v.SetDefault("log.maxBackups", defaultLogMaxBackups)
	v.SetDefault("log.maxAge", defaultLogMaxAgeDays)
	v.SetDefault("log.compress", defaultLogCompress)
}

// readConfigFile attempts to read the configuration file specified in viper.
func readConfigFile(v *viper.Viper) error {
	err := v.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) || errors.Is(err, fs.ErrNotExist) {
			return ErrConfigFileMissing
		}
		return fmt.Errorf("%w: %w", ErrReadingConfigFile, err)
	}
	return nil
}

// ToWindowConfig resolves the raw settings into a validated types.WindowConfig
func (c WindowConfig) ToWindowConfig() (types.WindowConfig, error) {
	config := types.DefaultWindowConfig()
	config.Precision = timex.Precision(c.Precision)
	config.Ascending = c.Ascending
	config.PreAggregated = c.PreAggregated
	config.HeapMaxSize = c.HeapMaxSize
	if !config.Precision.IsValid() {
		return config, fmt.Errorf("%w: %q", types.ErrInvalidPrecision, c.Precision)
	}

	if isEmpty(c.StartTime) || isEmpty(c.EndTime) {
		return config, ErrMissingTimeSpan
	}
	var err error
	if config.StartTime, err = cast.ParseTime(c.StartTime, config.Precision); err != nil {
		return config, fmt.Errorf("window startTime: %w", err)
	}
	if config.EndTime, err = cast.ParseTime(c.EndTime, config.Precision); err != nil {
		return config, fmt.Errorf("window endTime: %w", err)
	}

	if isEmpty(c.Interval) {
		return config, ErrMissingInterval
	}
	interval, err := cast.ParseInterval(c.Interval, config.Precision)
	if err != nil {
		return config, fmt.Errorf("window interval: %w", err)
	}
	step := interval
	if !isEmpty(c.SlidingStep) {
		if step, err = cast.ParseInterval(c.SlidingStep, config.Precision); err != nil {
			return config, fmt.Errorf("window slidingStep: %w", err)
		}
	}
	config.Interval, config.IntervalByMonth = interval.Value, interval.ByMonth
	config.SlidingStep, config.SlidingStepByMonth = step.Value, step.ByMonth

	return config, config.Validate()
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}
