package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rulego/groupbytime/types"
	"github.com/rulego/groupbytime/utils/cast"
	"github.com/rulego/groupbytime/utils/timex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "groupbytime.yaml", `
window:
  startTime: 2024-01-31
  endTime: "2024-06-01T00:00:00Z"
  interval: 1mo
  ascending: false
  preAggregated: true
  heapMaxSize: 16
filter: month(start) != 2
log:
  level: debug
  format: console
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "month(start) != 2", cfg.Filter)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, defaultLogFilename, cfg.Log.Filename)
	assert.Equal(t, defaultLogMaxSizeMB, cfg.Log.MaxSize)

	config, err := cfg.Window.ToWindowConfig()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC).UnixMilli(), config.StartTime)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC).UnixMilli(), config.EndTime)
	assert.Equal(t, int64(1), config.Interval)
	assert.True(t, config.IntervalByMonth)
	// the sliding step defaults to the interval
	assert.Equal(t, int64(1), config.SlidingStep)
	assert.True(t, config.SlidingStepByMonth)
	assert.False(t, config.Ascending)
	assert.True(t, config.PreAggregated)
	assert.Equal(t, 16, config.HeapMaxSize)
	assert.Equal(t, timex.Millisecond, config.Precision)
}

func TestLoadJSONDefaults(t *testing.T) {
	path := writeConfig(t, "groupbytime.json", `{"window": {"startTime": 0, "endTime": 10, "interval": 5, "slidingStep": 3}}`)
	cfg, err := Load(path)
	require.NoError(t, err)

	config, err := cfg.Window.ToWindowConfig()
	require.NoError(t, err)
	assert.Equal(t, int64(0), config.StartTime)
	assert.Equal(t, int64(10), config.EndTime)
	assert.Equal(t, int64(5), config.Interval)
	assert.Equal(t, int64(3), config.SlidingStep)
	assert.True(t, config.Ascending)
	assert.False(t, config.PreAggregated)
	assert.Equal(t, types.DefaultHeapMaxSize, config.HeapMaxSize)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "groupbytime.toml", `
[window]
startTime = 0
endTime = 100
interval = 10
`)
	t.Setenv("GROUPBYTIME_WINDOW_SLIDINGSTEP", "5")
	t.Setenv("GROUPBYTIME_WINDOW_PREAGGREGATED", "true")
	t.Setenv("GROUPBYTIME_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)

	config, err := cfg.Window.ToWindowConfig()
	require.NoError(t, err)
	assert.Equal(t, int64(10), config.Interval)
	assert.Equal(t, int64(5), config.SlidingStep)
	assert.True(t, config.PreAggregated)
}

func TestLoadEnvOnly(t *testing.T) {
	t.Setenv("GROUPBYTIME_WINDOW_STARTTIME", "2023-01-01")
	t.Setenv("GROUPBYTIME_WINDOW_ENDTIME", "2024-01-01")
	t.Setenv("GROUPBYTIME_WINDOW_INTERVAL", "1y")
	t.Setenv("GROUPBYTIME_WINDOW_SLIDINGSTEP", "1w")
	t.Setenv("GROUPBYTIME_WINDOW_PRECISION", "us")

	cfg, err := Load("")
	require.NoError(t, err)
	config, err := cfg.Window.ToWindowConfig()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC).UnixMicro(), config.StartTime)
	assert.Equal(t, int64(12), config.Interval)
	assert.True(t, config.IntervalByMonth)
	assert.Equal(t, int64(7*24*time.Hour/time.Microsecond), config.SlidingStep)
	assert.False(t, config.SlidingStepByMonth)
	assert.Equal(t, timex.Microsecond, config.Precision)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, ErrConfigFileMissing)

	path := writeConfig(t, "broken.yaml", "window: [unterminated")
	_, err = Load(path)
	assert.ErrorIs(t, err, ErrReadingConfigFile)

	path = writeConfig(t, "mistyped.yaml", "window:\n  heapMaxSize: [1, 2]\n")
	_, err = Load(path)
	assert.ErrorIs(t, err, ErrUnmarshallingConfig)
}

func TestToWindowConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		config  WindowConfig
		wantErr error
	}{
		{
			name:    "missing span",
			config:  WindowConfig{Interval: 5},
			wantErr: ErrMissingTimeSpan,
		},
		{
			name:    "missing interval",
			config:  WindowConfig{StartTime: 0, EndTime: 10, Interval: " "},
			wantErr: ErrMissingInterval,
		},
		{
			name:    "bad time",
			config:  WindowConfig{StartTime: "someday", EndTime: 10, Interval: 5},
			wantErr: cast.ErrInvalidTime,
		},
		{
			name:    "bad interval",
			config:  WindowConfig{StartTime: 0, EndTime: 10, Interval: "5 parsecs"},
			wantErr: cast.ErrInvalidInterval,
		},
		{
			name:    "bad step",
			config:  WindowConfig{StartTime: 0, EndTime: 10, Interval: 5, SlidingStep: -1},
			wantErr: cast.ErrInvalidInterval,
		},
		{
			name:    "reversed span",
			config:  WindowConfig{StartTime: 10, EndTime: 0, Interval: 5},
			wantErr: types.ErrInvalidTimeSpan,
		},
		{
			name:    "bad precision",
			config:  WindowConfig{StartTime: 0, EndTime: 10, Interval: 5, Precision: "s"},
			wantErr: types.ErrInvalidPrecision,
		},
		{
			name:    "bad heap size",
			config:  WindowConfig{StartTime: 0, EndTime: 10, Interval: 5, HeapMaxSize: 1},
			wantErr: types.ErrInvalidHeapSize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.config.ToWindowConfig()
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
