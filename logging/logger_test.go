package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Setenv("PRESETS_HOME", t.TempDir())
	Reset()
	defer Reset()

	logger := NewLogger("test-component")
	require.NotNil(t, logger)
	assert.Equal(t, "test-component", logger.Data["component"])
	assert.Same(t, logger, NewLogger("test-component"), "loggers are cached per component")
}

func TestTextFormatter(t *testing.T) {
	tests := []struct {
		name    string
		config  FormatConfig
		entry   *logrus.Entry
		want    []string
		notWant []string
	}{
		{
			name:   "default format",
			config: FormatConfig{},
			entry: &logrus.Entry{
				Level:   logrus.InfoLevel,
				Message: "saved presets",
				Data: logrus.Fields{
					"component": "persist",
					"path":      "/tmp/app_config.json",
					"count":     2,
				},
			},
			want: []string{"[INFO]", "[persist]", "saved presets", "count=2 path=/tmp/app_config.json"},
		},
		{
			name:   "simple format",
			config: FormatConfig{DisableTimestamp: true, DisableComponent: true},
			entry: &logrus.Entry{
				Level:   logrus.WarnLevel,
				Message: "settings file unreadable",
				Data:    logrus.Fields{"component": "persist"},
			},
			want:    []string{"[WARN] settings file unreadable"},
			notWant: []string{"[persist]"},
		},
		{
			name:   "caller information",
			config: FormatConfig{},
			entry: func() *logrus.Entry {
				logger := logrus.New()
				logger.SetReportCaller(true)
				return &logrus.Entry{
					Logger:  logger,
					Level:   logrus.InfoLevel,
					Message: "with caller",
					Data:    logrus.Fields{"component": "session"},
					Caller: &runtime.Frame{
						File:     "/path/to/session.go",
						Line:     42,
						Function: "github.com/grovetools/presets/session.(*Session).CommitDraft",
					},
				}
			}(),
			want: []string{"[session.go:42 session.(*Session).CommitDraft]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := &TextFormatter{Config: tt.config}
			tt.entry.Time = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

			output, err := formatter.Format(tt.entry)
			require.NoError(t, err)

			outputStr := string(output)
			for _, want := range tt.want {
				assert.Contains(t, outputStr, want)
			}
			for _, notWant := range tt.notWant {
				assert.NotContains(t, outputStr, notWant)
			}
			assert.True(t, strings.HasSuffix(outputStr, "\n"))
		})
	}
}

func TestLogLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&TextFormatter{})
	logger.SetLevel(logrus.WarnLevel)

	entry := logger.WithField("component", "test")
	entry.Debug("debug message")
	entry.Info("info message")
	entry.Warn("warn message")
	entry.Error("error message")

	output := buf.String()
	assert.NotContains(t, output, "debug message")
	assert.NotContains(t, output, "info message")
	assert.Contains(t, output, "warn message")
	assert.Contains(t, output, "error message")
}

func TestEnvironmentVariables(t *testing.T) {
	t.Setenv("PRESETS_HOME", t.TempDir())
	t.Setenv("PRESETS_LOG_LEVEL", "debug")
	t.Setenv("PRESETS_LOG_CALLER", "true")

	entry := newLogger("env-test", Config{Level: "error"}, time.Now())
	assert.Equal(t, logrus.DebugLevel, entry.Logger.GetLevel(), "env overrides config")
	assert.True(t, entry.Logger.ReportCaller)
}

func TestConfigLevelAndJSONFormat(t *testing.T) {
	t.Setenv("PRESETS_HOME", t.TempDir())
	t.Setenv("PRESETS_LOG_LEVEL", "")

	entry := newLogger("cfg-test", Config{
		Level:  "warn",
		Format: FormatConfig{Preset: "json"},
	}, time.Now())
	assert.Equal(t, logrus.WarnLevel, entry.Logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, entry.Logger.Formatter)
}

func TestFileSink(t *testing.T) {
	home := t.TempDir()
	t.Setenv("PRESETS_HOME", home)
	t.Setenv("PRESETS_LOG_LEVEL", "info")

	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	path := LogFilePath("persist", Config{}, now)
	assert.Equal(t, filepath.Join(home, "state", "logs", "persist-2026-10-18.log"), path)

	entry := newLogger("persist", Config{Format: FormatConfig{StructuredToStderr: "never"}}, now)
	entry.Info("hello file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello file")

	assert.Empty(t, LogFilePath("persist", Config{File: FileSinkConfig{Disabled: true}}, now))
	custom := filepath.Join(home, "custom.log")
	assert.Equal(t, custom, LogFilePath("persist", Config{File: FileSinkConfig{Path: custom}}, now))
}

func TestShouldLogToStderr(t *testing.T) {
	assert.True(t, shouldLogToStderr("always", logrus.InfoLevel))
	assert.False(t, shouldLogToStderr("never", logrus.DebugLevel))
	assert.True(t, shouldLogToStderr("auto", logrus.DebugLevel))
}
