// Package settings loads and saves the countdown CLI configuration.
package settings

//go:generate errtrace -w .

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"braces.dev/errtrace"
	"gopkg.in/yaml.v3"

	"github.com/tickworks/countdown"
)

const settingsFileName = "settings.yaml"

// Settings are the resolved CLI settings.
type Settings struct {
	// Countdown configures engines created by the CLI.
	Countdown countdown.Config
	// FramePeriod is the frame scheduler spacing.
	FramePeriod time.Duration
	// LogLevel is the minimum log level: debug, info, warn or error.
	LogLevel string
	// HistorySize caps the finished runs kept in memory.
	HistorySize int
	// HistoryPath is the SQLite run archive. Empty disables archiving.
	HistoryPath string
	// JournalPath is the CBOR event journal. Empty disables journaling.
	JournalPath string
}

// Default returns the settings used when no file exists.
func Default() Settings {
	return Settings{
		Countdown:   countdown.DefaultConfig(),
		FramePeriod: countdown.DefaultFramePeriod,
		LogLevel:    "info",
	}
}

// yamlSettings is the wire form. Durations are spelled out in fixed
// units so files stay editable by hand.
type yamlSettings struct {
	DurationSeconds   int    `yaml:"duration_seconds"`
	IntervalMillis    int    `yaml:"interval_millis"`
	AutoStart         *bool  `yaml:"auto_start"`
	EmitEvents        *bool  `yaml:"emit_events"`
	FramePeriodMillis int    `yaml:"frame_period_millis"`
	LogLevel          string `yaml:"log_level"`
	HistorySize       int    `yaml:"history_size"`
	HistoryPath       string `yaml:"history_path"`
	JournalPath       string `yaml:"journal_path"`
}

// DefaultPath returns the per-user settings file location.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", errtrace.Wrap(fmt.Errorf("resolve user config dir: %w", err))
	}
	return filepath.Join(configDir, "countdown", settingsFileName), nil
}

// Load reads settings from path.
// If the file does not exist, defaults are returned.
func Load(path string) (Settings, error) {
	settings := Default()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, errtrace.Wrap(fmt.Errorf("read settings file: %w", err))
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, errtrace.Wrap(fmt.Errorf("parse settings yaml: %w", err))
	}

	applySettings(&settings, fileData)
	return settings, nil
}

// Save writes settings to path, creating parent directories as needed.
func Save(path string, settings Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errtrace.Wrap(fmt.Errorf("create config directory: %w", err))
	}

	autoStart := settings.Countdown.AutoStart
	emitEvents := settings.Countdown.EmitEvents
	fileData := yamlSettings{
		DurationSeconds:   int(settings.Countdown.Duration / time.Second),
		IntervalMillis:    int(settings.Countdown.Interval / time.Millisecond),
		AutoStart:         &autoStart,
		EmitEvents:        &emitEvents,
		FramePeriodMillis: int(settings.FramePeriod / time.Millisecond),
		LogLevel:          settings.LogLevel,
		HistorySize:       settings.HistorySize,
		HistoryPath:       settings.HistoryPath,
		JournalPath:       settings.JournalPath,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return errtrace.Wrap(fmt.Errorf("marshal settings yaml: %w", err))
	}

	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return errtrace.Wrap(fmt.Errorf("write settings file: %w", err))
	}

	return nil
}

func applySettings(settings *Settings, fileData yamlSettings) {
	if fileData.DurationSeconds > 0 {
		settings.Countdown.Duration = time.Duration(fileData.DurationSeconds) * time.Second
	}
	if fileData.IntervalMillis > 0 {
		settings.Countdown.Interval = time.Duration(fileData.IntervalMillis) * time.Millisecond
	}
	if fileData.AutoStart != nil {
		settings.Countdown.AutoStart = *fileData.AutoStart
	}
	if fileData.EmitEvents != nil {
		settings.Countdown.EmitEvents = *fileData.EmitEvents
	}
	if fileData.FramePeriodMillis > 0 {
		settings.FramePeriod = time.Duration(fileData.FramePeriodMillis) * time.Millisecond
	}
	if fileData.LogLevel != "" {
		settings.LogLevel = fileData.LogLevel
	}
	if fileData.HistorySize != 0 {
		settings.HistorySize = fileData.HistorySize
	}
	if fileData.HistoryPath != "" {
		settings.HistoryPath = fileData.HistoryPath
	}
	if fileData.JournalPath != "" {
		settings.JournalPath = fileData.JournalPath
	}
}
