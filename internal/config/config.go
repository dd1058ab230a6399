// Package config reads runtime settings from the environment.
package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const appName = "questd"

type RuntimeConfig struct {
	DBPath          string
	LogFile         string
	LogLevel        slog.Level
	CredentialsDir  string
	AuthPort        string
	CalendarSource  string
	SyncInterval    time.Duration
	AllDayShiftDays *int
	FetchLimit      int
	SchedulerBuffer int

	DesktopNotifications bool
}

// Default returns the configuration used when no variable is set. Paths
// live under the user's config directory when it can be resolved.
func Default() RuntimeConfig {
	dir := DataDir()
	return RuntimeConfig{
		DBPath:          filepath.Join(dir, "questd.db"),
		LogFile:         filepath.Join(dir, "questd.log"),
		LogLevel:        slog.LevelInfo,
		CredentialsDir:  dir,
		AuthPort:        "6789",
		CalendarSource:  "google",
		SyncInterval:    60 * time.Second,
		FetchLimit:      4,
		SchedulerBuffer: 64,
	}
}

// DataDir is $XDG_CONFIG_HOME/questd, falling back to ~/.config/questd.
func DataDir() string {
	if base, err := os.UserConfigDir(); err == nil {
		return filepath.Join(base, appName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", appName)
	}
	return "." + appName
}

// LoadDotEnv loads variables from the given files, or .env when none is
// given. Missing files are ignored; variables already set win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

func FromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString("QUESTD_DB_PATH"); ok {
		cfg.DBPath = v
	}
	if v, ok := getEnvString("QUESTD_LOG_FILE"); ok {
		cfg.LogFile = v
	}
	if v, ok := getEnvString("QUESTD_LOG_LEVEL"); ok {
		var level slog.Level
		if err := level.UnmarshalText([]byte(v)); err == nil {
			cfg.LogLevel = level
		}
	}
	if v, ok := getEnvString("QUESTD_CREDENTIALS_DIR"); ok {
		cfg.CredentialsDir = v
	}
	if v, ok := getEnvString("QUESTD_AUTH_PORT"); ok {
		cfg.AuthPort = v
	}
	if v, ok := getEnvString("QUESTD_CALENDAR_SOURCE"); ok {
		cfg.CalendarSource = strings.ToLower(v)
	}
	if v, ok := getEnvDuration("QUESTD_SYNC_INTERVAL"); ok && v > 0 {
		cfg.SyncInterval = v
	}
	if v, ok := getEnvInt("QUESTD_ALLDAY_SHIFT_DAYS"); ok {
		cfg.AllDayShiftDays = &v
	}
	if v, ok := getEnvInt("QUESTD_FETCH_LIMIT"); ok && v > 0 {
		cfg.FetchLimit = v
	}
	if v, ok := getEnvInt("QUESTD_SCHEDULER_BUFFER"); ok && v > 0 {
		cfg.SchedulerBuffer = v
	}
	if v, ok := getEnvBool("QUESTD_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	return cfg
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	return raw, raw != ""
}

func getEnvInt(name string) (int, bool) {
	raw, ok := getEnvString(name)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw, ok := getEnvString(name)
	if !ok {
		return false, false
	}
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}

// getEnvDuration accepts Go durations ("90s") or plain seconds ("90").
func getEnvDuration(name string) (time.Duration, bool) {
	raw, ok := getEnvString(name)
	if !ok {
		return 0, false
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d, true
	}
	secs, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}
