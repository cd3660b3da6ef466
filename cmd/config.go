package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	configDir  = ".config/practice-ledger"
	configName = "config"
	envPrefix  = "PL"
)

// Config keys.
const (
	keyCalendarKind     = "calendar.kind"
	keyCalendarTimezone = "calendar.timezone"
	keyScheduleStart    = "schedule.start_hour"
	keyScheduleEnd      = "schedule.end_hour"
	keyScheduleSlot     = "schedule.slot_minutes"
	keyIdleTimeout      = "dialogue.idle_timeout"
	keySweepSchedule    = "dialogue.sweep_schedule"
	keyHTTPListen       = "http.listen"
	keyChatUser         = "chat.user"
	keyLogLevel         = "log.level"
	keyLogFormat        = "log.format"
)

// loadConfig reads $HOME/.config/practice-ledger/config.toml when present.
// PL_* environment variables win over the file; a .env file in the working
// directory is loaded into the environment first.
func loadConfig() (*viper.Viper, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := viper.New()
	cfg.SetConfigName(configName)
	cfg.SetConfigType("toml")
	if homeDir, err := os.UserHomeDir(); err == nil {
		cfg.AddConfigPath(filepath.Join(homeDir, configDir))
	}

	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	cfg.SetDefault(keyCalendarKind, "jalali")
	cfg.SetDefault(keyCalendarTimezone, "Asia/Tehran")
	cfg.SetDefault(keyScheduleStart, 9)
	cfg.SetDefault(keyScheduleEnd, 17)
	cfg.SetDefault(keyScheduleSlot, 60)
	cfg.SetDefault(keyIdleTimeout, "30m")
	cfg.SetDefault(keySweepSchedule, "@every 1m")
	cfg.SetDefault(keyHTTPListen, "127.0.0.1:8080")
	cfg.SetDefault(keyChatUser, "operator")
	cfg.SetDefault(keyLogLevel, "info")
	cfg.SetDefault(keyLogFormat, "text")

	if err := cfg.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return cfg, nil
}
