// Package config provides configuration management for the desk pet.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/xvierd/desk-pet/internal/domain"
)

// HomeEnv overrides the directory holding config.toml and the data files.
const HomeEnv = "DESKPET_HOME"

// Config holds all configuration for the desk pet.
type Config struct {
	Pet           PetConfig          `mapstructure:"pet"`
	Pomodoro      PomodoroConfig     `mapstructure:"pomodoro"`
	Walk          WalkConfig         `mapstructure:"walk"`
	Reminders     ReminderConfig     `mapstructure:"reminders"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Storage       StorageConfig      `mapstructure:"storage"`
	Theme         ThemeConfig        `mapstructure:"theme"`
}

// PetConfig holds the idle and popup timings.
type PetConfig struct {
	SleepAfter      Duration `mapstructure:"sleep_after"`
	MenuHideAfter   Duration `mapstructure:"menu_hide_after"`
	BubbleHideAfter Duration `mapstructure:"bubble_hide_after"`
}

// PomodoroConfig holds pomodoro timer settings.
type PomodoroConfig struct {
	WorkDuration       Duration `mapstructure:"work_duration"`
	ShortBreak         Duration `mapstructure:"short_break"`
	LongBreak          Duration `mapstructure:"long_break"`
	SessionsBeforeLong int      `mapstructure:"sessions_before_long"`
}

// WalkConfig holds walking animation settings.
type WalkConfig struct {
	Speed       int      `mapstructure:"speed"`
	FrameDelay  Duration `mapstructure:"frame_delay"`
	PetWidth    int      `mapstructure:"pet_width"`
	ScreenWidth int      `mapstructure:"screen_width"`
}

// ReminderConfig holds reminder polling settings.
type ReminderConfig struct {
	PollInterval Duration `mapstructure:"poll_interval"`
	SnoozeFor    Duration `mapstructure:"snooze_for"`
}

// NotificationConfig holds notification settings.
type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
	Backend string `mapstructure:"backend"`
}

// ThemeConfig holds terminal colours and icons.
type ThemeConfig struct {
	ColorNormal  string `mapstructure:"color_normal"`
	ColorSleep   string `mapstructure:"color_sleep"`
	ColorWork    string `mapstructure:"color_work"`
	ColorBreak   string `mapstructure:"color_break"`
	ColorBubble  string `mapstructure:"color_bubble"`
	ColorTitle   string `mapstructure:"color_title"`
	ColorHelp    string `mapstructure:"color_help"`
	IconApp      string `mapstructure:"icon_app"`
	IconReminder string `mapstructure:"icon_reminder"`
	IconStats    string `mapstructure:"icon_stats"`
}

// DefaultThemeConfig returns the default theme configuration.
func DefaultThemeConfig() ThemeConfig {
	return ThemeConfig{
		ColorNormal:  "#A0AEC0",
		ColorSleep:   "#6B7280",
		ColorWork:    "#7C6FE0",
		ColorBreak:   "#4ECDC4",
		ColorBubble:  "#F6E05E",
		ColorTitle:   "#6B7280",
		ColorHelp:    "#95A5A6",
		IconApp:      "🐾",
		IconReminder: "🔔",
		IconStats:    "📊",
	}
}

// Duration is a wrapper around time.Duration for TOML parsing.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// String returns the string representation of the duration.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	pet := domain.DefaultPetConfig()
	return &Config{
		Pet: PetConfig{
			SleepAfter:      Duration(pet.SleepAfter),
			MenuHideAfter:   Duration(pet.MenuHideAfter),
			BubbleHideAfter: Duration(pet.BubbleHideAfter),
		},
		Pomodoro: PomodoroConfig{
			WorkDuration:       Duration(pet.Pomodoro.WorkDuration),
			ShortBreak:         Duration(pet.Pomodoro.ShortBreakDuration),
			LongBreak:          Duration(pet.Pomodoro.LongBreakDuration),
			SessionsBeforeLong: pet.Pomodoro.SessionsBeforeLong,
		},
		Walk: WalkConfig{
			Speed:       pet.Walk.Speed,
			FrameDelay:  Duration(pet.Walk.FrameDelay),
			PetWidth:    pet.Walk.PetWidth,
			ScreenWidth: pet.Walk.ScreenWidth,
		},
		Reminders: ReminderConfig{
			PollInterval: Duration(pet.ReminderPollInterval),
			SnoozeFor:    Duration(pet.SnoozeFor),
		},
		Notifications: NotificationConfig{
			Enabled: true,
		},
		Storage: StorageConfig{
			DataDir: "~/.deskpet",
			Backend: "json",
		},
		Theme: DefaultThemeConfig(),
	}
}

// Load loads the configuration from the config file, creating it with
// defaults when it does not exist yet.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := Save(DefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	v, err := read(configPath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	))); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	dataDir, err := expandDataDir(cfg.Storage.DataDir)
	if err != nil {
		return nil, err
	}
	cfg.Storage.DataDir = dataDir

	return &cfg, nil
}

// Save saves the configuration to the config file.
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	for key, value := range values(cfg) {
		v.Set(key, plain(value))
	}

	return v.WriteConfigAs(configPath)
}

// Set changes one key in the config file. Unknown keys are rejected.
func Set(key, value string) error {
	if _, err := Load(); err != nil {
		return err
	}
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	key = strings.ToLower(strings.TrimSpace(key))
	defaults := values(DefaultConfig())
	current, ok := defaults[key]
	if !ok {
		return fmt.Errorf("unknown config key %q", key)
	}
	parsed, err := parseValue(current, value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}

	v, err := read(configPath)
	if err != nil {
		return err
	}
	v.Set(key, parsed)
	return v.WriteConfigAs(configPath)
}

// Keys returns every known config key in sorted order.
func Keys() []string {
	keys := make([]string, 0)
	for key := range values(DefaultConfig()) {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Values returns the flattened key/value view of cfg.
func Values(cfg *Config) map[string]any {
	return values(cfg)
}

// GetHomeDir returns the directory holding the config file.
func GetHomeDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".deskpet"), nil
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	dir, err := GetHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// GetLogPath returns the path of the log file used while the terminal UI runs.
func GetLogPath(cfg *Config) string {
	return filepath.Join(cfg.Storage.DataDir, "deskpet.log")
}

// ToPetConfig converts the config to the domain PetConfig. Unset or
// non-positive values fall back to the defaults.
func (c *Config) ToPetConfig() domain.PetConfig {
	pet := domain.DefaultPetConfig()

	pet.SleepAfter = orDefault(c.Pet.SleepAfter, pet.SleepAfter)
	pet.MenuHideAfter = orDefault(c.Pet.MenuHideAfter, pet.MenuHideAfter)
	if c.Pet.BubbleHideAfter > 0 {
		pet.BubbleHideAfter = time.Duration(c.Pet.BubbleHideAfter)
	}
	pet.ReminderPollInterval = orDefault(c.Reminders.PollInterval, pet.ReminderPollInterval)
	pet.SnoozeFor = orDefault(c.Reminders.SnoozeFor, pet.SnoozeFor)

	pet.Pomodoro.WorkDuration = orDefault(c.Pomodoro.WorkDuration, pet.Pomodoro.WorkDuration)
	pet.Pomodoro.ShortBreakDuration = orDefault(c.Pomodoro.ShortBreak, pet.Pomodoro.ShortBreakDuration)
	pet.Pomodoro.LongBreakDuration = orDefault(c.Pomodoro.LongBreak, pet.Pomodoro.LongBreakDuration)
	if c.Pomodoro.SessionsBeforeLong > 0 {
		pet.Pomodoro.SessionsBeforeLong = c.Pomodoro.SessionsBeforeLong
	}

	if c.Walk.Speed > 0 {
		pet.Walk.Speed = c.Walk.Speed
	}
	pet.Walk.FrameDelay = orDefault(c.Walk.FrameDelay, pet.Walk.FrameDelay)
	if c.Walk.PetWidth > 0 {
		pet.Walk.PetWidth = c.Walk.PetWidth
	}
	if c.Walk.ScreenWidth > 0 {
		pet.Walk.ScreenWidth = c.Walk.ScreenWidth
	}
	return pet
}

func orDefault(d Duration, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return time.Duration(d)
}

func read(configPath string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return v, nil
}

func expandDataDir(dir string) (string, error) {
	if dir == "" || dir == "~/.deskpet" {
		return GetHomeDir()
	}
	if strings.HasPrefix(dir, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(homeDir, dir[2:]), nil
	}
	return dir, nil
}

func parseValue(current any, value string) (any, error) {
	switch current.(type) {
	case int:
		var n int
		if _, err := fmt.Sscanf(value, "%d", &n); err != nil {
			return nil, fmt.Errorf("expected an integer")
		}
		return n, nil
	case bool:
		switch strings.ToLower(value) {
		case "true", "yes", "on", "1":
			return true, nil
		case "false", "no", "off", "0":
			return false, nil
		}
		return nil, fmt.Errorf("expected true or false")
	case Duration:
		d, err := time.ParseDuration(value)
		if err != nil {
			return nil, err
		}
		return Duration(d).String(), nil
	default:
		return value, nil
	}
}

// values flattens cfg into viper keys. Durations keep their type so Set
// can tell how to parse user input; Save writes them as strings.
func values(cfg *Config) map[string]any {
	return map[string]any{
		"pet.sleep_after":               cfg.Pet.SleepAfter,
		"pet.menu_hide_after":           cfg.Pet.MenuHideAfter,
		"pet.bubble_hide_after":         cfg.Pet.BubbleHideAfter,
		"pomodoro.work_duration":        cfg.Pomodoro.WorkDuration,
		"pomodoro.short_break":          cfg.Pomodoro.ShortBreak,
		"pomodoro.long_break":           cfg.Pomodoro.LongBreak,
		"pomodoro.sessions_before_long": cfg.Pomodoro.SessionsBeforeLong,
		"walk.speed":                    cfg.Walk.Speed,
		"walk.frame_delay":              cfg.Walk.FrameDelay,
		"walk.pet_width":                cfg.Walk.PetWidth,
		"walk.screen_width":             cfg.Walk.ScreenWidth,
		"reminders.poll_interval":       cfg.Reminders.PollInterval,
		"reminders.snooze_for":          cfg.Reminders.SnoozeFor,
		"notifications.enabled":         cfg.Notifications.Enabled,
		"storage.data_dir":              cfg.Storage.DataDir,
		"storage.backend":               cfg.Storage.Backend,
		"theme.color_normal":            cfg.Theme.ColorNormal,
		"theme.color_sleep":             cfg.Theme.ColorSleep,
		"theme.color_work":              cfg.Theme.ColorWork,
		"theme.color_break":             cfg.Theme.ColorBreak,
		"theme.color_bubble":            cfg.Theme.ColorBubble,
		"theme.color_title":             cfg.Theme.ColorTitle,
		"theme.color_help":              cfg.Theme.ColorHelp,
		"theme.icon_app":                cfg.Theme.IconApp,
		"theme.icon_reminder":           cfg.Theme.IconReminder,
		"theme.icon_stats":              cfg.Theme.IconStats,
	}
}

// setDefaults sets default values for viper.
func setDefaults(v *viper.Viper) {
	for key, value := range values(DefaultConfig()) {
		v.SetDefault(key, plain(value))
	}
}

func plain(value any) any {
	if d, ok := value.(Duration); ok {
		return d.String()
	}
	return value
}
