package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings is the process-lifetime configuration. Credentials are treated as
// an opaque blob persisted on behalf of the host; everything else carries a
// documented default.
type Settings struct {
	ServerURL string `yaml:"server_url"`
	Token     string `yaml:"token"`
	UserID    string `yaml:"user_id"`
	DeviceID  string `yaml:"device_id"`

	PlayerCommand   string   `yaml:"player_command"`
	PlayerExtraArgs []string `yaml:"player_extra_args"`

	// SkipSegments lists the segment kinds to auto-skip: intro, outro,
	// recap, preview. Empty disables segment skipping entirely.
	SkipSegments []string `yaml:"skip_segments"`

	// CompletionThreshold is the fraction of runtime after which a finished
	// session marks the item watched.
	CompletionThreshold float64 `yaml:"completion_threshold"`

	ReportInterval  Duration `yaml:"report_interval"`
	SampleInterval  Duration `yaml:"sample_interval"`
	StopTimeout     Duration `yaml:"stop_timeout"`
	IPCReadyTimeout Duration `yaml:"ipc_ready_timeout"`
	RequestTimeout  Duration `yaml:"request_timeout"`
}

type Config struct {
	Path     string
	DBPath   string
	Settings Settings
}

func defaults() Settings {
	return Settings{
		PlayerCommand:       "mpv",
		CompletionThreshold: 0.95,
		ReportInterval:      Duration(5 * time.Second),
		SampleInterval:      Duration(time.Second),
		StopTimeout:         Duration(3 * time.Second),
		IPCReadyTimeout:     Duration(5 * time.Second),
		RequestTimeout:      Duration(10 * time.Second),
	}
}

// DefaultDir resolves the per-user configuration directory.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(base, "jellyterm"), nil
}

// Load reads settings from dir, applying defaults for anything unset. A
// missing file yields pure defaults, not an error.
func Load(dir string) (Config, error) {
	if dir == "" {
		resolved, err := DefaultDir()
		if err != nil {
			return Config{}, err
		}
		dir = resolved
	}
	cfg := Config{
		Path:     filepath.Join(dir, "config.yaml"),
		DBPath:   filepath.Join(dir, "history.db"),
		Settings: defaults(),
	}
	raw, err := os.ReadFile(cfg.Path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	merged := defaults()
	if err := yaml.Unmarshal(raw, &merged); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if merged.CompletionThreshold <= 0 || merged.CompletionThreshold > 1 {
		merged.CompletionThreshold = defaults().CompletionThreshold
	}
	cfg.Settings = merged
	return cfg, nil
}

// Save writes the settings back to disk, creating the directory on first use.
func (c Config) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.Path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	raw, err := yaml.Marshal(c.Settings)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(c.Path, raw, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// SetCredentials stores a fresh server identity and persists it.
func (c *Config) SetCredentials(serverURL, token, userID string) error {
	c.Settings.ServerURL = serverURL
	c.Settings.Token = token
	c.Settings.UserID = userID
	return c.Save()
}

// ClearCredentials drops the opaque credential blob but keeps preferences.
func (c *Config) ClearCredentials() error {
	c.Settings.Token = ""
	c.Settings.UserID = ""
	return c.Save()
}
