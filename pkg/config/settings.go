package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

const (
	EnvAPIURL   = "NETTERM_API_URL"
	EnvTimeout  = "NETTERM_TIMEOUT"
	EnvMode     = "NETTERM_MODE"
	EnvKeyboard = "NETTERM_KEYBOARD"

	settingsDir  = ".netterm"
	settingsFile = "settings.yaml"
)

// Settings is the user-editable configuration persisted at ~/.netterm/settings.yaml
type Settings struct {
	APIURL          string        `yaml:"api_url"`
	Timeout         time.Duration `yaml:"timeout"`
	Mode            string        `yaml:"mode"`
	KeyboardVisible bool          `yaml:"keyboard_visible"`
	CapsLock        bool          `yaml:"caps_lock"`
}

// DefaultSettings matches the backend's default bind address
func DefaultSettings() *Settings {
	return &Settings{
		APIURL:          "http://localhost:5000",
		Timeout:         15 * time.Second,
		Mode:            "normal",
		KeyboardVisible: true,
	}
}

// SettingsPath resolves the settings file under the user's home directory
func SettingsPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, settingsDir, settingsFile), nil
}

// LoadSettings reads the file at path (missing file yields defaults) and applies env overrides.
func LoadSettings(path string, env Manager) (*Settings, error) {
	settings := DefaultSettings()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read settings: %w", err)
		default:
			if err := yaml.Unmarshal(data, settings); err != nil {
				return nil, fmt.Errorf("failed to parse settings %s: %w", path, err)
			}
		}
	}

	if env != nil {
		settings.APIURL = env.GetStringWithDefault(EnvAPIURL, settings.APIURL)
		settings.Timeout = env.GetDurationWithDefault(EnvTimeout, settings.Timeout)
		settings.Mode = env.GetStringWithDefault(EnvMode, settings.Mode)
		settings.KeyboardVisible = env.GetBoolWithDefault(EnvKeyboard, settings.KeyboardVisible)
	}
	return settings, nil
}

// Save writes the settings as YAML, creating the parent directory
func (s *Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
