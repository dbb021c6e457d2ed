package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_MissingFileUsesDefaults(t *testing.T) {
	settings, err := LoadSettings(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), settings)
}

func TestLoadSettings_FileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := "api_url: http://toolkit.local:8080\ntimeout: 3s\nmode: practice\nkeyboard_visible: false\ncaps_lock: true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	settings, err := LoadSettings(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "http://toolkit.local:8080", settings.APIURL)
	assert.Equal(t, 3*time.Second, settings.Timeout)
	assert.Equal(t, "practice", settings.Mode)
	assert.False(t, settings.KeyboardVisible)
	assert.True(t, settings.CapsLock)
}

func TestLoadSettings_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_url: http://from-file\n"), 0644))

	t.Setenv(EnvAPIURL, "http://from-env")
	t.Setenv(EnvKeyboard, "false")

	settings, err := LoadSettings(path, NewConfigManager())
	require.NoError(t, err)
	assert.Equal(t, "http://from-env", settings.APIURL)
	assert.False(t, settings.KeyboardVisible)
}

func TestLoadSettings_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_url: [unterminated"), 0644))

	_, err := LoadSettings(path, nil)
	assert.Error(t, err)
}

func TestSettings_SaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")
	settings := DefaultSettings()
	settings.Mode = "practice"

	require.NoError(t, settings.Save(path))

	loaded, err := LoadSettings(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "practice", loaded.Mode)
}
