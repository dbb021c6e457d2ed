package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Manager reads typed overrides from the environment. Unset, blank and
// unparsable values all fall back to the given default.
type Manager interface {
	GetStringWithDefault(key, defaultValue string) string
	GetBoolWithDefault(key string, defaultValue bool) bool
	GetDurationWithDefault(key string, defaultValue time.Duration) time.Duration
}

type DefaultManager struct {
	lookup func(key string) (string, bool)
}

func NewConfigManager() Manager {
	return &DefaultManager{lookup: os.LookupEnv}
}

// NewMapManager serves values from a fixed map, for tests and embedding
func NewMapManager(values map[string]string) Manager {
	return &DefaultManager{lookup: func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}}
}

func (m *DefaultManager) value(key string) (string, bool) {
	v, ok := m.lookup(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (m *DefaultManager) GetStringWithDefault(key, defaultValue string) string {
	if v, ok := m.value(key); ok {
		return v
	}
	return defaultValue
}

func (m *DefaultManager) GetBoolWithDefault(key string, defaultValue bool) bool {
	v, ok := m.value(key)
	if !ok {
		return defaultValue
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultValue
	}
	return b
}

// GetDurationWithDefault accepts Go duration strings ("5s") or plain seconds ("5")
func (m *DefaultManager) GetDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	v, ok := m.value(key)
	if !ok {
		return defaultValue
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
