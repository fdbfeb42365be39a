package processor

import (
	"strings"

	"github.com/spf13/cast"
)

// settingInt reads an integer setting. Settings arrive untyped (JSON numbers,
// YAML ints, CLI strings), so anything castable is accepted.
func settingInt(settings map[string]any, key string, fallback int) int {
	raw, ok := settings[key]
	if !ok || raw == nil {
		return fallback
	}
	value, err := cast.ToIntE(raw)
	if err != nil {
		return fallback
	}
	return value
}

func settingString(settings map[string]any, key, fallback string) string {
	raw, ok := settings[key]
	if !ok || raw == nil {
		return fallback
	}
	value, err := cast.ToStringE(raw)
	if err != nil || strings.TrimSpace(value) == "" {
		return fallback
	}
	return strings.TrimSpace(value)
}
