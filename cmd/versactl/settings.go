package main

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"versa/internal/domain"
)

// parseSettings turns repeated key=value flags into a settings map. Values
// are decoded as YAML scalars so numbers and booleans keep their type.
func parseSettings(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	settings := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid setting %q: expected key=value", pair)
		}
		settings[key] = scalarValue(raw)
	}
	return settings, nil
}

func scalarValue(raw string) any {
	if strings.TrimSpace(raw) == "" {
		return raw
	}
	var decoded any
	if err := yaml.Unmarshal([]byte(raw), &decoded); err != nil {
		return raw
	}
	switch decoded.(type) {
	case string, bool, int, float64:
		return decoded
	default:
		return raw
	}
}

func sortedSettingNames(tool domain.ToolDefinition) []string {
	names := make([]string, 0, len(tool.InputSchema))
	for name := range tool.InputSchema {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func settingRange(setting domain.SettingSchema) string {
	switch {
	case len(setting.Enum) > 0:
		return strings.Join(setting.Enum, "|")
	case setting.Min != nil && setting.Max != nil:
		return fmt.Sprintf("%g..%g", *setting.Min, *setting.Max)
	case setting.Min != nil:
		return fmt.Sprintf(">= %g", *setting.Min)
	case setting.Max != nil:
		return fmt.Sprintf("<= %g", *setting.Max)
	}
	return "-"
}
