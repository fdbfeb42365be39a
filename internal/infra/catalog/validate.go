package catalog

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/spf13/cast"

	"versa/internal/domain"
)

var toolIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_]*$`)

// ValidateTool returns every problem found in tool, prefixed with its index.
func ValidateTool(tool domain.ToolDefinition, index int) []string {
	var errs []string

	if tool.ID == "" {
		errs = append(errs, fmt.Sprintf("tools[%d]: id is required", index))
	} else if !toolIDPattern.MatchString(tool.ID) {
		errs = append(errs, fmt.Sprintf("tools[%d]: id %q must be lowercase snake_case", index, tool.ID))
	}
	if !tool.Category.Valid() {
		errs = append(errs, fmt.Sprintf("tools[%d]: category %q must be one of: face, body, background, artistic, enhancement, advanced", index, tool.Category))
	}
	if tool.Names[domain.DefaultLocale] == "" {
		errs = append(errs, fmt.Sprintf("tools[%d]: names.%s is required", index, domain.DefaultLocale))
	}
	for name, setting := range tool.InputSchema {
		errs = append(errs, validateSetting(index, name, setting)...)
	}
	slices.Sort(errs)
	return errs
}

func validateSetting(index int, name string, setting domain.SettingSchema) []string {
	var errs []string
	prefix := fmt.Sprintf("tools[%d].inputSchema.%s", index, name)

	switch setting.Type {
	case domain.SettingTypeString, domain.SettingTypeBoolean:
	case domain.SettingTypeNumber, domain.SettingTypeInteger:
		if setting.Min != nil && setting.Max != nil && *setting.Min > *setting.Max {
			errs = append(errs, fmt.Sprintf("%s: min must be <= max", prefix))
		}
		if setting.Default != nil {
			value, err := cast.ToFloat64E(setting.Default)
			switch {
			case err != nil:
				errs = append(errs, fmt.Sprintf("%s: default must be numeric", prefix))
			case setting.Min != nil && value < *setting.Min, setting.Max != nil && value > *setting.Max:
				errs = append(errs, fmt.Sprintf("%s: default is out of range", prefix))
			}
		}
	case domain.SettingTypeSelect:
		if len(setting.Enum) == 0 {
			errs = append(errs, fmt.Sprintf("%s: select requires enum values", prefix))
		} else if setting.Default != nil && !slices.Contains(setting.Enum, cast.ToString(setting.Default)) {
			errs = append(errs, fmt.Sprintf("%s: default must be one of the enum values", prefix))
		}
	default:
		errs = append(errs, fmt.Sprintf("%s: type %q must be one of: string, number, integer, boolean, select", prefix, setting.Type))
	}
	return errs
}
