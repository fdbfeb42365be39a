package validation

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/jsonschema-go/jsonschema"

	"versa/internal/domain"
)

// SettingsSchema renders the tool's input schema as a JSON Schema object.
func SettingsSchema(tool domain.ToolDefinition) (*jsonschema.Schema, error) {
	raw, err := json.Marshal(settingsDocument(tool))
	if err != nil {
		return nil, fmt.Errorf("encode settings schema: %w", err)
	}
	var schema jsonschema.Schema
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("decode settings schema: %w", err)
	}
	return &schema, nil
}

func settingsDocument(tool domain.ToolDefinition) map[string]any {
	names := make([]string, 0, len(tool.InputSchema))
	for name := range tool.InputSchema {
		names = append(names, name)
	}
	sort.Strings(names)

	properties := make(map[string]any, len(names))
	required := make([]string, 0)
	for _, name := range names {
		setting := tool.InputSchema[name]
		properties[name] = propertyDocument(setting)
		if setting.Required {
			required = append(required, name)
		}
	}

	doc := map[string]any{
		"type":       "object",
		"title":      tool.ID,
		"properties": properties,
	}
	if len(required) > 0 {
		doc["required"] = required
	}
	return doc
}

func propertyDocument(setting domain.SettingSchema) map[string]any {
	prop := map[string]any{}
	switch setting.Type {
	case domain.SettingTypeSelect:
		prop["type"] = "string"
	case "":
		prop["type"] = "string"
	default:
		prop["type"] = string(setting.Type)
	}
	if len(setting.Enum) > 0 && prop["type"] == "string" {
		prop["enum"] = setting.Enum
	}
	if setting.Min != nil {
		prop["minimum"] = *setting.Min
	}
	if setting.Max != nil {
		prop["maximum"] = *setting.Max
	}
	if setting.Default != nil {
		prop["default"] = setting.Default
	}
	if setting.Description != "" {
		prop["description"] = setting.Description
	}
	return prop
}

// SettingsValidator enforces a tool's input schema on request settings.
type SettingsValidator struct{}

func NewSettingsValidator() *SettingsValidator {
	return &SettingsValidator{}
}

// Validate checks settings against the tool schema. Nil settings validate
// against an empty object.
func (v *SettingsValidator) Validate(tool domain.ToolDefinition, settings map[string]any) error {
	schema, err := SettingsSchema(tool)
	if err != nil {
		return err
	}
	resolved, err := schema.Resolve(nil)
	if err != nil {
		return fmt.Errorf("resolve settings schema: %w", err)
	}
	instance, err := normalizeInstance(settings)
	if err != nil {
		return err
	}
	if err := resolved.Validate(instance); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}
	return nil
}

func normalizeInstance(settings map[string]any) (any, error) {
	if settings == nil {
		return map[string]any{}, nil
	}
	raw, err := json.Marshal(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: settings are not JSON encodable: %s", domain.ErrInvalidInput, err.Error())
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return decoded, nil
}
