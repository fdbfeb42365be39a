package domain

// Category groups tools in the catalog. The set is closed.
type Category string

const (
	CategoryFace        Category = "face"
	CategoryBody        Category = "body"
	CategoryBackground  Category = "background"
	CategoryArtistic    Category = "artistic"
	CategoryEnhancement Category = "enhancement"
	CategoryAdvanced    Category = "advanced"
)

var categoryOrder = []Category{
	CategoryFace,
	CategoryBody,
	CategoryBackground,
	CategoryArtistic,
	CategoryEnhancement,
	CategoryAdvanced,
}

var categoryLabels = map[Category]string{
	CategoryFace:        "Face",
	CategoryBody:        "Body",
	CategoryBackground:  "Background & Environment",
	CategoryArtistic:    "Artistic & Creative",
	CategoryEnhancement: "Technical Enhancement",
	CategoryAdvanced:    "Advanced Tools",
}

// Categories returns every category in display order.
func Categories() []Category {
	return append([]Category(nil), categoryOrder...)
}

// Label returns the display label of the category.
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// SettingType is the declared type of a tool setting.
type SettingType string

const (
	SettingTypeString  SettingType = "string"
	SettingTypeNumber  SettingType = "number"
	SettingTypeInteger SettingType = "integer"
	SettingTypeBoolean SettingType = "boolean"
	SettingTypeSelect  SettingType = "select"
)

// SettingSchema describes one entry of a tool's input schema. It drives
// rendering on the caller side and optional strict validation.
type SettingSchema struct {
	Type        SettingType `json:"type" yaml:"type"`
	Default     any         `json:"default,omitempty" yaml:"default,omitempty"`
	Enum        []string    `json:"enum,omitempty" yaml:"enum,omitempty"`
	Min         *float64    `json:"min,omitempty" yaml:"min,omitempty"`
	Max         *float64    `json:"max,omitempty" yaml:"max,omitempty"`
	Required    bool        `json:"required,omitempty" yaml:"required,omitempty"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
}

// ModelInfo is informational metadata; core logic never reads it.
type ModelInfo struct {
	Name           string `json:"name" yaml:"name"`
	Size           string `json:"size" yaml:"size"`
	ProcessingTime string `json:"processingTime" yaml:"processingTime"`
	RequiresGPU    bool   `json:"requiresGpu" yaml:"requiresGpu"`
}

// ToolDefinition is an immutable catalog entry.
type ToolDefinition struct {
	ID                  string                   `json:"id" yaml:"id"`
	Category            Category                 `json:"category" yaml:"category"`
	Names               map[string]string        `json:"names" yaml:"names"`
	Descriptions        map[string]string        `json:"descriptions,omitempty" yaml:"descriptions,omitempty"`
	Tags                []string                 `json:"tags,omitempty" yaml:"tags,omitempty"`
	RequiresPrompt      bool                     `json:"requiresPrompt" yaml:"requiresPrompt"`
	RequiresMask        bool                     `json:"requiresMask" yaml:"requiresMask"`
	RequiresSecondImage bool                     `json:"requiresSecondImage" yaml:"requiresSecondImage"`
	IsSensitive         bool                     `json:"isSensitive" yaml:"isSensitive"`
	Featured            bool                     `json:"featured,omitempty" yaml:"featured,omitempty"`
	ModelInfo           ModelInfo                `json:"modelInfo" yaml:"modelInfo"`
	InputSchema         map[string]SettingSchema `json:"inputSchema,omitempty" yaml:"inputSchema,omitempty"`
}

// Name returns the localized name, falling back to the default locale and
// then to the id.
func (t ToolDefinition) Name(locale string) string {
	return localized(t.Names, locale, t.ID)
}

// Description returns the localized description.
func (t ToolDefinition) Description(locale string) string {
	return localized(t.Descriptions, locale, "")
}

// DefaultSetting returns the schema default for a setting, if declared.
func (t ToolDefinition) DefaultSetting(name string) (any, bool) {
	schema, ok := t.InputSchema[name]
	if !ok || schema.Default == nil {
		return nil, false
	}
	return schema.Default, true
}

func localized(values map[string]string, locale, fallback string) string {
	if v, ok := values[locale]; ok && v != "" {
		return v
	}
	if v, ok := values[DefaultLocale]; ok && v != "" {
		return v
	}
	return fallback
}

// ToolCatalog is the read-only registry of tool definitions.
type ToolCatalog interface {
	GetToolByID(id string) (ToolDefinition, bool)
	ListCategories() []Category
	SearchByText(query, locale string) []ToolDefinition
}
