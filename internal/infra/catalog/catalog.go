package catalog

import (
	"strings"

	"github.com/samber/lo"

	"versa/internal/domain"
)

// Catalog is an immutable, ordered set of tool definitions.
type Catalog struct {
	source string
	tools  []domain.ToolDefinition
	byID   map[string]int
}

// New indexes tools in the given order. Later duplicates are ignored.
func New(source string, tools []domain.ToolDefinition) *Catalog {
	c := &Catalog{
		source: source,
		tools:  make([]domain.ToolDefinition, 0, len(tools)),
		byID:   make(map[string]int, len(tools)),
	}
	for _, tool := range tools {
		if _, ok := c.byID[tool.ID]; ok {
			continue
		}
		c.byID[tool.ID] = len(c.tools)
		c.tools = append(c.tools, tool)
	}
	return c
}

func (c *Catalog) Source() string {
	return c.source
}

func (c *Catalog) Len() int {
	return len(c.tools)
}

func (c *Catalog) GetToolByID(id string) (domain.ToolDefinition, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return domain.ToolDefinition{}, false
	}
	return c.tools[idx], true
}

// ListCategories returns the fixed category order.
func (c *Catalog) ListCategories() []domain.Category {
	return domain.Categories()
}

// List returns every tool in catalog order.
func (c *Catalog) List() []domain.ToolDefinition {
	return append([]domain.ToolDefinition(nil), c.tools...)
}

func (c *Catalog) ByCategory(category domain.Category) []domain.ToolDefinition {
	return lo.Filter(c.tools, func(tool domain.ToolDefinition, _ int) bool {
		return tool.Category == category
	})
}

// SearchByText matches query case-insensitively against id, tags and the
// localized name and description. An empty query matches every tool.
func (c *Catalog) SearchByText(query, locale string) []domain.ToolDefinition {
	needle := strings.ToLower(strings.TrimSpace(query))
	if locale == "" {
		locale = domain.DefaultLocale
	}
	return lo.Filter(c.tools, func(tool domain.ToolDefinition, _ int) bool {
		return needle == "" || matches(tool, needle, locale)
	})
}

func matches(tool domain.ToolDefinition, needle, locale string) bool {
	fields := []string{
		tool.ID,
		strings.ReplaceAll(tool.ID, "_", " "),
		tool.Name(locale),
		tool.Description(locale),
	}
	fields = append(fields, tool.Tags...)
	return lo.ContainsBy(fields, func(field string) bool {
		return field != "" && strings.Contains(strings.ToLower(field), needle)
	})
}

var _ domain.ToolCatalog = (*Catalog)(nil)
