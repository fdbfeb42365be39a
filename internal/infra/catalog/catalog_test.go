package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"versa/internal/domain"
)

func sampleCatalog() *Catalog {
	return New("test", []domain.ToolDefinition{
		{
			ID:           "face_swap",
			Category:     domain.CategoryFace,
			Names:        map[string]string{"en": "Face Swap", "ar": "تبديل الوجوه"},
			Descriptions: map[string]string{"en": "Swap faces between photos."},
			Tags:         []string{"portrait"},
		},
		{
			ID:       "bg_remover",
			Category: domain.CategoryBackground,
			Names:    map[string]string{"en": "Background Remover"},
			Tags:     []string{"cutout", "transparent"},
		},
		{
			ID:       "hd_boost",
			Category: domain.CategoryEnhancement,
			Names:    map[string]string{"en": "HD Boost"},
		},
		{
			ID:       "face_swap",
			Category: domain.CategoryBody,
			Names:    map[string]string{"en": "Shadowed duplicate"},
		},
	})
}

func ids(tools []domain.ToolDefinition) []string {
	out := make([]string, 0, len(tools))
	for _, tool := range tools {
		out = append(out, tool.ID)
	}
	return out
}

func TestCatalog_GetToolByID(t *testing.T) {
	c := sampleCatalog()

	tool, ok := c.GetToolByID("face_swap")
	require.True(t, ok)
	require.Equal(t, domain.CategoryFace, tool.Category)

	_, ok = c.GetToolByID("unknown_tool_xyz")
	require.False(t, ok)
	require.Equal(t, 3, c.Len())
}

func TestCatalog_ListCategories(t *testing.T) {
	require.Equal(t, []domain.Category{
		domain.CategoryFace,
		domain.CategoryBody,
		domain.CategoryBackground,
		domain.CategoryArtistic,
		domain.CategoryEnhancement,
		domain.CategoryAdvanced,
	}, sampleCatalog().ListCategories())
}

func TestCatalog_SearchByText(t *testing.T) {
	c := sampleCatalog()

	tests := []struct {
		name   string
		query  string
		locale string
		want   []string
	}{
		{name: "empty query lists all", query: "", want: []string{"face_swap", "bg_remover", "hd_boost"}},
		{name: "case insensitive name", query: "hd BOOST", want: []string{"hd_boost"}},
		{name: "matches id", query: "bg_rem", want: []string{"bg_remover"}},
		{name: "matches id words", query: "face swap", want: []string{"face_swap"}},
		{name: "matches tags", query: "transparent", want: []string{"bg_remover"}},
		{name: "matches description", query: "between photos", want: []string{"face_swap"}},
		{name: "localized name", query: "الوجوه", locale: "ar", want: []string{"face_swap"}},
		{name: "locale falls back to en", query: "hd boost", locale: "fr", want: []string{"hd_boost"}},
		{name: "no match", query: "kitchen", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(c.SearchByText(tt.query, tt.locale)))
		})
	}
}

func TestCatalog_ByCategoryAndList(t *testing.T) {
	c := sampleCatalog()

	require.Equal(t, []string{"bg_remover"}, ids(c.ByCategory(domain.CategoryBackground)))
	require.Empty(t, c.ByCategory(domain.CategoryArtistic))

	list := c.List()
	list[0].ID = "mutated"
	_, ok := c.GetToolByID("face_swap")
	require.True(t, ok)
	require.Equal(t, "face_swap", c.List()[0].ID)
}
