package catalog

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"versa/internal/domain"
)

func TestLoader_Success(t *testing.T) {
	file := writeTempCatalog(t, `
tools:
  - id: hd_boost
    category: enhancement
    names: { en: "HD Boost", ar: "تحسين الدقة" }
    descriptions: { en: "Upscale an image." }
    tags: [upscale]
    modelInfo: { name: "Real-ESRGAN", size: "64MB", processingTime: "2-4s", requiresGpu: true }
    inputSchema:
      upscale_factor: { type: integer, default: 2, min: 2, max: 8 }
`)

	loader := NewLoader(zap.NewNop())
	catalog, err := loader.Load(context.Background(), file)
	require.NoError(t, err)
	require.Equal(t, 1, catalog.Len())
	require.Equal(t, file, catalog.Source())

	got, ok := catalog.GetToolByID("hd_boost")
	require.True(t, ok)
	minFactor, maxFactor := 2.0, 8.0
	expect := domain.ToolDefinition{
		ID:           "hd_boost",
		Category:     domain.CategoryEnhancement,
		Names:        map[string]string{"en": "HD Boost", "ar": "تحسين الدقة"},
		Descriptions: map[string]string{"en": "Upscale an image."},
		Tags:         []string{"upscale"},
		ModelInfo: domain.ModelInfo{
			Name:           "Real-ESRGAN",
			Size:           "64MB",
			ProcessingTime: "2-4s",
			RequiresGPU:    true,
		},
		InputSchema: map[string]domain.SettingSchema{
			"upscale_factor": {Type: domain.SettingTypeInteger, Default: 2, Min: &minFactor, Max: &maxFactor},
		},
	}
	if diff := cmp.Diff(expect, got); diff != "" {
		t.Fatalf("tool mismatch (-want +got):\n%s", diff)
	}
}

func TestLoader_RequirementFlags(t *testing.T) {
	file := writeTempCatalog(t, `
tools:
  - id: face_swap
    category: face
    names: { en: "Face Swap" }
    requiresMask: true
    requiresSecondImage: true
    isSensitive: true
  - id: bg_replacer
    category: background
    names: { en: "Background Replacer" }
    requiresPrompt: true
`)

	catalog, err := NewLoader(nil).Load(context.Background(), file)
	require.NoError(t, err)

	face, ok := catalog.GetToolByID("face_swap")
	require.True(t, ok)
	require.True(t, face.RequiresMask)
	require.True(t, face.RequiresSecondImage)
	require.True(t, face.IsSensitive)
	require.False(t, face.RequiresPrompt)

	bg, ok := catalog.GetToolByID("bg_replacer")
	require.True(t, ok)
	require.True(t, bg.RequiresPrompt)
	require.False(t, bg.RequiresMask)
}

func TestLoader_ExpandsEnv(t *testing.T) {
	t.Setenv("VERSA_TEST_MODEL", "custom-model")
	file := writeTempCatalog(t, `
tools:
  - id: denoise
    category: enhancement
    names: { en: "Denoise" }
    modelInfo: { name: "${VERSA_TEST_MODEL}", size: "${VERSA_TEST_SIZE:-10MB}" }
`)

	catalog, err := NewLoader(nil).Load(context.Background(), file)
	require.NoError(t, err)
	tool, ok := catalog.GetToolByID("denoise")
	require.True(t, ok)
	require.Equal(t, "custom-model", tool.ModelInfo.Name)
	require.Equal(t, "10MB", tool.ModelInfo.Size)
}

func TestLoader_InvalidTools(t *testing.T) {
	file := writeTempCatalog(t, `
tools:
  - id: Bad-ID
    category: face
    names: { en: "Bad" }
  - id: nameless
    category: body
  - id: wrong_category
    category: kitchen
    names: { en: "Wrong" }
  - id: dup
    category: face
    names: { en: "Dup" }
  - id: dup
    category: face
    names: { en: "Dup again" }
  - id: bad_setting
    category: artistic
    names: { en: "Bad setting" }
    inputSchema:
      level: { type: integer, default: 20, min: 0, max: 10 }
      mode: { type: select }
      weird: { type: color }
`)

	_, err := NewLoader(nil).Load(context.Background(), file)
	require.Error(t, err)
	msg := err.Error()
	require.Contains(t, msg, `tools[0]: id "Bad-ID"`)
	require.Contains(t, msg, "tools[1]: names.en is required")
	require.Contains(t, msg, `tools[2]: category "kitchen" must be one of`)
	require.Contains(t, msg, `tools[4]: duplicate id "dup"`)
	require.Contains(t, msg, "tools[5].inputSchema.level: default is out of range")
	require.Contains(t, msg, "inputSchema.mode: select requires enum")
	require.Contains(t, msg, `inputSchema.weird: type "color" must be one of`)
}

func TestLoader_EmptyCatalog(t *testing.T) {
	file := writeTempCatalog(t, "tools: []\n")

	_, err := NewLoader(nil).Load(context.Background(), file)
	require.Error(t, err)
	require.Contains(t, err.Error(), "declares no tools")
}

func TestLoader_MissingFile(t *testing.T) {
	_, err := NewLoader(nil).Load(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "read catalog")
}

func TestLoader_EmptyPathUsesEmbedded(t *testing.T) {
	catalog, err := NewLoader(nil).Load(context.Background(), "  ")
	require.NoError(t, err)
	require.Equal(t, DefaultSource, catalog.Source())
}

func TestLoadDefault_CoversEveryCategory(t *testing.T) {
	catalog, err := NewLoader(nil).LoadDefault(context.Background())
	require.NoError(t, err)
	require.Equal(t, 30, catalog.Len())

	for _, category := range domain.Categories() {
		tools := catalog.ByCategory(category)
		require.Len(t, tools, 5, "category %s", category)
		for _, tool := range tools {
			require.NotEmpty(t, tool.Name("en"), tool.ID)
			require.NotEmpty(t, tool.Name("ar"), tool.ID)
		}
	}

	face, ok := catalog.GetToolByID("face_swap")
	require.True(t, ok)
	require.True(t, face.RequiresMask)
	require.True(t, face.RequiresSecondImage)

	hd, ok := catalog.GetToolByID("hd_boost")
	require.True(t, ok)
	require.Equal(t, domain.SettingTypeInteger, hd.InputSchema["upscale_factor"].Type)
}

func TestLoader_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(nil).LoadDefault(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func writeTempCatalog(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "tools.yaml")
	normalized := strings.ReplaceAll(content, "\t", "  ")
	if err := os.WriteFile(path, []byte(normalized), 0o600); err != nil {
		t.Fatalf("write temp catalog: %v", err)
	}
	return path
}
