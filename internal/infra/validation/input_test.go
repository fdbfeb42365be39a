package validation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"versa/internal/domain"
)

func TestValidate_RequiredFields(t *testing.T) {
	cases := []struct {
		name    string
		tool    domain.ToolDefinition
		req     domain.ProcessRequest
		valid   bool
		missing []string
	}{
		{
			name:  "no requirements",
			tool:  domain.ToolDefinition{ID: "hd_boost"},
			req:   domain.ProcessRequest{Image: "a"},
			valid: true,
		},
		{
			name:    "mask required but absent",
			tool:    domain.ToolDefinition{ID: "object_remover", RequiresMask: true},
			req:     domain.ProcessRequest{Image: "a"},
			missing: []string{FieldMask},
		},
		{
			name:    "blank prompt",
			tool:    domain.ToolDefinition{ID: "bg_replacer", RequiresPrompt: true},
			req:     domain.ProcessRequest{Image: "a", Prompt: " \t\n "},
			missing: []string{FieldPrompt},
		},
		{
			name:  "prompt with surrounding whitespace",
			tool:  domain.ToolDefinition{ID: "bg_replacer", RequiresPrompt: true},
			req:   domain.ProcessRequest{Image: "a", Prompt: "  beach  "},
			valid: true,
		},
		{
			name:    "second image absent",
			tool:    domain.ToolDefinition{ID: "face_swap", RequiresSecondImage: true, RequiresMask: true},
			req:     domain.ProcessRequest{Image: "a", Mask: "m"},
			missing: []string{FieldImage2},
		},
		{
			name:    "primary image absent",
			tool:    domain.ToolDefinition{ID: "hd_boost"},
			req:     domain.ProcessRequest{},
			missing: []string{FieldImage},
		},
		{
			name:    "everything absent",
			tool:    domain.ToolDefinition{ID: "x", RequiresPrompt: true, RequiresMask: true, RequiresSecondImage: true},
			req:     domain.ProcessRequest{},
			missing: []string{FieldImage, FieldPrompt, FieldMask, FieldImage2},
		},
		{
			name:  "optional inputs ignored when not required",
			tool:  domain.ToolDefinition{ID: "cartoonizer"},
			req:   domain.ProcessRequest{Image: "a", Prompt: "   "},
			valid: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.valid, Validate(tc.tool, tc.req))
			require.Equal(t, tc.missing, Missing(tc.tool, tc.req))
		})
	}
}

func TestValidate_IsPure(t *testing.T) {
	tool := domain.ToolDefinition{ID: "face_swap", RequiresMask: true, RequiresSecondImage: true}
	req := domain.ProcessRequest{Image: "a", Image2: "b"}

	first := Validate(tool, req)
	second := Validate(tool, req)
	require.False(t, first)
	require.Equal(t, first, second)
	require.Empty(t, req.Mask)
}
