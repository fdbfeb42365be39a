package validation

import (
	"strings"

	"versa/internal/domain"
)

// Field names reported by Missing.
const (
	FieldImage  = "image"
	FieldPrompt = "prompt"
	FieldMask   = "mask"
	FieldImage2 = "image2"
)

// Validate reports whether req carries every input the tool declares as
// required. The primary image is always required.
func Validate(tool domain.ToolDefinition, req domain.ProcessRequest) bool {
	return len(Missing(tool, req)) == 0
}

// Missing lists the required inputs absent from req, in a stable order.
func Missing(tool domain.ToolDefinition, req domain.ProcessRequest) []string {
	var missing []string
	if req.Image == "" {
		missing = append(missing, FieldImage)
	}
	if tool.RequiresPrompt && strings.TrimSpace(req.Prompt) == "" {
		missing = append(missing, FieldPrompt)
	}
	if tool.RequiresMask && req.Mask == "" {
		missing = append(missing, FieldMask)
	}
	if tool.RequiresSecondImage && req.Image2 == "" {
		missing = append(missing, FieldImage2)
	}
	return missing
}
