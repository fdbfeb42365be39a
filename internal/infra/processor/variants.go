package processor

import (
	"fmt"
	"strings"

	"versa/internal/domain"
)

// Family tags a processor variant. The set is closed; each family owns a
// fixed stage list and a success message.
type Family string

const (
	FamilyFaceSwap           Family = "face_swap"
	FamilyBeautyFilter       Family = "beauty_filter"
	FamilyAgeTransform       Family = "age_transform"
	FamilyBodyReshape        Family = "body_reshape"
	FamilyBackgroundRemover  Family = "background_remover"
	FamilyBackgroundReplacer Family = "background_replacer"
	FamilyHDBoost            Family = "hd_boost"
	FamilyDenoiser           Family = "denoiser"
	FamilyStyleTransfer      Family = "style_transfer"
	FamilyCartoonizer        Family = "cartoonizer"
	FamilyObjectRemover      Family = "object_remover"
)

// Setting names read by the success messages.
const (
	SettingUpscaleFactor = "upscale_factor"
	SettingTargetAge     = "target_age"
	SettingIntensity     = "intensity"
	SettingStrength      = "strength"
	SettingStyle         = "style"
	SettingBodyPart      = "body_part"
)

const (
	defaultUpscaleFactor = 2
	defaultTargetAge     = 60
	defaultIntensity     = 50
	defaultStrength      = "medium"
	defaultArtStyle      = "van_gogh"
	defaultCartoonStyle  = "anime"
)

// Variant is the static description of one processor family.
type Variant struct {
	Family  Family
	ToolIDs []string
	Stages  []string
	Success func(req domain.ProcessRequest) string
}

// Variants returns the built-in processor families.
func Variants() []Variant {
	return []Variant{
		{
			Family:  FamilyFaceSwap,
			ToolIDs: []string{"face_swap"},
			Stages: []string{
				"Detecting faces in source image...",
				"Detecting faces in target image...",
				"Extracting facial landmarks...",
				"Aligning facial features...",
				"Applying face transformation...",
				"Blending result...",
			},
			Success: func(domain.ProcessRequest) string {
				return "Face swap completed successfully"
			},
		},
		{
			Family:  FamilyBeautyFilter,
			ToolIDs: []string{"beauty_filter"},
			Stages: []string{
				"Analyzing facial features...",
				"Smoothing skin texture...",
				"Enhancing eyes and lips...",
				"Applying beauty adjustments...",
			},
			Success: func(req domain.ProcessRequest) string {
				return fmt.Sprintf("Beauty filter applied at %d%% intensity", settingInt(req.Settings, SettingIntensity, defaultIntensity))
			},
		},
		{
			Family:  FamilyAgeTransform,
			ToolIDs: []string{"age_transform"},
			Stages: []string{
				"Detecting facial structure...",
				"Estimating current age...",
				"Applying age transformation...",
				"Refining skin and hair details...",
			},
			Success: func(req domain.ProcessRequest) string {
				return fmt.Sprintf("Age transformed to %d years", settingInt(req.Settings, SettingTargetAge, defaultTargetAge))
			},
		},
		{
			Family:  FamilyBodyReshape,
			ToolIDs: []string{"body_reshape", "body_swap"},
			Stages: []string{
				"Detecting body pose...",
				"Segmenting body regions...",
				"Applying body transformation...",
				"Blending with background...",
				"Finalizing proportions...",
			},
			Success: func(req domain.ProcessRequest) string {
				part := settingString(req.Settings, SettingBodyPart, "")
				if part == "" {
					return "Body transformation completed successfully"
				}
				return fmt.Sprintf("Body transformation applied to %s", part)
			},
		},
		{
			Family:  FamilyBackgroundRemover,
			ToolIDs: []string{"bg_remover"},
			Stages: []string{
				"Analyzing image composition...",
				"Detecting foreground subject...",
				"Generating segmentation mask...",
				"Refining edges...",
			},
			Success: func(domain.ProcessRequest) string {
				return "Background removed successfully"
			},
		},
		{
			Family:  FamilyBackgroundReplacer,
			ToolIDs: []string{"bg_replacer"},
			Stages: []string{
				"Removing original background...",
				"Generating new background...",
				"Compositing subject...",
				"Harmonizing lighting...",
			},
			Success: func(req domain.ProcessRequest) string {
				prompt := strings.TrimSpace(req.Prompt)
				if prompt == "" {
					return "Background replaced successfully"
				}
				return fmt.Sprintf("Background replaced with %q", prompt)
			},
		},
		{
			Family:  FamilyHDBoost,
			ToolIDs: []string{"hd_boost"},
			Stages: []string{
				"Analyzing image resolution...",
				"Upscaling with super-resolution model...",
				"Enhancing fine details...",
				"Sharpening output...",
			},
			Success: func(req domain.ProcessRequest) string {
				return fmt.Sprintf("Image upscaled %dx successfully", settingInt(req.Settings, SettingUpscaleFactor, defaultUpscaleFactor))
			},
		},
		{
			Family:  FamilyDenoiser,
			ToolIDs: []string{"denoise"},
			Stages: []string{
				"Estimating noise profile...",
				"Removing noise...",
				"Restoring details...",
			},
			Success: func(req domain.ProcessRequest) string {
				return fmt.Sprintf("Noise reduced with %s strength", settingString(req.Settings, SettingStrength, defaultStrength))
			},
		},
		{
			Family:  FamilyStyleTransfer,
			ToolIDs: []string{"style_transfer"},
			Stages: []string{
				"Extracting content features...",
				"Loading style model...",
				"Transferring artistic style...",
				"Preserving content details...",
				"Rendering final artwork...",
			},
			Success: func(req domain.ProcessRequest) string {
				return fmt.Sprintf("Style %q applied successfully", settingString(req.Settings, SettingStyle, defaultArtStyle))
			},
		},
		{
			Family:  FamilyCartoonizer,
			ToolIDs: []string{"cartoonizer"},
			Stages: []string{
				"Simplifying colors...",
				"Detecting edges...",
				"Applying cartoon shading...",
			},
			Success: func(req domain.ProcessRequest) string {
				return fmt.Sprintf("Cartoon effect applied in %s style", settingString(req.Settings, SettingStyle, defaultCartoonStyle))
			},
		},
		{
			Family:  FamilyObjectRemover,
			ToolIDs: []string{"object_remover"},
			Stages: []string{
				"Analyzing masked region...",
				"Inpainting removed area...",
				"Blending inpainted region...",
			},
			Success: func(domain.ProcessRequest) string {
				return "Object removed successfully"
			},
		},
	}
}
