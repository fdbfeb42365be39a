package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"versa/internal/domain"
	"versa/internal/infra/envexpand"
)

//go:embed tools.yaml
var defaultCatalog []byte

// DefaultSource names the embedded catalog in logs and errors.
const DefaultSource = "builtin:tools.yaml"

type Loader struct {
	logger *zap.Logger
}

type rawCatalog struct {
	Tools []rawTool `mapstructure:"tools"`
}

type rawTool struct {
	ID                  string                      `mapstructure:"id"`
	Category            string                      `mapstructure:"category"`
	Names               map[string]string           `mapstructure:"names"`
	Descriptions        map[string]string           `mapstructure:"descriptions"`
	Tags                []string                    `mapstructure:"tags"`
	RequiresPrompt      bool                        `mapstructure:"requiresPrompt"`
	RequiresMask        bool                        `mapstructure:"requiresMask"`
	RequiresSecondImage bool                        `mapstructure:"requiresSecondImage"`
	IsSensitive         bool                        `mapstructure:"isSensitive"`
	Featured            bool                        `mapstructure:"featured"`
	ModelInfo           rawModelInfo                `mapstructure:"modelInfo"`
	InputSchema         map[string]rawSettingSchema `mapstructure:"inputSchema"`
}

type rawModelInfo struct {
	Name           string `mapstructure:"name"`
	Size           string `mapstructure:"size"`
	ProcessingTime string `mapstructure:"processingTime"`
	RequiresGPU    bool   `mapstructure:"requiresGpu"`
}

type rawSettingSchema struct {
	Type        string   `mapstructure:"type"`
	Default     any      `mapstructure:"default"`
	Enum        []string `mapstructure:"enum"`
	Min         *float64 `mapstructure:"min"`
	Max         *float64 `mapstructure:"max"`
	Required    bool     `mapstructure:"required"`
	Description string   `mapstructure:"description"`
}

func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		return &Loader{logger: zap.NewNop()}
	}
	return &Loader{logger: logger.Named("catalog")}
}

// LoadDefault parses the catalog embedded in the binary.
func (l *Loader) LoadDefault(ctx context.Context) (*Catalog, error) {
	return l.Parse(ctx, DefaultSource, defaultCatalog)
}

// Load reads a catalog file. An empty path selects the embedded catalog.
func (l *Loader) Load(ctx context.Context, path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return l.LoadDefault(ctx)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return l.Parse(ctx, path, data)
}

// Parse decodes and validates a catalog document. Every validation problem
// is reported in one error.
func (l *Loader) Parse(ctx context.Context, source string, data []byte) (*Catalog, error) {
	expanded, missing, err := envexpand.YAML(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", source, err)
	}
	if len(missing) > 0 {
		l.logger.Warn("missing environment variables in catalog", zap.String("source", source), zap.Strings("missing", missing))
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", source, err)
	}

	var raw rawCatalog
	if err := v.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", source, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tools := make([]domain.ToolDefinition, 0, len(raw.Tools))
	var validationErrors []string
	seen := make(map[string]struct{}, len(raw.Tools))
	for i, rt := range raw.Tools {
		tool := normalizeTool(rt)
		if _, dup := seen[tool.ID]; dup {
			validationErrors = append(validationErrors, fmt.Sprintf("tools[%d]: duplicate id %q", i, tool.ID))
			continue
		}
		if tool.ID != "" {
			seen[tool.ID] = struct{}{}
		}
		if errs := ValidateTool(tool, i); len(errs) > 0 {
			validationErrors = append(validationErrors, errs...)
			continue
		}
		tools = append(tools, tool)
	}
	if len(tools) == 0 && len(validationErrors) == 0 {
		validationErrors = append(validationErrors, "catalog declares no tools")
	}
	if len(validationErrors) > 0 {
		return nil, errors.New(strings.Join(validationErrors, "; "))
	}

	l.logger.Debug("catalog parsed", zap.String("source", source), zap.Int("tools", len(tools)))
	return New(source, tools), nil
}

func normalizeTool(raw rawTool) domain.ToolDefinition {
	tool := domain.ToolDefinition{
		ID:                  strings.TrimSpace(raw.ID),
		Category:            domain.Category(strings.ToLower(strings.TrimSpace(raw.Category))),
		Names:               trimMap(raw.Names),
		Descriptions:        trimMap(raw.Descriptions),
		Tags:                raw.Tags,
		RequiresPrompt:      raw.RequiresPrompt,
		RequiresMask:        raw.RequiresMask,
		RequiresSecondImage: raw.RequiresSecondImage,
		IsSensitive:         raw.IsSensitive,
		Featured:            raw.Featured,
		ModelInfo: domain.ModelInfo{
			Name:           raw.ModelInfo.Name,
			Size:           raw.ModelInfo.Size,
			ProcessingTime: raw.ModelInfo.ProcessingTime,
			RequiresGPU:    raw.ModelInfo.RequiresGPU,
		},
	}
	if len(raw.InputSchema) > 0 {
		tool.InputSchema = make(map[string]domain.SettingSchema, len(raw.InputSchema))
		for name, rs := range raw.InputSchema {
			tool.InputSchema[name] = domain.SettingSchema{
				Type:        domain.SettingType(strings.ToLower(strings.TrimSpace(rs.Type))),
				Default:     rs.Default,
				Enum:        rs.Enum,
				Min:         rs.Min,
				Max:         rs.Max,
				Required:    rs.Required,
				Description: rs.Description,
			}
		}
	}
	return tool
}

func trimMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
	}
	return out
}
