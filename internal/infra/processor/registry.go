package processor

import (
	"errors"
	"fmt"
	"sort"

	"versa/internal/domain"
)

// ErrProcessorNotFound is returned by Resolve for tool ids without a
// registered processor.
var ErrProcessorNotFound = errors.New("processor not found")

// Registry maps tool ids to processors. It is immutable once built.
type Registry struct {
	byTool map[string]*Processor
	ids    []string
}

// NewRegistry indexes processors by the tool ids they declare. A tool id
// claimed twice is an error.
func NewRegistry(processors ...*Processor) (*Registry, error) {
	byTool := make(map[string]*Processor)
	for _, proc := range processors {
		if proc == nil {
			continue
		}
		if len(proc.variant.ToolIDs) == 0 {
			return nil, fmt.Errorf("processor %s declares no tool ids", proc.variant.Family)
		}
		for _, id := range proc.variant.ToolIDs {
			if id == "" {
				return nil, fmt.Errorf("processor %s declares an empty tool id", proc.variant.Family)
			}
			if existing, ok := byTool[id]; ok {
				return nil, fmt.Errorf("tool %q claimed by both %s and %s", id, existing.variant.Family, proc.variant.Family)
			}
			byTool[id] = proc
		}
	}
	ids := make([]string, 0, len(byTool))
	for id := range byTool {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return &Registry{byTool: byTool, ids: ids}, nil
}

// NewBuiltinRegistry registers every built-in variant with shared options.
func NewBuiltinRegistry(opts Options) *Registry {
	variants := Variants()
	processors := make([]*Processor, 0, len(variants))
	for _, v := range variants {
		processors = append(processors, New(v, opts))
	}
	registry, err := NewRegistry(processors...)
	if err != nil {
		// The built-in table is static; a collision is a programming error.
		panic(err)
	}
	return registry
}

// Resolve returns the processor registered for toolID.
func (r *Registry) Resolve(toolID string) (*Processor, error) {
	proc, ok := r.byTool[toolID]
	if !ok {
		return nil, domain.E(domain.CodeFailedPrecond, "processor.resolve", fmt.Sprintf("%s: %s", domain.MessageUnsupportedTool, toolID), fmt.Errorf("%w: %w", ErrProcessorNotFound, domain.ErrUnsupportedTool))
	}
	return proc, nil
}

// SupportedToolIDs returns the registered tool ids, sorted.
func (r *Registry) SupportedToolIDs() []string {
	return append([]string(nil), r.ids...)
}

// Supports reports whether toolID has a processor.
func (r *Registry) Supports(toolID string) bool {
	_, ok := r.byTool[toolID]
	return ok
}
