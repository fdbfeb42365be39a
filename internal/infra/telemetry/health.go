package telemetry

import (
	"sort"
	"sync"
)

const (
	HealthStatusOK       = "ok"
	HealthStatusDegraded = "degraded"
)

// HealthReport is served by /healthz.
type HealthReport struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components,omitempty"`
}

// HealthTracker aggregates component health. Any component with a non-empty
// failure marks the report degraded.
type HealthTracker struct {
	mu         sync.RWMutex
	components map[string]string
}

func NewHealthTracker() *HealthTracker {
	return &HealthTracker{components: make(map[string]string)}
}

// Set records a component status; an empty problem means healthy.
func (h *HealthTracker) Set(component, problem string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.components[component] = problem
}

func (h *HealthTracker) Report() HealthReport {
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.components))
	for name := range h.components {
		names = append(names, name)
	}
	sort.Strings(names)

	report := HealthReport{Status: HealthStatusOK, Components: make(map[string]string, len(names))}
	for _, name := range names {
		problem := h.components[name]
		if problem == "" {
			report.Components[name] = HealthStatusOK
			continue
		}
		report.Components[name] = problem
		report.Status = HealthStatusDegraded
	}
	return report
}
