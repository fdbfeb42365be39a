package progress

import (
	"sync"

	"versa/internal/domain"
)

// Tracker forwards progress events while keeping them inside [0,100] and
// non-decreasing. It remembers the last forwarded event.
type Tracker struct {
	mu      sync.Mutex
	sink    domain.ProgressFunc
	emitted bool
	percent int
	message string
}

func NewTracker(sink domain.ProgressFunc) *Tracker {
	if sink == nil {
		sink = domain.NopProgress
	}
	return &Tracker{sink: sink}
}

// Emit forwards an event. A percent lower than the last one is raised to it.
func (t *Tracker) Emit(percent int, message string) {
	percent = clamp(percent)

	t.mu.Lock()
	if t.emitted && percent < t.percent {
		percent = t.percent
	}
	t.emitted = true
	t.percent = percent
	t.message = message
	t.mu.Unlock()

	t.sink(percent, message)
}

// Func exposes Emit as a ProgressFunc.
func (t *Tracker) Func() domain.ProgressFunc {
	return t.Emit
}

// Last returns the last forwarded event and whether any was forwarded.
func (t *Tracker) Last() (domain.ProgressEvent, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return domain.ProgressEvent{Percent: t.percent, Message: t.message}, t.emitted
}

// Completed reports whether 100 has been reached.
func (t *Tracker) Completed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.emitted && t.percent >= domain.PercentDone
}

func clamp(percent int) int {
	switch {
	case percent < 0:
		return 0
	case percent > domain.PercentDone:
		return domain.PercentDone
	default:
		return percent
	}
}

// Tee fans an event out to every non-nil sink in order.
func Tee(sinks ...domain.ProgressFunc) domain.ProgressFunc {
	active := make([]domain.ProgressFunc, 0, len(sinks))
	for _, sink := range sinks {
		if sink != nil {
			active = append(active, sink)
		}
	}
	return func(percent int, message string) {
		for _, sink := range active {
			sink(percent, message)
		}
	}
}
