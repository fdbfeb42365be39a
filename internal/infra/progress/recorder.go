package progress

import (
	"sync"

	"versa/internal/domain"
)

// Recorder collects progress events in arrival order.
type Recorder struct {
	mu     sync.Mutex
	events []domain.ProgressEvent
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Emit(percent int, message string) {
	r.mu.Lock()
	r.events = append(r.events, domain.ProgressEvent{Percent: percent, Message: message})
	r.mu.Unlock()
}

func (r *Recorder) Func() domain.ProgressFunc {
	return r.Emit
}

func (r *Recorder) Events() []domain.ProgressEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.ProgressEvent(nil), r.events...)
}

func (r *Recorder) Percents() []int {
	events := r.Events()
	out := make([]int, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Percent)
	}
	return out
}

// DistinctMessages returns messages in first-seen order without repeats.
func (r *Recorder) DistinctMessages() []string {
	events := r.Events()
	seen := make(map[string]struct{}, len(events))
	out := make([]string, 0, len(events))
	for _, ev := range events {
		if _, ok := seen[ev.Message]; ok {
			continue
		}
		seen[ev.Message] = struct{}{}
		out = append(out, ev.Message)
	}
	return out
}

func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}
