package processor

import (
	"context"
	"math/rand/v2"
	"time"

	"versa/internal/domain"
)

// Stage identifies one step of a processor run.
type Stage struct {
	ToolID string
	Family Family
	Index  int
	Count  int
	Name   string
}

// StageWork performs the work behind a stage. It is the seam where real
// inference is plugged in; the built-in implementations only wait.
type StageWork func(ctx context.Context, stage Stage) error

// Transform derives the output reference from the request once every stage
// has run.
type Transform func(ctx context.Context, req domain.ProcessRequest) (string, error)

// Passthrough returns the input image unchanged.
func Passthrough(_ context.Context, req domain.ProcessRequest) (string, error) {
	return req.Image, nil
}

// NoDelay completes every stage immediately.
func NoDelay(ctx context.Context, _ Stage) error {
	return ctx.Err()
}

// RandomDelay waits a uniformly distributed duration in [min, max] per stage,
// returning early with the context error when ctx is done.
func RandomDelay(min, max time.Duration) StageWork {
	if min < 0 {
		min = 0
	}
	if max < min {
		max = min
	}
	return func(ctx context.Context, _ Stage) error {
		wait := min
		if span := max - min; span > 0 {
			wait += time.Duration(rand.Int64N(int64(span) + 1))
		}
		return sleep(ctx, wait)
	}
}

// FixedDelay waits the same duration for every stage.
func FixedDelay(d time.Duration) StageWork {
	return func(ctx context.Context, _ Stage) error {
		return sleep(ctx, d)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// StagePercent schedules stage index (0-based) of count inside the dispatch
// window [PercentDispatch, PercentDone).
func StagePercent(index, count int) int {
	if count <= 0 {
		return domain.PercentDispatch
	}
	span := domain.PercentDone - domain.PercentDispatch
	return domain.PercentDispatch + index*span/count
}
