package progress

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTracker_ClampsAndKeepsOrder(t *testing.T) {
	rec := NewRecorder()
	tracker := NewTracker(rec.Func())

	tracker.Emit(-5, "start")
	tracker.Emit(40, "middle")
	tracker.Emit(30, "late")
	tracker.Emit(250, "done")

	require.Equal(t, []int{0, 40, 40, 100}, rec.Percents())
	last, ok := tracker.Last()
	require.True(t, ok)
	require.Equal(t, 100, last.Percent)
	require.Equal(t, "done", last.Message)
	require.True(t, tracker.Completed())
}

func TestTracker_NilSink(t *testing.T) {
	tracker := NewTracker(nil)
	_, ok := tracker.Last()
	require.False(t, ok)
	require.False(t, tracker.Completed())

	tracker.Emit(10, "x")
	require.False(t, tracker.Completed())
}

func TestTee_SkipsNilSinks(t *testing.T) {
	a := NewRecorder()
	b := NewRecorder()
	emit := Tee(a.Func(), nil, b.Func())

	emit(10, "one")
	emit(20, "two")

	require.Equal(t, a.Events(), b.Events())
	require.Equal(t, 2, a.Len())
}

func TestRecorder_DistinctMessages(t *testing.T) {
	rec := NewRecorder()
	rec.Emit(0, "a")
	rec.Emit(10, "b")
	rec.Emit(10, "a")
	require.Equal(t, []string{"a", "b"}, rec.DistinctMessages())
}
