// file: services/flow_registry_test.go
package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry() *FlowRegistry {
	schema := NewSchema(false)
	return NewFlowRegistry(func() *PageFlow { return NewPageFlow(schema, nil) })
}

// Test: one flow per visitor, created on first access
func TestFlowRegistry_GetCreatesOnce(t *testing.T) {
	r := newTestRegistry()

	a1 := r.Get("visitor-a")
	a2 := r.Get("visitor-a")
	b := r.Get("visitor-b")

	assert.Same(t, a1, a2)
	assert.NotSame(t, a1, b)
	assert.Equal(t, 2, r.Len())

	_, ok := r.Lookup("visitor-c")
	assert.False(t, ok)
	assert.Equal(t, 2, r.Len())

	r.Forget("visitor-a")
	_, ok = r.Lookup("visitor-a")
	assert.False(t, ok)
}

// Test: concurrent visitors do not race on the map
func TestFlowRegistry_Concurrent(t *testing.T) {
	r := newTestRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Get("shared")
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, r.Len())
}

// Test: idle flows are swept, recently seen ones stay
func TestFlowRegistry_Sweep(t *testing.T) {
	r := newTestRegistry()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	r.Get("old")
	now = now.Add(20 * time.Minute)
	r.Get("fresh")
	now = now.Add(15 * time.Minute)

	removed := r.Sweep(30 * time.Minute)
	assert.Equal(t, 1, removed)
	_, ok := r.Lookup("old")
	assert.False(t, ok)
	_, ok = r.Lookup("fresh")
	assert.True(t, ok)
}

// Test: a flow with an open live connection outlives the idle timeout
func TestFlowRegistry_SweepKeepsWatchedFlows(t *testing.T) {
	r := newTestRegistry()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	watched := r.Get("live")
	unsubscribe := watched.Subscribe(func(FlowSnapshot) {})
	now = now.Add(time.Hour)

	assert.Zero(t, r.Sweep(30*time.Minute))
	got, ok := r.Lookup("live")
	require.True(t, ok)
	assert.Same(t, watched, got, "requests keep reaching the flow the connection is bound to")

	unsubscribe()
	now = now.Add(time.Hour)
	assert.Equal(t, 1, r.Sweep(30*time.Minute))
	assert.Zero(t, r.Len())
}

// Test: RunCleanup stops when the context is cancelled
func TestFlowRegistry_RunCleanupStops(t *testing.T) {
	r := newTestRegistry()
	r.Get("idle")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.RunCleanup(ctx, 5*time.Millisecond, time.Nanosecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return r.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunCleanup did not stop after cancel")
	}
}
