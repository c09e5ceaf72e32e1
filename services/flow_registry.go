// Package services: services/flow_registry.go
package services

import (
	"context"
	"sync"
	"time"

	"fashion-registration/logger"
)

// FlowRegistry keeps one registration page per visitor for as long as the
// visitor keeps using it. Nothing outlives the process.
type FlowRegistry struct {
	mu      sync.Mutex
	flows   map[string]*trackedFlow
	factory func() *PageFlow
	now     func() time.Time
}

type trackedFlow struct {
	flow     *PageFlow
	lastSeen time.Time
}

// NewFlowRegistry creates an empty registry; factory builds new page flows.
func NewFlowRegistry(factory func() *PageFlow) *FlowRegistry {
	return &FlowRegistry{
		flows:   make(map[string]*trackedFlow),
		factory: factory,
		now:     time.Now,
	}
}

// Get returns the visitor's page flow, creating it on first access, and marks it as seen.
func (r *FlowRegistry) Get(visitorID string) *PageFlow {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tf, ok := r.flows[visitorID]; ok {
		tf.lastSeen = r.now()
		return tf.flow
	}

	logger.Debug.Printf("FlowRegistry.Get: creating page flow for visitor=%s", visitorID)
	tf := &trackedFlow{flow: r.factory(), lastSeen: r.now()}
	r.flows[visitorID] = tf
	return tf.flow
}

// Lookup returns the visitor's page flow without creating one.
func (r *FlowRegistry) Lookup(visitorID string) (*PageFlow, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tf, ok := r.flows[visitorID]
	if !ok {
		return nil, false
	}
	tf.lastSeen = r.now()
	return tf.flow, true
}

// Forget drops the visitor's page flow.
func (r *FlowRegistry) Forget(visitorID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.flows, visitorID)
}

// Len returns the number of live page flows.
func (r *FlowRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.flows)
}

// Sweep removes flows not seen within idle and returns how many were removed.
// Flows with an open live connection are kept.
func (r *FlowRegistry) Sweep(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, tf := range r.flows {
		if r.now().Sub(tf.lastSeen) > idle && !tf.flow.Watched() {
			logger.Info.Printf("FlowRegistry.Sweep: removing idle page flow visitor=%s (idle=%v)", id, idle)
			delete(r.flows, id)
			removed++
		}
	}
	return removed
}

// RunCleanup sweeps every interval until ctx is cancelled.
func (r *FlowRegistry) RunCleanup(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug.Println("FlowRegistry.RunCleanup: stopped")
			return
		case <-ticker.C:
			r.Sweep(idle)
		}
	}
}
