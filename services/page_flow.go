// Package services: services/page_flow.go
package services

import (
	"errors"
	"sync"

	"fashion-registration/logger"
	"fashion-registration/models"
)

// ErrInvalidTransition is returned for actions the current page state does not allow.
var ErrInvalidTransition = errors.New("action not allowed in the current page state")

// FlowState is the state of the registration page.
type FlowState int

const (
	StateCollecting FlowState = iota
	StateSubmitted
)

// String returns the state name used in logs and JSON.
func (s FlowState) String() string {
	switch s {
	case StateCollecting:
		return "collecting"
	case StateSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

// FlowSnapshot is what observers of a page flow receive. Form is nil once submitted.
type FlowSnapshot struct {
	State string        `json:"state"`
	Form  *FormSnapshot `json:"form,omitempty"`
}

// PageFlow is the registration page: it shows the form while collecting and
// the success message once a submission went through.
type PageFlow struct {
	mu          sync.Mutex
	state       FlowState
	schema      *Schema
	form        *FormController
	unsubscribe func()
	toasts      ToastQueue
	onSubmitted func(models.Submission)

	obsMu        sync.Mutex
	observers    map[int]func(FlowSnapshot)
	nextObserver int
}

// NewPageFlow starts in StateCollecting with a fresh form. onSubmitted is the
// page's success callback and may be nil.
func NewPageFlow(schema *Schema, onSubmitted func(models.Submission)) *PageFlow {
	p := &PageFlow{
		schema:      schema,
		onSubmitted: onSubmitted,
		observers:   make(map[int]func(FlowSnapshot)),
	}
	p.mountForm()
	return p
}

// State returns the current page state.
func (p *PageFlow) State() FlowState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Schema returns the schema the page's forms validate with.
func (p *PageFlow) Schema() *Schema {
	return p.schema
}

// Form returns the mounted form controller while collecting.
func (p *PageFlow) Form() (*FormController, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StateCollecting {
		return nil, ErrInvalidTransition
	}
	return p.form, nil
}

// SetField forwards to the mounted form.
func (p *PageFlow) SetField(name, value string) error {
	form, err := p.Form()
	if err != nil {
		return err
	}
	return form.SetField(name, value)
}

// SetFields forwards to the mounted form; no value is stored unless all are accepted.
func (p *PageFlow) SetFields(values map[string]string) error {
	form, err := p.Form()
	if err != nil {
		return err
	}
	return form.SetFields(values)
}

// ResetForm clears the mounted form without changing the page state.
func (p *PageFlow) ResetForm() error {
	form, err := p.Form()
	if err != nil {
		return err
	}
	form.Reset()
	return nil
}

// Submit submits the mounted form. On success the page moves to
// StateSubmitted and the form is discarded; the submission is not retained.
// State changes are published while p.mu is held so that observers receive
// them in order.
func (p *PageFlow) Submit() (models.Submission, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StateCollecting {
		return models.Submission{}, ErrInvalidTransition
	}

	sub, err := p.form.Submit()
	if err != nil {
		return models.Submission{}, err
	}

	p.unsubscribe()
	p.form = nil
	p.unsubscribe = nil
	p.state = StateSubmitted

	logger.Info.Println("PageFlow.Submit: registration page moved to submitted")
	p.publish(FlowSnapshot{State: StateSubmitted.String()})
	return sub, nil
}

// Reset returns from StateSubmitted to StateCollecting with a fresh form.
func (p *PageFlow) Reset() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StateSubmitted {
		return ErrInvalidTransition
	}
	p.mountForm()
	p.state = StateCollecting
	snap := p.form.Snapshot()

	logger.Info.Println("PageFlow.Reset: registration page back to collecting")
	p.publish(FlowSnapshot{State: StateCollecting.String(), Form: &snap})
	return nil
}

// Snapshot returns the page state and, while collecting, the form state.
func (p *PageFlow) Snapshot() FlowSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StateCollecting {
		return FlowSnapshot{State: p.state.String()}
	}
	snap := p.form.Snapshot()
	return FlowSnapshot{State: p.state.String(), Form: &snap}
}

// DrainToasts returns and clears the pending notifications.
func (p *PageFlow) DrainToasts() []Toast {
	return p.toasts.Drain()
}

// Watched reports whether any observer is attached, e.g. an open live connection.
func (p *PageFlow) Watched() bool {
	p.obsMu.Lock()
	defer p.obsMu.Unlock()
	return len(p.observers) > 0
}

// Subscribe registers an observer for every page or form change. Observers
// must not call back into the flow.
func (p *PageFlow) Subscribe(fn func(FlowSnapshot)) func() {
	p.obsMu.Lock()
	defer p.obsMu.Unlock()
	id := p.nextObserver
	p.nextObserver++
	p.observers[id] = fn
	return func() {
		p.obsMu.Lock()
		defer p.obsMu.Unlock()
		delete(p.observers, id)
	}
}

// ------------------- internals -------------------

// mountForm must be called with p.mu held (or before p is shared).
func (p *PageFlow) mountForm() {
	p.form = NewFormController(p.schema, &p.toasts, p.handleSuccessfulSubmit)
	p.unsubscribe = p.form.Subscribe(func(snap FormSnapshot) {
		p.publish(FlowSnapshot{State: StateCollecting.String(), Form: &snap})
	})
}

func (p *PageFlow) handleSuccessfulSubmit(sub models.Submission) {
	if p.onSubmitted != nil {
		p.onSubmitted(sub)
	}
}

func (p *PageFlow) publish(snap FlowSnapshot) {
	p.obsMu.Lock()
	observers := make([]func(FlowSnapshot), 0, len(p.observers))
	for _, fn := range p.observers {
		observers = append(observers, fn)
	}
	p.obsMu.Unlock()

	for _, fn := range observers {
		fn(snap)
	}
}
