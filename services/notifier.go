// Package services: services/notifier.go
package services

import "sync"

// Toast is a transient, auto-dismissing notification.
type Toast struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// RegistrationToast is shown after a successful registration.
var RegistrationToast = Toast{
	Title:       "Регистрация успешна!",
	Description: "Мы свяжемся с вами в ближайшее время.",
}

// Notifier displays toasts. Notify must not block.
type Notifier interface {
	Notify(t Toast)
}

// ToastQueue buffers toasts until the next page render picks them up.
type ToastQueue struct {
	mu      sync.Mutex
	pending []Toast
}

// Notify queues a toast.
func (q *ToastQueue) Notify(t Toast) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, t)
}

// Drain returns the queued toasts and empties the queue.
func (q *ToastQueue) Drain() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	return out
}
