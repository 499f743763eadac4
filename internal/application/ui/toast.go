// Package ui contains the ephemeral per-session UI state stores: the toast
// queue, named loading flags and the confirmation dialog. All of them live
// for the process lifetime only and are never persisted.
package ui

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// ToastSeverity classifies a toast message
type ToastSeverity string

const (
	ToastSuccess ToastSeverity = "success"
	ToastError   ToastSeverity = "error"
	ToastInfo    ToastSeverity = "info"
	ToastWarning ToastSeverity = "warning"
)

// Toast is one transient notification
type Toast struct {
	ID        uuid.UUID     `json:"id"`
	Message   string        `json:"message"`
	Severity  ToastSeverity `json:"severity"`
	CreatedAt time.Time     `json:"created_at"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// ToastStore is an auto-expiring queue of notifications
type ToastStore struct {
	mu     sync.Mutex
	toasts []Toast
	ttl    time.Duration
	now    func() time.Time
}

// NewToastStore creates a toast store with the given auto-expiry duration
func NewToastStore(ttl time.Duration) *ToastStore {
	if ttl <= 0 {
		ttl = 4 * time.Second
	}
	return &ToastStore{ttl: ttl, now: time.Now}
}

// Push appends a toast and returns it
func (s *ToastStore) Push(message string, severity ToastSeverity) Toast {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	toast := Toast{
		ID:        uuid.New(),
		Message:   message,
		Severity:  severity,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	s.toasts = append(s.toasts, toast)
	return toast
}

// Success, Error, Info and Warning are severity shorthands

func (s *ToastStore) Success(message string) Toast { return s.Push(message, ToastSuccess) }

func (s *ToastStore) Error(message string) Toast { return s.Push(message, ToastError) }

func (s *ToastStore) Info(message string) Toast { return s.Push(message, ToastInfo) }

func (s *ToastStore) Warning(message string) Toast { return s.Push(message, ToastWarning) }

// Active returns the not-yet-expired toasts in order, dropping expired ones
func (s *ToastStore) Active() []Toast {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	active := s.toasts[:0]
	for _, toast := range s.toasts {
		if toast.ExpiresAt.After(now) {
			active = append(active, toast)
		}
	}
	s.toasts = active

	out := make([]Toast, len(active))
	copy(out, active)
	return out
}

// Dismiss removes a toast before its expiry
func (s *ToastStore) Dismiss(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.toasts {
		if s.toasts[i].ID == id {
			s.toasts = append(s.toasts[:i], s.toasts[i+1:]...)
			return
		}
	}
}
