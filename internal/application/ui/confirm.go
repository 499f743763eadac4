package ui

import (
	"sync"

	"github.com/google/uuid"
)

// ConfirmVariant selects the confirm button styling
type ConfirmVariant string

const (
	ConfirmPrimary ConfirmVariant = "primary"
	ConfirmDanger  ConfirmVariant = "danger"
)

// Confirmation is a pending question shown to the person before a
// destructive or otherwise significant action runs.
type Confirmation struct {
	ID           uuid.UUID      `json:"id"`
	Title        string         `json:"title"`
	Message      string         `json:"message"`
	ConfirmLabel string         `json:"confirm_label"`
	CancelLabel  string         `json:"cancel_label"`
	Variant      ConfirmVariant `json:"variant"`

	// RemoveTarget is the DOM id of the element the action removes; the
	// resolver clears it once the confirmed action succeeds.
	RemoveTarget string `json:"remove_target"`
	// Refresh names an aggregate panel the resolver should re-render after
	// a successful action. The caller interprets the key.
	Refresh string `json:"refresh"`

	resolve func(confirmed bool) error
}

// ConfirmResult reports how a confirmation was answered and whether the
// confirmed action succeeded.
type ConfirmResult struct {
	Confirmation Confirmation
	Confirmed    bool
	Err          error
}

// ConfirmStore holds at most one pending confirmation. Requesting a new one
// cancels any previous pending request.
type ConfirmStore struct {
	mu      sync.Mutex
	pending *Confirmation
}

// NewConfirmStore creates an empty confirm store
func NewConfirmStore() *ConfirmStore {
	return &ConfirmStore{}
}

// ConfirmOptions configures a confirmation request
type ConfirmOptions struct {
	Title        string
	Message      string
	ConfirmLabel string
	CancelLabel  string
	Variant      ConfirmVariant
	RemoveTarget string
	Refresh      string
}

// Request registers a confirmation and the callback run on resolution. The
// callback's error marks a confirmed action that did not go through.
// Returns the pending confirmation for rendering.
func (s *ConfirmStore) Request(opts ConfirmOptions, resolve func(confirmed bool) error) Confirmation {
	if opts.Title == "" {
		opts.Title = "Confirm"
	}
	if opts.ConfirmLabel == "" {
		opts.ConfirmLabel = "OK"
	}
	if opts.CancelLabel == "" {
		opts.CancelLabel = "Cancel"
	}
	if opts.Variant == "" {
		opts.Variant = ConfirmPrimary
	}

	s.mu.Lock()
	previous := s.pending
	confirmation := &Confirmation{
		ID:           uuid.New(),
		Title:        opts.Title,
		Message:      opts.Message,
		ConfirmLabel: opts.ConfirmLabel,
		CancelLabel:  opts.CancelLabel,
		Variant:      opts.Variant,
		RemoveTarget: opts.RemoveTarget,
		Refresh:      opts.Refresh,
		resolve:      resolve,
	}
	s.pending = confirmation
	s.mu.Unlock()

	if previous != nil && previous.resolve != nil {
		previous.resolve(false)
	}

	return *confirmation
}

// Pending returns the current confirmation, if any
func (s *ConfirmStore) Pending() (Confirmation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return Confirmation{}, false
	}
	return *s.pending, true
}

// Resolve answers the pending confirmation by identifier and runs its
// callback. Resolving an unknown or stale identifier is a no-op.
func (s *ConfirmStore) Resolve(id uuid.UUID, confirmed bool) (ConfirmResult, bool) {
	s.mu.Lock()
	if s.pending == nil || s.pending.ID != id {
		s.mu.Unlock()
		return ConfirmResult{}, false
	}
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	result := ConfirmResult{Confirmation: *pending, Confirmed: confirmed}
	if pending.resolve != nil {
		result.Err = pending.resolve(confirmed)
	}
	return result, true
}
