// Package confirm models confirmation prompts as explicit state machines. A
// destructive action (clearing the cart, deleting a listing) is parked behind a
// Dialog and only runs once the client accepts it.
package confirm

import (
	"errors"
	"fmt"
	"sync"
)

// ErrInvalidTransition is returned when a dialog is asked to move to a state
// that is not reachable from its current state.
var ErrInvalidTransition = errors.New("invalid confirmation transition")

// State is the lifecycle position of a Dialog.
type State int

const (
	StateClosed State = iota
	StateConfirming
	StateResolved
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateConfirming:
		return "confirming"
	case StateResolved:
		return "resolved"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// MarshalText renders the state name in JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state name.
func (s *State) UnmarshalText(text []byte) error {
	for _, candidate := range []State{StateClosed, StateConfirming, StateResolved} {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown confirmation state %q", text)
}

// Outcome is how a resolved dialog ended.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeAccepted
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeAccepted:
		return "accepted"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// MarshalText renders the outcome name in JSON.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText parses an outcome name.
func (o *Outcome) UnmarshalText(text []byte) error {
	for _, candidate := range []Outcome{OutcomeNone, OutcomeAccepted, OutcomeCancelled} {
		if candidate.String() == string(text) {
			*o = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown confirmation outcome %q", text)
}

// Dialog is a single confirmation prompt:
//
//	closed -> confirming -> resolved(accepted | cancelled)
//
// A resolved dialog is final. Dialog is safe for concurrent use; when two
// callers race to resolve it exactly one wins.
type Dialog struct {
	mu      sync.Mutex
	state   State
	outcome Outcome
	prompt  string
}

// Open shows the prompt. Only a closed dialog can be opened.
func (d *Dialog) Open(prompt string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != StateClosed {
		return fmt.Errorf("open from %s: %w", d.state, ErrInvalidTransition)
	}
	d.state = StateConfirming
	d.prompt = prompt
	return nil
}

// Accept resolves a confirming dialog as accepted.
func (d *Dialog) Accept() error {
	return d.resolve(OutcomeAccepted)
}

// Cancel resolves a confirming dialog as cancelled.
func (d *Dialog) Cancel() error {
	return d.resolve(OutcomeCancelled)
}

func (d *Dialog) resolve(outcome Outcome) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != StateConfirming {
		return fmt.Errorf("%s from %s: %w", outcome, d.state, ErrInvalidTransition)
	}
	d.state = StateResolved
	d.outcome = outcome
	return nil
}

// State returns the current state.
func (d *Dialog) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Outcome returns how the dialog was resolved, or OutcomeNone.
func (d *Dialog) Outcome() Outcome {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.outcome
}

// Prompt returns the text shown when the dialog was opened.
func (d *Dialog) Prompt() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.prompt
}
