package storefront

import "fmt"

// MutationState tags an optimistic mutation.
type MutationState int

const (
	MutationPending MutationState = iota
	MutationConfirmed
	MutationRolledBack
)

func (s MutationState) String() string {
	switch s {
	case MutationPending:
		return "pending"
	case MutationConfirmed:
		return "confirmed"
	case MutationRolledBack:
		return "rolled-back"
	default:
		return fmt.Sprintf("MutationState(%d)", int(s))
	}
}

// Mutation holds the snapshot captured before a speculative local change.
// It settles exactly once: Confirm keeps the change, Rollback hands the
// snapshot back so the caller can restore it verbatim.
type Mutation[S any] struct {
	state    MutationState
	snapshot S
}

// Begin captures snapshot and opens a pending mutation.
func Begin[S any](snapshot S) *Mutation[S] {
	return &Mutation[S]{state: MutationPending, snapshot: snapshot}
}

func (m *Mutation[S]) State() MutationState {
	return m.state
}

// Confirm settles the mutation as accepted by the server.
func (m *Mutation[S]) Confirm() error {
	if m.state != MutationPending {
		return fmt.Errorf("confirm: mutation already %s", m.state)
	}
	m.state = MutationConfirmed
	return nil
}

// Rollback settles the mutation as failed and returns the captured snapshot.
func (m *Mutation[S]) Rollback() (S, error) {
	if m.state != MutationPending {
		var zero S
		return zero, fmt.Errorf("rollback: mutation already %s", m.state)
	}
	m.state = MutationRolledBack
	return m.snapshot, nil
}
