package domain

// Proposal is one side's pending request to the other.
type Proposal[T any] struct {
	From  string
	To    string
	Terms T
}

// Slot holds at most one pending proposal.
type Slot[T any] struct {
	pending *Proposal[T]
}

func (s *Slot[T]) Pending() (Proposal[T], bool) {
	if s.pending == nil {
		var zero Proposal[T]
		return zero, false
	}
	return *s.pending, true
}

func (s *Slot[T]) Open(p Proposal[T]) error {
	if s.pending != nil {
		return ErrNegotiationPending
	}
	s.pending = &p
	return nil
}

// Take removes and returns the proposal addressed to responder.
func (s *Slot[T]) Take(responder string) (Proposal[T], error) {
	if s.pending == nil || s.pending.To != responder {
		var zero Proposal[T]
		return zero, ErrNoPendingRequest
	}
	p := *s.pending
	s.pending = nil
	return p, nil
}

func (s *Slot[T]) Clear() {
	s.pending = nil
}
