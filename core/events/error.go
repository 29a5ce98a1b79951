package events

// KindError identifies a recoverable provider or session failure.
const KindError Kind = "error"

// Error reports a failure that did not terminate the session. Source
// references the component that failed (a provider client or the session
// itself) so subscribers can attribute the fault.
type Error struct {
	Base
	Err    error
	Source any
}

// NewError creates an error event.
func NewError(err error, source any) Error {
	return Error{Base: NewBase(KindError), Err: err, Source: source}
}
