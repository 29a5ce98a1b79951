package voice

import "errors"

var (
	// ErrInvalidState is returned when an operation is attempted on a
	// handle or step that has already reached a terminal state, or on a
	// step that was never created.
	ErrInvalidState = errors.New("invalid state")

	// ErrSpeechInterrupted is the outcome reported to playout waiters when
	// the speech they were waiting on was interrupted before completing
	// naturally. It is a reported outcome, not a failure.
	ErrSpeechInterrupted = errors.New("speech interrupted")

	// ErrSessionClosed is returned when an operation is rejected because
	// the session is closing or closed.
	ErrSessionClosed = errors.New("session closed")
)
