package events

// CloseReason is the cause a session terminated with.
type CloseReason string

const (
	CloseReasonError                   CloseReason = "error"
	CloseReasonJobShutdown             CloseReason = "job_shutdown"
	CloseReasonParticipantDisconnected CloseReason = "participant_disconnected"
	CloseReasonUserInitiated           CloseReason = "user_initiated"
	CloseReasonTaskCompleted           CloseReason = "task_completed"
)

// KindClose identifies session termination.
const KindClose Kind = "close"

// Close marks session termination. It is always the last event delivered;
// Err is set only when Reason is CloseReasonError.
type Close struct {
	Base
	Err    error
	Reason CloseReason
}

// NewClose creates a close event.
func NewClose(err error, reason CloseReason) Close {
	return Close{Base: NewBase(KindClose), Err: err, Reason: reason}
}
