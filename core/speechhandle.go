package voice

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/lucasolinas/agents/core/llms"
)

// StepStatus is the generation status of one step of a speech handle.
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusPlaying   StepStatus = "playing"
	StepStatusDone      StepStatus = "done"
	StepStatusCancelled StepStatus = "cancelled"
)

// Terminal reports whether the status is absorbing.
func (s StepStatus) Terminal() bool {
	return s == StepStatusDone || s == StepStatusCancelled
}

// Step is one sub-unit of an agent turn: a spoken segment, optionally
// followed by the function calls that produced the next segment.
type Step struct {
	Index         int
	Status        StepStatus
	FunctionCalls []llms.FunctionCall
}

// SpeechHandle represents one agent turn: a possibly multi-step unit of
// generated speech with a cancellable lifecycle. The session that created
// the handle is its only writer; run contexts and external callers hold
// read access plus the AllowInterruptions flag.
//
// Step statuses move pending -> playing -> done, with cancelled reachable
// from any non-terminal status via Interrupt. Interruption is a one-time,
// terminal transition for the whole handle.
type SpeechHandle struct {
	id string

	mu                 sync.Mutex
	steps              []Step
	allowInterruptions bool
	interrupted        bool
	finished           bool

	// changed is closed and replaced on every state transition; waiters
	// re-check their condition whenever it fires. Both whole-turn and
	// step-scoped waits are built on this single broadcast.
	changed chan struct{}
}

func newSpeechHandle(allowInterruptions bool) *SpeechHandle {
	return &SpeechHandle{
		id:                 uuid.NewString(),
		allowInterruptions: allowInterruptions,
		changed:            make(chan struct{}),
	}
}

func (h *SpeechHandle) ID() string {
	return h.id
}

// NumSteps returns the number of steps created so far. It only increases
// while the handle is active.
func (h *SpeechHandle) NumSteps() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.steps)
}

// Steps returns a snapshot of the handle's steps.
func (h *SpeechHandle) Steps() []Step {
	h.mu.Lock()
	defer h.mu.Unlock()
	steps := make([]Step, len(h.steps))
	copy(steps, h.steps)
	return steps
}

func (h *SpeechHandle) Interrupted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.interrupted
}

func (h *SpeechHandle) AllowInterruptions() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.allowInterruptions
}

// SetAllowInterruptions records whether user speech may preempt this
// handle. It fails once the handle is interrupted, regardless of the value
// being set.
func (h *SpeechHandle) SetAllowInterruptions(allow bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.interrupted {
		return fmt.Errorf("speech handle already interrupted: %w", ErrInvalidState)
	}
	h.allowInterruptions = allow
	return nil
}

// CreateStep appends a new pending step and returns its index. Step
// indices are strictly ordered and never skip. Creation fails once the
// handle is interrupted or its turn has finished.
func (h *SpeechHandle) CreateStep(functionCalls ...llms.FunctionCall) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.interrupted {
		return 0, fmt.Errorf("cannot create step on interrupted speech handle: %w", ErrInvalidState)
	}
	if h.finished {
		return 0, fmt.Errorf("cannot create step on finished speech handle: %w", ErrInvalidState)
	}
	index := len(h.steps)
	h.steps = append(h.steps, Step{Index: index, Status: StepStatusPending, FunctionCalls: functionCalls})
	h.notifyLocked()
	return index, nil
}

// MarkStepPlaying transitions a pending step to playing.
func (h *SpeechHandle) MarkStepPlaying(index int) error {
	return h.transitionStep(index, StepStatusPending, StepStatusPlaying)
}

// MarkStepDone transitions a pending or playing step to done.
func (h *SpeechHandle) MarkStepDone(index int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if index < 0 || index >= len(h.steps) {
		return fmt.Errorf("step %d was never created: %w", index, ErrInvalidState)
	}
	if h.steps[index].Status.Terminal() {
		return fmt.Errorf("step %d is already %s: %w", index, h.steps[index].Status, ErrInvalidState)
	}
	h.steps[index].Status = StepStatusDone
	h.notifyLocked()
	return nil
}

func (h *SpeechHandle) transitionStep(index int, from, to StepStatus) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if index < 0 || index >= len(h.steps) {
		return fmt.Errorf("step %d was never created: %w", index, ErrInvalidState)
	}
	if h.steps[index].Status != from {
		return fmt.Errorf("step %d is %s, expected %s: %w", index, h.steps[index].Status, from, ErrInvalidState)
	}
	h.steps[index].Status = to
	h.notifyLocked()
	return nil
}

// Interrupt terminates the handle early. It is safe to call more than
// once; only the first call transitions. Every step not yet terminal is
// cancelled and every waiter is released with ErrSpeechInterrupted. No
// further steps can be created afterwards.
func (h *SpeechHandle) Interrupt() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.interrupted {
		return
	}
	h.interrupted = true
	for i := range h.steps {
		if !h.steps[i].Status.Terminal() {
			h.steps[i].Status = StepStatusCancelled
		}
	}
	h.notifyLocked()
}

// markFinished records that the turn will create no further steps. Owned by
// the session; whole-turn waiters return once finished and all steps are
// terminal.
func (h *SpeechHandle) markFinished() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.finished {
		return
	}
	h.finished = true
	h.notifyLocked()
}

// WaitForPlayout suspends until every step of the handle is terminal and
// the turn is complete. It returns nil on natural completion and
// ErrSpeechInterrupted if the handle was interrupted first.
func (h *SpeechHandle) WaitForPlayout(ctx context.Context) error {
	for {
		h.mu.Lock()
		if h.interrupted {
			h.mu.Unlock()
			return ErrSpeechInterrupted
		}
		if h.finished && h.allStepsTerminalLocked() {
			h.mu.Unlock()
			return nil
		}
		changed := h.changed
		h.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changed:
		}
	}
}

// waitForGeneration suspends until the step at index is terminal,
// independent of any later steps. Exposed to run contexts so a tool can
// observe that the utterance preceding it finished playing without
// blocking on the rest of the turn.
func (h *SpeechHandle) waitForGeneration(ctx context.Context, index int) error {
	for {
		h.mu.Lock()
		if index < 0 || index >= len(h.steps) {
			h.mu.Unlock()
			return fmt.Errorf("step %d was never created: %w", index, ErrInvalidState)
		}
		status := h.steps[index].Status
		changed := h.changed
		h.mu.Unlock()

		switch status {
		case StepStatusDone:
			return nil
		case StepStatusCancelled:
			return ErrSpeechInterrupted
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changed:
		}
	}
}

func (h *SpeechHandle) allStepsTerminalLocked() bool {
	for _, step := range h.steps {
		if !step.Status.Terminal() {
			return false
		}
	}
	return true
}

func (h *SpeechHandle) notifyLocked() {
	close(h.changed)
	h.changed = make(chan struct{})
}
