package voice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lucasolinas/agents/core/llms"
)

func TestSpeechHandleStepLifecycle(t *testing.T) {
	handle := newSpeechHandle(true)

	first, err := handle.CreateStep()
	if err != nil {
		t.Fatalf("expected first step to be created, got %v", err)
	}
	if first != 0 {
		t.Fatalf("expected first step index 0, got %d", first)
	}

	second, err := handle.CreateStep(llms.FunctionCall{ID: "call-1", Name: "lookup"})
	if err != nil {
		t.Fatalf("expected second step to be created, got %v", err)
	}
	if second != 1 {
		t.Fatalf("expected second step index 1, got %d", second)
	}

	if err := handle.MarkStepPlaying(first); err != nil {
		t.Fatalf("expected pending step to start playing, got %v", err)
	}
	if err := handle.MarkStepPlaying(first); err == nil {
		t.Fatalf("expected second playing transition to fail")
	}
	if err := handle.MarkStepDone(first); err != nil {
		t.Fatalf("expected playing step to finish, got %v", err)
	}
	if err := handle.MarkStepDone(first); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected done step to reject another transition, got %v", err)
	}

	// pending -> done is allowed, playout is optional
	if err := handle.MarkStepDone(second); err != nil {
		t.Fatalf("expected pending step to finish directly, got %v", err)
	}

	steps := handle.Steps()
	if len(steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(steps))
	}
	if steps[1].FunctionCalls[0].Name != "lookup" {
		t.Fatalf("expected second step to keep its function calls, got %+v", steps[1].FunctionCalls)
	}
}

func TestSpeechHandleUnknownStepTransitions(t *testing.T) {
	handle := newSpeechHandle(true)

	if err := handle.MarkStepPlaying(0); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected transition on missing step to fail, got %v", err)
	}
	if err := handle.MarkStepDone(3); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected transition on missing step to fail, got %v", err)
	}
}

func TestSpeechHandleInterruptCancelsNonTerminalSteps(t *testing.T) {
	handle := newSpeechHandle(true)

	done, _ := handle.CreateStep()
	playing, _ := handle.CreateStep()
	pending, _ := handle.CreateStep()
	_ = handle.MarkStepDone(done)
	_ = handle.MarkStepPlaying(playing)

	handle.Interrupt()
	handle.Interrupt()

	steps := handle.Steps()
	if steps[done].Status != StepStatusDone {
		t.Fatalf("expected finished step to stay done, got %s", steps[done].Status)
	}
	if steps[playing].Status != StepStatusCancelled {
		t.Fatalf("expected playing step to be cancelled, got %s", steps[playing].Status)
	}
	if steps[pending].Status != StepStatusCancelled {
		t.Fatalf("expected pending step to be cancelled, got %s", steps[pending].Status)
	}

	if _, err := handle.CreateStep(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected step creation after interrupt to fail, got %v", err)
	}
	if err := handle.SetAllowInterruptions(false); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected policy change after interrupt to fail, got %v", err)
	}
}

func TestSpeechHandleWaitForPlayoutCompletesNaturally(t *testing.T) {
	handle := newSpeechHandle(true)
	index, _ := handle.CreateStep()

	waited := make(chan error, 1)
	go func() {
		waited <- handle.WaitForPlayout(context.Background())
	}()

	_ = handle.MarkStepPlaying(index)
	_ = handle.MarkStepDone(index)
	handle.markFinished()

	select {
	case err := <-waited:
		if err != nil {
			t.Fatalf("expected natural completion, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for playout")
	}
}

func TestSpeechHandleWaitForPlayoutReportsInterruption(t *testing.T) {
	handle := newSpeechHandle(true)
	_, _ = handle.CreateStep()

	waited := make(chan error, 1)
	go func() {
		waited <- handle.WaitForPlayout(context.Background())
	}()

	handle.Interrupt()

	select {
	case err := <-waited:
		if !errors.Is(err, ErrSpeechInterrupted) {
			t.Fatalf("expected ErrSpeechInterrupted, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for interruption to release waiter")
	}
}

func TestSpeechHandleWaitForPlayoutHonorsContext(t *testing.T) {
	handle := newSpeechHandle(true)
	_, _ = handle.CreateStep()

	ctx, cancel := context.WithCancel(context.Background())
	waited := make(chan error, 1)
	go func() {
		waited <- handle.WaitForPlayout(ctx)
	}()

	cancel()

	select {
	case err := <-waited:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context cancellation, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for context cancellation")
	}
}

func TestSpeechHandleStepScopedWaitIgnoresLaterSteps(t *testing.T) {
	handle := newSpeechHandle(true)
	first, _ := handle.CreateStep()
	second, _ := handle.CreateStep()

	waited := make(chan error, 1)
	go func() {
		waited <- handle.waitForGeneration(context.Background(), first)
	}()

	// finishing only the first step must release the step-scoped waiter
	// even though the second step is still pending
	_ = handle.MarkStepDone(first)

	select {
	case err := <-waited:
		if err != nil {
			t.Fatalf("expected step-scoped wait to complete, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for step completion")
	}

	if handle.Steps()[second].Status != StepStatusPending {
		t.Fatalf("expected later step untouched, got %s", handle.Steps()[second].Status)
	}
}

func TestSpeechHandleStepScopedWaitReportsCancelledStep(t *testing.T) {
	handle := newSpeechHandle(true)
	index, _ := handle.CreateStep()

	handle.Interrupt()

	if err := handle.waitForGeneration(context.Background(), index); !errors.Is(err, ErrSpeechInterrupted) {
		t.Fatalf("expected ErrSpeechInterrupted for cancelled step, got %v", err)
	}
}

func TestSpeechHandleStepScopedWaitRejectsUnknownStep(t *testing.T) {
	handle := newSpeechHandle(true)

	if err := handle.waitForGeneration(context.Background(), 2); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected unknown step to be rejected, got %v", err)
	}
}
