package voice

import (
	"context"

	"github.com/lucasolinas/agents/core/llms"
)

// RunContext is the capability object handed to a function tool while it
// executes: it binds the owning session, the speech handle that was active
// when the call was issued, and the call itself. It is immutable after
// construction except through the handle it references.
type RunContext[U any] struct {
	session      *AgentSession[U]
	speechHandle *SpeechHandle
	functionCall llms.FunctionCall

	// initialStepIdx is the step immediately preceding this tool call: the
	// spoken segment the user heard before the tool ran.
	initialStepIdx int
}

func newRunContext[U any](session *AgentSession[U], handle *SpeechHandle, call llms.FunctionCall) *RunContext[U] {
	return &RunContext[U]{
		session:        session,
		speechHandle:   handle,
		functionCall:   call,
		initialStepIdx: handle.NumSteps() - 1,
	}
}

func (c *RunContext[U]) Session() *AgentSession[U] {
	return c.session
}

func (c *RunContext[U]) SpeechHandle() *SpeechHandle {
	return c.speechHandle
}

func (c *RunContext[U]) FunctionCall() llms.FunctionCall {
	return c.functionCall
}

func (c *RunContext[U]) Userdata() U {
	return c.session.Userdata()
}

// DisallowInterruptions disables interruptions for the rest of this turn.
// It surfaces the handle's invalid-state error verbatim if the handle is
// already interrupted.
func (c *RunContext[U]) DisallowInterruptions() error {
	return c.speechHandle.SetAllowInterruptions(false)
}

// WaitForPlayout waits until the spoken segment that preceded this tool
// call finishes playing. Unlike SpeechHandle.WaitForPlayout it does not
// wait for the full turn: steps generated after this call (other tools, a
// continuation after this tool's own output) do not block it.
func (c *RunContext[U]) WaitForPlayout(ctx context.Context) error {
	return c.speechHandle.waitForGeneration(ctx, c.initialStepIdx)
}

type runContextKey struct{}

func withRunContext[U any](ctx context.Context, rc *RunContext[U]) context.Context {
	return context.WithValue(ctx, runContextKey{}, rc)
}

// RunContextFrom extracts the RunContext a tool was invoked with from its
// context. The type parameter must match the session's userdata type.
func RunContextFrom[U any](ctx context.Context) (*RunContext[U], bool) {
	rc, ok := ctx.Value(runContextKey{}).(*RunContext[U])
	return rc, ok
}
