package llms

import "context"

// Stream is a lazy sequence of generation chunks. Providers yield text
// deltas and function calls in generation order and terminate the sequence
// with a chunk whose FinishReason is non-nil (or with an error).
type Stream interface {
	Chunks(context.Context) func(func(StreamChunk, error) bool)
}

type StreamChunk interface {
	FinishReason() *string
}

type StreamContentChunk interface {
	StreamChunk
	Content() string
}

type StreamFunctionCallChunk interface {
	StreamChunk
	FunctionCall() FunctionCall
}

// ContentChunk is a plain text delta. Providers may use it directly or
// implement StreamContentChunk themselves.
type ContentChunk struct {
	Text string
}

func (c ContentChunk) Content() string       { return c.Text }
func (c ContentChunk) FinishReason() *string { return nil }

// FunctionCallChunk carries one complete function call requested by the
// provider.
type FunctionCallChunk struct {
	Call FunctionCall
}

func (c FunctionCallChunk) FunctionCall() FunctionCall { return c.Call }
func (c FunctionCallChunk) FinishReason() *string      { return nil }

// FinishChunk terminates a stream with the provider's finish reason.
type FinishChunk struct {
	Reason string
}

func (c FinishChunk) FinishReason() *string { return &c.Reason }
