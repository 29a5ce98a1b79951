package voice

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/lucasolinas/agents/core/llms"
)

// executeToolBatch runs every call of a batch concurrently and returns
// their outputs paired by position. A call that names an unknown tool or
// is cancelled mid-flight leaves a nil slot; a handler error becomes an
// IsError output. One failing call never aborts its siblings.
func (s *AgentSession[U]) executeToolBatch(ctx context.Context, handle *SpeechHandle, calls []llms.FunctionCall) []*llms.FunctionCallOutput {
	outputs := make([]*llms.FunctionCallOutput, len(calls))

	group, groupCtx := errgroup.WithContext(ctx)
	for i, call := range calls {
		group.Go(func() error {
			callCtx, span := tracer.Start(groupCtx, "voice.tool_call",
				trace.WithAttributes(attribute.String("tool.name", call.Name)))
			defer span.End()

			tool, ok := s.lookupTool(call.Name)
			if !ok {
				logger.Warn("generation requested an unknown tool", "tool", call.Name)
				return nil
			}

			runContext := newRunContext(s, handle, call)
			result, err := tool.Execute(withRunContext(callCtx, runContext), call.Arguments)
			if err != nil {
				if callCtx.Err() != nil {
					return nil
				}
				span.RecordError(err)
				outputs[i] = &llms.FunctionCallOutput{
					CallID:  call.ID,
					Name:    call.Name,
					Output:  err.Error(),
					IsError: true,
				}
				return nil
			}
			outputs[i] = &llms.FunctionCallOutput{
				CallID: call.ID,
				Name:   call.Name,
				Output: result,
			}
			return nil
		})
	}
	group.Wait()
	return outputs
}

func (s *AgentSession[U]) lookupTool(name string) (llms.Tool, bool) {
	for _, tool := range s.config.tools {
		if tool.Name == name {
			return tool, true
		}
	}
	return llms.Tool{}, false
}
