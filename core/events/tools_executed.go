package events

import (
	"fmt"

	"github.com/lucasolinas/agents/core/llms"
)

// KindFunctionToolsExecuted identifies completion of a tool call batch.
const KindFunctionToolsExecuted Kind = "function_tools_executed"

// FunctionToolsExecuted reports one finished batch of function calls.
// FunctionCalls and FunctionCallOutputs are always the same length and
// paired by position; a nil output marks a call that failed or was
// cancelled without shortening the list.
type FunctionToolsExecuted struct {
	Base
	FunctionCalls       []llms.FunctionCall
	FunctionCallOutputs []*llms.FunctionCallOutput
}

// NewFunctionToolsExecuted creates a function tools executed event,
// enforcing the paired-length invariant.
func NewFunctionToolsExecuted(calls []llms.FunctionCall, outputs []*llms.FunctionCallOutput) (FunctionToolsExecuted, error) {
	if len(calls) != len(outputs) {
		return FunctionToolsExecuted{}, fmt.Errorf("the number of function calls (%d) and outputs (%d) must match", len(calls), len(outputs))
	}
	return FunctionToolsExecuted{
		Base:                NewBase(KindFunctionToolsExecuted),
		FunctionCalls:       calls,
		FunctionCallOutputs: outputs,
	}, nil
}

// ExecutedFunction is one call paired with its output, nil if the call did
// not complete.
type ExecutedFunction struct {
	Call   llms.FunctionCall
	Output *llms.FunctionCallOutput
}

// Zipped pairs calls with their outputs by position.
func (e FunctionToolsExecuted) Zipped() []ExecutedFunction {
	zipped := make([]ExecutedFunction, len(e.FunctionCalls))
	for i, call := range e.FunctionCalls {
		zipped[i] = ExecutedFunction{Call: call, Output: e.FunctionCallOutputs[i]}
	}
	return zipped
}
