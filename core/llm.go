package voice

import (
	"context"
	"errors"

	"github.com/lucasolinas/agents/core/llms"
)

var errGenerationNotConfigured = errors.New("no generation provider configured")

// generation is the generation facade wrapping the optional LLM client.
type generation struct {
	client LLM
}

func (g *generation) configured() bool {
	return g.client != nil
}

func (g *generation) generateStream(ctx context.Context, instructions string, history []llms.ConversationItem, tools []llms.Tool) (llms.Stream, error) {
	if !g.configured() {
		return nil, errGenerationNotConfigured
	}

	opts := []llms.GenerateOption{
		llms.WithHistory(history...),
		llms.WithTools(tools...),
	}
	if instructions != "" {
		opts = append(opts, llms.WithInstructions(instructions))
	}
	return g.client.GenerateStream(ctx, opts...)
}
