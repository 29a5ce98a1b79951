package events

import "github.com/lucasolinas/agents/core/llms"

// KindAgentFalseInterruption identifies a spurious interruption report.
const KindAgentFalseInterruption Kind = "agent_false_interruption"

// AgentFalseInterruption reports that an interruption which cancelled agent
// speech was later classified as not reflecting genuine turn-taking intent.
// It carries what was lost so a caller can recover or re-issue the reply.
type AgentFalseInterruption struct {
	Base
	// Message is the assistant message that got interrupted, nil if the
	// handle had not produced any content yet.
	Message *llms.ConversationItem
	// ExtraInstructions are the instructions originally passed to
	// GenerateReply for the interrupted speech, empty otherwise.
	ExtraInstructions string
}

// NewAgentFalseInterruption creates an agent false interruption event.
func NewAgentFalseInterruption(message *llms.ConversationItem, extraInstructions string) AgentFalseInterruption {
	return AgentFalseInterruption{
		Base:              NewBase(KindAgentFalseInterruption),
		Message:           message,
		ExtraInstructions: extraInstructions,
	}
}
