// Package interruptions defines the classification vocabulary for user
// speech that interrupted agent speech. Classification itself is an
// external collaborator; the session only consumes its verdicts.
package interruptions

import (
	"context"

	"github.com/lucasolinas/agents/core/llms"
)

type Type string

const (
	TypeContinuation  Type = "continuation"
	TypeClarification Type = "clarification"
	TypeCancellation  Type = "cancellation"
	TypeIgnorable     Type = "ignorable"
	TypeRepetition    Type = "repetition"
	TypeNoise         Type = "noise"
	TypeAction        Type = "action"
	TypeNewPrompt     Type = "new prompt"
)

// Spurious reports whether a classification means the interruption did not
// reflect genuine turn-taking intent.
func (t Type) Spurious() bool {
	return t == TypeNoise || t == TypeIgnorable
}

// Classifier judges what kind of interruption a user utterance was, given
// the conversation so far. Implementations typically defer to a language
// model or a timing heuristic.
type Classifier interface {
	Classify(ctx context.Context, transcript string, history []llms.ConversationItem) (Type, error)
}
