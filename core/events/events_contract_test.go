package events

import (
	"errors"
	"testing"
	"time"

	"github.com/lucasolinas/agents/core/llms"
)

func TestNewBaseStampsKindAndTimestamp(t *testing.T) {
	before := time.Now()
	event := NewUserStateChanged(UserStateListening, UserStateSpeaking)
	after := time.Now()

	if event.Kind() != KindUserStateChanged {
		t.Fatalf("expected kind %s, got %s", KindUserStateChanged, event.Kind())
	}
	if event.Timestamp().Before(before) || event.Timestamp().After(after) {
		t.Fatalf("expected timestamp between %v and %v, got %v", before, after, event.Timestamp())
	}
}

func TestNewConversationItemAddedRequiresRole(t *testing.T) {
	if _, err := NewConversationItemAdded(llms.ConversationItem{Content: "no role"}); err == nil {
		t.Fatalf("expected item without role to be rejected")
	}

	event, err := NewConversationItemAdded(llms.NewUserMessage("hello"))
	if err != nil {
		t.Fatalf("expected valid item accepted, got %v", err)
	}
	if event.Item.Content != "hello" {
		t.Fatalf("expected item carried through, got %+v", event.Item)
	}
}

func TestNewFunctionToolsExecutedEnforcesPairing(t *testing.T) {
	calls := []llms.FunctionCall{{ID: "call-1", Name: "lookup"}}

	if _, err := NewFunctionToolsExecuted(calls, nil); err == nil {
		t.Fatalf("expected mismatched lengths to be rejected")
	}

	outputs := []*llms.FunctionCallOutput{nil}
	event, err := NewFunctionToolsExecuted(calls, outputs)
	if err != nil {
		t.Fatalf("expected nil output slot accepted, got %v", err)
	}

	zipped := event.Zipped()
	if len(zipped) != 1 {
		t.Fatalf("expected one pair, got %d", len(zipped))
	}
	if zipped[0].Call.ID != "call-1" || zipped[0].Output != nil {
		t.Fatalf("expected call paired with nil output, got %+v", zipped[0])
	}
}

func TestCloseEventCarriesErrorOnlyForErrorReason(t *testing.T) {
	cause := errors.New("connection lost")
	event := NewClose(cause, CloseReasonError)
	if !errors.Is(event.Err, cause) || event.Reason != CloseReasonError {
		t.Fatalf("expected error close with cause, got %+v", event)
	}

	clean := NewClose(nil, CloseReasonTaskCompleted)
	if clean.Err != nil {
		t.Fatalf("expected no cause on clean close, got %v", clean.Err)
	}
}

func TestEventsImplementTheEventInterface(t *testing.T) {
	var checks = []Event{
		NewUserStateChanged(UserStateListening, UserStateAway),
		NewAgentStateChanged(AgentStateIdle, AgentStateThinking),
		NewUserInputTranscribed("hi", false, "speaker-1"),
		NewAgentFalseInterruption(nil, "keep going"),
		NewSpeechCreated(true, SpeechSourceSay, nil),
		NewError(errors.New("failed"), nil),
		NewClose(nil, CloseReasonUserInitiated),
	}

	for _, event := range checks {
		if event.Kind() == "" {
			t.Fatalf("expected every event to carry a kind, %T has none", event)
		}
		if event.Timestamp().IsZero() {
			t.Fatalf("expected every event to carry a timestamp, %T has none", event)
		}
	}
}
