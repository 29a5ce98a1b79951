package events

type UserState string

const (
	UserStateSpeaking  UserState = "speaking"
	UserStateListening UserState = "listening"
	UserStateAway      UserState = "away"
)

type AgentState string

const (
	AgentStateInitializing AgentState = "initializing"
	AgentStateIdle         AgentState = "idle"
	AgentStateListening    AgentState = "listening"
	AgentStateThinking     AgentState = "thinking"
	AgentStateSpeaking     AgentState = "speaking"
)

const (
	// KindUserStateChanged identifies a user state transition.
	KindUserStateChanged Kind = "user_state_changed"
	// KindAgentStateChanged identifies an agent state transition.
	KindAgentStateChanged Kind = "agent_state_changed"
)

// UserStateChanged marks a user transition between speaking, listening and
// away.
type UserStateChanged struct {
	Base
	OldState UserState
	NewState UserState
}

// NewUserStateChanged creates a user state changed event.
func NewUserStateChanged(oldState, newState UserState) UserStateChanged {
	return UserStateChanged{Base: NewBase(KindUserStateChanged), OldState: oldState, NewState: newState}
}

// AgentStateChanged marks an agent transition between initializing, idle,
// listening, thinking and speaking.
type AgentStateChanged struct {
	Base
	OldState AgentState
	NewState AgentState
}

// NewAgentStateChanged creates an agent state changed event.
func NewAgentStateChanged(oldState, newState AgentState) AgentStateChanged {
	return AgentStateChanged{Base: NewBase(KindAgentStateChanged), OldState: oldState, NewState: newState}
}
