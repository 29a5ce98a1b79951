package voice

import "github.com/lucasolinas/agents/core/events"

// sessionCallbacks maps bus events onto the typed callbacks configured at
// session construction. Dispatch runs on the session's internal bus
// subscriber, so callbacks see events in emission order and may safely
// call back into the session.
type sessionCallbacks struct {
	onEvent func(events.Event)

	onUserStateChanged     func(oldState, newState events.UserState)
	onAgentStateChanged    func(oldState, newState events.AgentState)
	onInterimTranscription func(transcript string)
	onTranscription        func(transcript string)
	onError                func(event events.Error)
	onClose                func(event events.Close)
}

func (c sessionCallbacks) configured() bool {
	return c.onEvent != nil ||
		c.onUserStateChanged != nil ||
		c.onAgentStateChanged != nil ||
		c.onInterimTranscription != nil ||
		c.onTranscription != nil ||
		c.onError != nil ||
		c.onClose != nil
}

func (c sessionCallbacks) dispatch(event events.Event) {
	if c.onEvent != nil {
		c.onEvent(event)
	}

	switch typedEvent := event.(type) {
	case events.UserStateChanged:
		if c.onUserStateChanged != nil {
			c.onUserStateChanged(typedEvent.OldState, typedEvent.NewState)
		}
	case events.AgentStateChanged:
		if c.onAgentStateChanged != nil {
			c.onAgentStateChanged(typedEvent.OldState, typedEvent.NewState)
		}
	case events.UserInputTranscribed:
		if typedEvent.IsFinal {
			if c.onTranscription != nil {
				c.onTranscription(typedEvent.Transcript)
			}
		} else if c.onInterimTranscription != nil {
			c.onInterimTranscription(typedEvent.Transcript)
		}
	case events.Error:
		if c.onError != nil {
			c.onError(typedEvent)
		}
	case events.Close:
		if c.onClose != nil {
			c.onClose(typedEvent)
		}
	}
}
