// Package events defines the typed session event contract.
//
// Every externally observable state change of a dialogue session is
// published as exactly one of the records below, delivered to subscribers
// in commitment order. Consumers dispatch on Kind (or type-switch on the
// concrete record), never on type identity alone.
//
// Event kinds:
//
//   - UserStateChanged (user_state_changed): the user transitioned between
//     speaking/listening/away.
//   - AgentStateChanged (agent_state_changed): the agent transitioned
//     between initializing/idle/listening/thinking/speaking.
//   - UserInputTranscribed (user_input_transcribed): recognition produced
//     interim or final text.
//   - AgentFalseInterruption (agent_false_interruption): an earlier
//     interruption was classified as spurious; carries the message that
//     was cut off.
//   - MetricsCollected (metrics_collected): a provider or the session
//     completed a measurable operation.
//   - ConversationItemAdded (conversation_item_added): a message was
//     appended to the conversation history.
//   - FunctionToolsExecuted (function_tools_executed): a batch of tool
//     calls finished; calls and outputs are paired by position.
//   - SpeechCreated (speech_created): a new speech handle was created.
//   - Error (error): a provider or the session failed recoverably.
//   - Close (close): the session terminated; always the last event.
package events
