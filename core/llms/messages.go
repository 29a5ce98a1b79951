package llms

import "github.com/google/uuid"

// ItemRole describes who a conversation item is from.
type ItemRole string

const (
	ItemRoleUser      ItemRole = "user"
	ItemRoleAssistant ItemRole = "assistant"
	ItemRoleTool      ItemRole = "tool"
)

// ConversationItem is a single role-tagged entry of the conversation
// history. The session only appends and reads these; it never rewrites a
// committed item.
type ConversationItem struct {
	ID   string
	Role ItemRole

	// Content is the text of the item: the transcript for a user item, the
	// generated reply for an assistant item, empty for a pure tool item.
	Content string

	// FunctionCall is set on an assistant item that requested a tool call.
	FunctionCall *FunctionCall
	// FunctionCallOutput is set on a tool item carrying a call's result.
	FunctionCallOutput *FunctionCallOutput

	// Interrupted is true if the item is an assistant reply that was cut
	// off before playout finished.
	Interrupted bool
}

// NewUserMessage creates a user conversation item from a final transcript.
func NewUserMessage(content string) ConversationItem {
	return ConversationItem{ID: uuid.NewString(), Role: ItemRoleUser, Content: content}
}

// NewAssistantMessage creates an assistant conversation item.
func NewAssistantMessage(content string) ConversationItem {
	return ConversationItem{ID: uuid.NewString(), Role: ItemRoleAssistant, Content: content}
}

// NewFunctionCallItem creates an assistant conversation item recording a
// requested tool call.
func NewFunctionCallItem(call FunctionCall) ConversationItem {
	return ConversationItem{ID: uuid.NewString(), Role: ItemRoleAssistant, FunctionCall: &call}
}

// NewToolOutputItem creates a tool conversation item carrying a function
// call output.
func NewToolOutputItem(output FunctionCallOutput) ConversationItem {
	return ConversationItem{ID: uuid.NewString(), Role: ItemRoleTool, FunctionCallOutput: &output}
}

// FunctionCall is a tool invocation requested by the generation provider.
type FunctionCall struct {
	ID        string
	Name      string
	Arguments string
}

// FunctionCallOutput is the result of executing a single function call.
type FunctionCallOutput struct {
	// CallID matches the ID of the FunctionCall this output answers.
	CallID  string
	Name    string
	Output  string
	IsError bool
}
