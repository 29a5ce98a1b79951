package events

import (
	"fmt"

	"github.com/lucasolinas/agents/core/llms"
)

// KindConversationItemAdded identifies a history append.
const KindConversationItemAdded Kind = "conversation_item_added"

// ConversationItemAdded marks a message appended to the conversation
// history. Item always carries a concrete role.
type ConversationItemAdded struct {
	Base
	Item llms.ConversationItem
}

// NewConversationItemAdded creates a conversation item added event. It
// rejects an item without a role so consumers never have to dispatch on a
// placeholder.
func NewConversationItemAdded(item llms.ConversationItem) (ConversationItemAdded, error) {
	if item.Role == "" {
		return ConversationItemAdded{}, fmt.Errorf("conversation item must carry a role")
	}
	return ConversationItemAdded{Base: NewBase(KindConversationItemAdded), Item: item}, nil
}
