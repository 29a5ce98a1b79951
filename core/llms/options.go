package llms

// GenerateOptions carries everything a generation provider needs for one
// streaming cycle.
type GenerateOptions struct {
	// Instructions is an extra system-level steer for this cycle only.
	Instructions string
	// History is the conversation so far, earliest first.
	History []ConversationItem
	// Tools are the function tools the provider may call.
	Tools []Tool
}

type GenerateOption func(*GenerateOptions)

// WithInstructions sets extra instructions for a single generation cycle.
// Repeating this option overwrites the previous instructions.
func WithInstructions(instructions string) GenerateOption {
	return func(o *GenerateOptions) {
		o.Instructions = instructions
	}
}

// WithHistory sets the conversation history for the cycle.
func WithHistory(history ...ConversationItem) GenerateOption {
	return func(o *GenerateOptions) {
		o.History = history
	}
}

// WithTools sets the function tools offered to the provider.
func WithTools(tools ...Tool) GenerateOption {
	return func(o *GenerateOptions) {
		o.Tools = tools
	}
}
