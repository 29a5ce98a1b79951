package events

// SpeechSource tags how a speech handle came to exist.
type SpeechSource string

const (
	SpeechSourceSay           SpeechSource = "say"
	SpeechSourceGenerateReply SpeechSource = "generate_reply"
	SpeechSourceToolResponse  SpeechSource = "tool_response"
)

// KindSpeechCreated identifies creation of a speech handle.
const KindSpeechCreated Kind = "speech_created"

// SpeechHandleInfo is the read-only view of a speech handle carried by
// events. The concrete handle lives in the core package; subscribers that
// need the full handle type-assert on it there.
type SpeechHandleInfo interface {
	ID() string
	NumSteps() int
	Interrupted() bool
}

// SpeechCreated marks creation of a new speech handle.
type SpeechCreated struct {
	Base
	// UserInitiated is true if the speech was created through a public
	// method like Say or GenerateReply rather than by the session itself.
	UserInitiated bool
	Source        SpeechSource
	SpeechHandle  SpeechHandleInfo
}

// NewSpeechCreated creates a speech created event.
func NewSpeechCreated(userInitiated bool, source SpeechSource, handle SpeechHandleInfo) SpeechCreated {
	return SpeechCreated{
		Base:          NewBase(KindSpeechCreated),
		UserInitiated: userInitiated,
		Source:        source,
		SpeechHandle:  handle,
	}
}
