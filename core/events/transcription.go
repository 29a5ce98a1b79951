package events

// KindUserInputTranscribed identifies recognized user speech.
const KindUserInputTranscribed Kind = "user_input_transcribed"

// UserInputTranscribed carries recognized user speech. Interim transcripts
// (IsFinal false) are mutable snapshots that may be rewritten by later
// events; a final transcript is terminal for the utterance.
type UserInputTranscribed struct {
	Base
	Transcript string
	IsFinal    bool
	// SpeakerID identifies the speaker when the recognizer supports
	// diarization, empty otherwise.
	SpeakerID string
}

// NewUserInputTranscribed creates a user input transcribed event.
func NewUserInputTranscribed(transcript string, isFinal bool, speakerID string) UserInputTranscribed {
	return UserInputTranscribed{
		Base:       NewBase(KindUserInputTranscribed),
		Transcript: transcript,
		IsFinal:    isFinal,
		SpeakerID:  speakerID,
	}
}
