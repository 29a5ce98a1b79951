// Package speechtotext defines the streaming recognition provider contract
// consumed by the session: a client is started once per connection, audio
// is pushed to it, and recognized text flows back through the callbacks
// configured here.
package speechtotext

// Transcript is one piece of recognized text.
type Transcript struct {
	Text string
	// SpeakerID identifies the speaker when the recognizer supports
	// diarization, empty otherwise.
	SpeakerID string
}

type TranscriptionOptions struct {
	InterimTranscriptionCallback func(transcript Transcript)
	TranscriptionCallback        func(transcript Transcript)

	SpeechStartedCallback  func()
	SpeechEndedCallback    func()
	EndOfUtteranceCallback func()

	// ErrorCallback is invoked when the recognition stream fails
	// permanently, i.e. after the client's own reconnect policy gave up.
	ErrorCallback func(err error)

	SampleRate int
	Encoding   string
}

type TranscriptionOption func(*TranscriptionOptions)

// WithInterimTranscriptionCallback registers a callback for mutable interim
// transcript snapshots.
func WithInterimTranscriptionCallback(callback func(transcript Transcript)) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.InterimTranscriptionCallback = callback
	}
}

// WithTranscriptionCallback registers a callback for final, terminal
// transcripts of an utterance.
func WithTranscriptionCallback(callback func(transcript Transcript)) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.TranscriptionCallback = callback
	}
}

func WithSpeechStartedCallback(callback func()) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.SpeechStartedCallback = callback
	}
}

func WithSpeechEndedCallback(callback func()) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.SpeechEndedCallback = callback
	}
}

// WithEndOfUtteranceCallback registers a callback for the recognizer's
// end-of-utterance marker, which may arrive after speech ended without any
// further transcript.
func WithEndOfUtteranceCallback(callback func()) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.EndOfUtteranceCallback = callback
	}
}

// WithErrorCallback registers a callback for unrecoverable stream
// failures.
func WithErrorCallback(callback func(err error)) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.ErrorCallback = callback
	}
}

// WithSampleRate sets the sample rate of the pushed audio in Hz.
func WithSampleRate(sampleRate int) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.SampleRate = sampleRate
	}
}

// WithEncoding sets the encoding of the pushed audio, e.g. "pcm_s16le".
func WithEncoding(encoding string) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.Encoding = encoding
	}
}
