// Package texttospeech defines the streaming synthesis provider contract:
// the session opens a speech stream per spoken segment, feeds it text as it
// is generated, and receives audio frames and lifecycle reports through the
// callbacks configured here.
package texttospeech

import "time"

// SpeechStream is one synthesis stream. SendText may be called repeatedly
// with partial text; Flush asks the provider to synthesize what it has
// buffered so far; EndOfText signals that no more text will arrive. Close
// releases the stream, discarding any unsynthesized text.
type SpeechStream interface {
	SendText(text string) error
	Flush() error
	EndOfText() error
	Close() error
}

// SpeechEndedReport summarizes a finished synthesis stream.
type SpeechEndedReport struct {
	// Interrupted is true if the stream was closed before EndOfText.
	Interrupted bool
	// AudioDuration is the total duration of synthesized audio.
	AudioDuration time.Duration
}

type SynthesisOptions struct {
	AudioCallback       func(audio []byte)
	SpeechEndedCallback func(report SpeechEndedReport)

	Voice      string
	SampleRate int
}

type SynthesisOption func(*SynthesisOptions)

// WithAudioCallback registers a callback for synthesized audio frames.
func WithAudioCallback(callback func(audio []byte)) SynthesisOption {
	return func(o *SynthesisOptions) {
		o.AudioCallback = callback
	}
}

// WithSpeechEndedCallback registers a callback invoked once when the stream
// finishes or is closed early.
func WithSpeechEndedCallback(callback func(report SpeechEndedReport)) SynthesisOption {
	return func(o *SynthesisOptions) {
		o.SpeechEndedCallback = callback
	}
}

func WithVoice(voice string) SynthesisOption {
	return func(o *SynthesisOptions) {
		o.Voice = voice
	}
}

func WithSampleRate(sampleRate int) SynthesisOption {
	return func(o *SynthesisOptions) {
		o.SampleRate = sampleRate
	}
}
