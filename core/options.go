package voice

import (
	"context"
	"time"

	"github.com/lucasolinas/agents/core/events"
	"github.com/lucasolinas/agents/core/interruptions"
	"github.com/lucasolinas/agents/core/llms"
	"github.com/lucasolinas/agents/core/speechtotext"
	"github.com/lucasolinas/agents/core/texttospeech"
)

// LLM is a streaming generation provider.
type LLM interface {
	GenerateStream(ctx context.Context, opts ...llms.GenerateOption) (llms.Stream, error)
}

// SpeechToText is a streaming recognition provider. Transcribe is called
// once to open the stream; recognized text flows back through the
// callbacks passed as options.
type SpeechToText interface {
	Transcribe(ctx context.Context, opts ...speechtotext.TranscriptionOption) error
	SendAudio(audio []byte) error
}

// TextToSpeech is a streaming synthesis provider. The session opens one
// speech stream per spoken segment.
type TextToSpeech interface {
	NewSpeechStream(ctx context.Context, opts ...texttospeech.SynthesisOption) (texttospeech.SpeechStream, error)
}

type sessionConfig struct {
	llm        LLM
	stt        SpeechToText
	tts        TextToSpeech
	tools      []llms.Tool
	classifier interruptions.Classifier

	allowInterruptions bool
	userAwayTimeout    time.Duration
	drainTimeout       time.Duration
	maxToolSteps       int

	synthesisOptions   []texttospeech.SynthesisOption
	audioFrameCallback func(audio []byte)

	callbacks sessionCallbacks
}

func defaultSessionConfig() sessionConfig {
	return sessionConfig{
		allowInterruptions: true,
		userAwayTimeout:    15 * time.Second,
		drainTimeout:       5 * time.Second,
		maxToolSteps:       3,
	}
}

type SessionOption func(*sessionConfig)

func WithLLM(client LLM) SessionOption {
	return func(c *sessionConfig) { c.llm = client }
}

func WithSpeechToText(client SpeechToText) SessionOption {
	return func(c *sessionConfig) { c.stt = client }
}

func WithTextToSpeech(client TextToSpeech) SessionOption {
	return func(c *sessionConfig) { c.tts = client }
}

// WithTools registers the function tools offered to the generation
// provider on every cycle.
func WithTools(tools ...llms.Tool) SessionOption {
	return func(c *sessionConfig) { c.tools = append(c.tools, tools...) }
}

// WithInterruptionClassifier registers the collaborator that judges
// whether an interruption reflected genuine turn-taking intent. Without
// one, interruptions are only resolved through ResolveInterruption.
func WithInterruptionClassifier(classifier interruptions.Classifier) SessionOption {
	return func(c *sessionConfig) { c.classifier = classifier }
}

// WithAllowInterruptions sets the default interruption policy new speech
// handles start with.
func WithAllowInterruptions(allow bool) SessionOption {
	return func(c *sessionConfig) { c.allowInterruptions = allow }
}

// WithUserAwayTimeout sets how long the user may stay silent before their
// state transitions to away. Zero disables the transition.
func WithUserAwayTimeout(timeout time.Duration) SessionOption {
	return func(c *sessionConfig) { c.userAwayTimeout = timeout }
}

// WithDrainTimeout bounds how long Close waits for in-flight work to
// acknowledge cancellation before resources are forcibly released.
func WithDrainTimeout(timeout time.Duration) SessionOption {
	return func(c *sessionConfig) { c.drainTimeout = timeout }
}

// WithMaxToolSteps bounds how many consecutive tool-call continuations a
// single turn may chain.
func WithMaxToolSteps(steps int) SessionOption {
	return func(c *sessionConfig) { c.maxToolSteps = steps }
}

// WithSynthesisOptions forwards extra options to every synthesis stream
// the session opens.
func WithSynthesisOptions(opts ...texttospeech.SynthesisOption) SessionOption {
	return func(c *sessionConfig) { c.synthesisOptions = append(c.synthesisOptions, opts...) }
}

// WithAudioFrameCallback registers a callback receiving synthesized audio
// frames. The frames' consumer (playback, transport) lives outside the
// session.
func WithAudioFrameCallback(callback func(audio []byte)) SessionOption {
	return func(c *sessionConfig) { c.audioFrameCallback = callback }
}

// WithEventCallback registers a callback invoked for every session event
// in emission order, from a dedicated delivery goroutine.
func WithEventCallback(callback func(events.Event)) SessionOption {
	return func(c *sessionConfig) { c.callbacks.onEvent = callback }
}

func WithUserStateChangedCallback(callback func(oldState, newState events.UserState)) SessionOption {
	return func(c *sessionConfig) { c.callbacks.onUserStateChanged = callback }
}

func WithAgentStateChangedCallback(callback func(oldState, newState events.AgentState)) SessionOption {
	return func(c *sessionConfig) { c.callbacks.onAgentStateChanged = callback }
}

func WithInterimTranscriptionCallback(callback func(transcript string)) SessionOption {
	return func(c *sessionConfig) { c.callbacks.onInterimTranscription = callback }
}

func WithTranscriptionCallback(callback func(transcript string)) SessionOption {
	return func(c *sessionConfig) { c.callbacks.onTranscription = callback }
}

func WithErrorCallback(callback func(event events.Error)) SessionOption {
	return func(c *sessionConfig) { c.callbacks.onError = callback }
}

func WithCloseCallback(callback func(event events.Close)) SessionOption {
	return func(c *sessionConfig) { c.callbacks.onClose = callback }
}

// SpeechOption adjusts a single speech handle at creation.
type SpeechOption func(*speechOptions)

type speechOptions struct {
	allowInterruptions *bool
	instructions       string
}

// WithSpeechAllowInterruptions overrides the session's default
// interruption policy for one handle.
func WithSpeechAllowInterruptions(allow bool) SpeechOption {
	return func(o *speechOptions) { o.allowInterruptions = &allow }
}

// WithReplyInstructions passes extra instructions to the generation
// provider for one reply. They are echoed back in an
// agent_false_interruption event if the reply is spuriously interrupted.
func WithReplyInstructions(instructions string) SpeechOption {
	return func(o *speechOptions) { o.instructions = instructions }
}
