package voice

import (
	"context"
	"sync"

	"github.com/lucasolinas/agents/core/llms"
	"github.com/lucasolinas/agents/core/speechtotext"
	"github.com/lucasolinas/agents/core/texttospeech"
)

// scriptedLLM replays one scripted chunk sequence per GenerateStream call.
type scriptedLLM struct {
	mu      sync.Mutex
	scripts [][]llms.StreamChunk
	prompts []llms.GenerateOptions
}

func (l *scriptedLLM) GenerateStream(_ context.Context, opts ...llms.GenerateOption) (llms.Stream, error) {
	options := llms.GenerateOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.prompts = append(l.prompts, options)
	if len(l.scripts) == 0 {
		return &scriptedStream{}, nil
	}
	chunks := l.scripts[0]
	l.scripts = l.scripts[1:]
	return &scriptedStream{chunks: chunks}, nil
}

type scriptedStream struct {
	chunks []llms.StreamChunk
}

func (s *scriptedStream) Chunks(ctx context.Context) func(func(llms.StreamChunk, error) bool) {
	return func(yield func(llms.StreamChunk, error) bool) {
		for _, chunk := range s.chunks {
			if ctx.Err() != nil {
				return
			}
			if !yield(chunk, nil) {
				return
			}
		}
	}
}

// recordingSTT captures the transcription options so a test can drive the
// session by firing the recognizer callbacks directly.
type recordingSTT struct {
	mu      sync.Mutex
	options speechtotext.TranscriptionOptions
	audio   [][]byte
}

func (s *recordingSTT) Transcribe(_ context.Context, opts ...speechtotext.TranscriptionOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, opt := range opts {
		opt(&s.options)
	}
	return nil
}

func (s *recordingSTT) SendAudio(audio []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audio = append(s.audio, append([]byte(nil), audio...))
	return nil
}

func (s *recordingSTT) fireSpeechStarted() {
	s.mu.Lock()
	callback := s.options.SpeechStartedCallback
	s.mu.Unlock()
	if callback != nil {
		callback()
	}
}

func (s *recordingSTT) fireTranscription(text string) {
	s.mu.Lock()
	callback := s.options.TranscriptionCallback
	s.mu.Unlock()
	if callback != nil {
		callback(speechtotext.Transcript{Text: text})
	}
}

// collectingTTS synthesizes instantly: every EndOfText reports completion
// right away. When hold is set the report never arrives, keeping the turn
// in playout until it is cancelled.
type collectingTTS struct {
	mu      sync.Mutex
	streams []*collectingSpeechStream
	hold    bool
}

func (t *collectingTTS) NewSpeechStream(_ context.Context, opts ...texttospeech.SynthesisOption) (texttospeech.SpeechStream, error) {
	options := texttospeech.SynthesisOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	stream := &collectingSpeechStream{options: options, hold: t.hold}
	t.mu.Lock()
	t.streams = append(t.streams, stream)
	t.mu.Unlock()
	return stream, nil
}

// releaseAll reports completion on every held stream that has not reported
// yet.
func (t *collectingTTS) releaseAll() {
	t.mu.Lock()
	streams := append([]*collectingSpeechStream(nil), t.streams...)
	t.mu.Unlock()
	for _, stream := range streams {
		stream.release()
	}
}

func (t *collectingTTS) streamCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.streams)
}

func (t *collectingTTS) spokenText() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	text := ""
	for _, stream := range t.streams {
		text += stream.text()
	}
	return text
}

type collectingSpeechStream struct {
	mu       sync.Mutex
	options  texttospeech.SynthesisOptions
	sent     string
	hold     bool
	released bool
}

func (s *collectingSpeechStream) SendText(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent += text
	if s.options.AudioCallback != nil {
		s.options.AudioCallback([]byte(text))
	}
	return nil
}

func (s *collectingSpeechStream) Flush() error { return nil }

func (s *collectingSpeechStream) EndOfText() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hold && s.options.SpeechEndedCallback != nil {
		s.options.SpeechEndedCallback(texttospeech.SpeechEndedReport{})
	}
	return nil
}

func (s *collectingSpeechStream) Close() error { return nil }

func (s *collectingSpeechStream) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return
	}
	s.released = true
	if s.options.SpeechEndedCallback != nil {
		s.options.SpeechEndedCallback(texttospeech.SpeechEndedReport{})
	}
}

func (s *collectingSpeechStream) text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent
}
