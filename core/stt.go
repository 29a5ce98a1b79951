package voice

import (
	"context"
	"fmt"

	"github.com/lucasolinas/agents/core/speechtotext"
)

// speechToText is the recognition facade: it normalizes behavior around an
// optional client so the session never branches on whether recognition is
// configured.
type speechToText struct {
	client SpeechToText
}

type speechToTextCallbacks struct {
	onSpeechStarted        func()
	onSpeechEnded          func()
	onEndOfUtterance       func()
	onInterimTranscription func(transcript speechtotext.Transcript)
	onTranscription        func(transcript speechtotext.Transcript)
	onFatalError           func(err error)
}

func (s *speechToText) configured() bool {
	return s.client != nil
}

func (s *speechToText) start(ctx context.Context, callbacks speechToTextCallbacks) error {
	if !s.configured() {
		return nil
	}

	sttOptions := []speechtotext.TranscriptionOption{
		speechtotext.WithSpeechStartedCallback(callbacks.onSpeechStarted),
		speechtotext.WithSpeechEndedCallback(callbacks.onSpeechEnded),
		speechtotext.WithEndOfUtteranceCallback(callbacks.onEndOfUtterance),
		speechtotext.WithInterimTranscriptionCallback(callbacks.onInterimTranscription),
		speechtotext.WithTranscriptionCallback(callbacks.onTranscription),
		speechtotext.WithErrorCallback(callbacks.onFatalError),
	}

	if err := s.client.Transcribe(ctx, sttOptions...); err != nil {
		return fmt.Errorf("failed to start transcribing: %w", err)
	}
	return nil
}

func (s *speechToText) SendAudio(audio []byte) error {
	if !s.configured() {
		return nil
	}
	return s.client.SendAudio(audio)
}

func (s *speechToText) close(ctx context.Context) error {
	if !s.configured() {
		return nil
	}

	switch c := s.client.(type) {
	case interface{ Close(context.Context) error }:
		if err := c.Close(ctx); err != nil {
			return fmt.Errorf("failed to close speech-to-text client: %w", err)
		}
	case interface{ Close(context.Context) }:
		c.Close(ctx)
	case interface{ Close() error }:
		if err := c.Close(); err != nil {
			return fmt.Errorf("failed to close speech-to-text client: %w", err)
		}
	}
	return nil
}
