package voice

import (
	"context"
	"fmt"
	"time"

	"github.com/lucasolinas/agents/core/texttospeech"
)

// textToSpeech is the synthesis facade. open returns nil without error when
// no client is configured; callers treat a nil synthesis as "speech is
// instantly played out".
type textToSpeech struct {
	client       TextToSpeech
	extraOptions []texttospeech.SynthesisOption
	onAudioFrame func(audio []byte)
}

func (t *textToSpeech) configured() bool {
	return t.client != nil
}

func (t *textToSpeech) open(ctx context.Context) (*synthesis, error) {
	if !t.configured() {
		return nil, nil
	}

	p := &synthesis{ended: make(chan texttospeech.SpeechEndedReport, 1)}
	opts := append([]texttospeech.SynthesisOption{
		texttospeech.WithAudioCallback(func(audio []byte) {
			if t.onAudioFrame != nil {
				t.onAudioFrame(audio)
			}
		}),
		texttospeech.WithSpeechEndedCallback(func(report texttospeech.SpeechEndedReport) {
			select {
			case p.ended <- report:
			default:
			}
		}),
	}, t.extraOptions...)

	stream, err := t.client.NewSpeechStream(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open synthesis stream: %w", err)
	}
	p.stream = stream
	return p, nil
}

// synthesis is one in-flight synthesis stream with its completion signal.
type synthesis struct {
	stream texttospeech.SpeechStream
	ended  chan texttospeech.SpeechEndedReport
}

func (p *synthesis) sendText(text string) error {
	if err := p.stream.SendText(text); err != nil {
		return fmt.Errorf("failed to send text to synthesis: %w", err)
	}
	return nil
}

// finish flushes remaining text and waits for the provider's end-of-speech
// report, bounded by ctx and the grace window.
func (p *synthesis) finish(ctx context.Context, grace time.Duration) (texttospeech.SpeechEndedReport, error) {
	if err := p.stream.EndOfText(); err != nil {
		p.abort()
		return texttospeech.SpeechEndedReport{Interrupted: true}, fmt.Errorf("failed to end synthesis stream: %w", err)
	}

	timeout := time.NewTimer(grace)
	defer timeout.Stop()
	select {
	case report := <-p.ended:
		_ = p.stream.Close()
		return report, nil
	case <-ctx.Done():
		p.abort()
		return texttospeech.SpeechEndedReport{Interrupted: true}, ctx.Err()
	case <-timeout.C:
		p.abort()
		return texttospeech.SpeechEndedReport{Interrupted: true}, fmt.Errorf("timed out waiting for synthesis to finish")
	}
}

// abort closes the stream without waiting for pending audio.
func (p *synthesis) abort() {
	_ = p.stream.Close()
}
