package voice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/lucasolinas/agents/core/events"
	"github.com/lucasolinas/agents/core/llms"
	"github.com/lucasolinas/agents/core/metrics"
)

// synthesisGrace bounds how long a finished generation waits for the
// synthesis provider to report playout completion.
const synthesisGrace = 10 * time.Second

// Say speaks the given text verbatim as a new agent turn. The turn starts
// immediately if the agent is idle, otherwise it is queued behind the
// active turn. Called from inside a tool, the resulting speech is tagged
// tool_response instead of say.
func (s *AgentSession[U]) Say(ctx context.Context, text string, opts ...SpeechOption) (*SpeechHandle, error) {
	source, userInitiated := events.SpeechSourceSay, true
	if _, ok := RunContextFrom[U](ctx); ok {
		source, userInitiated = events.SpeechSourceToolResponse, false
	}
	return s.createSpeech(source, userInitiated, applySpeechOptions(opts), s.runSay(text))
}

// GenerateReply requests a model-generated agent turn over the current
// history. Called from inside a tool, the resulting speech is tagged
// tool_response instead of generate_reply.
func (s *AgentSession[U]) GenerateReply(ctx context.Context, opts ...SpeechOption) (*SpeechHandle, error) {
	source, userInitiated := events.SpeechSourceGenerateReply, true
	if _, ok := RunContextFrom[U](ctx); ok {
		source, userInitiated = events.SpeechSourceToolResponse, false
	}
	options := applySpeechOptions(opts)
	return s.createSpeech(source, userInitiated, options, s.runGenerate(options.instructions))
}

func applySpeechOptions(opts []SpeechOption) speechOptions {
	var options speechOptions
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

// createSpeech allocates a handle, announces it, and either starts the
// turn or queues it behind the active one. Creation on a closing session
// is reported as an error event and rejected.
func (s *AgentSession[U]) createSpeech(source events.SpeechSource, userInitiated bool, options speechOptions, run func(context.Context, *SpeechHandle)) (*SpeechHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		err := fmt.Errorf("cannot create speech: %w", ErrSessionClosed)
		s.emitLocked(events.NewError(err, s))
		return nil, err
	}

	allowInterruptions := s.config.allowInterruptions
	if options.allowInterruptions != nil {
		allowInterruptions = *options.allowInterruptions
	}
	handle := newSpeechHandle(allowInterruptions)
	s.emitLocked(events.NewSpeechCreated(userInitiated, source, handle))

	req := &speechRequest{
		handle:       handle,
		source:       source,
		instructions: options.instructions,
		run:          run,
	}
	if s.active == nil {
		s.startSpeechLocked(req)
	} else {
		s.pending = append(s.pending, req)
	}
	return handle, nil
}

func (s *AgentSession[U]) startSpeechLocked(req *speechRequest) {
	runCtx, cancel := context.WithCancel(s.baseCtx)
	s.active = &activeSpeech{
		handle:       req.handle,
		source:       req.source,
		instructions: req.instructions,
		cancel:       cancel,
	}

	s.tasks.Add(1)
	go func() {
		defer s.tasks.Done()
		defer cancel()
		req.run(runCtx, req.handle)
		s.completeSpeech(req.handle)
	}()
}

// completeSpeech clears the active slot once its turn ended and starts the
// next queued turn, if any.
func (s *AgentSession[U]) completeSpeech(handle *SpeechHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil && s.active.handle == handle {
		s.active = nil
	}
	if s.agentState == events.AgentStateSpeaking || s.agentState == events.AgentStateThinking {
		if s.speechToText.configured() {
			s.updateAgentStateLocked(events.AgentStateListening)
		} else {
			s.updateAgentStateLocked(events.AgentStateIdle)
		}
	}
	if s.closing {
		s.dropPendingLocked()
		return
	}
	if s.active != nil || len(s.pending) == 0 {
		return
	}
	next := s.pending[0]
	s.pending = s.pending[1:]
	s.startSpeechLocked(next)
}

// dropPendingLocked discards the queued turns that will never run,
// releasing anyone waiting on their handles.
func (s *AgentSession[U]) dropPendingLocked() {
	for _, req := range s.pending {
		req.handle.Interrupt()
	}
	s.pending = nil
}

// recordSpoken accumulates text spoken by the active turn so an
// interruption can report what was cut off.
func (s *AgentSession[U]) recordSpoken(handle *SpeechHandle, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil && s.active.handle == handle {
		s.active.content += text
	}
}

func (s *AgentSession[U]) runSay(text string) func(context.Context, *SpeechHandle) {
	return func(ctx context.Context, handle *SpeechHandle) {
		ctx, span := tracer.Start(ctx, "voice.say")
		defer span.End()

		index, err := handle.CreateStep()
		if err != nil {
			return
		}
		if err := handle.MarkStepPlaying(index); err != nil {
			return
		}
		s.updateAgentState(events.AgentStateSpeaking)
		s.recordSpoken(handle, text)

		s.speakText(ctx, text)

		_ = handle.MarkStepDone(index)
		handle.markFinished()

		item := llms.NewAssistantMessage(text)
		item.Interrupted = handle.Interrupted()
		s.appendHistory(item)
	}
}

// speakText synthesizes a complete utterance through one synthesis stream.
// Without a synthesis provider the text is considered instantly played out.
func (s *AgentSession[U]) speakText(ctx context.Context, text string) {
	synth, err := s.textToSpeech.open(ctx)
	if err != nil {
		s.emit(events.NewError(err, s.config.tts))
		return
	}
	if synth == nil {
		return
	}

	start := time.Now()
	if err := synth.sendText(text); err != nil {
		s.emit(events.NewError(err, s.config.tts))
		synth.abort()
		return
	}
	report, err := synth.finish(ctx, synthesisGrace)
	if err != nil {
		if ctx.Err() == nil {
			s.emit(events.NewError(err, s.config.tts))
		}
		return
	}
	s.emit(events.NewMetricsCollected(metrics.TTSMetrics{
		Duration:      time.Since(start),
		Characters:    len(text),
		AudioDuration: report.AudioDuration,
	}))
}

// runGenerate drives one model-generated turn: a chain of generation
// steps, each optionally followed by a tool call batch whose outputs feed
// the next step. The chain ends on a step with no tool calls, on an
// interruption, or at the continuation limit.
func (s *AgentSession[U]) runGenerate(instructions string) func(context.Context, *SpeechHandle) {
	return func(ctx context.Context, handle *SpeechHandle) {
		ctx, span := tracer.Start(ctx, "voice.generate_reply")
		defer span.End()
		defer handle.markFinished()

		var previousCalls []llms.FunctionCall
		for toolStep := 0; ; toolStep++ {
			index, err := handle.CreateStep(previousCalls...)
			if err != nil {
				return
			}

			mayContinue := toolStep < s.config.maxToolSteps
			content, calls, outputsCh, err := s.generationStep(ctx, handle, index, instructions, mayContinue)
			if content != "" {
				item := llms.NewAssistantMessage(content)
				item.Interrupted = handle.Interrupted()
				s.appendHistory(item)
			}
			if err != nil {
				// A launched batch is still reported, with nil slots for the
				// calls that were cancelled. The channel is buffered, so the
				// batch goroutine never blocks on an abandoned send.
				if outputsCh != nil {
					s.commitToolResults(calls, <-outputsCh)
				}
				if !errors.Is(err, ErrSpeechInterrupted) && ctx.Err() == nil {
					s.emit(events.NewError(err, s.config.llm))
				}
				return
			}
			if len(calls) == 0 {
				return
			}
			if !mayContinue {
				logger.Warn("tool continuation limit reached, ending turn",
					"limit", s.config.maxToolSteps, "speech_id", handle.ID())
				return
			}

			outputs := <-outputsCh
			s.commitToolResults(calls, outputs)
			previousCalls = calls
		}
	}
}

// generationStep runs one generation cycle: stream the model output,
// synthesize text deltas as they arrive, and collect any requested
// function calls. When the turn may still continue, tools start executing
// as soon as the stream ends, while synthesized audio may still be
// playing; their outputs arrive on the returned channel. Calls collected
// past the continuation limit are never executed.
func (s *AgentSession[U]) generationStep(ctx context.Context, handle *SpeechHandle, index int, instructions string, runTools bool) (string, []llms.FunctionCall, <-chan []*llms.FunctionCallOutput, error) {
	ctx, span := tracer.Start(ctx, "voice.generation_step",
		trace.WithAttributes(attribute.Int("step.index", index)))
	defer span.End()

	s.updateAgentState(events.AgentStateThinking)

	s.mu.Lock()
	history := s.historySnapshotLocked()
	s.mu.Unlock()

	stream, err := s.generation.generateStream(ctx, instructions, history, s.config.tools)
	if err != nil {
		return "", nil, nil, fmt.Errorf("failed to start generation: %w", err)
	}

	start := time.Now()
	synthStart := time.Time{}
	var ttft time.Duration
	var content string
	var calls []llms.FunctionCall
	var synth *synthesis

	for chunk, chunkErr := range stream.Chunks(ctx) {
		if chunkErr != nil {
			if synth != nil {
				synth.abort()
			}
			return content, calls, nil, fmt.Errorf("generation stream failed: %w", chunkErr)
		}

		switch c := chunk.(type) {
		case llms.StreamContentChunk:
			delta := c.Content()
			if delta == "" {
				continue
			}
			if ttft == 0 {
				ttft = time.Since(start)
			}
			if content == "" {
				if err := handle.MarkStepPlaying(index); err != nil {
					return content, calls, nil, ErrSpeechInterrupted
				}
				s.updateAgentState(events.AgentStateSpeaking)
				if synth, err = s.textToSpeech.open(ctx); err != nil {
					s.emit(events.NewError(err, s.config.tts))
					synth = nil
				}
				synthStart = time.Now()
			}
			content += delta
			s.recordSpoken(handle, delta)
			if synth != nil {
				if err := synth.sendText(delta); err != nil {
					s.emit(events.NewError(err, s.config.tts))
					synth.abort()
					synth = nil
				}
			}
		case llms.StreamFunctionCallChunk:
			calls = append(calls, c.FunctionCall())
		}
	}

	// Tool execution overlaps with the remaining playout: run contexts are
	// bound before any continuation step exists, so a tool waiting on
	// playout observes exactly the segment that preceded it.
	var outputsCh chan []*llms.FunctionCallOutput
	if len(calls) > 0 && runTools {
		outputsCh = make(chan []*llms.FunctionCallOutput, 1)
		s.tasks.Add(1)
		go func() {
			defer s.tasks.Done()
			outputsCh <- s.executeToolBatch(ctx, handle, calls)
		}()
	}

	if synth != nil {
		report, finishErr := synth.finish(ctx, synthesisGrace)
		if finishErr != nil {
			if ctx.Err() == nil {
				s.emit(events.NewError(finishErr, s.config.tts))
			}
		} else {
			s.emit(events.NewMetricsCollected(metrics.TTSMetrics{
				Duration:      time.Since(synthStart),
				Characters:    len(content),
				AudioDuration: report.AudioDuration,
			}))
		}
	}

	if err := handle.MarkStepDone(index); err != nil {
		return content, calls, outputsCh, ErrSpeechInterrupted
	}

	s.emit(events.NewMetricsCollected(metrics.LLMMetrics{
		Duration:  time.Since(start),
		TTFT:      ttft,
		ToolCalls: len(calls),
	}))
	return content, calls, outputsCh, nil
}

// commitToolResults publishes a finished tool batch and appends the call
// and output items to history in call order.
func (s *AgentSession[U]) commitToolResults(calls []llms.FunctionCall, outputs []*llms.FunctionCallOutput) {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, err := events.NewFunctionToolsExecuted(calls, outputs)
	if err != nil {
		logger.Warn("dropping tool execution event", "error", err)
	} else {
		s.emitLocked(event)
	}
	for i, call := range calls {
		s.appendHistoryLocked(llms.NewFunctionCallItem(call))
		if outputs[i] != nil {
			s.appendHistoryLocked(llms.NewToolOutputItem(*outputs[i]))
		}
	}
}
