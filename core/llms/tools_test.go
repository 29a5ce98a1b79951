package llms

import (
	"context"
	"strings"
	"testing"
)

func TestNewToolReflectsParameterSchema(t *testing.T) {
	tool := NewTool("weather", "Looks up the weather.",
		func(_ context.Context, parameters struct {
			City string `json:"city" jsonschema:"description=City to look up"`
			Days int    `json:"days,omitempty"`
		}) (string, error) {
			return "", nil
		})

	if tool.Name != "weather" || tool.Description != "Looks up the weather." {
		t.Fatalf("expected name and description kept, got %q %q", tool.Name, tool.Description)
	}
	if tool.Parameters == nil {
		t.Fatalf("expected a reflected parameter schema")
	}
	if _, ok := tool.Parameters.Properties.Get("city"); !ok {
		t.Fatalf("expected city property in schema")
	}
	if _, ok := tool.Parameters.Properties.Get("days"); !ok {
		t.Fatalf("expected days property in schema")
	}
}

func TestToolExecuteUnmarshalsArguments(t *testing.T) {
	tool := NewTool("echo", "Echoes its input.",
		func(_ context.Context, parameters struct {
			Text string `json:"text"`
		}) (string, error) {
			return parameters.Text, nil
		})

	got, err := tool.Execute(context.Background(), `{"text":"hello"}`)
	if err != nil {
		t.Fatalf("expected execution to succeed, got %v", err)
	}
	if got != "hello" {
		t.Fatalf("expected arguments forwarded to the handler, got %q", got)
	}
}

func TestToolExecuteEmptyArgumentsUseZeroValue(t *testing.T) {
	tool := NewTool("ping", "Answers pong.",
		func(context.Context, struct{}) (string, error) {
			return "pong", nil
		})

	got, err := tool.Execute(context.Background(), "")
	if err != nil {
		t.Fatalf("expected empty arguments accepted, got %v", err)
	}
	if got != "pong" {
		t.Fatalf("expected handler result, got %q", got)
	}
}

func TestToolExecuteRejectsMalformedArguments(t *testing.T) {
	tool := NewTool("echo", "Echoes its input.",
		func(_ context.Context, parameters struct {
			Text string `json:"text"`
		}) (string, error) {
			return parameters.Text, nil
		})

	if _, err := tool.Execute(context.Background(), `{"text":`); err == nil {
		t.Fatalf("expected malformed arguments to be rejected")
	} else if !strings.Contains(err.Error(), "echo") {
		t.Fatalf("expected error to name the tool, got %v", err)
	}
}

func TestToolWithoutHandlerFailsExecution(t *testing.T) {
	tool := Tool{Name: "bare"}
	if _, err := tool.Execute(context.Background(), "{}"); err == nil {
		t.Fatalf("expected execution without handler to fail")
	}
}
