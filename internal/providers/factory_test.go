package providers

import (
	"strings"
	"testing"

	"github.com/Sma1lboy/ArcticAI/internal/config"
)

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New(config.Provider{Name: "openai"}); err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestNewRejectsUnknownProvider(t *testing.T) {
	_, err := New(config.Provider{Name: "gemini", APIKey: "key"})
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
	if !strings.Contains(err.Error(), "gemini") {
		t.Errorf("error %q should name the provider", err)
	}
}

func TestNewDefaultsModel(t *testing.T) {
	llm, err := New(config.Provider{Name: "openai", APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	oc, ok := llm.(*OpenAIClient)
	if !ok {
		t.Fatalf("client type = %T, want *OpenAIClient", llm)
	}
	if oc.model != "gpt-4o-mini" {
		t.Errorf("model = %q, want default gpt-4o-mini", oc.model)
	}

	llm, err = New(config.Provider{Name: "anthropic", APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ac, ok := llm.(*AnthropicClient)
	if !ok {
		t.Fatalf("client type = %T, want *AnthropicClient", llm)
	}
	if ac.model != "claude-3-5-sonnet-latest" {
		t.Errorf("model = %q, want default claude-3-5-sonnet-latest", ac.model)
	}
}

func TestNewKeepsConfiguredModel(t *testing.T) {
	llm, err := New(config.Provider{Name: "openai", APIKey: "sk-test", Model: "gpt-4o"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if oc := llm.(*OpenAIClient); oc.model != "gpt-4o" {
		t.Errorf("model = %q, want configured gpt-4o", oc.model)
	}
}
