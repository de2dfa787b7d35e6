package model

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/53Karthik/Summary-Q-A-Insight-Engine/types"
)

func candidateReply(text string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	}
}

func TestGeminiClient_Generate(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1beta/models/test-model:generateContent" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "secret" {
			t.Errorf("api key missing from query: %s", r.URL.RawQuery)
		}
		json.NewDecoder(r.Body).Decode(&captured)
		json.NewEncoder(w).Encode(candidateReply("The answer is 4."))
	}))
	defer server.Close()

	client := NewGeminiClient(server.URL, "test-model", "secret", NewCaller(1))
	text, err := client.Generate(context.Background(), types.PromptBundle{
		SystemInstruction: "You are a helpful assistant.",
		UserMessage:       "USER QUESTION: What is 2+2?",
		OutputContract:    types.ContractFreeText,
	})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if text != "The answer is 4." {
		t.Errorf("unexpected text: %q", text)
	}
	if captured["systemInstruction"] == nil {
		t.Error("system instruction not sent")
	}
	if captured["generationConfig"] != nil {
		t.Error("free-text mode must not send a generation config")
	}
}

func TestGeminiClient_StrictJSONDirective(t *testing.T) {
	payload := `{"key_metrics":["10%"],"action_items":[],"sentiment":"Positive","summary":"Revenue grew."}`
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		// Model wrapped the payload in a fence despite the directive.
		json.NewEncoder(w).Encode(candidateReply("```json\n" + payload + "\n```"))
	}))
	defer server.Close()

	client := NewGeminiClient(server.URL, "test-model", "secret", NewCaller(1))
	text, err := client.Generate(context.Background(), types.PromptBundle{
		SystemInstruction: "extract",
		UserMessage:       "doc",
		OutputContract:    types.ContractStrictJSON,
	})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if text != payload {
		t.Errorf("fence not stripped: %q", text)
	}

	gc, ok := captured["generationConfig"].(map[string]any)
	if !ok {
		t.Fatal("generation config not sent for strict JSON")
	}
	if gc["responseMimeType"] != "application/json" {
		t.Errorf("unexpected response MIME type: %v", gc["responseMimeType"])
	}
	if gc["responseSchema"] == nil {
		t.Error("response schema directive missing")
	}
}

func TestGeminiClient_EmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer server.Close()

	client := NewGeminiClient(server.URL, "test-model", "secret", NewCaller(1))
	_, err := client.Generate(context.Background(), types.PromptBundle{UserMessage: "hi"})
	if !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestGeminiClient_JoinsCandidateParts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{
					{"text": "part one "},
					{"text": "part two"},
				}}},
			},
		})
	}))
	defer server.Close()

	client := NewGeminiClient(server.URL, "test-model", "", NewCaller(1))
	text, err := client.Generate(context.Background(), types.PromptBundle{UserMessage: "hi"})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if text != "part one part two" {
		t.Errorf("parts not joined: %q", text)
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"verbatim object", `{"a":1}`, `{"a":1}`, false},
		{"fenced object", "```json\n{\"a\":1}\n```", `{"a":1}`, false},
		{"prose wrapper", `Here you go: {"a":1} hope that helps`, `{"a":1}`, false},
		{"no braces", "plain text", "plain text", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateJSONAgainstSchema(t *testing.T) {
	schema := InsightReportSchema()

	good := []byte(`{"key_metrics":["10%"],"action_items":[],"sentiment":"Positive","summary":"ok"}`)
	if err := ValidateJSONAgainstSchema(schema, good); err != nil {
		t.Errorf("valid report rejected: %v", err)
	}

	bad := []byte(`{"key_metrics":["10%"],"sentiment":"Sideways","summary":"ok"}`)
	if err := ValidateJSONAgainstSchema(schema, bad); err == nil {
		t.Error("report missing required fields with bad enum passed validation")
	}
}
