package model

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/53Karthik/Summary-Q-A-Insight-Engine/types"
)

// GeminiClient talks to the generative-language generateContent endpoint
// through the resilient Caller. One instance is safe for concurrent use.
type GeminiClient struct {
	caller *Caller
	url    string
	logger *slog.Logger
}

// NewGeminiClient resolves the full endpoint URL up front; the API key
// travels as a query parameter the way the official API expects.
func NewGeminiClient(baseURL, model, apiKey string, caller *Caller) *GeminiClient {
	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent",
		strings.TrimRight(baseURL, "/"), url.PathEscape(model))
	if apiKey != "" {
		endpoint += "?key=" + url.QueryEscape(apiKey)
	}
	return &GeminiClient{
		caller: caller,
		url:    endpoint,
		logger: slog.Default(),
	}
}

type gmPart struct {
	Text string `json:"text"`
}

type gmContent struct {
	Role  string   `json:"role,omitempty"`
	Parts []gmPart `json:"parts"`
}

type gmGenerationConfig struct {
	ResponseMIMEType string         `json:"responseMimeType,omitempty"`
	ResponseSchema   map[string]any `json:"responseSchema,omitempty"`
}

type gmRequest struct {
	SystemInstruction *gmContent          `json:"systemInstruction,omitempty"`
	Contents          []gmContent         `json:"contents"`
	GenerationConfig  *gmGenerationConfig `json:"generationConfig,omitempty"`
}

type gmResponse struct {
	Candidates []struct {
		Content struct {
			Parts []gmPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate sends the bundle upstream and returns the first candidate's
// text. A strict-JSON contract is enforced server-side via the response
// MIME type and schema directive; the reply is additionally run through
// a brace-window recovery so a stray markdown fence does not leak into
// the payload.
func (g *GeminiClient) Generate(ctx context.Context, bundle types.PromptBundle) (string, error) {
	req := gmRequest{
		Contents: []gmContent{{Role: "user", Parts: []gmPart{{Text: bundle.UserMessage}}}},
	}
	if bundle.SystemInstruction != "" {
		req.SystemInstruction = &gmContent{Parts: []gmPart{{Text: bundle.SystemInstruction}}}
	}
	if bundle.OutputContract == types.ContractStrictJSON {
		req.GenerationConfig = &gmGenerationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   InsightReportSchema(),
		}
	}

	body, err := json.Marshal(&req)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	start := time.Now()
	resp, err := g.caller.PostJSON(ctx, g.url, body, nil)
	if err != nil {
		return "", err
	}
	g.logger.Info("llm.response",
		"status", resp.StatusCode,
		"bytes", len(resp.Body),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	var gr gmResponse
	if err := json.Unmarshal(resp.Body, &gr); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(gr.Candidates) == 0 {
		return "", ErrEmptyResponse
	}

	var b strings.Builder
	for _, p := range gr.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	text := b.String()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}

	if bundle.OutputContract == types.ContractStrictJSON {
		if recovered, err := ExtractJSON(text); err == nil {
			return recovered, nil
		}
	}
	return text, nil
}
