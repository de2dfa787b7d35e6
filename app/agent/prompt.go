package agent

import (
	"strings"

	"github.com/53Karthik/Summary-Q-A-Insight-Engine/types"
)

const (
	docStartMarker = "--- DOCUMENT START ---"
	docEndMarker   = "--- DOCUMENT END ---"
)

// Composer turns a QueryRequest into the upstream prompt bundle. It is a
// pure function of the request: same input, same bundle.
type Composer struct {
	maxContextChars int
}

func NewComposer(maxContextChars int) *Composer {
	if maxContextChars <= 0 {
		maxContextChars = types.DefaultMaxContext
	}
	return &Composer{maxContextChars: maxContextChars}
}

// Compose enforces the input-length guard, then selects the system
// instruction and output contract from the mode and document presence.
// Oversized documents are rejected outright, never truncated or chunked.
func (c *Composer) Compose(req types.QueryRequest) (types.PromptBundle, error) {
	if len(req.DocumentText) > c.maxContextChars {
		return types.PromptBundle{}, NewValidationError(
			"document is too long: %d characters exceed the %d character limit",
			len(req.DocumentText), c.maxContextChars)
	}

	hasDoc := req.DocumentText != ""

	var system string
	contract := types.ContractFreeText
	switch {
	case req.Mode == types.ModeExtract:
		system = extractionSystemPrompt()
		contract = types.ContractStrictJSON
	case hasDoc:
		system = documentQASystemPrompt()
	default:
		system = generalQASystemPrompt()
	}

	return types.PromptBundle{
		SystemInstruction: system,
		UserMessage:       c.userMessage(req, hasDoc),
		OutputContract:    contract,
	}, nil
}

func (c *Composer) userMessage(req types.QueryRequest, hasDoc bool) string {
	var b strings.Builder
	if hasDoc {
		b.WriteString(docStartMarker)
		b.WriteString("\n")
		b.WriteString(req.DocumentText)
		b.WriteString("\n")
		b.WriteString(docEndMarker)
	}
	if req.Question != "" {
		if hasDoc {
			b.WriteString("\n\n")
		}
		if req.Mode == types.ModeExtract {
			b.WriteString("FOCUS AREA: ")
		} else {
			b.WriteString("USER QUESTION: ")
		}
		b.WriteString(req.Question)
	}
	return b.String()
}

func extractionSystemPrompt() string {
	parts := []string{
		"You are a data extraction engine. Return ONLY valid JSON that matches the provided schema, with no prose wrapper, no markdown, and no text outside the JSON object.",
		"Required fields: 'key_metrics' (every numeric or date data point found in the document), 'action_items' (tasks or commitments stated in the document), 'sentiment' (exactly one of Positive, Neutral, Negative), and 'summary' (exactly two sentences).",
		"If a field has no data, use an empty array for collections and the string \"N/A\" for 'summary'.",
		"If a focus area is given, prioritize data related to it, but still fill every required field.",
	}
	return strings.Join(parts, " ")
}

func documentQASystemPrompt() string {
	parts := []string{
		"You are a document analysis assistant.",
		"Answer strictly from the supplied document content between the document markers; do not bring in outside knowledge.",
		"If the document does not contain the answer, say so plainly.",
		"Format the answer as rich markdown text.",
	}
	return strings.Join(parts, " ")
}

func generalQASystemPrompt() string {
	parts := []string{
		"You are a helpful assistant.",
		"Answer the question from general knowledge, clearly and to the point.",
		"Format the answer as rich markdown text.",
	}
	return strings.Join(parts, " ")
}
