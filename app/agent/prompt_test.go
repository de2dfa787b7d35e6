package agent

import (
	"errors"
	"strings"
	"testing"

	"github.com/53Karthik/Summary-Q-A-Insight-Engine/types"
)

func TestComposer_ModeTable(t *testing.T) {
	c := NewComposer(0)

	tests := []struct {
		name         string
		req          types.QueryRequest
		wantContract types.OutputContract
		wantSystem   string
	}{
		{
			name:         "extract with document",
			req:          types.QueryRequest{DocumentText: "Revenue grew 10%.", Mode: types.ModeExtract},
			wantContract: types.ContractStrictJSON,
			wantSystem:   "extraction engine",
		},
		{
			name:         "extract without document",
			req:          types.QueryRequest{Question: "metrics", Mode: types.ModeExtract},
			wantContract: types.ContractStrictJSON,
			wantSystem:   "extraction engine",
		},
		{
			name:         "qa with document",
			req:          types.QueryRequest{DocumentText: "doc body", Question: "what?", Mode: types.ModeQA},
			wantContract: types.ContractFreeText,
			wantSystem:   "document analysis assistant",
		},
		{
			name:         "qa without document",
			req:          types.QueryRequest{Question: "What is 2+2?", Mode: types.ModeQA},
			wantContract: types.ContractFreeText,
			wantSystem:   "helpful assistant",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bundle, err := c.Compose(tt.req)
			if err != nil {
				t.Fatalf("compose failed: %v", err)
			}
			if bundle.OutputContract != tt.wantContract {
				t.Errorf("contract = %s, want %s", bundle.OutputContract, tt.wantContract)
			}
			if !strings.Contains(bundle.SystemInstruction, tt.wantSystem) {
				t.Errorf("system instruction %q does not contain %q", bundle.SystemInstruction, tt.wantSystem)
			}
		})
	}
}

func TestComposer_Pure(t *testing.T) {
	c := NewComposer(0)
	req := types.QueryRequest{DocumentText: "doc", Question: "q", Mode: types.ModeQA}

	first, err := c.Compose(req)
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.Compose(req)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("identical requests composed different bundles:\n%+v\n%+v", first, second)
	}
}

func TestComposer_QuestionOnlyOmitsDocumentBlock(t *testing.T) {
	c := NewComposer(0)
	bundle, err := c.Compose(types.QueryRequest{Question: "What is 2+2?", Mode: types.ModeQA})
	if err != nil {
		t.Fatal(err)
	}
	if bundle.UserMessage != "USER QUESTION: What is 2+2?" {
		t.Errorf("unexpected user message: %q", bundle.UserMessage)
	}
	if strings.Contains(bundle.UserMessage, docStartMarker) {
		t.Error("document delimiter leaked into a question-only message")
	}
}

func TestComposer_DocumentDelimiters(t *testing.T) {
	c := NewComposer(0)
	bundle, err := c.Compose(types.QueryRequest{
		DocumentText: "Revenue grew 10%.",
		Question:     "how much?",
		Mode:         types.ModeQA,
	})
	if err != nil {
		t.Fatal(err)
	}

	msg := bundle.UserMessage
	start := strings.Index(msg, docStartMarker)
	end := strings.Index(msg, docEndMarker)
	if start == -1 || end == -1 || end < start {
		t.Fatalf("document markers missing or reversed: %q", msg)
	}
	if !strings.Contains(msg[start:end], "Revenue grew 10%.") {
		t.Error("document text not between markers")
	}
	if !strings.Contains(msg[end:], "USER QUESTION: how much?") {
		t.Error("question must follow the document block")
	}
}

func TestComposer_ExtractQuestionBecomesFocusArea(t *testing.T) {
	c := NewComposer(0)
	bundle, err := c.Compose(types.QueryRequest{
		DocumentText: "doc",
		Question:     "revenue",
		Mode:         types.ModeExtract,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(bundle.UserMessage, "FOCUS AREA: revenue") {
		t.Errorf("extract question not rendered as focus area: %q", bundle.UserMessage)
	}
	if strings.Contains(bundle.UserMessage, "USER QUESTION") {
		t.Error("extract mode must not render a user question line")
	}
}

func TestComposer_LengthGuard(t *testing.T) {
	c := NewComposer(100)

	_, err := c.Compose(types.QueryRequest{
		DocumentText: strings.Repeat("a", 101),
		Mode:         types.ModeQA,
	})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	if _, err := c.Compose(types.QueryRequest{
		DocumentText: strings.Repeat("a", 100),
		Mode:         types.ModeQA,
	}); err != nil {
		t.Errorf("document at the limit must pass: %v", err)
	}
}

func TestComposer_DefaultLimitFromTokenBudget(t *testing.T) {
	if types.DefaultMaxContext != types.TokenBudget*types.CharsPerToken {
		t.Errorf("default limit %d is not token budget times chars per token", types.DefaultMaxContext)
	}
}
