// Package agent orchestrates the insight query pipeline: compose the
// prompt, call the model through the resilient client, validate the
// reply shape, and record history as a side effect.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/53Karthik/Summary-Q-A-Insight-Engine/model"
	"github.com/53Karthik/Summary-Q-A-Insight-Engine/store"
	"github.com/53Karthik/Summary-Q-A-Insight-Engine/types"
)

const historyAppendTimeout = 10 * time.Second

type Agent struct {
	composer  *Composer
	generator model.Generator
	history   store.HistoryStorer
	counter   model.TokenCounter
	logger    *slog.Logger
}

// NewAgent wires the pipeline. history and counter may be nil: no store
// disables the side effect, no counter disables token diagnostics.
func NewAgent(composer *Composer, generator model.Generator, history store.HistoryStorer, counter model.TokenCounter) *Agent {
	return &Agent{
		composer:  composer,
		generator: generator,
		history:   history,
		counter:   counter,
		logger:    slog.Default(),
	}
}

// Query runs one insight request end to end. ownerID may be empty, which
// only disables the history side effect. The call performs no retries of
// its own; the request client already spent its budget.
func (a *Agent) Query(ctx context.Context, req types.QueryRequest, ownerID string) (types.InsightResult, error) {
	if req.DocumentText == "" && req.Question == "" {
		return types.InsightResult{}, NewValidationError("provide a document, a question, or both")
	}

	bundle, err := a.composer.Compose(req)
	if err != nil {
		return types.InsightResult{}, err
	}

	a.logPromptSize(bundle)

	start := time.Now()
	content, err := a.generator.Generate(ctx, bundle)
	if err != nil {
		if errors.Is(err, model.ErrEmptyResponse) {
			return types.InsightResult{}, &InsightError{Kind: EmptyUpstreamResponse, Detail: err}
		}
		return types.InsightResult{}, &InsightError{Kind: UpstreamFailure, Detail: err}
	}
	a.logger.Info("llm.request",
		"mode", string(req.Mode),
		"contract", string(bundle.OutputContract),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if bundle.OutputContract == types.ContractStrictJSON {
		a.checkContract(content)
	}

	a.recordHistory(ctx, ownerID, req.Question, content)

	return types.InsightResult{Content: content}, nil
}

// checkContract verifies the strict-JSON reply advisorily: a violation
// is logged, the content still goes back to the caller verbatim.
func (a *Agent) checkContract(content string) {
	if !json.Valid([]byte(content)) {
		a.logger.Warn("llm.contract_violation", "reason", "reply is not valid JSON")
		return
	}
	if err := model.ValidateJSONAgainstSchema(model.InsightReportSchema(), []byte(content)); err != nil {
		a.logger.Warn("llm.contract_violation", "reason", err.Error())
	}
}

// recordHistory appends the answered question fire-and-forget. A failed
// append never fails the query; it is logged and dropped. The append
// outlives request cancellation up to its own timeout.
func (a *Agent) recordHistory(ctx context.Context, ownerID, question, answer string) {
	if a.history == nil || ownerID == "" {
		return
	}

	entry := types.HistoryEntry{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Question:  question,
		Answer:    answer,
		CreatedAt: time.Now().UTC(),
	}

	go func() {
		appendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), historyAppendTimeout)
		defer cancel()
		if err := a.history.AppendEntry(appendCtx, entry); err != nil {
			a.logger.Warn("history.append_failed", "owner", ownerID, "error", err)
		}
	}()
}

func (a *Agent) logPromptSize(bundle types.PromptBundle) {
	if a.counter == nil {
		return
	}
	tokens, err := a.counter.Count(bundle.SystemInstruction + bundle.UserMessage)
	if err != nil {
		return
	}
	a.logger.Info("llm.prompt_size",
		"tokens", tokens,
		"chars", len(bundle.SystemInstruction)+len(bundle.UserMessage),
	)
}
