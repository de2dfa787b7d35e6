package types

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

type Validater interface {
	Validate() map[string]string
}

func Validate(v Validater) map[string]string {
	return v.Validate()
}

// SummarizeParams is the POST /summarize request body. responseFormat
// selects the output contract: "text" (default) for free-form answers,
// "json" for strict structured extraction.
type SummarizeParams struct {
	DocumentText   string `json:"documentText"`
	Question       string `json:"question"`
	ResponseFormat string `json:"responseFormat" validate:"omitempty,oneof=text json"`
}

func (params *SummarizeParams) Validate() map[string]string {
	validate := validator.New()
	if err := validate.Struct(params); err != nil {
		errs := err.(validator.ValidationErrors)
		errors := make(map[string]string)
		for _, e := range errs {
			errors[e.Field()] = fmt.Sprintf("failed on '%s' tag", e.Tag())
		}
		return errors
	}
	return nil
}

// QueryMode maps the wire-level responseFormat onto the insight mode.
func (params *SummarizeParams) QueryMode() Mode {
	if params.ResponseFormat == "json" {
		return ModeExtract
	}
	return ModeQA
}

type SummarizeResponse struct {
	Summary string `json:"summary"`
}

type ExtractResponse struct {
	DocumentText string `json:"documentText"`
	Pages        int    `json:"pages"`
}

type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

// HistoryItem is the wire view of a HistoryEntry.
type HistoryItem struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewHistoryItem(e HistoryEntry) HistoryItem {
	return HistoryItem{
		ID:        e.ID.String(),
		Question:  e.Question,
		Answer:    e.Answer,
		CreatedAt: e.CreatedAt,
	}
}
