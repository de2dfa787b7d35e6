package model

import (
	"context"
	"errors"

	"github.com/53Karthik/Summary-Q-A-Insight-Engine/types"
)

// Generator produces a model reply for a composed prompt bundle.
type Generator interface {
	Generate(ctx context.Context, bundle types.PromptBundle) (string, error)
}

// ErrEmptyResponse means the upstream call succeeded but carried no
// candidate text to surface.
var ErrEmptyResponse = errors.New("empty upstream response")
