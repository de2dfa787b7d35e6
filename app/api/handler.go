package api

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/53Karthik/Summary-Q-A-Insight-Engine/app/agent"
	"github.com/53Karthik/Summary-Q-A-Insight-Engine/app/middleware"
	"github.com/53Karthik/Summary-Q-A-Insight-Engine/extract"
	"github.com/53Karthik/Summary-Q-A-Insight-Engine/types"
)

type InsightHandler struct {
	agent           *agent.Agent
	extractor       extract.TextExtractor
	maxContextChars int
}

func NewInsightHandler(insightAgent *agent.Agent, extractor extract.TextExtractor, maxContextChars int) *InsightHandler {
	if maxContextChars <= 0 {
		maxContextChars = types.DefaultMaxContext
	}
	return &InsightHandler{
		agent:           insightAgent,
		extractor:       extractor,
		maxContextChars: maxContextChars,
	}
}

// HandleSummarize runs one insight query. The length guard fires here,
// before any upstream call is attempted.
func (h *InsightHandler) HandleSummarize(c *fiber.Ctx) error {
	var params types.SummarizeParams
	if c.BodyParser(&params) != nil {
		return ErrBadRequest()
	}

	if errors := types.Validate(&params); len(errors) > 0 {
		return NewValidationError(errors)
	}

	if len(params.DocumentText) > h.maxContextChars {
		return ErrDocumentTooLarge(len(params.DocumentText), h.maxContextChars)
	}

	req := types.QueryRequest{
		DocumentText: params.DocumentText,
		Question:     params.Question,
		Mode:         params.QueryMode(),
	}

	result, err := h.agent.Query(c.Context(), req, middleware.OwnerID(c))
	if err != nil {
		return err
	}

	return c.JSON(types.SummarizeResponse{Summary: result.Content})
}

// HandleExtract accepts a multipart PDF upload and returns its linear
// text with page markers, ready to paste into a summarize request.
func (h *InsightHandler) HandleExtract(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return ErrBadRequest()
	}

	f, err := file.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return err
	}

	result, err := h.extractor.Extract(c.Context(), data)
	if err != nil {
		return err
	}

	return c.JSON(types.ExtractResponse{
		DocumentText: result.Text,
		Pages:        result.Pages,
	})
}
