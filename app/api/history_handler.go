package api

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/53Karthik/Summary-Q-A-Insight-Engine/app/middleware"
	"github.com/53Karthik/Summary-Q-A-Insight-Engine/history"
	"github.com/53Karthik/Summary-Q-A-Insight-Engine/store"
	"github.com/53Karthik/Summary-Q-A-Insight-Engine/types"
)

const historyPageSize = 50

type HistoryHandler struct {
	store store.HistoryStorer
	cache *history.Cache
}

func NewHistoryHandler(storer store.HistoryStorer, cache *history.Cache) *HistoryHandler {
	return &HistoryHandler{
		store: storer,
		cache: cache,
	}
}

// HandleList returns the caller's history, newest first.
func (h *HistoryHandler) HandleList(c *fiber.Ctx) error {
	owner := middleware.OwnerID(c)
	if owner == "" {
		return ErrUnAuthorized("history requires an identity")
	}

	entries, err := h.store.ListByOwner(c.Context(), owner, historyPageSize)
	if err != nil {
		return err
	}

	items := make([]types.HistoryItem, len(entries))
	for i, e := range entries {
		items[i] = types.NewHistoryItem(e)
	}
	return c.JSON(items)
}

// HandleSuggestions returns the distinct past questions used to drive
// input completion.
func (h *HistoryHandler) HandleSuggestions(c *fiber.Ctx) error {
	owner := middleware.OwnerID(c)
	if owner == "" {
		return ErrUnAuthorized("history requires an identity")
	}

	suggestions := h.cache.Suggestions(c.Context(), owner)
	if suggestions == nil {
		suggestions = []string{}
	}
	return c.JSON(types.SuggestionsResponse{Suggestions: suggestions})
}

// HandleLive streams history snapshots as server-sent events, one data
// event per snapshot. Client disconnect cancels the observation and
// releases the poll goroutine.
func (h *HistoryHandler) HandleLive(c *fiber.Ctx) error {
	owner := middleware.OwnerID(c)
	if owner == "" {
		return ErrUnAuthorized("history requires an identity")
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	ctx, cancel := context.WithCancel(context.Background())
	snapshots := h.cache.Observe(ctx, owner)

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		for entries := range snapshots {
			items := make([]types.HistoryItem, len(entries))
			for i, e := range entries {
				items[i] = types.NewHistoryItem(e)
			}
			payload, err := json.Marshal(items)
			if err != nil {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			// Flush failing means the client went away.
			if err := w.Flush(); err != nil {
				return
			}
		}
	}))
	return nil
}
