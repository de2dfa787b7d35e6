package server

import (
	"context"
	"log"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/53Karthik/Summary-Q-A-Insight-Engine/app/agent"
	"github.com/53Karthik/Summary-Q-A-Insight-Engine/app/api"
	"github.com/53Karthik/Summary-Q-A-Insight-Engine/app/middleware"
	"github.com/53Karthik/Summary-Q-A-Insight-Engine/extract"
	"github.com/53Karthik/Summary-Q-A-Insight-Engine/history"
	"github.com/53Karthik/Summary-Q-A-Insight-Engine/model"
	"github.com/53Karthik/Summary-Q-A-Insight-Engine/store"
	"github.com/53Karthik/Summary-Q-A-Insight-Engine/types"
)

type Server struct {
	cfg    types.Config
	logger *slog.Logger

	historyStore store.HistoryStorer
	app          *fiber.App
}

func NewServer(cfg types.Config) *Server {
	return &Server{
		cfg:    cfg,
		logger: slog.Default(),
	}
}

func (s *Server) Stop() {
	if s.app != nil {
		if err := s.app.Shutdown(); err != nil {
			s.logger.Error("error shutting down server", "error", err)
		}
	}
	if s.historyStore != nil {
		s.historyStore.Close()
	}
	s.logger.Info("server stopped")
}

func (s *Server) Run() {
	ctx := context.Background()

	historyStore, err := s.openHistoryStore(ctx)
	if err != nil {
		log.Fatal("error to connect to Postgres database ", err)
		return
	}
	s.historyStore = historyStore

	var (
		caller    = model.NewCaller(s.cfg.MaxRetryAttempts)
		generator = model.NewGeminiClient(s.cfg.GeminiBaseURL, s.cfg.GeminiModel, s.cfg.GeminiAPIKey, caller)
		counter   = model.NewTiktokenCounter()
		composer  = agent.NewComposer(s.cfg.MaxContextChars)
		insight   = agent.NewAgent(composer, generator, historyStore, counter)
		extractor = extract.NewPDFExtractor()
		cache     = history.NewCache(historyStore, s.cfg.HistoryPollInterval)
		identity  = middleware.NewHeaderIdentity(s.cfg.IdentityHeader)

		app = fiber.New(fiber.Config{
			ErrorHandler: api.ErrorHandler,
			BodyLimit:    s.cfg.BodyLimit,
		})

		insightHandler = api.NewInsightHandler(insight, extractor, s.cfg.MaxContextChars)
		historyHandler = api.NewHistoryHandler(historyStore, cache)
		checkHandler   = api.NewCheckHandler()

		check = app.Group("/check")
		apiv1 = app.Group("/api/v1")
	)
	s.app = app

	app.Use(middleware.WithIdentity(identity))

	check.Get("/healthy", checkHandler.HandleHealthy)

	app.Post("/summarize", insightHandler.HandleSummarize)
	apiv1.Post("/documents/extract", insightHandler.HandleExtract)
	apiv1.Get("/history", historyHandler.HandleList)
	apiv1.Get("/history/suggestions", historyHandler.HandleSuggestions)
	apiv1.Get("/history/live", historyHandler.HandleLive)

	if err := app.Listen(s.cfg.ListenAddr); err != nil {
		s.logger.Error("error to start server", "error", err.Error())
		return
	}
}

// openHistoryStore prefers Postgres and falls back to process memory
// when no DSN is configured, which keeps history working in single-node
// setups without a database.
func (s *Server) openHistoryStore(ctx context.Context) (store.HistoryStorer, error) {
	if s.cfg.PostgresDSN == "" {
		s.logger.Info("no postgres dsn configured, using in-memory history store")
		return store.NewMemoryStore(), nil
	}

	pg, err := store.NewPostgresStore(ctx, s.cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}
	if err := pg.Init(ctx); err != nil {
		pg.Close()
		return nil, err
	}
	return pg, nil
}
