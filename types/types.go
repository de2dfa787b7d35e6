package types

import (
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type Mode string

const (
	ModeQA      Mode = "qa"
	ModeExtract Mode = "extract"
)

type OutputContract string

const (
	ContractFreeText   OutputContract = "free_text"
	ContractStrictJSON OutputContract = "strict_json"
)

// QueryRequest is one user-initiated insight query. DocumentText and
// Question may each be empty, but never both at once.
type QueryRequest struct {
	DocumentText string
	Question     string
	Mode         Mode
}

// PromptBundle is the composed upstream payload. It is fully determined
// by the QueryRequest and never mutated after composition.
type PromptBundle struct {
	SystemInstruction string
	UserMessage       string
	OutputContract    OutputContract
}

// InsightResult carries the upstream answer as raw text. When the
// output contract is strict JSON, Content holds the serialized payload
// verbatim.
type InsightResult struct {
	Content string
}

// HistoryEntry is one answered question, scoped to the identity that
// asked it. Entries are append-only and never mutated.
type HistoryEntry struct {
	ID        uuid.UUID
	OwnerID   string
	Question  string
	Answer    string
	CreatedAt time.Time
}

// The upstream input budget is measured in tokens while the length guard
// compares characters, so the conversion factor is an explicit constant
// rather than a magic number baked into the limit.
const (
	TokenBudget          = 100_000
	CharsPerToken        = 4
	DefaultMaxContext    = TokenBudget * CharsPerToken
	DefaultRetryAttempts = 5
)

type Config struct {
	ListenAddr string

	GeminiBaseURL string
	GeminiModel   string
	GeminiAPIKey  string

	MaxContextChars  int
	MaxRetryAttempts int

	PostgresDSN    string
	IdentityHeader string

	HistoryPollInterval time.Duration
	BodyLimit           int
}

// LoadConfig builds the runtime configuration from environment
// variables, applying defaults for everything optional. An empty
// POSTGRES_DSN switches the history store to the in-memory fallback.
func LoadConfig() Config {
	cfg := Config{
		ListenAddr:          os.Getenv("SERVER_ADDR"),
		GeminiBaseURL:       os.Getenv("GEMINI_BASE_URL"),
		GeminiModel:         os.Getenv("GEMINI_MODEL"),
		GeminiAPIKey:        os.Getenv("GEMINI_API_KEY"),
		PostgresDSN:         os.Getenv("POSTGRES_DSN"),
		IdentityHeader:      os.Getenv("IDENTITY_HEADER"),
		MaxContextChars:     DefaultMaxContext,
		MaxRetryAttempts:    DefaultRetryAttempts,
		HistoryPollInterval: 2 * time.Second,
		BodyLimit:           32 << 20,
	}

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.GeminiBaseURL == "" {
		cfg.GeminiBaseURL = "https://generativelanguage.googleapis.com"
	}
	if cfg.GeminiModel == "" {
		cfg.GeminiModel = "gemini-2.5-flash"
	}
	if cfg.IdentityHeader == "" {
		cfg.IdentityHeader = "X-User-ID"
	}
	if v, err := strconv.Atoi(os.Getenv("MAX_CONTEXT_CHARS")); err == nil && v > 0 {
		cfg.MaxContextChars = v
	}
	if v, err := strconv.Atoi(os.Getenv("MAX_RETRY_ATTEMPTS")); err == nil && v > 0 {
		cfg.MaxRetryAttempts = v
	}
	if v, err := strconv.Atoi(os.Getenv("HISTORY_POLL_SECONDS")); err == nil && v > 0 {
		cfg.HistoryPollInterval = time.Duration(v) * time.Second
	}
	if v, err := strconv.Atoi(os.Getenv("BODY_LIMIT_MB")); err == nil && v > 0 {
		cfg.BodyLimit = v << 20
	}
	return cfg
}
