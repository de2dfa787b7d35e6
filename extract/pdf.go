// Package extract converts paginated binary documents into linear text
// suitable for language-model consumption.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	ledongthuc "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

const scannedHint = "the document has no extractable text layer; it may consist of scanned images"

// Error describes a document that could not be turned into text. Hint is
// safe to show to the user who uploaded the file.
type Error struct {
	Hint string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extraction failed: %s: %v", e.Hint, e.Err)
	}
	return "extraction failed: " + e.Hint
}

func (e *Error) Unwrap() error { return e.Err }

// Result is the linearized document: per-page text glued together in
// page order with boundary markers.
type Result struct {
	Text  string
	Pages int
}

type TextExtractor interface {
	Extract(ctx context.Context, data []byte) (Result, error)
}

// PDFExtractor reads page-oriented PDF text. Layout is not reconstructed:
// per-page text items are collapsed to single-space-separated words, which
// is lossy by design and adequate for prompting, not for reproduction.
type PDFExtractor struct {
	logger *slog.Logger
}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{logger: slog.Default()}
}

// Extract walks pages 1..N in ascending order and emits one
// "--- Page {i} ---" block per page, keeping the marker even when a page
// yields no text so the page structure stays visible downstream.
func (e *PDFExtractor) Extract(ctx context.Context, data []byte) (Result, error) {
	if len(data) == 0 {
		return Result{}, &Error{Hint: "the uploaded file is empty"}
	}

	conf := api.LoadConfiguration()
	if err := api.Validate(bytes.NewReader(data), conf); err != nil {
		return Result{}, &Error{Hint: "the document could not be parsed", Err: err}
	}

	reader, err := ledongthuc.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Result{}, &Error{Hint: "the document could not be parsed", Err: err}
	}

	total := reader.NumPage()
	if total == 0 {
		return Result{}, &Error{Hint: scannedHint}
	}

	var sb strings.Builder
	// Cache fonts across pages so the charmap is not re-parsed per page.
	fonts := make(map[string]*ledongthuc.Font)
	empty := true

	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		text, err := pageText(reader, i, fonts)
		if err != nil {
			return Result{}, &Error{Hint: fmt.Sprintf("page %d could not be decoded", i), Err: err}
		}
		if text != "" {
			empty = false
		}
		fmt.Fprintf(&sb, "--- Page %d ---\n", i)
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	if empty {
		return Result{}, &Error{Hint: scannedHint}
	}

	e.logger.Info("extract.done", "pages", total, "chars", sb.Len())
	return Result{Text: sb.String(), Pages: total}, nil
}

// pageText decodes one page. The pdf content parser panics on malformed
// objects, so the panic is converted into an error here instead of taking
// the whole request down.
func pageText(r *ledongthuc.Reader, num int, fonts map[string]*ledongthuc.Font) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("decode page %d: %v", num, rec)
		}
	}()

	p := r.Page(num)
	if p.V.IsNull() {
		return "", nil
	}
	for _, name := range p.Fonts() {
		if _, ok := fonts[name]; !ok {
			f := p.Font(name)
			fonts[name] = &f
		}
	}
	raw, err := p.GetPlainText(fonts)
	if err != nil {
		return "", err
	}
	return strings.Join(strings.Fields(raw), " "), nil
}
