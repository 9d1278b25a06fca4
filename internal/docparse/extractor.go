package docparse

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"
)

var (
	// ErrFileNotFound is returned when the input path does not exist.
	ErrFileNotFound = errors.New("pdf file not found")
	// ErrTooManyPages is returned when a document exceeds the configured
	// page bound before any page is parsed.
	ErrTooManyPages = errors.New("pdf has too many pages")
)

// ExtractionError wraps an underlying parser failure for a given file.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract text from %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Vertical tolerances, in PDF points. Runs whose baselines are within
// lineYTolerance belong to the same visual line; a gap between consecutive
// lines larger than blockGapFactor times the current font size closes the
// current block.
const (
	lineYTolerance = 2.0
	blockGapFactor = 1.8
	defaultFontPts = 12.0
)

// LayoutExtractor reconstructs reading-order text from a PDF, preserving
// line and paragraph structure. It is safe for concurrent use.
type LayoutExtractor struct {
	maxPages int
	timeout  time.Duration
	logger   zerolog.Logger
}

// LayoutOption configures a LayoutExtractor.
type LayoutOption func(*LayoutExtractor)

// WithMaxPages bounds how many pages a document may have before extraction
// is refused.
func WithMaxPages(n int) LayoutOption {
	return func(e *LayoutExtractor) {
		e.maxPages = n
	}
}

// WithExtractTimeout caps the wall-clock time for one extraction.
func WithExtractTimeout(d time.Duration) LayoutOption {
	return func(e *LayoutExtractor) {
		e.timeout = d
	}
}

// WithLayoutLogger sets the extractor logger.
func WithLayoutLogger(l zerolog.Logger) LayoutOption {
	return func(e *LayoutExtractor) {
		e.logger = l
	}
}

// NewLayoutExtractor creates a layout-preserving extractor with sane bounds.
func NewLayoutExtractor(options ...LayoutOption) *LayoutExtractor {
	e := &LayoutExtractor{
		maxPages: 200,
		timeout:  30 * time.Second,
		logger:   zerolog.Nop(),
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// ExtractFromFile opens the PDF at path and returns its reconstructed text.
// It never panics across this boundary: malformed documents yield an
// *ExtractionError, missing files ErrFileNotFound. A zero-page document
// yields an ExtractedDocument with empty FullText; callers must treat text
// shorter than constants.MinExtractableTextLen as a failed extraction.
func (e *LayoutExtractor) ExtractFromFile(ctx context.Context, path string) (doc *ExtractedDocument, err error) {
	if _, statErr := os.Stat(path); statErr != nil {
		if os.IsNotExist(statErr) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, &ExtractionError{Path: path, Err: statErr}
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	// The underlying parser panics on some malformed cross-reference tables;
	// convert that to a typed error instead of crossing the boundary.
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = &ExtractionError{Path: path, Err: fmt.Errorf("parser panic: %v", r)}
		}
	}()

	start := time.Now()
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Err: err}
	}
	defer f.Close()

	numPages := reader.NumPage()
	if e.maxPages > 0 && numPages > e.maxPages {
		return nil, fmt.Errorf("%w: %d pages (limit %d)", ErrTooManyPages, numPages, e.maxPages)
	}

	doc = &ExtractedDocument{}
	for i := 1; i <= numPages; i++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &ExtractionError{Path: path, Err: ctxErr}
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			doc.Pages = append(doc.Pages, PageText{})
			continue
		}
		doc.Pages = append(doc.Pages, buildPageText(page.Content().Text))
	}

	doc.FullText = renderFullText(doc.Pages)
	e.logger.Debug().
		Str("path", path).
		Int("pages", numPages).
		Int("chars", len(doc.FullText)).
		Dur("took", time.Since(start)).
		Msg("pdf layout extraction finished")

	if len(doc.FullText) < 10 {
		e.logger.Warn().
			Str("path", path).
			Int("chars", len(doc.FullText)).
			Msg("very little text extracted from pdf")
	}
	return doc, nil
}

// renderFullText flattens pages into the canonical reconstruction: spans
// joined by single spaces, one line break per line, a blank line between
// blocks, pages in order.
func renderFullText(pages []PageText) string {
	var full strings.Builder
	for _, page := range pages {
		for _, block := range page.Blocks {
			for _, line := range block.Lines {
				full.WriteString(strings.Join(line.Spans, " "))
				full.WriteByte('\n')
			}
			// Blank line between blocks marks paragraph/column boundaries.
			full.WriteByte('\n')
		}
	}
	return full.String()
}

// buildPageText groups positioned text runs into lines by baseline proximity
// and lines into blocks by vertical gaps. Run order as emitted by the text
// layer approximates visual reading order, which is sufficient here; no
// multi-column re-ordering is attempted.
func buildPageText(runs []pdf.Text) PageText {
	var page PageText
	if len(runs) == 0 {
		return page
	}

	var (
		block    Block
		line     Line
		lineY    = runs[0].Y
		fontSize = runs[0].FontSize
	)
	if fontSize <= 0 {
		fontSize = defaultFontPts
	}

	flushLine := func() {
		if len(line.Spans) > 0 {
			block.Lines = append(block.Lines, line)
			line = Line{}
		}
	}
	flushBlock := func() {
		flushLine()
		if len(block.Lines) > 0 {
			page.Blocks = append(page.Blocks, block)
			block = Block{}
		}
	}

	for _, run := range runs {
		if run.S == "" {
			continue
		}
		dy := math.Abs(run.Y - lineY)
		switch {
		case dy <= lineYTolerance:
			// Same visual line.
		case dy > blockGapFactor*fontSize:
			flushBlock()
			lineY = run.Y
		default:
			flushLine()
			lineY = run.Y
		}
		line.Spans = append(line.Spans, run.S)
		if run.FontSize > 0 {
			fontSize = run.FontSize
		}
	}
	flushBlock()
	return page
}
