package docparse

import (
	"context"
	"fmt"
	"os"

	pdfparser "github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoParser "github.com/cloudwego/eino/components/document/parser"
	"github.com/rs/zerolog"
)

// SimpleExtractor is the non-layout extraction mode: it returns the PDF text
// layer as one flat string without line/block reconstruction. Useful when a
// document defeats the layout heuristics.
type SimpleExtractor struct {
	parser *pdfparser.PDFParser
	logger zerolog.Logger
}

// SimpleOption configures a SimpleExtractor.
type SimpleOption func(*SimpleExtractor)

// WithSimpleLogger sets the extractor logger.
func WithSimpleLogger(l zerolog.Logger) SimpleOption {
	return func(e *SimpleExtractor) {
		e.logger = l
	}
}

// NewSimpleExtractor builds the flat-text extractor. The underlying parser
// is configured to return the whole document as a single string.
func NewSimpleExtractor(ctx context.Context, options ...SimpleOption) (*SimpleExtractor, error) {
	p, err := pdfparser.NewPDFParser(ctx, &pdfparser.Config{
		ToPages: false,
	})
	if err != nil {
		return nil, fmt.Errorf("create pdf parser: %w", err)
	}
	e := &SimpleExtractor{
		parser: p,
		logger: zerolog.Nop(),
	}
	for _, option := range options {
		option(e)
	}
	return e, nil
}

// ExtractText returns the flat text of the PDF at path. Error contract
// matches LayoutExtractor.ExtractFromFile.
func (e *SimpleExtractor) ExtractText(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return "", &ExtractionError{Path: path, Err: err}
	}
	defer f.Close()

	docs, err := e.parser.Parse(ctx, f, einoParser.WithURI(path))
	if err != nil {
		return "", &ExtractionError{Path: path, Err: err}
	}

	var text string
	for _, doc := range docs {
		text += doc.Content
	}
	e.logger.Debug().Str("path", path).Int("chars", len(text)).Msg("pdf flat extraction finished")
	return text, nil
}
