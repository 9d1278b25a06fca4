package docparse

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFromFileNotFound(t *testing.T) {
	extractor := NewLayoutExtractor()
	doc, err := extractor.ExtractFromFile(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)
	assert.Nil(t, doc)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestExtractFromFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 this is not a real pdf"), 0o600))

	extractor := NewLayoutExtractor()
	doc, err := extractor.ExtractFromFile(context.Background(), path)
	require.Error(t, err)
	assert.Nil(t, doc)

	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, path, extractionErr.Path)
	assert.NotErrorIs(t, err, ErrFileNotFound)
}

func TestBuildPageTextGroupsLinesAndBlocks(t *testing.T) {
	// Two runs on the same baseline, then a large vertical gap opening a new
	// block, then a moderate gap opening a new line inside it.
	runs := []pdf.Text{
		{S: "John", Y: 700, FontSize: 12},
		{S: "Smith", Y: 700.5, FontSize: 12},
		{S: "Skills", Y: 650, FontSize: 12},
		{S: "Go,", Y: 648.5, FontSize: 12},
		{S: "SQL", Y: 636, FontSize: 12},
	}

	page := buildPageText(runs)
	require.Len(t, page.Blocks, 2)

	require.Len(t, page.Blocks[0].Lines, 1)
	assert.Equal(t, []string{"John", "Smith"}, page.Blocks[0].Lines[0].Spans)

	require.Len(t, page.Blocks[1].Lines, 2)
	assert.Equal(t, []string{"Skills", "Go,"}, page.Blocks[1].Lines[0].Spans)
	assert.Equal(t, []string{"SQL"}, page.Blocks[1].Lines[1].Spans)
}

func TestBuildPageTextSkipsEmptyRuns(t *testing.T) {
	runs := []pdf.Text{
		{S: "", Y: 700, FontSize: 12},
		{S: "Header", Y: 700, FontSize: 12},
		{S: "", Y: 650, FontSize: 12},
	}

	page := buildPageText(runs)
	require.Len(t, page.Blocks, 1)
	require.Len(t, page.Blocks[0].Lines, 1)
	assert.Equal(t, []string{"Header"}, page.Blocks[0].Lines[0].Spans)
}

func TestBuildPageTextZeroFontSizeUsesDefault(t *testing.T) {
	// With no usable font size a 21pt gap still separates lines, not blocks
	// (the default 12pt font puts the block threshold at 21.6pt).
	runs := []pdf.Text{
		{S: "first", Y: 700},
		{S: "second", Y: 679},
	}

	page := buildPageText(runs)
	require.Len(t, page.Blocks, 1)
	assert.Len(t, page.Blocks[0].Lines, 2)
}

func TestBuildPageTextEmpty(t *testing.T) {
	page := buildPageText(nil)
	assert.Empty(t, page.Blocks)
}

func TestRenderFullText(t *testing.T) {
	pages := []PageText{
		{Blocks: []Block{
			{Lines: []Line{
				{Spans: []string{"John", "Smith"}},
				{Spans: []string{"Engineer"}},
			}},
			{Lines: []Line{
				{Spans: []string{"Skills"}},
			}},
		}},
		{Blocks: []Block{
			{Lines: []Line{
				{Spans: []string{"Education"}},
			}},
		}},
	}

	assert.Equal(t, "John Smith\nEngineer\n\nSkills\n\nEducation\n\n", renderFullText(pages))
	assert.Empty(t, renderFullText(nil))
}
