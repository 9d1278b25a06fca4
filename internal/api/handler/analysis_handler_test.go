package handler

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cv-insight/internal/analysis"
	"cv-insight/internal/config"
	"cv-insight/internal/constants"
	"cv-insight/internal/docparse"
)

const handlerTestCV = `Curriculum Vitae
John Smith
john.smith@example.com

Work Experience
Senior engineer building distributed systems in Go.

Education
BSc Computer Science

Skills
Go, SQL, Docker`

func testAnalysisHandler(t *testing.T) *AnalysisHandler {
	t.Helper()
	analyzer := analysis.NewAnalyzer(nil, analysis.WithMockMode(true))
	extractor := docparse.NewLayoutExtractor()
	return NewAnalysisHandler(config.DefaultConfig(), nil, analyzer, extractor, zerolog.Nop())
}

func TestAnalyzeTextCVOnly(t *testing.T) {
	h := testAnalysisHandler(t)

	resp, err := h.AnalyzeText(context.Background(), AnalyzeTextRequest{
		CVText: handlerTestCV,
		Lang:   "en",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ReportID)
	assert.Len(t, resp.ReportID, 36)
	assert.Equal(t, constants.AnalysisTypeCVOnly, resp.Result.AnalysisType)
	assert.True(t, resp.Result.UsedMock)
	assert.Contains(t, resp.Result.Report, "CV Analysis Report")
}

func TestAnalyzeTextMatch(t *testing.T) {
	h := testAnalysisHandler(t)

	resp, err := h.AnalyzeText(context.Background(), AnalyzeTextRequest{
		CVText: handlerTestCV,
		JDText: "Requirements:\n- Strong Go programming background\n- SQL database knowledge",
		Lang:   "en",
	})
	require.NoError(t, err)

	assert.Equal(t, constants.AnalysisTypeCVJDMatch, resp.Result.AnalysisType)
	assert.True(t, resp.Result.UsedMock)
}

func TestAnalyzeTextTooShort(t *testing.T) {
	h := testAnalysisHandler(t)

	_, err := h.AnalyzeText(context.Background(), AnalyzeTextRequest{CVText: "   hi   "})
	assert.ErrorIs(t, err, analysis.ErrTextTooShort)
}

func TestAnalyzeUploadRejectsNonPDF(t *testing.T) {
	h := testAnalysisHandler(t)

	_, err := h.AnalyzeUpload(context.Background(),
		strings.NewReader("plain text"), 10, "resume.docx", "", "en", nil)
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
}

func TestAnalyzeUploadRejectsOversizedFile(t *testing.T) {
	h := testAnalysisHandler(t)

	_, err := h.AnalyzeUpload(context.Background(),
		strings.NewReader(""), h.cfg.Upload.MaxBytes+1, "resume.pdf", "", "en", nil)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestAnalyzeUploadMalformedPDF(t *testing.T) {
	h := testAnalysisHandler(t)

	garbage := bytes.NewReader([]byte("%PDF-1.4 this is not a real pdf"))
	_, err := h.AnalyzeUpload(context.Background(),
		garbage, garbage.Size(), "resume.pdf", "", "en", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extract text")
}
