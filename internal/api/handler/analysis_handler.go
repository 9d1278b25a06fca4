// Package handler holds the business-level request handlers behind the HTTP
// routes: analysis, accounts, reports and the contact form.
package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"cv-insight/internal/analysis"
	"cv-insight/internal/config"
	"cv-insight/internal/constants"
	"cv-insight/internal/docparse"
	"cv-insight/internal/storage"
	"cv-insight/internal/storage/models"
	"cv-insight/pkg/utils"
)

// AnalysisHandler coordinates an analysis request end to end: extraction,
// the document pipeline, report generation, persistence and archival.
type AnalysisHandler struct {
	cfg       *config.Config
	storage   *storage.Storage
	analyzer  *analysis.Analyzer
	extractor *docparse.LayoutExtractor
	fallback  *docparse.SimpleExtractor
	logger    zerolog.Logger
}

// AnalysisOption configures an AnalysisHandler.
type AnalysisOption func(*AnalysisHandler)

// WithFallbackExtractor attaches a flat-text extractor tried when layout
// extraction fails or yields nothing usable.
func WithFallbackExtractor(e *docparse.SimpleExtractor) AnalysisOption {
	return func(h *AnalysisHandler) {
		h.fallback = e
	}
}

// NewAnalysisHandler wires the analysis handler. storage may be nil or
// partially initialized; persistence and archival degrade to no-ops.
func NewAnalysisHandler(cfg *config.Config, st *storage.Storage, analyzer *analysis.Analyzer, extractor *docparse.LayoutExtractor, logger zerolog.Logger, options ...AnalysisOption) *AnalysisHandler {
	h := &AnalysisHandler{
		cfg:       cfg,
		storage:   st,
		analyzer:  analyzer,
		extractor: extractor,
		logger:    logger,
	}
	for _, option := range options {
		option(h)
	}
	return h
}

// AnalyzeTextRequest is a pasted-text analysis request. JDText is optional;
// when present the handler produces a comparison report.
type AnalyzeTextRequest struct {
	CVText string
	JDText string
	Lang   string
	UserID *uint
}

// AnalyzeResponse is the outcome of one analysis request.
type AnalyzeResponse struct {
	ReportID string           `json:"report_id"`
	Result   *analysis.Result `json:"result"`
}

// AnalyzeText runs the pipeline over pasted text.
func (h *AnalysisHandler) AnalyzeText(ctx context.Context, req AnalyzeTextRequest) (*AnalyzeResponse, error) {
	cvText := strings.TrimSpace(req.CVText)
	jdText := strings.TrimSpace(req.JDText)

	result, err := h.runAnalysis(ctx, cvText, jdText, req.Lang)
	if err != nil {
		return nil, err
	}

	reportID, err := newReportID()
	if err != nil {
		return nil, err
	}
	h.persistReport(ctx, reportID, req.UserID, "", result)

	return &AnalyzeResponse{ReportID: reportID, Result: result}, nil
}

// AnalyzeUpload stages an uploaded PDF, extracts its text and runs the
// pipeline. The original file is archived to object storage when available.
func (h *AnalysisHandler) AnalyzeUpload(ctx context.Context, file io.Reader, size int64, filename, jdText, lang string, userID *uint) (*AnalyzeResponse, error) {
	if size > h.cfg.Upload.MaxBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrFileTooLarge, size)
	}
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFileType, filepath.Ext(filename))
	}

	fileBytes, err := io.ReadAll(io.LimitReader(file, h.cfg.Upload.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(fileBytes)) > h.cfg.Upload.MaxBytes {
		return nil, fmt.Errorf("%w: body larger than %d bytes", ErrFileTooLarge, h.cfg.Upload.MaxBytes)
	}

	cvText, err := h.extractText(ctx, fileBytes)
	if err != nil {
		return nil, err
	}

	result, err := h.runAnalysis(ctx, cvText, strings.TrimSpace(jdText), lang)
	if err != nil {
		return nil, err
	}

	reportID, err := newReportID()
	if err != nil {
		return nil, err
	}

	objectKey := ""
	if h.storage != nil && h.storage.MinIO != nil {
		objectKey, err = h.storage.MinIO.UploadCV(ctx, reportID, bytes.NewReader(fileBytes), int64(len(fileBytes)))
		if err != nil {
			// The analysis is already done; losing the archive copy is not
			// worth failing the request over.
			h.logger.Warn().Err(err).Str("report_id", reportID).Msg("archiving upload failed")
			objectKey = ""
		}
	}

	h.persistReport(ctx, reportID, userID, objectKey, result)

	return &AnalyzeResponse{ReportID: reportID, Result: result}, nil
}

// extractText stages the upload on disk for the layout extractor.
func (h *AnalysisHandler) extractText(ctx context.Context, fileBytes []byte) (string, error) {
	tmp, err := os.CreateTemp(h.cfg.Upload.TempDir, "cv-upload-*.pdf")
	if err != nil {
		return "", fmt.Errorf("stage upload: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(fileBytes); err != nil {
		tmp.Close()
		return "", fmt.Errorf("stage upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("stage upload: %w", err)
	}

	doc, err := h.extractor.ExtractFromFile(ctx, tmp.Name())
	if err == nil {
		text := strings.TrimSpace(doc.FullText)
		if len(text) >= constants.MinExtractableTextLen || h.fallback == nil {
			return text, nil
		}
		err = fmt.Errorf("layout extraction yielded %d chars", len(text))
	}

	if h.fallback != nil {
		text, fbErr := h.fallback.ExtractText(ctx, tmp.Name())
		if fbErr == nil {
			h.logger.Info().Msg("layout extraction failed, used flat extraction")
			return strings.TrimSpace(text), nil
		}
		h.logger.Warn().Err(fbErr).Msg("flat extraction fallback failed too")
	}
	return "", fmt.Errorf("extract text: %w", err)
}

func (h *AnalysisHandler) runAnalysis(ctx context.Context, cvText, jdText, lang string) (*analysis.Result, error) {
	if jdText != "" {
		return h.analyzer.AnalyzeMatch(ctx, cvText, jdText, lang)
	}
	return h.analyzer.AnalyzeCV(ctx, cvText, lang)
}

// persistReport stores the finished analysis. Persistence failures are logged
// and swallowed; the caller already has the result.
func (h *AnalysisHandler) persistReport(ctx context.Context, reportID string, userID *uint, cvObjectKey string, result *analysis.Result) {
	if h.storage == nil || h.storage.MySQL == nil {
		return
	}

	report := &models.Report{
		ReportID:       reportID,
		UserID:         userID,
		AnalysisType:   result.AnalysisType,
		Lang:           result.Lang,
		CVObjectKey:    cvObjectKey,
		ReportText:     result.Report,
		UsedMock:       result.UsedMock,
		Classification: marshalJSONColumn(result.Classification),
		Metrics:        marshalJSONColumn(result.Metrics),
	}
	if result.Sections != nil {
		report.Sections = marshalJSONColumn(result.Sections)
	}
	if result.Requirements != nil {
		report.Requirements = marshalJSONColumn(result.Requirements)
	}
	if result.Match != nil {
		report.Match = marshalJSONColumn(result.Match)
		report.MatchPercentage = utils.Float64Ptr(result.Match.MatchPercentage)
	}

	if err := h.storage.MySQL.CreateReport(ctx, report); err != nil {
		h.logger.Error().Err(err).Str("report_id", reportID).Msg("persisting report failed")
	}
}

func marshalJSONColumn(v any) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

func newReportID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate report id: %w", err)
	}
	return id.String(), nil
}
