package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"cv-insight/internal/storage"
	"cv-insight/internal/storage/models"
)

// presignedURLTTL bounds how long an archived-CV download link stays valid.
const presignedURLTTL = 15 * time.Minute

// ReportHandler serves stored analysis reports and the admin dashboard.
type ReportHandler struct {
	storage *storage.Storage
	logger  zerolog.Logger
}

// NewReportHandler wires the report handler.
func NewReportHandler(st *storage.Storage, logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{storage: st, logger: logger}
}

// ReportView is the full public shape of a stored report.
type ReportView struct {
	ReportID        string          `json:"report_id"`
	AnalysisType    string          `json:"analysis_type"`
	Lang            string          `json:"lang"`
	Report          string          `json:"report"`
	UsedMock        bool            `json:"used_mock"`
	MatchPercentage *float64        `json:"match_percentage,omitempty"`
	Classification  json.RawMessage `json:"classification,omitempty"`
	Sections        json.RawMessage `json:"sections,omitempty"`
	Requirements    json.RawMessage `json:"requirements,omitempty"`
	Match           json.RawMessage `json:"match,omitempty"`
	Metrics         json.RawMessage `json:"metrics,omitempty"`
	HasArchivedCV   bool            `json:"has_archived_cv"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ReportSummary is the list-view shape, without the report body or pipeline
// payloads.
type ReportSummary struct {
	ReportID        string    `json:"report_id"`
	AnalysisType    string    `json:"analysis_type"`
	Lang            string    `json:"lang"`
	UsedMock        bool      `json:"used_mock"`
	MatchPercentage *float64  `json:"match_percentage,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// ReportListResponse is one page of a user's reports.
type ReportListResponse struct {
	Items  []ReportSummary `json:"items"`
	Total  int64           `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// GetReport fetches one report, enforcing ownership. Reports created without
// an account are fetchable by anyone holding the ID.
func (h *ReportHandler) GetReport(ctx context.Context, reportID string, requester *uint, isAdmin bool) (*ReportView, error) {
	report, err := h.loadAuthorized(ctx, reportID, requester, isAdmin)
	if err != nil {
		return nil, err
	}
	return newReportView(report), nil
}

// ListReports returns one page of the requester's reports, newest first.
func (h *ReportHandler) ListReports(ctx context.Context, userID uint, limit, offset int) (*ReportListResponse, error) {
	reports, total, err := h.storage.MySQL.ListReportsByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}

	items := make([]ReportSummary, 0, len(reports))
	for i := range reports {
		r := &reports[i]
		items = append(items, ReportSummary{
			ReportID:        r.ReportID,
			AnalysisType:    r.AnalysisType,
			Lang:            r.Lang,
			UsedMock:        r.UsedMock,
			MatchPercentage: r.MatchPercentage,
			CreatedAt:       r.CreatedAt,
		})
	}

	if limit <= 0 {
		limit = 20
	}
	return &ReportListResponse{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

// GetCVDownloadURL returns a short-lived link to the archived original PDF.
func (h *ReportHandler) GetCVDownloadURL(ctx context.Context, reportID string, requester *uint, isAdmin bool) (string, error) {
	report, err := h.loadAuthorized(ctx, reportID, requester, isAdmin)
	if err != nil {
		return "", err
	}
	if report.CVObjectKey == "" {
		return "", ErrNoArchivedFile
	}
	if h.storage.MinIO == nil {
		return "", fmt.Errorf("object storage is not configured")
	}

	url, err := h.storage.MinIO.GetPresignedURL(ctx, report.CVObjectKey, presignedURLTTL)
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return url, nil
}

// Dashboard returns aggregate usage statistics for the admin surface.
func (h *ReportHandler) Dashboard(ctx context.Context) (*storage.DashboardStats, error) {
	return h.storage.MySQL.GetDashboardStats(ctx)
}

func (h *ReportHandler) loadAuthorized(ctx context.Context, reportID string, requester *uint, isAdmin bool) (*models.Report, error) {
	report, err := h.storage.MySQL.GetReport(ctx, reportID)
	if err != nil {
		if errors.Is(err, storage.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("load report: %w", err)
	}

	switch {
	case isAdmin:
	case report.UserID == nil:
		// anonymous report, the ID is the capability
	case requester != nil && *requester == *report.UserID:
	default:
		return nil, ErrForbidden
	}
	return report, nil
}

func newReportView(r *models.Report) *ReportView {
	return &ReportView{
		ReportID:        r.ReportID,
		AnalysisType:    r.AnalysisType,
		Lang:            r.Lang,
		Report:          r.ReportText,
		UsedMock:        r.UsedMock,
		MatchPercentage: r.MatchPercentage,
		Classification:  json.RawMessage(r.Classification),
		Sections:        json.RawMessage(r.Sections),
		Requirements:    json.RawMessage(r.Requirements),
		Match:           json.RawMessage(r.Match),
		Metrics:         json.RawMessage(r.Metrics),
		HasArchivedCV:   r.CVObjectKey != "",
		CreatedAt:       r.CreatedAt,
	}
}
