package handler

import "errors"

// Request-level failures the router maps to HTTP status codes.
var (
	// ErrUnsupportedFileType is returned for uploads that are not PDFs.
	ErrUnsupportedFileType = errors.New("only PDF uploads are supported")
	// ErrFileTooLarge is returned when an upload exceeds the configured cap.
	ErrFileTooLarge = errors.New("uploaded file exceeds the size limit")
	// ErrMissingFields is returned when a required request field is empty.
	ErrMissingFields = errors.New("required fields are missing")
	// ErrReportNotFound is returned for unknown report IDs.
	ErrReportNotFound = errors.New("report not found")
	// ErrForbidden is returned when a caller asks for someone else's report.
	ErrForbidden = errors.New("access to this report is not allowed")
	// ErrNoArchivedFile is returned when a report has no stored original.
	ErrNoArchivedFile = errors.New("no archived file for this report")
)
