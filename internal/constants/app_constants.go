package constants

import "time"

const (
	// MinExtractableTextLen is the canonical "too short to analyze" boundary.
	// Extractions shorter than this are treated as failed by every caller.
	MinExtractableTextLen = 10

	// Hard character caps applied to prompt interpolation. These are length
	// caps on the raw text, not token counts, and apply before any structured
	// context is appended.
	MaxPromptCVChars      = 5000
	MaxPromptJDChars      = 3000
	MaxPromptGenericChars = 7500

	// MaxUploadBytes bounds accepted PDF uploads (16 MiB).
	MaxUploadBytes = 16 << 20

	// MaxPDFPages bounds how many pages the layout extractor will walk before
	// aborting. Multi-hundred-page documents are rejected rather than parsed.
	MaxPDFPages = 200

	// Analysis result cache keys: analysis:<type>:<lang>:<md5>.
	AnalysisCachePrefix   = "analysis:"
	AnalysisCacheDuration = 5 * time.Minute

	// Login lockout bookkeeping.
	LoginAttemptPrefix = "login_attempts:"
	MaxLoginAttempts   = 5
	LoginLockoutWindow = 30 * time.Minute

	// Object storage buckets.
	UploadsBucket = "cv-uploads"

	// Contact-mail queue wiring.
	ContactExchange   = "contact_events"
	ContactRoutingKey = "contact.submitted"
	ContactQueue      = "contact_email_queue"
)

// Analysis types as persisted on reports and used in cache keys.
const (
	AnalysisTypeCVOnly    = "ats_cv_analysis"
	AnalysisTypeCVJDMatch = "cv_jd_match"
)
