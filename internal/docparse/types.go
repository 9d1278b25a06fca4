// Package docparse implements the text-extraction-to-structured-requirements
// pipeline: layout-aware PDF text extraction, document type classification,
// CV section segmentation, job description requirement extraction and
// keyword-overlap scoring.
//
// Everything in this package is a pure, synchronous computation over in-memory
// strings (the extractor additionally reads one file). All pattern tables are
// immutable package-level data built once at init; components hold no mutable
// state and are safe for concurrent use.
package docparse

// Line is one visual line of text, as an ordered sequence of span texts.
type Line struct {
	Spans []string
}

// Block is a paragraph or column fragment: an ordered sequence of lines.
type Block struct {
	Lines []Line
}

// PageText holds the blocks of a single page in reading order.
type PageText struct {
	Blocks []Block
}

// ExtractedDocument is the result of layout-preserving PDF extraction.
// FullText is the concatenation of all span texts, one line break per line
// and a blank line between blocks, in page order.
type ExtractedDocument struct {
	Pages    []PageText
	FullText string
}

// DocumentType is the discrete outcome of document classification.
type DocumentType string

const (
	DocTypeCV             DocumentType = "cv"
	DocTypeJobDescription DocumentType = "job_description"
	DocTypeUnknown        DocumentType = "unknown"
)

// DocumentClassification carries the decision and its normalized sub-scores,
// each the fraction of indicator patterns that matched (0..1).
type DocumentClassification struct {
	Type    DocumentType `json:"type"`
	CVScore float64      `json:"cv_score"`
	JDScore float64      `json:"jd_score"`
}

// Section is one recognized CV section: the header as it literally appears in
// the source text and the trimmed content up to the next recognized header.
type Section struct {
	Header  string `json:"header"`
	Content string `json:"content"`
}

// SectionMap maps a fixed section key (summary, experience, education, ...)
// to its extracted section. Keys are present only when a header was found.
type SectionMap map[string]Section

// Requirement category keys, in declared precedence order. CategoryOther is
// part of the wire shape for report payloads but is never populated by the
// extractor.
const (
	CategoryRequiredSkills   = "required_skills"
	CategoryPreferredSkills  = "preferred_skills"
	CategoryExperience       = "experience"
	CategoryEducation        = "education"
	CategoryResponsibilities = "responsibilities"
	CategoryOther            = "other"
)

// RequirementCategories lists every category key in stable order.
var RequirementCategories = []string{
	CategoryRequiredSkills,
	CategoryPreferredSkills,
	CategoryExperience,
	CategoryEducation,
	CategoryResponsibilities,
	CategoryOther,
}

// RequirementMap maps a category key to its ordered, deduplicated
// requirement strings. All categories are always present, possibly empty.
type RequirementMap map[string][]string

// NewRequirementMap returns a RequirementMap with every category initialized
// to an empty slice.
func NewRequirementMap() RequirementMap {
	m := make(RequirementMap, len(RequirementCategories))
	for _, c := range RequirementCategories {
		m[c] = []string{}
	}
	return m
}

// Empty reports whether no category holds any requirement.
func (m RequirementMap) Empty() bool {
	for _, items := range m {
		if len(items) > 0 {
			return false
		}
	}
	return true
}

// MatchResult is the outcome of keyword-overlap scoring between a CV and the
// requirements extracted from a job description.
type MatchResult struct {
	MatchPercentage float64  `json:"match_percentage"`
	MatchedKeywords []string `json:"matched_keywords"`
	TotalKeywords   int      `json:"total_keywords"`
	MatchesFound    int      `json:"matches_found"`
}

// CVMetrics holds basic size and structure statistics about a CV.
type CVMetrics struct {
	WordCount      int `json:"word_count"`
	CharacterCount int `json:"character_count"`
	SentenceCount  int `json:"sentence_count"`
	SectionCount   int `json:"section_count"`
}
