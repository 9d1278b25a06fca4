package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"cv-insight/internal/constants"
	"cv-insight/internal/docparse"
	"cv-insight/pkg/utils"
)

// ErrTextTooShort is returned when the input carries less text than
// constants.MinExtractableTextLen; nothing meaningful can be analyzed.
var ErrTextTooShort = errors.New("text is too short for meaningful analysis")

// Request deadlines per analysis type. Comparison reports are longer and get
// a larger budget.
const (
	cvRequestTimeout    = 60 * time.Second
	matchRequestTimeout = 120 * time.Second
)

// Cache stores generated reports keyed by input digest. A miss is (_, false,
// nil); cache errors are logged and treated as misses.
type Cache interface {
	GetAnalysis(ctx context.Context, key string) (string, bool, error)
	SetAnalysis(ctx context.Context, key, value string, ttl time.Duration) error
}

// Result is one finished analysis: the report body plus everything the
// document pipeline derived along the way.
type Result struct {
	AnalysisType   string                           `json:"analysis_type"`
	Lang           string                           `json:"lang"`
	Report         string                           `json:"report"`
	FromCache      bool                             `json:"from_cache"`
	UsedMock       bool                             `json:"used_mock"`
	Classification docparse.DocumentClassification `json:"classification"`
	Sections       docparse.SectionMap              `json:"sections,omitempty"`
	Requirements   docparse.RequirementMap          `json:"requirements,omitempty"`
	Match          *docparse.MatchResult            `json:"match,omitempty"`
	Metrics        docparse.CVMetrics               `json:"metrics"`
}

// Analyzer orchestrates the document pipeline and report generation. The
// generator is never allowed to fail the request: any generation error
// degrades to the canned report.
type Analyzer struct {
	generator Generator
	cache     Cache
	logger    zerolog.Logger

	useMock         bool
	advancedParsing bool
	reqExtraction   bool
	cvMaxTokens     int
	matchMaxTokens  int
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithCache attaches a report cache.
func WithCache(c Cache) AnalyzerOption {
	return func(a *Analyzer) {
		a.cache = c
	}
}

// WithAnalyzerLogger sets the analyzer logger.
func WithAnalyzerLogger(l zerolog.Logger) AnalyzerOption {
	return func(a *Analyzer) {
		a.logger = l
	}
}

// WithMockMode forces canned reports, bypassing the generator entirely.
func WithMockMode(on bool) AnalyzerOption {
	return func(a *Analyzer) {
		a.useMock = on
	}
}

// WithFeatures toggles CV structure parsing and requirement extraction.
func WithFeatures(advancedParsing, reqExtraction bool) AnalyzerOption {
	return func(a *Analyzer) {
		a.advancedParsing = advancedParsing
		a.reqExtraction = reqExtraction
	}
}

// WithTokenBudgets overrides the per-analysis-type completion budgets.
func WithTokenBudgets(cvMaxTokens, matchMaxTokens int) AnalyzerOption {
	return func(a *Analyzer) {
		a.cvMaxTokens = cvMaxTokens
		a.matchMaxTokens = matchMaxTokens
	}
}

// NewAnalyzer creates an analyzer around a generator.
func NewAnalyzer(generator Generator, options ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		generator:       generator,
		logger:          zerolog.Nop(),
		advancedParsing: true,
		reqExtraction:   true,
		cvMaxTokens:     2000,
		matchMaxTokens:  4000,
	}
	for _, option := range options {
		option(a)
	}
	return a
}

// AnalyzeCV produces a standalone CV report.
func (a *Analyzer) AnalyzeCV(ctx context.Context, cvText, lang string) (*Result, error) {
	if len(cvText) < constants.MinExtractableTextLen {
		return nil, fmt.Errorf("%w: %d chars", ErrTextTooShort, len(cvText))
	}
	lang = normalizeLang(lang)

	result := &Result{
		AnalysisType:   constants.AnalysisTypeCVOnly,
		Lang:           lang,
		Classification: docparse.Classify(cvText),
		Metrics:        docparse.ComputeCVMetrics(cvText),
	}
	if a.advancedParsing {
		result.Sections = docparse.SegmentCV(cvText)
	}

	if a.useMock {
		result.Report = MockAnalysis(constants.AnalysisTypeCVOnly, lang)
		result.UsedMock = true
		return result, nil
	}

	key := cacheKey(constants.AnalysisTypeCVOnly, lang, cvText)
	if report, ok := a.cacheGet(ctx, key); ok {
		result.Report = report
		result.FromCache = true
		return result, nil
	}

	prompt := BuildCVPrompt(cvText, lang, result.Sections)
	report, err := a.generator.Generate(ctx, GenerateRequest{
		SystemPrompt: systemPromptCVAnalysis,
		Prompt:       prompt,
		MaxTokens:    a.cvMaxTokens,
		Timeout:      cvRequestTimeout,
	})
	if err != nil {
		a.logger.Error().Err(err).Msg("cv analysis generation failed, serving mock report")
		result.Report = MockAnalysis(constants.AnalysisTypeCVOnly, lang)
		result.UsedMock = true
		return result, nil
	}

	result.Report = report
	a.cacheSet(ctx, key, report)
	return result, nil
}

// AnalyzeMatch produces a CV-versus-job-description comparison report along
// with the keyword match score.
func (a *Analyzer) AnalyzeMatch(ctx context.Context, cvText, jdText, lang string) (*Result, error) {
	if len(cvText) < constants.MinExtractableTextLen {
		return nil, fmt.Errorf("%w: cv has %d chars", ErrTextTooShort, len(cvText))
	}
	if len(jdText) < constants.MinExtractableTextLen {
		return nil, fmt.Errorf("%w: job description has %d chars", ErrTextTooShort, len(jdText))
	}
	lang = normalizeLang(lang)

	result := &Result{
		AnalysisType:   constants.AnalysisTypeCVJDMatch,
		Lang:           lang,
		Classification: docparse.Classify(cvText),
		Metrics:        docparse.ComputeCVMetrics(cvText),
	}
	if a.advancedParsing {
		result.Sections = docparse.SegmentCV(cvText)
	}
	if a.reqExtraction {
		result.Requirements = docparse.ExtractRequirements(jdText)
		match := docparse.ScoreKeywordMatch(cvText, result.Requirements)
		result.Match = &match
	}

	if a.useMock {
		result.Report = MockAnalysis(constants.AnalysisTypeCVJDMatch, lang)
		result.UsedMock = true
		return result, nil
	}

	// The comparison cache key hashes a prefix of both inputs.
	combined := truncate(cvText, 1000) + truncate(jdText, 1000)
	key := cacheKey(constants.AnalysisTypeCVJDMatch, lang, combined)
	if report, ok := a.cacheGet(ctx, key); ok {
		result.Report = report
		result.FromCache = true
		return result, nil
	}

	prompt := BuildMatchPrompt(cvText, jdText, lang, result.Requirements, result.Sections)
	report, err := a.generator.Generate(ctx, GenerateRequest{
		Prompt:    prompt,
		MaxTokens: a.matchMaxTokens,
		Timeout:   matchRequestTimeout,
	})
	if err != nil {
		a.logger.Error().Err(err).Msg("match analysis generation failed, serving mock report")
		result.Report = MockAnalysis(constants.AnalysisTypeCVJDMatch, lang)
		result.UsedMock = true
		return result, nil
	}

	result.Report = report
	a.cacheSet(ctx, key, report)
	return result, nil
}

func (a *Analyzer) cacheGet(ctx context.Context, key string) (string, bool) {
	if a.cache == nil {
		return "", false
	}
	report, ok, err := a.cache.GetAnalysis(ctx, key)
	if err != nil {
		a.logger.Warn().Err(err).Str("key", key).Msg("analysis cache lookup failed")
		return "", false
	}
	return report, ok
}

func (a *Analyzer) cacheSet(ctx context.Context, key, report string) {
	if a.cache == nil || report == "" {
		return
	}
	if err := a.cache.SetAnalysis(ctx, key, report, constants.AnalysisCacheDuration); err != nil {
		a.logger.Warn().Err(err).Str("key", key).Msg("analysis cache store failed")
	}
}

// cacheKey is analysis:<type>:<lang>:<md5(text)>.
func cacheKey(analysisType, lang, text string) string {
	return fmt.Sprintf("%s%s:%s:%s", constants.AnalysisCachePrefix, analysisType, lang, utils.CalculateMD5([]byte(text)))
}

func normalizeLang(lang string) string {
	if lang == LangFR {
		return LangFR
	}
	return LangEN
}
