package docparse

import (
	"regexp"
	"strings"
)

var sentenceEndRe = regexp.MustCompile(`[.!?]+`)

// Coarse presence probes for counting likely sections; distinct from the
// segmentation patterns, these only answer "does the CV mention this at all".
var metricSectionProbes = []*regexp.Regexp{
	regexp.MustCompile(`\b(?:summary|profile|objective)\b`),
	regexp.MustCompile(`\b(?:experience|employment)\b`),
	regexp.MustCompile(`\beducation\b`),
	regexp.MustCompile(`\b(?:skills|competencies)\b`),
	regexp.MustCompile(`\b(?:projects|portfolio)\b`),
	regexp.MustCompile(`\bcertifications\b`),
	regexp.MustCompile(`\blanguages\b`),
	regexp.MustCompile(`\breferences\b`),
}

// ComputeCVMetrics derives basic size and structure statistics from a CV.
func ComputeCVMetrics(cvText string) CVMetrics {
	m := CVMetrics{
		WordCount:      len(strings.Fields(cvText)),
		CharacterCount: len(cvText),
		SentenceCount:  len(sentenceEndRe.FindAllString(cvText, -1)),
	}
	lower := strings.ToLower(cvText)
	for _, probe := range metricSectionProbes {
		if probe.MatchString(lower) {
			m.SectionCount++
		}
	}
	return m
}
