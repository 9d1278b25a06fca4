package docparse

import (
	"regexp"
	"strings"
)

// Indicator patterns for document type detection. Each pattern contributes at
// most one point no matter how often it matches; scores are normalized by the
// list length. Kept as flat tables so the taxonomy can grow without touching
// the decision logic.
var cvIndicators = []*regexp.Regexp{
	regexp.MustCompile(`\b(?:curriculum\s+vitae|resume|cv)\b`),
	regexp.MustCompile(`\b(?:work\s+experience|employment\s+history|professional\s+experience)\b`),
	regexp.MustCompile(`\b(?:education|qualifications|academic\s+background)\b`),
	regexp.MustCompile(`\b(?:skills|competencies|expertise)\b`),
	regexp.MustCompile(`\b(?:references|referees)\b`),
	regexp.MustCompile(`\b(?:personal\s+details|personal\s+information)\b`),
	regexp.MustCompile(`\bemail\b.{0,20}@`),
	regexp.MustCompile(`\b(?:phone|tel|mobile)\b.{0,20}\d{3,}`),
}

var jdIndicators = []*regexp.Regexp{
	regexp.MustCompile(`\b(?:job\s+description|position\s+description|role\s+description)\b`),
	regexp.MustCompile(`\b(?:we\s+are\s+looking\s+for|we\s+seek|seeking\s+a)\b`),
	regexp.MustCompile(`\b(?:responsibilities|duties|you\s+will\s+be\s+responsible)\b`),
	regexp.MustCompile(`\b(?:qualifications|requirements|the\s+ideal\s+candidate)\b`),
	regexp.MustCompile(`\b(?:we\s+offer|benefits|package|salary)\b`),
	regexp.MustCompile(`\b(?:apply|application|to\s+apply|send\s+your)\b`),
	regexp.MustCompile(`\b(?:company|organization|firm)\s+(?:is|are|description|overview)\b`),
	regexp.MustCompile(`\b(?:position|opportunity|opening|vacancy)\b`),
}

// classifyThreshold is the minimum normalized score either side must clear.
const classifyThreshold = 0.3

// Classify scores text against the CV and JD indicator sets and returns the
// resulting classification. Total over any input, including the empty string.
func Classify(text string) DocumentClassification {
	lower := strings.ToLower(text)

	cvHits := countMatching(cvIndicators, lower)
	jdHits := countMatching(jdIndicators, lower)

	c := DocumentClassification{
		Type:    DocTypeUnknown,
		CVScore: float64(cvHits) / float64(len(cvIndicators)),
		JDScore: float64(jdHits) / float64(len(jdIndicators)),
	}

	switch {
	case c.CVScore > classifyThreshold && c.CVScore > c.JDScore:
		c.Type = DocTypeCV
	case c.JDScore > classifyThreshold && c.JDScore > c.CVScore:
		c.Type = DocTypeJobDescription
	}
	// Ties above the threshold stay Unknown: neither strict inequality holds.
	return c
}

func countMatching(patterns []*regexp.Regexp, text string) int {
	n := 0
	for _, p := range patterns {
		if p.MatchString(text) {
			n++
		}
	}
	return n
}
