package docparse

import (
	"math"
	"sort"
	"strings"
)

// commonWords are excluded from keyword-candidate generation: high-frequency
// English words plus recruiting boilerplate that would otherwise match every
// CV.
var commonWords = map[string]struct{}{
	"the": {}, "and": {}, "that": {}, "have": {}, "for": {}, "not": {},
	"with": {}, "you": {}, "this": {}, "but": {}, "his": {}, "from": {},
	"they": {}, "she": {}, "will": {}, "say": {}, "would": {}, "been": {},
	"each": {}, "can": {}, "their": {}, "more": {}, "about": {}, "into": {},
	"than": {}, "them": {}, "then": {}, "these": {}, "some": {}, "such": {},
	"what": {}, "when": {}, "make": {}, "like": {}, "time": {}, "just": {},
	"year": {}, "only": {}, "also": {}, "work": {}, "over": {}, "very": {},
	"even": {}, "most": {}, "take": {}, "experience": {}, "role": {},
	"team": {}, "position": {}, "candidate": {}, "job": {}, "company": {},
	"responsibilities": {}, "requirements": {},
}

const minKeywordWordLen = 3 // surviving words must be strictly longer

// ScoreKeywordMatch builds a keyword set from the extracted requirements and
// measures how many of them appear in the CV text. Candidates are the
// surviving unigrams of every requirement plus every adjacent bigram of
// surviving words; matching is case-insensitive substring containment, so
// "java" inside "javascript" counts. That imprecision is the defined
// contract, not an accident.
func ScoreKeywordMatch(cvText string, jdRequirements RequirementMap) MatchResult {
	candidates := make(map[string]struct{})
	for _, category := range RequirementCategories {
		if category == CategoryOther {
			continue // generic bucket contributes no keywords
		}
		for _, req := range jdRequirements[category] {
			words := survivingWords(req)
			for _, w := range words {
				candidates[w] = struct{}{}
			}
			for i := 0; i+1 < len(words); i++ {
				candidates[words[i]+" "+words[i+1]] = struct{}{}
			}
		}
	}

	allKeywords := make([]string, 0, len(candidates))
	for kw := range candidates {
		allKeywords = append(allKeywords, kw)
	}
	sort.Strings(allKeywords)

	cvLower := strings.ToLower(cvText)
	matched := make([]string, 0, len(allKeywords))
	for _, kw := range allKeywords {
		if strings.Contains(cvLower, kw) {
			matched = append(matched, kw)
		}
	}

	result := MatchResult{
		MatchedKeywords: matched,
		TotalKeywords:   len(allKeywords),
		MatchesFound:    len(matched),
	}
	if result.TotalKeywords > 0 {
		pct := float64(result.MatchesFound) / float64(result.TotalKeywords) * 100
		result.MatchPercentage = math.Round(pct*10) / 10
	}
	return result
}

// survivingWords lower-cases and filters one requirement string down to the
// words eligible as keywords.
func survivingWords(requirement string) []string {
	fields := strings.Fields(requirement)
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) <= minKeywordWordLen {
			continue
		}
		w := strings.ToLower(f)
		if _, stop := commonWords[w]; stop {
			continue
		}
		words = append(words, w)
	}
	return words
}
