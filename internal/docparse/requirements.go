package docparse

import (
	"regexp"
	"sort"
	"strings"
)

// Category header patterns for the structured extraction phase. A header must
// sit at the start of a line and be followed by a colon or a line break.
// Declared order is the same-offset tie-break.
type categoryPattern struct {
	key string
	re  *regexp.Regexp
}

func categoryHeaderPattern(alternation string) *regexp.Regexp {
	return regexp.MustCompile(`(?:^|\n)\s*(?:` + alternation + `)(?:\s*:|\s*\n)`)
}

var categoryPatterns = []categoryPattern{
	{CategoryRequiredSkills, categoryHeaderPattern(`required(?:\s+skills)?|requirements|qualifications|you\s+(?:should|must)\s+have`)},
	{CategoryPreferredSkills, categoryHeaderPattern(`preferred(?:\s+skills)?|nice\s+to\s+have|desirable|plus|bonus`)},
	{CategoryExperience, categoryHeaderPattern(`experience|background|history`)},
	{CategoryEducation, categoryHeaderPattern(`education|degree|academic|qualification`)},
	{CategoryResponsibilities, categoryHeaderPattern(`responsibilities|duties|you\s+will|role|job\s+description|position\s+description|what\s+you'll\s+do`)},
}

// bulletItemRe recognizes one bulleted or numbered list line and captures the
// remainder of the line after the marker.
var bulletItemRe = regexp.MustCompile(`(?:^|\n)\s*[•\-*★✓➢+\d.]+\s*([^\n]+)`)

// Fallback categorization keyword sets, checked in this precedence order
// against the lower-cased item; the first containing category wins, anything
// left over lands in required_skills.
var fallbackCategoryKeywords = []struct {
	key   string
	terms []string
}{
	{CategoryEducation, []string{"degree", "education", "diploma", "bachelor", "master", "phd"}},
	{CategoryExperience, []string{"experience", "years of", "worked with", "background in"}},
	{CategoryPreferredSkills, []string{"preferred", "nice to have", "plus", "ideally"}},
	{CategoryResponsibilities, []string{"responsible", "duties", "will", "task"}},
}

const (
	minRequirementLen = 5  // items at or below this length are dropped
	minSentenceLen    = 10 // sentence fallback keeps only meaty sentences
)

// ExtractRequirements pulls categorized requirement items out of a job
// description. Phase A looks for labelled sections and their bulleted items
// (with a sentence-split fallback per section); if that yields nothing at
// all, Phase B scans the whole document for list items and buckets them by
// keyword. The result always carries every category key; "other" stays empty.
// The function is a total, deterministic function of its input.
func ExtractRequirements(jdText string) RequirementMap {
	requirements := NewRequirementMap()
	lower := strings.ToLower(jdText)

	// Phase A: structured sections.
	byOffset := make(map[int]struct {
		key        string
		start, end int
	})
	for _, cp := range categoryPatterns {
		for _, loc := range cp.re.FindAllStringIndex(lower, -1) {
			if _, taken := byOffset[loc[0]]; taken {
				continue
			}
			byOffset[loc[0]] = struct {
				key        string
				start, end int
			}{cp.key, loc[0], loc[1]}
		}
	}

	offsets := make([]int, 0, len(byOffset))
	for off := range byOffset {
		offsets = append(offsets, off)
	}
	sort.Ints(offsets)

	for i, off := range offsets {
		m := byOffset[off]
		end := len(jdText)
		if i < len(offsets)-1 {
			end = offsets[i+1]
		}
		body := strings.TrimSpace(jdText[m.end:end])

		items := bulletItems(body)
		if len(items) > 0 {
			for _, item := range items {
				if len(item) > minRequirementLen {
					requirements[m.key] = append(requirements[m.key], item)
				}
			}
			continue
		}
		// No list markers: fall back to sentence granularity.
		for _, sentence := range splitSentences(body) {
			sentence = strings.TrimSpace(sentence)
			if len(sentence) > minSentenceLen && !strings.HasSuffix(sentence, ":") {
				requirements[m.key] = append(requirements[m.key], sentence)
			}
		}
	}

	// Phase B: no structure found anywhere, bucket global list items by
	// keyword containment.
	if requirements.Empty() {
		for _, item := range bulletItems(jdText) {
			if len(item) <= minSentenceLen {
				continue
			}
			key := categorizeItem(item)
			requirements[key] = append(requirements[key], item)
		}
	}

	// Final pass: drop short items and exact duplicates, preserving
	// first-seen order within each category.
	for key, items := range requirements {
		requirements[key] = dedupeRequirements(items)
	}
	return requirements
}

func bulletItems(text string) []string {
	var items []string
	for _, m := range bulletItemRe.FindAllStringSubmatch(text, -1) {
		items = append(items, strings.TrimSpace(m[1]))
	}
	return items
}

// splitSentences cuts text on `.`, `!` or `?` followed by whitespace, keeping
// the terminator with the preceding sentence.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for i := 0; i < len(text)-1; i++ {
		c := text[i]
		if (c == '.' || c == '!' || c == '?') && isSpaceByte(text[i+1]) {
			sentences = append(sentences, text[start:i+1])
			start = i + 1
		}
	}
	if start < len(text) {
		sentences = append(sentences, text[start:])
	}
	return sentences
}

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func categorizeItem(item string) string {
	lower := strings.ToLower(item)
	for _, fc := range fallbackCategoryKeywords {
		for _, term := range fc.terms {
			if strings.Contains(lower, term) {
				return fc.key
			}
		}
	}
	return CategoryRequiredSkills
}

func dedupeRequirements(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if len(item) <= minRequirementLen {
			continue
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
