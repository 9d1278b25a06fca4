package docparse

import (
	"regexp"
	"sort"
	"strings"
)

// sectionPattern pairs a fixed section key with the regexp recognizing its
// synonymous header phrasings. A header matches at start of line (or after
// non-letter decoration), optionally padded, and must be followed by a colon,
// a line break or end of text.
type sectionPattern struct {
	key string
	re  *regexp.Regexp
}

func headerPattern(alternation string) *regexp.Regexp {
	return regexp.MustCompile(`(?:^|\n)[^a-z\n]*\s*(?:` + alternation + `)(?:\s*:|\s*\n|$)`)
}

// Declared order doubles as the tie-break: when two section patterns match at
// the same offset, the earlier entry in this table wins.
var sectionPatterns = []sectionPattern{
	{"summary", headerPattern(`(?:professional\s+)?summary|profile|objective|about\s+me|personal\s+statement`)},
	{"experience", headerPattern(`(?:work|professional|career)\s+experience|employment(?:\s+history)?|work\s+history`)},
	{"education", headerPattern(`education(?:al)?(?:\s+(?:background|history|qualifications))?`)},
	{"skills", headerPattern(`(?:technical|key|core)?\s*skills|competencies|expertise|proficiencies`)},
	{"projects", headerPattern(`projects|portfolio|key\s+achievements`)},
	{"certifications", headerPattern(`certifications?|accreditations?|licenses|qualifications`)},
	{"languages", headerPattern(`languages?|language\s+proficiency`)},
	{"references", headerPattern(`references|testimonials`)},
	{"publications", headerPattern(`publications|papers|research|articles`)},
	{"awards", headerPattern(`awards|honors|achievements|recognition`)},
	{"volunteer", headerPattern(`volunteer(?:ing)?|community\s+service`)},
	{"interests", headerPattern(`interests|hobbies|activities`)},
	{"personal", headerPattern(`personal\s+details|personal\s+information`)},
}

type headerMatch struct {
	key        string
	start, end int
}

// SegmentCV locates known section headers in cvText and splits the document
// into per-section content. Matching runs over the lower-cased text; header
// and content strings are taken from the original text to preserve case.
// A document with no recognizable headers yields an empty map, which callers
// must treat as valid.
func SegmentCV(cvText string) SectionMap {
	lower := strings.ToLower(cvText)

	// First-declared-wins per start offset.
	byOffset := make(map[int]headerMatch)
	for _, sp := range sectionPatterns {
		for _, loc := range sp.re.FindAllStringIndex(lower, -1) {
			if _, taken := byOffset[loc[0]]; taken {
				continue
			}
			byOffset[loc[0]] = headerMatch{key: sp.key, start: loc[0], end: loc[1]}
		}
	}
	if len(byOffset) == 0 {
		return SectionMap{}
	}

	offsets := make([]int, 0, len(byOffset))
	for off := range byOffset {
		offsets = append(offsets, off)
	}
	sort.Ints(offsets)

	sections := make(SectionMap, len(offsets))
	for i, off := range offsets {
		m := byOffset[off]
		contentEnd := len(cvText)
		if i < len(offsets)-1 {
			contentEnd = offsets[i+1]
		}
		sections[m.key] = Section{
			Header:  strings.TrimSpace(cvText[m.start:m.end]),
			Content: strings.TrimSpace(cvText[m.end:contentEnd]),
		}
	}
	return sections
}
