package docparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreKeywordMatchBasic(t *testing.T) {
	reqs := NewRequirementMap()
	reqs[CategoryRequiredSkills] = []string{"Strong SQL skills"}

	// "SQL" is too short to survive as a word, so the candidates are
	// "strong", "skills" and the bigram "strong skills".
	result := ScoreKeywordMatch("I have strong sql experience", reqs)
	assert.Equal(t, 3, result.TotalKeywords)
	assert.Equal(t, []string{"strong"}, result.MatchedKeywords)
	assert.Equal(t, 1, result.MatchesFound)
	assert.InDelta(t, 33.3, result.MatchPercentage, 1e-9)
}

func TestScoreKeywordMatchBigrams(t *testing.T) {
	reqs := NewRequirementMap()
	reqs[CategoryRequiredSkills] = []string{"Distributed systems design"}

	result := ScoreKeywordMatch("Worked on distributed systems at scale", reqs)
	// Candidates: design, distributed, systems, "distributed systems",
	// "systems design".
	assert.Equal(t, 5, result.TotalKeywords)
	assert.Equal(t, []string{"distributed", "distributed systems", "systems"}, result.MatchedKeywords)
	assert.InDelta(t, 60.0, result.MatchPercentage, 1e-9)
}

func TestScoreKeywordMatchSubstringSemantics(t *testing.T) {
	reqs := NewRequirementMap()
	reqs[CategoryRequiredSkills] = []string{"Java development"}

	// Substring containment is the defined contract: "java" matches
	// inside "javascript".
	result := ScoreKeywordMatch("Senior JavaScript development engineer", reqs)
	assert.Contains(t, result.MatchedKeywords, "java")
	assert.Contains(t, result.MatchedKeywords, "development")
}

func TestScoreKeywordMatchEmptyRequirements(t *testing.T) {
	result := ScoreKeywordMatch("any cv text at all", NewRequirementMap())
	assert.Zero(t, result.MatchPercentage)
	assert.Zero(t, result.TotalKeywords)
	assert.Zero(t, result.MatchesFound)
	assert.Empty(t, result.MatchedKeywords)
}

func TestScoreKeywordMatchIgnoresOtherCategory(t *testing.T) {
	reqs := NewRequirementMap()
	reqs[CategoryOther] = []string{"generic filler requirement"}

	result := ScoreKeywordMatch("generic filler requirement", reqs)
	assert.Zero(t, result.TotalKeywords)
	assert.Zero(t, result.MatchPercentage)
}

func TestScoreKeywordMatchStoplistAndShortWords(t *testing.T) {
	reqs := NewRequirementMap()
	reqs[CategoryExperience] = []string{"experience with the team and Go"}

	// "experience", "with", "team" are stoplisted or too short; "Go" is
	// too short. Nothing survives.
	result := ScoreKeywordMatch("experience with the team and Go", reqs)
	assert.Zero(t, result.TotalKeywords)
}

func TestScoreKeywordMatchBounds(t *testing.T) {
	reqs := NewRequirementMap()
	reqs[CategoryRequiredSkills] = []string{"Kubernetes Terraform Prometheus"}

	full := ScoreKeywordMatch("kubernetes terraform prometheus", reqs)
	assert.InDelta(t, 100.0, full.MatchPercentage, 1e-9)
	assert.Equal(t, full.TotalKeywords, full.MatchesFound)

	none := ScoreKeywordMatch("completely unrelated text", reqs)
	assert.Zero(t, none.MatchesFound)
	assert.Zero(t, none.MatchPercentage)
}
