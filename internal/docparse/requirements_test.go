package docparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractRequirementsStructured(t *testing.T) {
	text := "Requirements:\n" +
		"- 5 years of Go experience\n" +
		"- PostgreSQL and MySQL\n" +
		"Preferred:\n" +
		"- AWS Lambda\n"

	reqs := ExtractRequirements(text)
	assert.Equal(t, []string{"5 years of Go experience", "PostgreSQL and MySQL"}, reqs[CategoryRequiredSkills])
	assert.Equal(t, []string{"AWS Lambda"}, reqs[CategoryPreferredSkills])
	assert.Empty(t, reqs[CategoryEducation])
	assert.Empty(t, reqs[CategoryResponsibilities])
	assert.Empty(t, reqs[CategoryOther])
}

func TestExtractRequirementsSentenceFallback(t *testing.T) {
	// A labelled section without bullets falls back to sentence splitting;
	// short fragments and trailing labels are discarded.
	text := "Requirements:\nCandidates must know Go. Familiarity with SQL databases is expected. Nice.\n"

	reqs := ExtractRequirements(text)
	assert.Equal(t, []string{
		"Candidates must know Go.",
		"Familiarity with SQL databases is expected.",
	}, reqs[CategoryRequiredSkills])
}

func TestExtractRequirementsGlobalFallback(t *testing.T) {
	// No recognizable section headers at all: every list item in the
	// document is bucketed by keyword precedence.
	text := "Join us!\n" +
		"• Bachelor degree in CS required\n" +
		"• 5 years of backend development\n" +
		"• Ideally familiar with Kubernetes\n" +
		"• Will own the deployment pipeline\n" +
		"• Strong Go and SQL knowledge\n"

	reqs := ExtractRequirements(text)
	assert.Equal(t, []string{"Bachelor degree in CS required"}, reqs[CategoryEducation])
	assert.Equal(t, []string{"5 years of backend development"}, reqs[CategoryExperience])
	assert.Equal(t, []string{"Ideally familiar with Kubernetes"}, reqs[CategoryPreferredSkills])
	assert.Equal(t, []string{"Will own the deployment pipeline"}, reqs[CategoryResponsibilities])
	assert.Equal(t, []string{"Strong Go and SQL knowledge"}, reqs[CategoryRequiredSkills])
}

func TestExtractRequirementsDeduplicates(t *testing.T) {
	text := "Requirements:\n- Go programming\n- Go programming\n- Unit testing\n"

	reqs := ExtractRequirements(text)
	assert.Equal(t, []string{"Go programming", "Unit testing"}, reqs[CategoryRequiredSkills])
}

func TestExtractRequirementsDropsShortItems(t *testing.T) {
	text := "Requirements:\n- Go\n- SQL\n- Distributed systems\n"

	reqs := ExtractRequirements(text)
	assert.Equal(t, []string{"Distributed systems"}, reqs[CategoryRequiredSkills])
}

func TestExtractRequirementsEmptyInput(t *testing.T) {
	reqs := ExtractRequirements("")
	require.Len(t, reqs, len(RequirementCategories))
	for _, category := range RequirementCategories {
		assert.Empty(t, reqs[category], "category %s must be empty", category)
	}
}

func TestExtractRequirementsIdempotent(t *testing.T) {
	text := "Responsibilities:\n- Design APIs\n- Review code\nQualifications:\n- BSc or equivalent practical background\n"

	first := ExtractRequirements(text)
	second := ExtractRequirements(text)
	assert.Equal(t, first, second)
}

func TestExtractRequirementsNumberedLists(t *testing.T) {
	text := "Duties:\n1. Operate the build farm\n2. Coordinate release trains\n"

	reqs := ExtractRequirements(text)
	assert.Equal(t, []string{"Operate the build farm", "Coordinate release trains"}, reqs[CategoryResponsibilities])
}
