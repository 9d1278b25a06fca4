package docparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentCVBasic(t *testing.T) {
	text := "Skills\nSQL, Python\n\nEducation\nBSc Computer Science"

	sections := SegmentCV(text)
	require.Len(t, sections, 2)

	skills, ok := sections["skills"]
	require.True(t, ok)
	assert.Equal(t, "Skills", skills.Header)
	assert.Equal(t, "SQL, Python", skills.Content)

	edu, ok := sections["education"]
	require.True(t, ok)
	assert.Equal(t, "Education", edu.Header)
	assert.Equal(t, "BSc Computer Science", edu.Content)
}

func TestSegmentCVPreservesHeaderCase(t *testing.T) {
	text := "PROFESSIONAL SUMMARY\nSeasoned engineer.\nWork Experience\nAcme Corp\nEducation\nMIT"

	sections := SegmentCV(text)
	require.Contains(t, sections, "summary")
	assert.Equal(t, "PROFESSIONAL SUMMARY", sections["summary"].Header)
	assert.Equal(t, "Seasoned engineer.", sections["summary"].Content)

	require.Contains(t, sections, "experience")
	assert.Equal(t, "Acme Corp", sections["experience"].Content)

	require.Contains(t, sections, "education")
	assert.Equal(t, "MIT", sections["education"].Content)
}

func TestSegmentCVDecoratedHeader(t *testing.T) {
	// Headers preceded by markup or followed by a colon still match.
	text := "## Skills: \nGo, Kubernetes"

	sections := SegmentCV(text)
	require.Contains(t, sections, "skills")
	assert.Equal(t, "Go, Kubernetes", sections["skills"].Content)
}

func TestSegmentCVNoHeaders(t *testing.T) {
	sections := SegmentCV("the quick brown fox jumps over a lazy dog")
	assert.Empty(t, sections)

	assert.Empty(t, SegmentCV(""))
}

func TestSegmentCVSpansPartitionDocument(t *testing.T) {
	text := "Summary\nShort intro text.\nSkills\nGo, SQL, Docker\nLanguages\nEnglish, French"

	sections := SegmentCV(text)
	require.Len(t, sections, 3)

	// Content spans must be non-overlapping substrings of the original.
	for key, s := range sections {
		assert.Contains(t, text, s.Content, "section %s content must come from the source text", key)
		assert.Contains(t, text, s.Header, "section %s header must come from the source text", key)
	}
	assert.Equal(t, "Short intro text.", sections["summary"].Content)
	assert.Equal(t, "Go, SQL, Docker", sections["skills"].Content)
	assert.Equal(t, "English, French", sections["languages"].Content)
}

func TestSegmentCVLastSectionRunsToEnd(t *testing.T) {
	text := "Education\nPhD in Physics, Some University, 2019"

	sections := SegmentCV(text)
	require.Len(t, sections, 1)
	assert.Equal(t, "PhD in Physics, Some University, 2019", sections["education"].Content)
}
