package docparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyEmptyText(t *testing.T) {
	c := Classify("")
	assert.Equal(t, DocTypeUnknown, c.Type)
	assert.Zero(t, c.CVScore)
	assert.Zero(t, c.JDScore)
}

func TestClassifyCV(t *testing.T) {
	text := "Curriculum Vitae\nJohn Smith\nEmail: john.smith@example.com\n" +
		"Work Experience\nSoftware developer at Acme\n" +
		"Education\nBSc Computer Science\n" +
		"Skills\nGo, SQL"

	c := Classify(text)
	assert.Equal(t, DocTypeCV, c.Type)
	assert.Greater(t, c.CVScore, 0.3)
	assert.Greater(t, c.CVScore, c.JDScore)
}

func TestClassifyJobDescription(t *testing.T) {
	text := "Job Description\nWe are looking for a senior engineer.\n" +
		"Responsibilities:\n- Build services\n" +
		"Requirements:\n- 5 years writing Go\n" +
		"We offer great benefits. Apply now!"

	c := Classify(text)
	assert.Equal(t, DocTypeJobDescription, c.Type)
	assert.Greater(t, c.JDScore, 0.3)
}

func TestClassifyTieStaysUnknown(t *testing.T) {
	// Three indicators per side, equal normalized scores above the
	// threshold: neither strict inequality holds.
	text := "resume education skills responsibilities apply salary"

	c := Classify(text)
	assert.Equal(t, DocTypeUnknown, c.Type)
	assert.InDelta(t, c.CVScore, c.JDScore, 1e-9)
	assert.Greater(t, c.CVScore, 0.3)
}

func TestClassifyEachPatternCountsOnce(t *testing.T) {
	// Repeating one indicator many times must not outweigh the rest.
	c := Classify("resume resume resume resume resume resume")
	assert.InDelta(t, 1.0/8.0, c.CVScore, 1e-9)
	assert.Equal(t, DocTypeUnknown, c.Type)
}
