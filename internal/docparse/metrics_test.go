package docparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeCVMetrics(t *testing.T) {
	text := "Professional Summary\nSeasoned engineer. Ten years shipping services!\n" +
		"Experience\nAcme Corp\n" +
		"Education\nBSc Computer Science\n" +
		"Skills\nGo, SQL"

	m := ComputeCVMetrics(text)
	assert.Equal(t, len(text), m.CharacterCount)
	assert.Equal(t, 18, m.WordCount)
	assert.Equal(t, 2, m.SentenceCount)
	assert.Equal(t, 4, m.SectionCount)
}

func TestComputeCVMetricsEmpty(t *testing.T) {
	m := ComputeCVMetrics("")
	assert.Zero(t, m.WordCount)
	assert.Zero(t, m.CharacterCount)
	assert.Zero(t, m.SentenceCount)
	assert.Zero(t, m.SectionCount)
}

func TestComputeCVMetricsRunsOfPunctuation(t *testing.T) {
	// A run of terminators counts as a single sentence boundary.
	m := ComputeCVMetrics("Shipped it!!! Then shipped it again...")
	assert.Equal(t, 2, m.SentenceCount)
}
