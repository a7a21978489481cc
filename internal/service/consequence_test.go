package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/variant-context-server/internal/domain"
)

func TestSelectConsequenceMostSevereImpactWins(t *testing.T) {
	consequences := []domain.TranscriptConsequence{
		{TranscriptID: "ENST00000000001", Impact: domain.ImpactModifier},
		{TranscriptID: "ENST00000000002", Impact: domain.ImpactHigh},
		{TranscriptID: "ENST00000000003", Impact: domain.ImpactModerate},
	}

	selected := SelectConsequence(consequences)
	assert.Equal(t, "ENST00000000002", selected.TranscriptID)
	assert.Equal(t, domain.ImpactHigh, selected.Impact)
}

func TestSelectConsequenceCanonicalBreaksTies(t *testing.T) {
	consequences := []domain.TranscriptConsequence{
		{TranscriptID: "ENST00000000001", Impact: domain.ImpactHigh},
		{TranscriptID: "ENST00000000002", Impact: domain.ImpactHigh, Canonical: 1},
	}

	selected := SelectConsequence(consequences)
	assert.Equal(t, "ENST00000000002", selected.TranscriptID)
}

func TestSelectConsequenceStableBeyondKeys(t *testing.T) {
	// Identical sort keys: original relative order decides.
	consequences := []domain.TranscriptConsequence{
		{TranscriptID: "ENST00000000010", Impact: domain.ImpactModerate},
		{TranscriptID: "ENST00000000011", Impact: domain.ImpactModerate},
		{TranscriptID: "ENST00000000012", Impact: domain.ImpactModerate},
	}

	selected := SelectConsequence(consequences)
	assert.Equal(t, "ENST00000000010", selected.TranscriptID)
}

func TestSelectConsequenceIdempotent(t *testing.T) {
	consequences := []domain.TranscriptConsequence{
		{TranscriptID: "ENST00000000001", Impact: domain.ImpactLow},
		{TranscriptID: "ENST00000000002", Impact: domain.ImpactHigh},
		{TranscriptID: "ENST00000000003", Impact: domain.ImpactHigh, Canonical: 1},
	}

	first := SelectConsequence(consequences)
	second := SelectConsequence(consequences)
	assert.Equal(t, first.TranscriptID, second.TranscriptID)
}

func TestSelectConsequenceUnknownImpactSortsLast(t *testing.T) {
	consequences := []domain.TranscriptConsequence{
		{TranscriptID: "ENST00000000001", Impact: "BOGUS"},
		{TranscriptID: "ENST00000000002", Impact: domain.ImpactModifier},
	}

	selected := SelectConsequence(consequences)
	assert.Equal(t, "ENST00000000002", selected.TranscriptID)
}

func TestSelectConsequenceSingleElement(t *testing.T) {
	consequences := []domain.TranscriptConsequence{
		{TranscriptID: "ENST00000000042", Impact: domain.ImpactModerate},
	}
	assert.Equal(t, "ENST00000000042", SelectConsequence(consequences).TranscriptID)
}
