package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/variant-context-server/internal/domain"
)

func TestTrimHGVS(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ENST00000288602.11:c.1799T>A", "c.1799T>A"},
		{"ENSP00000288602.7:p.Val600Glu", "p.Val600Glu"},
		{"c.1799T>A", "c.1799T>A"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TrimHGVS(tt.in))
	}
}

func TestGeneKeyPrefersGeneID(t *testing.T) {
	tc := domain.TranscriptConsequence{GeneID: "ENSG00000157764", GeneSymbol: "BRAF"}
	assert.Equal(t, "ENSG00000157764", GeneKey(tc))

	tc.GeneID = ""
	assert.Equal(t, "BRAF", GeneKey(tc))
}

func TestBuildVariantContextResolvedFallsBackToInput(t *testing.T) {
	record := &domain.AnnotationRecord{}
	vc := BuildVariantContext("7:g.100A>T", "GRCh38", record, domain.TranscriptConsequence{}, nil, nil)

	assert.Equal(t, "7:g.100A>T", vc.InputVariant)
	assert.Equal(t, "7:g.100A>T", vc.ResolvedVariant)
	assert.Nil(t, vc.AlphaMissenseScore)
	assert.Equal(t, []string{}, vc.Pathways)
}
