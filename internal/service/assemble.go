package service

import (
	"strings"

	"github.com/variant-context-server/internal/domain"
)

// TrimHGVS strips the transcript/protein accession prefix from an HGVS
// notation: everything up to and including the last ':' is dropped. Strings
// without a ':' are returned unchanged.
func TrimHGVS(notation string) string {
	if idx := strings.LastIndex(notation, ":"); idx >= 0 {
		return notation[idx+1:]
	}
	return notation
}

// GeneKey returns the identifier used for pathway resolution: the gene id when
// present, otherwise the gene symbol.
func GeneKey(tc domain.TranscriptConsequence) string {
	if tc.GeneID != "" {
		return tc.GeneID
	}
	return tc.GeneSymbol
}

// BuildVariantContext combines the pipeline outputs into the response record.
// prediction may be nil when no pathogenicity data applies.
func BuildVariantContext(
	input string,
	assembly string,
	record *domain.AnnotationRecord,
	selected domain.TranscriptConsequence,
	prediction *domain.PathogenicityPrediction,
	pathways []string,
) *domain.VariantContext {
	resolved := record.Input
	if resolved == "" {
		resolved = input
	}

	if pathways == nil {
		pathways = []string{}
	}

	vc := &domain.VariantContext{
		InputVariant:      input,
		ResolvedVariant:   resolved,
		RequestedAssembly: assembly,
		GeneSymbol:        selected.GeneSymbol,
		EnsemblGeneID:     selected.GeneID,
		TranscriptID:      selected.TranscriptID,
		Consequence:       strings.Join(selected.ConsequenceTerms, ","),
		HGVSc:             TrimHGVS(selected.HGVSc),
		HGVSp:             TrimHGVS(selected.HGVSp),
		Impact:            selected.Impact,
		Pathways:          pathways,
	}

	if prediction != nil {
		score := prediction.Score
		vc.AlphaMissenseScore = &score
		vc.AlphaMissensePrediction = prediction.Class
	}

	return vc
}
