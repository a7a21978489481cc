package service

import (
	"sort"

	"github.com/variant-context-server/internal/domain"
)

// SelectConsequence picks the most biologically relevant transcript consequence
// from a non-empty slice. It stable-sorts in place by (impact rank, canonical
// rank) ascending and returns the first element, so the most severe canonical
// consequence wins and ties retain their original relative order.
func SelectConsequence(consequences []domain.TranscriptConsequence) domain.TranscriptConsequence {
	sort.SliceStable(consequences, func(i, j int) bool {
		ri, rj := domain.ImpactRank(consequences[i].Impact), domain.ImpactRank(consequences[j].Impact)
		if ri != rj {
			return ri < rj
		}
		return canonicalRank(consequences[i]) < canonicalRank(consequences[j])
	})
	return consequences[0]
}

func canonicalRank(tc domain.TranscriptConsequence) int {
	if tc.Canonical == 1 {
		return 0
	}
	return 1
}
