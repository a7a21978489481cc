package service

import (
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/variant-context-server/internal/domain"
)

// alphaMissenseSource identifies AlphaMissense entries among a consequence's
// custom annotations.
const alphaMissenseSource = "AlphaMissense"

// ReconcilePredictions collapses zero or more pathogenicity predictions into the
// single most severe one. Severity order: likely_pathogenic > ambiguous >
// likely_benign > unrecognized. Within the winning severity tier the score may
// still improve to the tier's maximum, but the class stays with whichever
// candidate set the tier. ok is false for an empty candidate slice.
func ReconcilePredictions(candidates []domain.PathogenicityPrediction) (domain.PathogenicityPrediction, bool) {
	if len(candidates) == 0 {
		return domain.PathogenicityPrediction{}, false
	}

	bestSeverity := -1
	bestScore := -1.0
	bestClass := ""
	for _, c := range candidates {
		severity := domain.SeverityRank(c.Class)
		if severity > bestSeverity {
			bestSeverity, bestClass, bestScore = severity, c.Class, c.Score
		} else if severity == bestSeverity && c.Score > bestScore {
			bestScore = c.Score
		}
	}

	return domain.PathogenicityPrediction{Score: bestScore, Class: bestClass}, true
}

// ParseEmbeddedPredictions extracts AlphaMissense prediction candidates from a
// transcript consequence's custom annotations. The annotation value is a
// "class&score" pair; malformed entries are logged and skipped, never fatal.
func ParseEmbeddedPredictions(tc domain.TranscriptConsequence, log *logrus.Logger) []domain.PathogenicityPrediction {
	var candidates []domain.PathogenicityPrediction
	for _, annotation := range tc.CustomAnnotations {
		if annotation.Source != alphaMissenseSource {
			continue
		}
		class, scoreStr, found := strings.Cut(annotation.Value, "&")
		if !found || class == "" {
			log.WithFields(logrus.Fields{
				"transcript_id": tc.TranscriptID,
				"value":         annotation.Value,
			}).Warn("Skipping malformed AlphaMissense annotation")
			continue
		}
		score, err := strconv.ParseFloat(scoreStr, 64)
		if err != nil {
			log.WithFields(logrus.Fields{
				"transcript_id": tc.TranscriptID,
				"value":         annotation.Value,
				"error":         err,
			}).Warn("Skipping AlphaMissense annotation with unparseable score")
			continue
		}
		candidates = append(candidates, domain.PathogenicityPrediction{Score: score, Class: class})
	}
	return candidates
}
