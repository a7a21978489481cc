// Package service implements the annotation resolution pipeline: identifier
// normalization, consequence selection, pathogenicity reconciliation, pathway
// augmentation, and response assembly.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/variant-context-server/internal/domain"
	"github.com/variant-context-server/pkg/external"
)

// ScoreStore looks up pathogenicity predictions by genomic coordinates. It is
// satisfied by the repository implementations.
type ScoreStore interface {
	LookupByCoordinates(ctx context.Context, chrom string, pos int64, ref, alt string) ([]domain.PathogenicityPrediction, error)
}

// ScoreSource yields pathogenicity candidates for the selected consequence.
// Exactly one source is active per deployment; the reconciliation fold over the
// candidates is shared.
type ScoreSource interface {
	Candidates(ctx context.Context, record *domain.AnnotationRecord, selected domain.TranscriptConsequence) ([]domain.PathogenicityPrediction, error)
}

// EmbeddedScoreSource reads predictions embedded in the selected consequence's
// custom annotations.
type EmbeddedScoreSource struct {
	log *logrus.Logger
}

// NewEmbeddedScoreSource creates an embedded score source.
func NewEmbeddedScoreSource(log *logrus.Logger) *EmbeddedScoreSource {
	return &EmbeddedScoreSource{log: log}
}

// Candidates extracts AlphaMissense candidates from the selected consequence.
func (s *EmbeddedScoreSource) Candidates(_ context.Context, _ *domain.AnnotationRecord, selected domain.TranscriptConsequence) ([]domain.PathogenicityPrediction, error) {
	return ParseEmbeddedPredictions(selected, s.log), nil
}

// StoreScoreSource reads predictions from a coordinate-keyed score store.
type StoreScoreSource struct {
	store ScoreStore
	log   *logrus.Logger
}

// NewStoreScoreSource creates a store-backed score source.
func NewStoreScoreSource(store ScoreStore, log *logrus.Logger) *StoreScoreSource {
	return &StoreScoreSource{store: store, log: log}
}

// Candidates looks up all predictions for the record's coordinates, one row
// per matching transcript.
func (s *StoreScoreSource) Candidates(ctx context.Context, record *domain.AnnotationRecord, _ domain.TranscriptConsequence) ([]domain.PathogenicityPrediction, error) {
	chrom, pos, ref, alt, ok := record.Coordinates()
	if !ok {
		s.log.WithField("input", record.Input).Warn("Record has no usable coordinates for score lookup")
		return nil, nil
	}
	return s.store.LookupByCoordinates(ctx, chrom, pos, ref, alt)
}

// VariantContextService orchestrates the annotation resolution pipeline for one
// request. All fields are process-wide read-only collaborators.
type VariantContextService struct {
	annotations external.AnnotationClient
	pathways    PathwayResolver
	scores      ScoreSource // nil when score sourcing is disabled
	assembly    string
	log         *logrus.Logger
}

// NewVariantContextService creates the pipeline service.
func NewVariantContextService(
	annotations external.AnnotationClient,
	pathways PathwayResolver,
	scores ScoreSource,
	assembly string,
	log *logrus.Logger,
) *VariantContextService {
	return &VariantContextService{
		annotations: annotations,
		pathways:    pathways,
		scores:      scores,
		assembly:    assembly,
		log:         log,
	}
}

// Resolve turns a raw variant identifier into its functional-context record.
// Errors carry the domain sentinels the API layer maps to status codes.
func (s *VariantContextService) Resolve(ctx context.Context, identifier string) (*domain.VariantContext, error) {
	normalized, ok := NormalizeIdentifier(identifier)
	if !ok {
		return nil, fmt.Errorf("normalizing %q: %w", identifier, domain.ErrInvalidInput)
	}

	s.log.WithFields(logrus.Fields{
		"input":      identifier,
		"normalized": normalized,
	}).Info("Processing variant context request")

	record, err := s.annotations.Fetch(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("resolving variant %q: %w", identifier, err)
	}

	if len(record.TranscriptConsequences) == 0 {
		return nil, fmt.Errorf("no transcript consequences for variant %q: %w", identifier, domain.ErrNotFound)
	}

	selected := SelectConsequence(record.TranscriptConsequences)

	// Pathway resolution and score reconciliation are independent; run them
	// concurrently. Pathway failures are absorbed inside the resolver; only
	// score-store exhaustion can abort the request.
	var (
		pathways   []string
		prediction *domain.PathogenicityPrediction
	)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		pathways = s.pathways.Resolve(gctx, GeneKey(selected))
		return nil
	})

	g.Go(func() error {
		var err error
		prediction, err = s.reconcileScores(gctx, record, selected)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("resolving variant %q: %w", identifier, err)
	}

	return BuildVariantContext(identifier, s.assembly, record, selected, prediction, pathways), nil
}

// reconcileScores collects pathogenicity candidates for a missense consequence
// and folds them into the single best prediction. Lookup failures other than
// resource exhaustion degrade the response instead of aborting it.
func (s *VariantContextService) reconcileScores(ctx context.Context, record *domain.AnnotationRecord, selected domain.TranscriptConsequence) (*domain.PathogenicityPrediction, error) {
	if s.scores == nil || !selected.IsMissense() {
		return nil, nil
	}

	candidates, err := s.scores.Candidates(ctx, record, selected)
	if err != nil {
		if errors.Is(err, domain.ErrResourceExhausted) {
			return nil, err
		}
		s.log.WithFields(logrus.Fields{
			"input": record.Input,
			"error": err,
		}).Warn("Score lookup failed, continuing without prediction")
		return nil, nil
	}

	best, ok := ReconcilePredictions(candidates)
	if !ok {
		return nil, nil
	}

	s.log.WithFields(logrus.Fields{
		"input": record.Input,
		"score": best.Score,
		"class": best.Class,
	}).Info("Selected most severe pathogenicity prediction")

	return &best, nil
}
