package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/variant-context-server/internal/domain"
)

// PostgresScoreStore reads AlphaMissense predictions from a PostgreSQL table.
type PostgresScoreStore struct {
	db            *sql.DB
	table         string
	lookupTimeout time.Duration
	log           *logrus.Logger
}

// NewPostgresScoreStore creates a score store over an existing database handle.
// The handle's pool bounds concurrent lookups; lookupTimeout caps how long a
// lookup may wait for a connection plus the query itself.
func NewPostgresScoreStore(db *sql.DB, table string, lookupTimeout time.Duration, logger *logrus.Logger) (*PostgresScoreStore, error) {
	if err := validateTableName(table); err != nil {
		return nil, err
	}
	if lookupTimeout == 0 {
		lookupTimeout = 2 * time.Second
	}
	return &PostgresScoreStore{
		db:            db,
		table:         table,
		lookupTimeout: lookupTimeout,
		log:           logger,
	}, nil
}

// LookupByCoordinates returns all predictions stored for a coordinate
// quadruple, one per matching transcript.
func (s *PostgresScoreStore) LookupByCoordinates(ctx context.Context, chrom string, pos int64, ref, alt string) ([]domain.PathogenicityPrediction, error) {
	query := fmt.Sprintf(`
		SELECT am_pathogenicity, am_class
		FROM %s
		WHERE chromosome = $1 AND position = $2 AND ref_allele = $3 AND alt_allele = $4`,
		s.table)

	ctx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, query, chrom, pos, ref, alt)
	if err != nil {
		return nil, s.classifyLookupError(err, chrom, pos, ref, alt)
	}
	defer rows.Close()

	var predictions []domain.PathogenicityPrediction
	for rows.Next() {
		var p domain.PathogenicityPrediction
		if err := rows.Scan(&p.Score, &p.Class); err != nil {
			return nil, fmt.Errorf("scanning score row: %w", err)
		}
		predictions = append(predictions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, s.classifyLookupError(err, chrom, pos, ref, alt)
	}

	return predictions, nil
}

// Close closes the underlying database handle.
func (s *PostgresScoreStore) Close() error {
	return s.db.Close()
}

// classifyLookupError distinguishes pool/deadline exhaustion from plain query
// failures so callers can map them to different outcomes.
func (s *PostgresScoreStore) classifyLookupError(err error, chrom string, pos int64, ref, alt string) error {
	fields := logrus.Fields{
		"chromosome": chrom,
		"position":   pos,
		"ref":        ref,
		"alt":        alt,
		"error":      err,
	}
	if errors.Is(err, context.DeadlineExceeded) {
		s.log.WithFields(fields).Error("Score lookup exhausted its deadline")
		return fmt.Errorf("score lookup for %s:%d:%s>%s: %w: %w", chrom, pos, ref, alt, domain.ErrResourceExhausted, err)
	}
	s.log.WithFields(fields).Error("Score lookup failed")
	return fmt.Errorf("score lookup for %s:%d:%s>%s: %w", chrom, pos, ref, alt, err)
}
