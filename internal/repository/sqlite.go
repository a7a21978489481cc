package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/variant-context-server/internal/domain"
)

// SQLiteScoreStore reads AlphaMissense predictions from a local SQLite file.
// Intended for lite deployments without a PostgreSQL instance.
type SQLiteScoreStore struct {
	db            *sql.DB
	table         string
	lookupTimeout time.Duration
	log           *logrus.Logger
}

// NewSQLiteScoreStore opens the SQLite database at path and verifies it is
// reachable.
func NewSQLiteScoreStore(path, table string, lookupTimeout time.Duration, logger *logrus.Logger) (*SQLiteScoreStore, error) {
	if err := validateTableName(table); err != nil {
		return nil, err
	}
	if lookupTimeout == 0 {
		lookupTimeout = 2 * time.Second
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database %s: %w", path, err)
	}
	// SQLite handles one writer; a single connection avoids lock contention.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite database %s: %w", path, err)
	}

	logger.WithField("path", path).Info("SQLite score store opened")

	return &SQLiteScoreStore{
		db:            db,
		table:         table,
		lookupTimeout: lookupTimeout,
		log:           logger,
	}, nil
}

// LookupByCoordinates returns all predictions stored for a coordinate
// quadruple.
func (s *SQLiteScoreStore) LookupByCoordinates(ctx context.Context, chrom string, pos int64, ref, alt string) ([]domain.PathogenicityPrediction, error) {
	query := fmt.Sprintf(`
		SELECT am_pathogenicity, am_class
		FROM %s
		WHERE chromosome = ? AND position = ? AND ref_allele = ? AND alt_allele = ?`,
		s.table)

	ctx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, query, chrom, pos, ref, alt)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("score lookup for %s:%d:%s>%s: %w: %w", chrom, pos, ref, alt, domain.ErrResourceExhausted, err)
		}
		return nil, fmt.Errorf("score lookup for %s:%d:%s>%s: %w", chrom, pos, ref, alt, err)
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
		return nil, fmt.Errorf("reading score rows: %w", err)
	}

	return predictions, nil
}

// Close closes the underlying database handle.
func (s *SQLiteScoreStore) Close() error {
	return s.db.Close()
}
