// Package repository provides the pathogenicity score store implementations
// and the bulk loader for the AlphaMissense table.
package repository

import (
	"context"
	"fmt"
	"regexp"

	"github.com/variant-context-server/internal/domain"
)

// ScoreStore looks up pathogenicity predictions by genomic coordinates. One
// row per matching transcript may be returned; reconciliation is the caller's
// concern. Pool exhaustion or lookup deadline expiry surfaces as
// domain.ErrResourceExhausted.
type ScoreStore interface {
	LookupByCoordinates(ctx context.Context, chrom string, pos int64, ref, alt string) ([]domain.PathogenicityPrediction, error)
	Close() error
}

// tableNamePattern restricts configurable table names to plain identifiers,
// since the table name is interpolated into SQL text.
var tableNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

func validateTableName(table string) error {
	if !tableNamePattern.MatchString(table) {
		return fmt.Errorf("invalid score table name: %q", table)
	}
	return nil
}
