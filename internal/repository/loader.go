package repository

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// alphaMissenseColumns is the column order of the AlphaMissense distribution
// file and of the target table.
var alphaMissenseColumns = []string{
	"chromosome", "position", "ref_allele", "alt_allele", "genome",
	"uniprot_id", "transcript_id", "protein_variant", "am_pathogenicity", "am_class",
}

const copyBatchSize = 10000

// AlphaMissenseRow is one parsed line of the AlphaMissense distribution file.
type AlphaMissenseRow struct {
	Chromosome     string
	Position       int64
	RefAllele      string
	AltAllele      string
	Genome         string
	UniprotID      string
	TranscriptID   string
	ProteinVariant string
	Pathogenicity  float64
	Class          string
}

// ParseAlphaMissenseRow parses one tab-separated line. It returns an error for
// lines with the wrong column count or unparseable numeric fields; callers skip
// such lines with a warning.
func ParseAlphaMissenseRow(line string) (*AlphaMissenseRow, error) {
	fields := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
	if len(fields) != len(alphaMissenseColumns) {
		return nil, fmt.Errorf("expected %d columns, got %d", len(alphaMissenseColumns), len(fields))
	}

	position, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing position %q: %w", fields[1], err)
	}

	score, err := strconv.ParseFloat(fields[8], 64)
	if err != nil {
		return nil, fmt.Errorf("parsing pathogenicity %q: %w", fields[8], err)
	}

	return &AlphaMissenseRow{
		Chromosome:     fields[0],
		Position:       position,
		RefAllele:      fields[2],
		AltAllele:      fields[3],
		Genome:         fields[4],
		UniprotID:      fields[5],
		TranscriptID:   fields[6],
		ProteinVariant: fields[7],
		Pathogenicity:  score,
		Class:          fields[9],
	}, nil
}

// AlphaMissenseLoader bulk-loads the AlphaMissense distribution file into
// PostgreSQL using the COPY protocol.
type AlphaMissenseLoader struct {
	pool  *pgxpool.Pool
	table string
	log   *logrus.Logger
}

// NewAlphaMissenseLoader creates a loader targeting the given table.
func NewAlphaMissenseLoader(pool *pgxpool.Pool, table string, logger *logrus.Logger) (*AlphaMissenseLoader, error) {
	if err := validateTableName(table); err != nil {
		return nil, err
	}
	return &AlphaMissenseLoader{
		pool:  pool,
		table: table,
		log:   logger,
	}, nil
}

// DropTable drops the target table for a clean reload.
func (l *AlphaMissenseLoader) DropTable(ctx context.Context) error {
	l.log.WithField("table", l.table).Warn("Dropping score table for clean reload")
	_, err := l.pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", l.table))
	if err != nil {
		return fmt.Errorf("dropping table %s: %w", l.table, err)
	}
	return nil
}

// CreateTable ensures the target table exists with the expected schema.
func (l *AlphaMissenseLoader) CreateTable(ctx context.Context) error {
	createSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			chromosome TEXT NOT NULL,
			position BIGINT NOT NULL,
			ref_allele TEXT NOT NULL,
			alt_allele TEXT NOT NULL,
			genome TEXT,
			uniprot_id TEXT,
			transcript_id TEXT NOT NULL,
			protein_variant TEXT,
			am_pathogenicity FLOAT NOT NULL,
			am_class TEXT NOT NULL,
			PRIMARY KEY (chromosome, position, ref_allele, alt_allele, transcript_id)
		)`, l.table)

	if _, err := l.pool.Exec(ctx, createSQL); err != nil {
		return fmt.Errorf("creating table %s: %w", l.table, err)
	}
	return nil
}

// CreateIndexes creates the coordinate and transcript indexes after loading.
func (l *AlphaMissenseLoader) CreateIndexes(ctx context.Context) error {
	indexes := []string{
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_coords ON %s (chromosome, position, ref_allele, alt_allele)", l.table, l.table),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_transcript ON %s (transcript_id)", l.table, l.table),
	}
	for _, indexSQL := range indexes {
		start := time.Now()
		if _, err := l.pool.Exec(ctx, indexSQL); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
		l.log.WithFields(logrus.Fields{
			"table":    l.table,
			"duration": time.Since(start).String(),
		}).Info("Index created")
	}
	return nil
}

// LoadFile streams a gzipped AlphaMissense distribution file into the table.
func (l *AlphaMissenseLoader) LoadFile(ctx context.Context, path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening source file %s: %w", path, err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return 0, fmt.Errorf("opening gzip stream for %s: %w", path, err)
	}
	defer gz.Close()

	return l.Load(ctx, gz)
}

// Load streams tab-separated rows into the table in batches. Comment lines
// prefixed '#' and malformed lines are skipped with a warning.
func (l *AlphaMissenseLoader) Load(ctx context.Context, r io.Reader) (int64, error) {
	start := time.Now()
	var total int64
	batch := make([][]interface{}, 0, copyBatchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		copied, err := l.pool.CopyFrom(ctx, pgx.Identifier{l.table}, alphaMissenseColumns, pgx.CopyFromRows(batch))
		if err != nil {
			return fmt.Errorf("copying batch into %s: %w", l.table, err)
		}
		total += copied
		batch = batch[:0]
		return nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		row, err := ParseAlphaMissenseRow(line)
		if err != nil {
			l.log.WithFields(logrus.Fields{
				"line":  line,
				"error": err,
			}).Warn("Skipping malformed line")
			continue
		}
		batch = append(batch, []interface{}{
			row.Chromosome, row.Position, row.RefAllele, row.AltAllele, row.Genome,
			row.UniprotID, row.TranscriptID, row.ProteinVariant, row.Pathogenicity, row.Class,
		})
		if len(batch) == copyBatchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return total, fmt.Errorf("reading source data: %w", err)
	}
	if err := flush(); err != nil {
		return total, err
	}

	l.log.WithFields(logrus.Fields{
		"table":    l.table,
		"rows":     total,
		"duration": time.Since(start).String(),
	}).Info("Bulk load finished")

	return total, nil
}
