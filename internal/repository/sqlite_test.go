package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/variant-context-server/internal/domain"
)

func newSQLiteFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scores.db")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE alphamissense_hg38 (
			chromosome TEXT NOT NULL,
			position INTEGER NOT NULL,
			ref_allele TEXT NOT NULL,
			alt_allele TEXT NOT NULL,
			transcript_id TEXT NOT NULL,
			am_pathogenicity REAL NOT NULL,
			am_class TEXT NOT NULL
		)`)
	require.NoError(t, err)

	_, err = db.Exec(`
		INSERT INTO alphamissense_hg38 VALUES
			('7', 140753336, 'A', 'T', 'ENST00000288602', 0.9728, 'likely_pathogenic'),
			('7', 140753336, 'A', 'T', 'ENST00000496384', 0.91, 'likely_pathogenic'),
			('1', 100, 'G', 'C', 'ENST00000000001', 0.1, 'likely_benign')`)
	require.NoError(t, err)

	return path
}

func TestSQLiteLookupByCoordinates(t *testing.T) {
	path := newSQLiteFixture(t)

	store, err := NewSQLiteScoreStore(path, "alphamissense_hg38", time.Second, testLogger())
	require.NoError(t, err)
	defer store.Close()

	predictions, err := store.LookupByCoordinates(context.Background(), "7", 140753336, "A", "T")
	require.NoError(t, err)
	require.Len(t, predictions, 2)
	assert.Equal(t, 0.9728, predictions[0].Score)
	assert.Equal(t, domain.ClassLikelyPathogenic, predictions[0].Class)
}

func TestSQLiteLookupNoMatch(t *testing.T) {
	path := newSQLiteFixture(t)

	store, err := NewSQLiteScoreStore(path, "alphamissense_hg38", time.Second, testLogger())
	require.NoError(t, err)
	defer store.Close()

	predictions, err := store.LookupByCoordinates(context.Background(), "X", 1, "A", "T")
	require.NoError(t, err)
	assert.Empty(t, predictions)
}

func TestNewSQLiteScoreStoreRejectsBadTableName(t *testing.T) {
	_, err := NewSQLiteScoreStore(filepath.Join(t.TempDir(), "scores.db"), "bad-name", time.Second, testLogger())
	assert.Error(t, err)
}
