package external

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/variant-context-server/internal/domain"
)

const vepResponseBody = `[
	{
		"input": "rs113488022",
		"seq_region_name": "7",
		"start": 140753336,
		"end": 140753336,
		"strand": 1,
		"allele_string": "A/T",
		"most_severe_consequence": "missense_variant",
		"transcript_consequences": [
			{
				"gene_id": "ENSG00000157764",
				"gene_symbol": "BRAF",
				"transcript_id": "ENST00000288602",
				"biotype": "protein_coding",
				"consequence_terms": ["missense_variant"],
				"impact": "MODERATE",
				"hgvsc": "ENST00000288602.11:c.1799T>A",
				"hgvsp": "ENSP00000288602.7:p.Val600Glu",
				"canonical": 1
			}
		]
	}
]`

func newTestVEPClient(serverURL string) *VEPClient {
	return NewVEPClient(VEPConfig{
		BaseURL:   serverURL,
		Species:   "human",
		Timeout:   5 * time.Second,
		RateLimit: 100,
	})
}

func TestVEPClientFetchSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/vep/human/hgvs/rs113488022", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("hgvs"))
		assert.NotEmpty(t, r.URL.Query().Get("fields"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(vepResponseBody))
	}))
	defer server.Close()

	record, err := newTestVEPClient(server.URL).Fetch(context.Background(), "rs113488022")
	require.NoError(t, err)

	assert.Equal(t, "rs113488022", record.Input)
	assert.Equal(t, "7", record.SeqRegionName)
	assert.Equal(t, int64(140753336), record.Start)
	assert.Equal(t, "A/T", record.AlleleString)
	require.Len(t, record.TranscriptConsequences, 1)
	assert.Equal(t, "BRAF", record.TranscriptConsequences[0].GeneSymbol)
	assert.Equal(t, 1, record.TranscriptConsequences[0].Canonical)
}

func TestVEPClientFetchEscapesIdentifier(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte(vepResponseBody))
	}))
	defer server.Close()

	_, err := newTestVEPClient(server.URL).Fetch(context.Background(), "7:g.140753336A>T")
	require.NoError(t, err)
	assert.Equal(t, "/vep/human/hgvs/7:g.140753336A%3ET", gotPath)
}

func TestVEPClientFetchEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	_, err := newTestVEPClient(server.URL).Fetch(context.Background(), "rs0")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "rs0")
}

func TestVEPClientFetchUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestVEPClient(server.URL).Fetch(context.Background(), "rs113488022")
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestVEPClientFetchBadRequestIsUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Unable to parse"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := newTestVEPClient(server.URL).Fetch(context.Background(), "rs113488022")
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestVEPClientFetchMalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "an array"`))
	}))
	defer server.Close()

	_, err := newTestVEPClient(server.URL).Fetch(context.Background(), "rs113488022")
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestVEPClientFetchConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := newTestVEPClient(server.URL).Fetch(context.Background(), "rs113488022")
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestVEPClientFetchEmptyIdentifier(t *testing.T) {
	_, err := newTestVEPClient("http://localhost:1").Fetch(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVEPClientDefaults(t *testing.T) {
	client := NewVEPClient(VEPConfig{})
	assert.Equal(t, "https://rest.ensembl.org", client.baseURL)
	assert.Equal(t, "human", client.species)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
}
