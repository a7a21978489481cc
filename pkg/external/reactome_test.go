package external

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReactomeClient(serverURL string) *ReactomeClient {
	return NewReactomeClient(ReactomeConfig{
		BaseURL:   serverURL,
		Timeout:   5 * time.Second,
		RateLimit: 100,
	})
}

func TestReactomePathwaysForGeneSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/pathways/low/entity/ENSG00000157764", r.URL.Path)
		assert.Equal(t, "9606", r.URL.Query().Get("species"))
		w.Write([]byte(`[
			{"stId": "R-HSA-5683057", "displayName": "MAPK family signaling cascades"},
			{"stId": "R-HSA-1226099", "displayName": "Signaling by RTKs in disease"},
			{"displayName": "entry without a stable id"}
		]`))
	}))
	defer server.Close()

	ids, err := newTestReactomeClient(server.URL).PathwaysForGene(context.Background(), "ENSG00000157764")
	require.NoError(t, err)
	assert.Equal(t, []string{"R-HSA-5683057", "R-HSA-1226099"}, ids)
}

func TestReactomePathwaysForGeneNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	ids, err := newTestReactomeClient(server.URL).PathwaysForGene(context.Background(), "ENSG00000999999")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestReactomePathwaysForGeneServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestReactomeClient(server.URL).PathwaysForGene(context.Background(), "ENSG00000157764")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestReactomePathwaysForGeneMalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"stId": "R-HSA-5683057"}`))
	}))
	defer server.Close()

	_, err := newTestReactomeClient(server.URL).PathwaysForGene(context.Background(), "ENSG00000157764")
	assert.Error(t, err)
}

func TestReactomePathwaysForGeneEmptyGene(t *testing.T) {
	ids, err := newTestReactomeClient("http://localhost:1").PathwaysForGene(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, ids)
}
