package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePathwayMap(t *testing.T) {
	input := `# gene_id	pathway_id
ENSG00000157764	R-HSA-5683057
ENSG00000157764	R-HSA-6802957
ENSG00000157764	R-HSA-5683057
ENSG00000141510	R-HSA-69488

short_line
`

	pathways, err := ParsePathwayMap(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, pathways, 2)
	assert.Len(t, pathways["ENSG00000157764"], 2)
	assert.Len(t, pathways["ENSG00000141510"], 1)
}

func TestMapPathwayResolverSortedDeduplicated(t *testing.T) {
	resolver := NewMapPathwayResolver(map[string]map[string]struct{}{
		"ENSG00000157764": {
			"R-HSA-6802957": {},
			"R-HSA-5683057": {},
			"R-HSA-1226099": {},
		},
	})

	ids := resolver.Resolve(context.Background(), "ENSG00000157764")
	assert.Equal(t, []string{"R-HSA-1226099", "R-HSA-5683057", "R-HSA-6802957"}, ids)
}

func TestMapPathwayResolverUnknownGene(t *testing.T) {
	resolver := NewMapPathwayResolver(nil)
	assert.Empty(t, resolver.Resolve(context.Background(), "ENSG00000000000"))
}

func TestMapPathwayResolverEmptyKey(t *testing.T) {
	resolver := NewMapPathwayResolver(map[string]map[string]struct{}{
		"": {"R-HSA-1": {}},
	})
	assert.Empty(t, resolver.Resolve(context.Background(), ""))
}

type stubPathwayClient struct {
	ids   []string
	err   error
	calls int
}

func (s *stubPathwayClient) PathwaysForGene(_ context.Context, _ string) ([]string, error) {
	s.calls++
	return s.ids, s.err
}

func TestExternalPathwayResolverSortsAndCaches(t *testing.T) {
	client := &stubPathwayClient{ids: []string{"R-HSA-2", "R-HSA-1", "R-HSA-2"}}
	resolver, err := NewExternalPathwayResolver(client, 8, testLogger())
	require.NoError(t, err)

	ids := resolver.Resolve(context.Background(), "ENSG00000157764")
	assert.Equal(t, []string{"R-HSA-1", "R-HSA-2"}, ids)

	// Second resolve is served from the cache.
	ids = resolver.Resolve(context.Background(), "ENSG00000157764")
	assert.Equal(t, []string{"R-HSA-1", "R-HSA-2"}, ids)
	assert.Equal(t, 1, client.calls)
}

func TestExternalPathwayResolverAbsorbsFailures(t *testing.T) {
	client := &stubPathwayClient{err: errors.New("connection refused")}
	resolver, err := NewExternalPathwayResolver(client, 8, testLogger())
	require.NoError(t, err)

	assert.Empty(t, resolver.Resolve(context.Background(), "ENSG00000157764"))

	// Failures are not cached; the next resolve retries.
	resolver.Resolve(context.Background(), "ENSG00000157764")
	assert.Equal(t, 2, client.calls)
}

func TestExternalPathwayResolverEmptyKey(t *testing.T) {
	client := &stubPathwayClient{ids: []string{"R-HSA-1"}}
	resolver, err := NewExternalPathwayResolver(client, 8, testLogger())
	require.NoError(t, err)

	assert.Empty(t, resolver.Resolve(context.Background(), ""))
	assert.Equal(t, 0, client.calls)
}
