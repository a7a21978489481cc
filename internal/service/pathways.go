package service

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
)

// PathwayResolver maps a gene identifier to its sorted, deduplicated pathway
// ids. Resolution never fails: an unknown gene, an empty key, or a broken
// lookup all yield an empty slice.
type PathwayResolver interface {
	Resolve(ctx context.Context, geneKey string) []string
}

// MapPathwayResolver resolves pathways against a preloaded in-memory map.
// The map is read-only after construction and safe for concurrent use.
type MapPathwayResolver struct {
	pathways map[string]map[string]struct{}
}

// NewMapPathwayResolver builds a resolver over an already-parsed mapping.
func NewMapPathwayResolver(pathways map[string]map[string]struct{}) *MapPathwayResolver {
	if pathways == nil {
		pathways = make(map[string]map[string]struct{})
	}
	return &MapPathwayResolver{pathways: pathways}
}

// LoadMapPathwayResolver reads a delimited gene-to-pathway mapping file and
// builds a resolver from it.
func LoadMapPathwayResolver(path string, log *logrus.Logger) (*MapPathwayResolver, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pathway map file: %w", err)
	}
	defer f.Close()

	pathways, err := ParsePathwayMap(f)
	if err != nil {
		return nil, fmt.Errorf("parsing pathway map file %s: %w", path, err)
	}

	log.WithFields(logrus.Fields{
		"file":  path,
		"genes": len(pathways),
	}).Info("Pathway map loaded")

	return NewMapPathwayResolver(pathways), nil
}

// ParsePathwayMap parses a two-column delimited mapping: gene id, pathway id,
// one pair per line. Comment lines prefixed '#' and lines with fewer than two
// columns are skipped.
func ParsePathwayMap(r io.Reader) (map[string]map[string]struct{}, error) {
	pathways := make(map[string]map[string]struct{})
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		gene, pathway := fields[0], fields[1]
		if pathways[gene] == nil {
			pathways[gene] = make(map[string]struct{})
		}
		pathways[gene][pathway] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading pathway map: %w", err)
	}
	return pathways, nil
}

// Resolve returns the sorted pathway ids for a gene key.
func (r *MapPathwayResolver) Resolve(_ context.Context, geneKey string) []string {
	if geneKey == "" {
		return []string{}
	}
	set, ok := r.pathways[geneKey]
	if !ok {
		return []string{}
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// PathwayClient fetches pathway ids for a gene from an external source. A gene
// the source does not know yields an empty slice without error.
type PathwayClient interface {
	PathwaysForGene(ctx context.Context, geneID string) ([]string, error)
}

// ExternalPathwayResolver resolves pathways through an external lookup service,
// memoizing results in an in-process LRU cache. Lookup failures are absorbed
// with a logged warning; they must never fail the overall request.
type ExternalPathwayResolver struct {
	client PathwayClient
	cache  *lru.Cache[string, []string]
	log    *logrus.Logger
}

// NewExternalPathwayResolver creates an external resolver with an LRU cache of
// the given size.
func NewExternalPathwayResolver(client PathwayClient, cacheSize int, log *logrus.Logger) (*ExternalPathwayResolver, error) {
	if cacheSize <= 0 {
		cacheSize = 1024
	}
	cache, err := lru.New[string, []string](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating pathway cache: %w", err)
	}
	return &ExternalPathwayResolver{
		client: client,
		cache:  cache,
		log:    log,
	}, nil
}

// Resolve returns the sorted, deduplicated pathway ids for a gene key.
func (r *ExternalPathwayResolver) Resolve(ctx context.Context, geneKey string) []string {
	if geneKey == "" {
		return []string{}
	}

	if cached, ok := r.cache.Get(geneKey); ok {
		return cached
	}

	ids, err := r.client.PathwaysForGene(ctx, geneKey)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"gene":  geneKey,
			"error": err,
		}).Warn("Pathway lookup failed, continuing without pathways")
		return []string{}
	}

	ids = sortUnique(ids)
	r.cache.Add(geneKey, ids)
	return ids
}

func sortUnique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
