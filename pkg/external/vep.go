// Package external contains clients for the upstream annotation and pathway
// services, plus the caching and resilience layers wrapped around them.
package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/variant-context-server/internal/domain"
)

const userAgent = "variant-context-server/1.0"

// vepFields is the field projection requested from the VEP endpoint.
const vepFields = "input,seq_region_name,start,end,strand,allele_string," +
	"most_severe_consequence,transcript_consequences(gene_id,gene_symbol," +
	"transcript_id,biotype,consequence_terms,impact,hgvsc,hgvsp,canonical)"

// AnnotationClient fetches the annotation record for a normalized identifier.
// A missing variant is reported as domain.ErrNotFound; transport failures,
// non-2xx statuses, and malformed payloads as domain.ErrUpstreamUnavailable.
type AnnotationClient interface {
	Fetch(ctx context.Context, queryID string) (*domain.AnnotationRecord, error)
}

// VEPClient queries the Ensembl VEP REST API.
type VEPClient struct {
	baseURL    string
	species    string
	httpClient *http.Client
	rateLimit  *rate.Limiter
}

// VEPConfig represents configuration for the VEP API client.
type VEPConfig struct {
	BaseURL   string        `json:"base_url"`
	Species   string        `json:"species"`
	Timeout   time.Duration `json:"timeout"`
	RateLimit int           `json:"rate_limit"` // requests per second
}

// NewVEPClient creates a new VEP API client.
func NewVEPClient(config VEPConfig) *VEPClient {
	if config.BaseURL == "" {
		config.BaseURL = "https://rest.ensembl.org"
	}
	if config.Species == "" {
		config.Species = "human"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RateLimit == 0 {
		config.RateLimit = 15 // Ensembl allows 15 requests per second
	}

	return &VEPClient{
		baseURL: config.BaseURL,
		species: config.Species,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		rateLimit: rate.NewLimiter(rate.Limit(config.RateLimit), 1),
	}
}

// Fetch issues a single annotation request for a normalized identifier. The
// response is a JSON array; the first element is the canonical record. An empty
// array means the variant is unresolvable, not an error.
func (c *VEPClient) Fetch(ctx context.Context, queryID string) (*domain.AnnotationRecord, error) {
	if queryID == "" {
		return nil, fmt.Errorf("query identifier cannot be empty: %w", domain.ErrNotFound)
	}

	if err := c.rateLimit.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed: %w: %w", domain.ErrUpstreamUnavailable, err)
	}

	vepURL := fmt.Sprintf("%s/vep/%s/hgvs/%s", c.baseURL, c.species, url.PathEscape(queryID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, vepURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating VEP request: %w", err)
	}

	q := req.URL.Query()
	q.Set("fields", vepFields)
	q.Set("hgvs", "1")
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing VEP request for %q: %w: %w", queryID, domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("VEP API returned status %d for %q: %s: %w",
			resp.StatusCode, queryID, string(body), domain.ErrUpstreamUnavailable)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading VEP response for %q: %w: %w", queryID, domain.ErrUpstreamUnavailable, err)
	}

	var records []domain.AnnotationRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("parsing VEP response for %q: %w: %w", queryID, domain.ErrUpstreamUnavailable, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("no annotation for %q: %w", queryID, domain.ErrNotFound)
	}

	return &records[0], nil
}
