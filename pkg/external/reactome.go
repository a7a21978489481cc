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
)

// ReactomeClient queries the Reactome ContentService for pathways a gene
// participates in.
type ReactomeClient struct {
	baseURL    string
	httpClient *http.Client
	rateLimit  *rate.Limiter
}

// ReactomeConfig represents configuration for the Reactome API client.
type ReactomeConfig struct {
	BaseURL   string        `json:"base_url"`
	Timeout   time.Duration `json:"timeout"`
	RateLimit int           `json:"rate_limit"`
}

// reactomePathway is the subset of the ContentService pathway object we read.
type reactomePathway struct {
	StID        string `json:"stId"`
	DisplayName string `json:"displayName"`
}

// NewReactomeClient creates a new Reactome ContentService client.
func NewReactomeClient(config ReactomeConfig) *ReactomeClient {
	if config.BaseURL == "" {
		config.BaseURL = "https://reactome.org/ContentService"
	}
	if config.Timeout == 0 {
		config.Timeout = 15 * time.Second
	}
	if config.RateLimit == 0 {
		config.RateLimit = 10
	}

	return &ReactomeClient{
		baseURL: config.BaseURL,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		rateLimit: rate.NewLimiter(rate.Limit(config.RateLimit), 1),
	}
}

// PathwaysForGene returns the pathway stable ids associated with a gene id.
// A 404 means the gene has no mapped pathways and yields an empty slice
// without error.
func (c *ReactomeClient) PathwaysForGene(ctx context.Context, geneID string) ([]string, error) {
	if geneID == "" {
		return []string{}, nil
	}

	if err := c.rateLimit.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed: %w", err)
	}

	pathwayURL := fmt.Sprintf("%s/data/pathways/low/entity/%s?species=9606",
		c.baseURL, url.PathEscape(geneID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pathwayURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating Reactome request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing Reactome request for %q: %w", geneID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return []string{}, nil
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("Reactome API returned status %d for %q: %s",
			resp.StatusCode, geneID, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading Reactome response for %q: %w", geneID, err)
	}

	var pathways []reactomePathway
	if err := json.Unmarshal(body, &pathways); err != nil {
		return nil, fmt.Errorf("parsing Reactome response for %q: %w", geneID, err)
	}

	ids := make([]string, 0, len(pathways))
	for _, p := range pathways {
		if p.StID != "" {
			ids = append(ids, p.StID)
		}
	}
	return ids, nil
}
