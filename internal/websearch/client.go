// Package websearch fills missing beer facts from an external search
// endpoint. The pipeline treats it as best-effort: no answer and transport
// failure both leave the candidate unchanged.
package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bmorrow/taplist/internal/pipeline"
	"github.com/rs/zerolog"
)

const defaultTimeout = 10 * time.Second

// Client calls the beer-facts search endpoint.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient creates a client for the given endpoint base URL.
func NewClient(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
		log:     log,
	}
}

type lookupRequest struct {
	Name    string `json:"name"`
	Brewery string `json:"brewery"`
}

type lookupResponse struct {
	Found  bool     `json:"found"`
	ABV    *float64 `json:"abv"`
	SizeOz *int     `json:"size_oz"`
	Style  string   `json:"style"`
}

// LookupBeer queries the search endpoint for one (name, brewery) pair.
// A (nil, nil) return means the source had no answer.
func (c *Client) LookupBeer(ctx context.Context, name, brewery string) (*pipeline.BeerFacts, error) {
	body, err := json.Marshal(lookupRequest{Name: name, Brewery: brewery})
	if err != nil {
		return nil, fmt.Errorf("websearch: marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/beer-facts", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("websearch: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("websearch: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("websearch: unexpected status %d", resp.StatusCode)
	}

	var out lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("websearch: decoding response: %w", err)
	}
	if !out.Found {
		return nil, nil
	}

	c.log.Debug().
		Str("name", name).
		Str("brewery", brewery).
		Msg("Beer facts found")

	return &pipeline.BeerFacts{
		ABV:  out.ABV,
		Size: out.SizeOz,
		Type: out.Style,
	}, nil
}

var _ pipeline.FactLookup = (*Client)(nil)
