package fkd

import (
	"context"

	"github.com/daikumatan/shippai-knowledge-etl/pkg/mandala"
)

// Extractor composes fetching and parsing into whole-case extraction.
type Extractor struct {
	client *Client
}

// NewExtractor creates an Extractor over client.
func NewExtractor(client *Client) *Extractor {
	return &Extractor{client: client}
}

// Client returns the underlying archive client.
func (e *Extractor) Client() *Client { return e.client }

// Extract fetches a case page and its scenario page and produces the
// full record. Unknown separator markers on the scenario page are
// returned as warnings. Segmentation failures and missing required
// fields come back as coded exclusion errors; transport problems as
// ordinary failures.
func (e *Extractor) Extract(ctx context.Context, caseURL string) (*Case, []mandala.UnknownMarker, error) {
	page, err := e.client.GetPage(ctx, "case", caseURL)
	if err != nil {
		return nil, nil, err
	}
	c, scenarioPage, err := ParseCasePage(page, caseURL)
	if err != nil {
		return nil, nil, err
	}

	var warnings []mandala.UnknownMarker
	if scenarioPage != "" {
		data, err := e.client.GetPage(ctx, "scenario", scenarioPage)
		if err != nil {
			return nil, nil, err
		}
		tokens, err := TokenizeScenario(data)
		if err != nil {
			return nil, nil, err
		}
		structure, warns, err := mandala.Segment(tokens)
		if err != nil {
			return nil, warns, err
		}
		warnings = warns
		c.Scenario = structure.Serialize()
	}
	// A case page without a scenario link leaves Scenario empty and is
	// reported through the required-field check below.

	if err := ValidateRequired(c); err != nil {
		return nil, warnings, err
	}
	return c, warnings, nil
}

// ListCases fetches an index page and returns up to limit case
// references; limit <= 0 means all.
func (e *Extractor) ListCases(ctx context.Context, listURL string, limit int) ([]CaseRef, error) {
	data, err := e.client.GetPage(ctx, "list", listURL)
	if err != nil {
		return nil, err
	}
	refs, err := ParseCaseList(data, listURL)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(refs) > limit {
		refs = refs[:limit]
	}
	return refs, nil
}

// FetchImage retrieves a representative figure by its stored filename.
func (e *Extractor) FetchImage(ctx context.Context, name string) ([]byte, error) {
	return e.client.GetPage(ctx, "image", e.client.BaseURL()+"df/"+name)
}

// FetchMultimedia retrieves a multimedia figure by its file ID. The
// archive serves these as JPEGs under mf/.
func (e *Extractor) FetchMultimedia(ctx context.Context, id string) ([]byte, error) {
	return e.client.GetPage(ctx, "image", e.client.BaseURL()+"mf/"+id+".jpg")
}
