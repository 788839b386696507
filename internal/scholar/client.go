// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scholar collects bibliographic metadata and reference lists
// from the Semantic Scholar graph API and writes the per-paper JSON
// documents.
package scholar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pdiddy/texharvest/internal/arxiv"
	"github.com/pdiddy/texharvest/internal/httputil"
	"github.com/pdiddy/texharvest/pkg/types"
)

// GraphAPIBase is the Semantic Scholar paper lookup endpoint. Declared as
// a var so tests can substitute an httptest server.
var GraphAPIBase = "https://api.semanticscholar.org/graph/v1/paper/"

const paperFields = "title,abstract,authors,venue,journal,publicationVenue,externalIds," +
	"references.externalIds,references.title,references.authors," +
	"references.publicationDate,references.paperId"

// Client queries the Semantic Scholar graph API.
type Client struct {
	HTTP      *http.Client
	APIKey    string
	UserAgent string
	Retries   int
}

// Record is the result of one paper lookup. References holds only the
// arXiv-linked entries, in API order; TotalReferences counts every
// reference the API returned.
type Record struct {
	Title           string
	Abstract        string
	Authors         []string
	Venue           string
	References      []types.Reference
	TotalReferences int
}

// Paper looks up a paper by its dotted arXiv identifier. A missing
// references field yields an empty reference list, not an error.
func (c *Client) Paper(ctx context.Context, id string) (*Record, error) {
	reqURL := GraphAPIBase + "arXiv:" + url.PathEscape(id) + "?fields=" + url.QueryEscape(paperFields)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	if c.APIKey != "" {
		req.Header.Set("x-api-key", c.APIKey)
	}

	resp, err := httputil.DoWithRetry(c.HTTP, req, c.Retries)
	if err != nil {
		return nil, fmt.Errorf("Semantic Scholar API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Semantic Scholar API returned HTTP %d", resp.StatusCode)
	}

	var gp graphPaper
	if err := json.NewDecoder(resp.Body).Decode(&gp); err != nil {
		return nil, fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}

	rec := &Record{
		Title:           gp.Title,
		Abstract:        gp.Abstract,
		Venue:           venueOf(gp),
		TotalReferences: len(gp.References),
	}
	for _, a := range gp.Authors {
		rec.Authors = append(rec.Authors, a.Name)
	}
	for _, ref := range gp.References {
		if ref.ExternalIDs.ArXiv == "" {
			continue
		}
		r := types.Reference{
			ArxivID:         arxiv.DirName(ref.ExternalIDs.ArXiv),
			Title:           ref.Title,
			PublicationDate: ref.PublicationDate,
			PaperID:         ref.PaperID,
		}
		for _, a := range ref.Authors {
			r.Authors = append(r.Authors, a.Name)
		}
		rec.References = append(rec.References, r)
	}
	return rec, nil
}

// venueOf picks the publication venue: the publicationVenue record when
// present, then the plain venue string, then the journal name.
func venueOf(gp graphPaper) string {
	if gp.PublicationVenue != nil && gp.PublicationVenue.Name != "" {
		return gp.PublicationVenue.Name
	}
	if gp.Venue != "" {
		return gp.Venue
	}
	if gp.Journal != nil {
		return gp.Journal.Name
	}
	return ""
}

// Semantic Scholar API JSON structures.
type graphPaper struct {
	PaperID          string           `json:"paperId"`
	Title            string           `json:"title"`
	Abstract         string           `json:"abstract"`
	Venue            string           `json:"venue"`
	Journal          *graphJournal    `json:"journal"`
	PublicationVenue *graphVenue      `json:"publicationVenue"`
	Authors          []graphAuthor    `json:"authors"`
	ExternalIDs      graphExternalIDs `json:"externalIds"`
	References       []graphReference `json:"references"`
}

type graphJournal struct {
	Name string `json:"name"`
}

type graphVenue struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type graphAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

type graphExternalIDs struct {
	DOI      string `json:"DOI"`
	ArXiv    string `json:"ArXiv"`
	CorpusID int    `json:"CorpusId"`
}

type graphReference struct {
	PaperID         string           `json:"paperId"`
	Title           string           `json:"title"`
	PublicationDate string           `json:"publicationDate"`
	Authors         []graphAuthor    `json:"authors"`
	ExternalIDs     graphExternalIDs `json:"externalIds"`
}
