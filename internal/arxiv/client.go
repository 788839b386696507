// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package arxiv talks to arxiv.org: it discovers the version history of a
// paper from its abstract page and downloads per-version source archives.
package arxiv

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/pdiddy/texharvest/internal/httputil"
	"github.com/pdiddy/texharvest/pkg/types"
)

// Base URLs for arxiv.org. Declared as vars so tests can substitute
// httptest servers.
var (
	AbsBase    = "https://arxiv.org/abs/"
	EPrintBase = "https://arxiv.org/e-print/"
)

// historyPattern matches one line of the submission history, e.g.
// "[v1] Mon, 12 Jun 2017 17:57:34 UTC (1,044 KB)".
var historyPattern = regexp.MustCompile(`\[v(\d+)\]\s+[A-Z][a-z]{2},\s+(\d{1,2}\s+[A-Z][a-z]{2}\s+\d{4})`)

// historyDateLayout parses the day-month-year part of a history line.
const historyDateLayout = "2 Jan 2006"

// Version is one entry of a paper's submission history.
type Version struct {
	// Number is the 1-based version number.
	Number int

	// Date is the submission date in YYYY-MM-DD form, or "" when the
	// history line could not be parsed.
	Date string
}

// Client fetches pages and archives from arxiv.org. All requests share a
// token bucket so consecutive requests keep a minimum spacing.
type Client struct {
	http      *http.Client
	userAgent string
	retries   int
	limiter   *rate.Limiter
}

// NewClient creates a client using the harvest configuration's request
// spacing and retry settings.
func NewClient(hc *http.Client, cfg types.HarvestConfig) *Client {
	every := rate.Limit(rate.Inf)
	if cfg.RequestDelay > 0 {
		every = rate.Every(cfg.RequestDelay)
	}
	return &Client{
		http:      hc,
		userAgent: cfg.UserAgent,
		retries:   cfg.RetryAttempts,
		limiter:   rate.NewLimiter(every, 1),
	}
}

// VersionHistory fetches the abstract page for id (dotted form) and
// returns its submission history in version order. A page without a
// submission history block is an error; callers typically fall back to
// assuming a single version.
func (c *Client) VersionHistory(ctx context.Context, id string) ([]Version, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, AbsURL(id), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := httputil.DoWithRetry(c.http, req, c.retries)
	if err != nil {
		return nil, fmt.Errorf("abstract page request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("abstract page returned HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing abstract page: %w", err)
	}

	versions := parseHistory(doc.Find("div.submission-history").Text())
	if len(versions) == 0 {
		return nil, fmt.Errorf("no submission history found for %s", id)
	}
	return versions, nil
}

// parseHistory extracts version entries from the submission-history text.
func parseHistory(text string) []Version {
	var versions []Version
	for _, m := range historyPattern.FindAllStringSubmatch(text, -1) {
		number, _ := strconv.Atoi(m[1])
		v := Version{Number: number}
		if t, err := time.Parse(historyDateLayout, m[2]); err == nil {
			v.Date = t.Format("2006-01-02")
		}
		versions = append(versions, v)
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i].Number < versions[j].Number })
	return versions
}

// DownloadEPrint fetches the source archive for one version of id (dotted
// form) to destPath using a temporary file, so a partial download never
// lands at the destination path.
func (c *Client) DownloadEPrint(ctx context.Context, id string, version int, destPath string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	url := EPrintURL(id, version)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := httputil.DoWithRetry(c.http, req, c.retries)
	if err != nil {
		return fmt.Errorf("e-print request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".eprint-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
