// Package redmine reads issues from a Redmine issues.xml feed.
package redmine

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/raphi011/redfocus/internal/log"
	"github.com/raphi011/redfocus/internal/reconcile"
)

// DefaultConcurrency is the number of pages fetched in parallel.
const DefaultConcurrency = 4

// ErrUnauthorized is returned when the server rejects the credentials.
// Some Redmine installations answer bad credentials with an empty list instead.
var ErrUnauthorized = errors.New("redmine rejected the credentials")

// HTTPError is returned for non-2xx responses other than 401.
type HTTPError struct {
	URL    string
	Status string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("GET %s: %s", e.URL, e.Status)
}

// Client fetches issues from a Redmine server.
type Client struct {
	// IssuesURL is the XML feed, e.g. https://host/redmine/issues.xml?assigned_to_id=me
	IssuesURL string
	// URLPrefix builds issue links: <URLPrefix>/<id>.
	URLPrefix string
	User      string
	Password  string

	// Concurrency bounds parallel page fetches; <= 0 means DefaultConcurrency.
	Concurrency int
	// HTTPClient defaults to a client with a 30s timeout.
	HTTPClient *http.Client
}

type named struct {
	Name string `xml:"name,attr"`
}

type issueXML struct {
	ID          string `xml:"id"`
	Project     named  `xml:"project"`
	Tracker     named  `xml:"tracker"`
	Status      named  `xml:"status"`
	Author      named  `xml:"author"`
	AssignedTo  named  `xml:"assigned_to"`
	Subject     string `xml:"subject"`
	Description string `xml:"description"`
}

type issuesXML struct {
	XMLName    xml.Name   `xml:"issues"`
	TotalCount int        `xml:"total_count,attr"`
	Offset     int        `xml:"offset,attr"`
	Limit      int        `xml:"limit,attr"`
	Issues     []issueXML `xml:"issue"`
}

type page struct {
	offset int
	issues []issueXML
}

// Fetch returns all issues of the feed. When the feed is paginated the
// remaining pages are fetched concurrently and merged in feed order.
func (c *Client) Fetch(ctx context.Context) ([]reconcile.Issue, error) {
	first, err := c.get(ctx, c.IssuesURL)
	if err != nil {
		return nil, err
	}

	pages := []page{{offset: first.Offset, issues: first.Issues}}
	offsets := remainingOffsets(first)
	if len(offsets) > 0 {
		log.FromContext(ctx).Debug("paginated feed", "total", first.TotalCount, "limit", first.Limit, "pages", len(offsets)+1)

		n := c.Concurrency
		if n <= 0 {
			n = DefaultConcurrency
		}
		p := pool.NewWithResults[page]().WithContext(ctx).WithMaxGoroutines(n).WithCancelOnError()
		for _, off := range offsets {
			p.Go(func(ctx context.Context) (page, error) {
				u, err := pageURL(c.IssuesURL, off, first.Limit)
				if err != nil {
					return page{}, err
				}
				doc, err := c.get(ctx, u)
				if err != nil {
					return page{}, err
				}
				return page{offset: off, issues: doc.Issues}, nil
			})
		}
		rest, err := p.Wait()
		if err != nil {
			return nil, err
		}
		pages = append(pages, rest...)
		slices.SortFunc(pages, func(a, b page) int { return a.offset - b.offset })
	}

	var issues []reconcile.Issue
	for _, pg := range pages {
		for _, raw := range pg.issues {
			issues = append(issues, c.toIssue(raw))
		}
	}
	return issues, nil
}

// remainingOffsets returns the offsets of the pages after the first one.
func remainingOffsets(first *issuesXML) []int {
	if first.Limit <= 0 || first.TotalCount <= first.Offset+len(first.Issues) {
		return nil
	}
	var offsets []int
	for off := first.Offset + first.Limit; off < first.TotalCount; off += first.Limit {
		offsets = append(offsets, off)
	}
	return offsets
}

// pageURL sets the offset and limit query parameters of raw.
func pageURL(raw string, offset, limit int) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse issues url: %w", err)
	}
	q := u.Query()
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 30 * time.Second}
}

func (c *Client) get(ctx context.Context, rawURL string) (*issuesXML, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.User != "" || c.Password != "" {
		req.SetBasicAuth(c.User, c.Password)
	}
	req.Header.Set("Accept", "application/xml")

	start := time.Now()
	resp, err := c.httpClient().Do(req)
	if err != nil {
		// *url.Error already names the method and URL
		return nil, err
	}
	defer resp.Body.Close()
	log.FromContext(ctx).Debug("GET", "url", rawURL, "status", resp.StatusCode, "took", time.Since(start).Round(time.Millisecond))

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &HTTPError{URL: rawURL, Status: resp.Status}
	}

	doc, err := parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", rawURL, err)
	}
	return doc, nil
}

func parse(r io.Reader) (*issuesXML, error) {
	var doc issuesXML
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Parse decodes an issues.xml document. Issue links are built from prefix.
func Parse(r io.Reader, prefix string) ([]reconcile.Issue, error) {
	doc, err := parse(r)
	if err != nil {
		return nil, err
	}
	c := &Client{URLPrefix: prefix}
	issues := make([]reconcile.Issue, 0, len(doc.Issues))
	for _, raw := range doc.Issues {
		issues = append(issues, c.toIssue(raw))
	}
	return issues, nil
}

func (c *Client) toIssue(raw issueXML) reconcile.Issue {
	id := strings.TrimSpace(raw.ID)
	return reconcile.Issue{
		ID:          id,
		URL:         IssueURL(c.URLPrefix, id),
		Project:     raw.Project.Name,
		Tracker:     raw.Tracker.Name,
		Status:      raw.Status.Name,
		Author:      raw.Author.Name,
		AssignedTo:  raw.AssignedTo.Name,
		Subject:     raw.Subject,
		Description: raw.Description,
	}
}

// IssueURL returns the link to issue id below prefix.
func IssueURL(prefix, id string) string {
	return strings.TrimSuffix(prefix, "/") + "/" + id
}

var _ reconcile.Source = (*Client)(nil)
