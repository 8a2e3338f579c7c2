package redmine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const singlePage = `<?xml version="1.0" encoding="UTF-8"?>
<issues total_count="2" offset="0" limit="25" type="array">
  <issue>
    <id>101</id>
    <project id="1" name="Website"/>
    <tracker id="1" name="Bug"/>
    <status id="2" name="In Progress"/>
    <priority id="4" name="Normal"/>
    <author id="5" name="Ada Lovelace"/>
    <assigned_to id="6" name="Grace Hopper"/>
    <subject>Fix login redirect</subject>
    <description>Users land on /
after login.</description>
  </issue>
  <issue>
    <id>98</id>
    <project id="2" name="Billing"/>
    <tracker id="2" name="Feature"/>
    <status id="1" name="New"/>
    <author id="5" name="Ada Lovelace"/>
    <subject>Invoice rounding</subject>
  </issue>
</issues>`

func TestParse(t *testing.T) {
	t.Parallel()

	issues, err := Parse(strings.NewReader(singlePage), "https://redmine.example.com/issues/")
	require.NoError(t, err)
	require.Len(t, issues, 2)

	first := issues[0]
	assert.Equal(t, "101", first.ID)
	assert.Equal(t, "https://redmine.example.com/issues/101", first.URL)
	assert.Equal(t, "Website", first.Project)
	assert.Equal(t, "Bug", first.Tracker)
	assert.Equal(t, "In Progress", first.Status)
	assert.Equal(t, "Ada Lovelace", first.Author)
	assert.Equal(t, "Grace Hopper", first.AssignedTo)
	assert.Equal(t, "Fix login redirect", first.Subject)
	assert.Equal(t, "Users land on /\nafter login.", first.Description)

	// Missing elements decode to empty strings
	assert.Empty(t, issues[1].AssignedTo)
	assert.Empty(t, issues[1].Description)
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	_, err := Parse(strings.NewReader("<html>oops"), "")
	assert.Error(t, err)
}

func TestIssueURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		prefix string
		want   string
	}{
		{"http://localhost/redmine/issues", "http://localhost/redmine/issues/1234"},
		{"http://localhost/redmine/issues/", "http://localhost/redmine/issues/1234"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IssueURL(tt.prefix, "1234"))
	}
}

func TestFetch_BasicAuth(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "ada" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, singlePage)
	}))
	defer srv.Close()

	c := &Client{IssuesURL: srv.URL + "/issues.xml", URLPrefix: srv.URL + "/issues", User: "ada", Password: "secret"}
	issues, err := c.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, issues, 2)

	c.Password = "wrong"
	_, err = c.Fetch(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestFetch_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := &Client{IssuesURL: srv.URL + "/issues.xml"}
	_, err := c.Fetch(context.Background())

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr), "error = %v, want *HTTPError", err)
	assert.Contains(t, httpErr.Status, "500")
}

func TestFetch_Paginated(t *testing.T) {
	t.Parallel()

	const total, limit = 7, 3
	var requests atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		assert.Equal(t, "me", r.URL.Query().Get("assigned_to_id"))

		var b strings.Builder
		fmt.Fprintf(&b, `<issues total_count="%d" offset="%d" limit="%d">`, total, offset, limit)
		for id := offset + 1; id <= min(offset+limit, total); id++ {
			fmt.Fprintf(&b, `<issue><id>%d</id><project name="P"/><subject>S%d</subject></issue>`, id, id)
		}
		b.WriteString(`</issues>`)
		fmt.Fprint(w, b.String())
	}))
	defer srv.Close()

	c := &Client{IssuesURL: srv.URL + "/issues.xml?assigned_to_id=me", Concurrency: 2}
	issues, err := c.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, issues, total)
	for i, issue := range issues {
		assert.Equal(t, strconv.Itoa(i+1), issue.ID, "issues must keep feed order")
	}
	assert.Equal(t, int32(3), requests.Load())
}

func TestFetch_PageFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("offset") != "" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `<issues total_count="4" offset="0" limit="2"><issue><id>1</id></issue><issue><id>2</id></issue></issues>`)
	}))
	defer srv.Close()

	c := &Client{IssuesURL: srv.URL + "/issues.xml"}
	_, err := c.Fetch(context.Background())
	assert.Error(t, err)
}

func TestRemainingOffsets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  issuesXML
		want []int
	}{
		{"no pagination attrs", issuesXML{Issues: make([]issueXML, 3)}, nil},
		{"complete", issuesXML{TotalCount: 3, Limit: 25, Issues: make([]issueXML, 3)}, nil},
		{"two more pages", issuesXML{TotalCount: 60, Limit: 25, Issues: make([]issueXML, 25)}, []int{25, 50}},
		{"starting offset", issuesXML{TotalCount: 30, Offset: 10, Limit: 10, Issues: make([]issueXML, 10)}, []int{20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, remainingOffsets(&tt.doc))
		})
	}
}

func TestPageURL(t *testing.T) {
	t.Parallel()

	got, err := pageURL("http://h/issues.xml?assigned_to_id=me&offset=0", 25, 25)
	require.NoError(t, err)
	assert.Equal(t, "http://h/issues.xml?assigned_to_id=me&limit=25&offset=25", got)
}
