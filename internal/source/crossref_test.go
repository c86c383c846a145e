// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/litharvest/internal/httputil"
	"github.com/pdiddy/litharvest/pkg/types"
)

const crossrefThreeAuthors = `{
  "status": "ok",
  "message": {
    "total-results": 1,
    "items": [{
      "title": ["Graphene Membranes"],
      "author": [
        {"given": "A", "family": "Lee", "affiliation": [{"name": "KAIST"}]},
        {"given": "B", "family": "Kim", "affiliation": [{"name": "SNU"}]},
        {"given": "C", "family": "Park", "affiliation": []}
      ],
      "type": "journal-article",
      "container-title": ["Nano Letters"],
      "published-print": {"date-parts": [[2026, 10, 20]]},
      "volume": "26",
      "page": "100-110",
      "DOI": "10.1000/xyz",
      "subject": ["Materials Science", "Chemistry"]
    }]
  }
}`

func TestCrossrefFetch(t *testing.T) {
	ts, reqs := testServer(t, http.StatusOK, "application/json", crossrefThreeAuthors)
	a := &CrossrefAdapter{Client: testClient(ts), BaseURL: ts.URL, Mailto: "ops@example.org"}

	records, err := a.Fetch(context.Background(), "graphene", testWindow)
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, ProviderCrossref, r.Source)
	assert.Equal(t, "graphene", r.SourceKeyword)
	assert.Equal(t, types.Some("Graphene Membranes"), r.Title)
	assert.Equal(t, types.Some("Lee, A"), r.FirstAuthor)
	assert.Equal(t, types.Some("Park, C"), r.FinalAuthor)
	assert.Equal(t, []string{"Kim, B"}, r.OtherAuthors)
	assert.Equal(t, types.Some("journal-article"), r.PublicationType)
	assert.Equal(t, types.Some("Nano Letters"), r.Journal)
	assert.Equal(t, types.Some(2026), r.Year)
	assert.Equal(t, types.Some("26"), r.Volume)
	assert.Equal(t, types.Some("100-110"), r.Page)
	assert.Equal(t, types.Some("10.1000/xyz"), r.DOI)
	assert.Equal(t, types.Some("https://doi.org/10.1000/xyz"), r.DOIURL)
	assert.Equal(t, types.Some("KAIST"), r.Affiliation)
	assert.Equal(t, types.Some("SNU"), r.OtherInstitutions[0])
	assert.True(t, r.OtherInstitutions[1].IsMissing())
	assert.Equal(t, types.Some("Materials Science"), r.Keywords[0])
	assert.Equal(t, types.Some("Chemistry"), r.Keywords[1])
	assert.True(t, r.Keywords[2].IsMissing())
	assert.True(t, r.SubjectAreas[0].IsMissing())
	assert.True(t, r.ArticleClassification.IsMissing())
	assert.True(t, r.Abstract.IsMissing())

	require.Len(t, *reqs, 1)
	q := (*reqs)[0].URL.Query()
	assert.Equal(t, "graphene", q.Get("query"))
	assert.Equal(t, "from-pub-date:2026-10-19,until-pub-date:2026-10-21", q.Get("filter"))
	assert.Equal(t, "10", q.Get("rows"))
	assert.Equal(t, "ops@example.org", q.Get("mailto"))
}

func TestCrossrefFetchMarkupAbstract(t *testing.T) {
	body := `{"message": {"items": [{
		"title": ["<i>In situ</i> imaging"],
		"abstract": "<jats:title>Abstract</jats:title><jats:p>We study &lt;100&gt; facets &amp; edges.</jats:p>",
		"author": [{"name": "Graphene Consortium"}]
	}]}}`
	ts, _ := testServer(t, http.StatusOK, "application/json", body)
	a := &CrossrefAdapter{Client: testClient(ts), BaseURL: ts.URL}

	records, err := a.Fetch(context.Background(), "graphene", testWindow)
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, types.Some("In situ imaging"), r.Title)
	assert.Equal(t, types.Some("Abstract We study <100> facets & edges."), r.Abstract)
	assert.Equal(t, types.Some("Graphene Consortium"), r.FirstAuthor)
	assert.True(t, r.FinalAuthor.IsMissing())
	assert.True(t, r.DOI.IsMissing())
	assert.True(t, r.DOIURL.IsMissing())
	assert.True(t, r.Year.IsMissing())
}

func TestCrossrefYearFallback(t *testing.T) {
	y := 2025
	online := 2026
	tests := []struct {
		name string
		work crossrefWork
		want types.Optional[int]
	}{
		{"print wins", crossrefWork{PublishedPrint: &crossrefDate{[][]*int{{&y}}}, PublishedOnline: &crossrefDate{[][]*int{{&online}}}}, types.Some(2025)},
		{"online when no print", crossrefWork{PublishedOnline: &crossrefDate{[][]*int{{&online}}}}, types.Some(2026)},
		{"null date part", crossrefWork{Issued: &crossrefDate{[][]*int{{nil}}}}, types.None[int]()},
		{"nothing", crossrefWork{}, types.None[int]()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, crossrefYear(tt.work))
		})
	}
}

func TestCrossrefFetchEmptyResults(t *testing.T) {
	ts, _ := testServer(t, http.StatusOK, "application/json", `{"status":"ok","message":{"items":[]}}`)
	a := &CrossrefAdapter{Client: testClient(ts), BaseURL: ts.URL}

	records, err := a.Fetch(context.Background(), "graphene", testWindow)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCrossrefFetchHTTPError(t *testing.T) {
	ts, _ := testServer(t, http.StatusInternalServerError, "text/plain", "boom")
	a := &CrossrefAdapter{Client: testClient(ts), BaseURL: ts.URL}

	_, err := a.Fetch(context.Background(), "graphene", testWindow)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)

	var se *httputil.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
}

func TestCrossrefFetchMalformedJSON(t *testing.T) {
	ts, _ := testServer(t, http.StatusOK, "application/json", `{not json`)
	a := &CrossrefAdapter{Client: testClient(ts), BaseURL: ts.URL}

	_, err := a.Fetch(context.Background(), "graphene", testWindow)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestCrossrefFetchInvalidQuery(t *testing.T) {
	ts, reqs := testServer(t, http.StatusOK, "application/json", `{}`)
	a := &CrossrefAdapter{Client: testClient(ts), BaseURL: ts.URL}

	_, err := a.Fetch(context.Background(), "   ", testWindow)
	assert.ErrorIs(t, err, ErrInvalidQuery)
	assert.Empty(t, *reqs)
}

func TestCrossrefName(t *testing.T) {
	assert.Equal(t, "crossref", (&CrossrefAdapter{}).Name())
}
