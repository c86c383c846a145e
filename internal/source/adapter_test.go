// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/litharvest/internal/httputil"
	"github.com/pdiddy/litharvest/pkg/types"
)

// testWindow is Monday 2026-10-19 through Wednesday 2026-10-21.
var testWindow = types.DateWindow{
	Start: time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
	End:   time.Date(2026, 10, 21, 0, 0, 0, 0, time.UTC),
}

func testServer(t *testing.T, statusCode int, contentType, body string) (*httptest.Server, *[]*http.Request) {
	t.Helper()
	var reqs []*http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqs = append(reqs, r.Clone(r.Context()))
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(statusCode)
		w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts, &reqs
}

func testClient(ts *httptest.Server) *httputil.Client {
	return httputil.NewClient(ts.Client(), types.HTTPConfig{UserAgent: "litharvest/test"})
}

// --- checkQuery ---

func TestCheckQuery(t *testing.T) {
	kw, err := checkQuery("  graphene  ", testWindow)
	assert.NoError(t, err)
	assert.Equal(t, "graphene", kw)

	_, err = checkQuery(" ", testWindow)
	assert.ErrorIs(t, err, ErrInvalidQuery)

	inverted := types.DateWindow{Start: testWindow.End, End: testWindow.Start}
	_, err = checkQuery("graphene", inverted)
	assert.ErrorIs(t, err, ErrInvalidQuery)
}

// --- TransportError ---

func TestTransportErrorUnwrap(t *testing.T) {
	cause := &httputil.StatusError{StatusCode: http.StatusServiceUnavailable, URL: "http://x"}
	err := transportErr(ProviderPubMed, "efetch", cause)

	assert.ErrorIs(t, err, ErrTransport)
	var se *httputil.StatusError
	assert.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
	assert.Contains(t, err.Error(), "pubmed efetch")
}
