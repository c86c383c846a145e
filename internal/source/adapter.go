// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source queries the upstream literature APIs and normalizes each
// provider's response schema into types.CanonicalRecord.
//
// Every provider has its own adapter file holding the request builder, the
// raw response structures, and the record mapping. The mappings share only
// the canonical builders in pkg/types and the markup cleaner in text.go; no
// two providers share a raw schema.
package source

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/litharvest/pkg/types"
)

// Adapter queries a single provider. Fetch returns the records published in
// w that match keyword. A missing field never fails Fetch; a transport
// failure does, and the caller decides how to carry on.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context, keyword string, w types.DateWindow) ([]types.CanonicalRecord, error)
}

// Provider names.
const (
	ProviderCrossref = "crossref"
	ProviderPubMed   = "pubmed"
	ProviderSpringer = "springer"
	ProviderWiley    = "wiley"
)

// Providers lists the provider names in run order.
var Providers = []string{ProviderCrossref, ProviderPubMed, ProviderSpringer, ProviderWiley}

var (
	// ErrInvalidQuery is returned for an empty keyword or an inverted window.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrTransport marks a non-success status, a network failure, or an
	// unparseable response body.
	ErrTransport = errors.New("transport failure")

	// ErrMissingCredentials is returned without any network call when a
	// provider that requires an API key has none.
	ErrMissingCredentials = errors.New("missing API credentials")
)

// TransportError wraps a failed provider call. It matches ErrTransport with
// errors.Is and exposes the underlying cause (for example
// *httputil.StatusError) to errors.As.
type TransportError struct {
	Provider string
	// Stage names the call that failed when a provider needs several
	// (e.g. "esearch", "efetch").
	Stage string
	Err   error
}

func (e *TransportError) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("%s %s: %v", e.Provider, e.Stage, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

// Unwrap exposes both the ErrTransport sentinel and the cause.
func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}

func transportErr(provider, stage string, err error) error {
	return &TransportError{Provider: provider, Stage: stage, Err: err}
}

// checkQuery validates the generic Fetch preconditions and returns the
// trimmed keyword.
func checkQuery(keyword string, w types.DateWindow) (string, error) {
	kw := strings.TrimSpace(keyword)
	if kw == "" {
		return "", fmt.Errorf("%w: empty keyword", ErrInvalidQuery)
	}
	if err := w.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	return kw, nil
}

func nopIfNil(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

func capOrDefault(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}
