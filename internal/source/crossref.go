// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/litharvest/internal/httputil"
	"github.com/pdiddy/litharvest/pkg/types"
)

// crossrefWorksBase is the Crossref works search endpoint.
var crossrefWorksBase = "https://api.crossref.org/works"

const defaultCrossrefRows = 10

// CrossrefAdapter queries the Crossref REST API, a DOI registration
// aggregator. It needs no credentials; Mailto opts into the polite pool.
type CrossrefAdapter struct {
	Client  *httputil.Client
	BaseURL string
	Rows    int
	Mailto  string
	Logger  *zap.Logger
}

// NewCrossref builds a CrossrefAdapter from cfg.
func NewCrossref(client *httputil.Client, cfg types.CrossrefConfig, logger *zap.Logger) *CrossrefAdapter {
	return &CrossrefAdapter{
		Client:  client,
		BaseURL: cfg.BaseURL,
		Rows:    cfg.Rows,
		Mailto:  cfg.Mailto,
		Logger:  logger,
	}
}

// Name returns the provider identifier.
func (a *CrossrefAdapter) Name() string { return ProviderCrossref }

// Fetch searches works matching keyword published inside w.
func (a *CrossrefAdapter) Fetch(ctx context.Context, keyword string, w types.DateWindow) ([]types.CanonicalRecord, error) {
	kw, err := checkQuery(keyword, w)
	if err != nil {
		return nil, err
	}

	reqURL := a.searchURL(kw, w)
	nopIfNil(a.Logger).Debug("crossref request", zap.String("keyword", kw), zap.String("url", reqURL))

	body, err := a.Client.Get(ctx, reqURL, nil)
	if err != nil {
		return nil, transportErr(ProviderCrossref, "", err)
	}

	var cr crossrefResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return nil, transportErr(ProviderCrossref, "", fmt.Errorf("parsing Crossref response: %w", err))
	}

	records := make([]types.CanonicalRecord, 0, len(cr.Message.Items))
	for _, item := range cr.Message.Items {
		records = append(records, crossrefRecord(item, kw))
	}
	return records, nil
}

func (a *CrossrefAdapter) searchURL(kw string, w types.DateWindow) string {
	base := a.BaseURL
	if base == "" {
		base = crossrefWorksBase
	}
	params := url.Values{
		"query":  {kw},
		"filter": {"from-pub-date:" + w.StartISO() + ",until-pub-date:" + w.EndISO()},
		"rows":   {strconv.Itoa(capOrDefault(a.Rows, defaultCrossrefRows))},
	}
	if a.Mailto != "" {
		params.Set("mailto", a.Mailto)
	}
	return base + "?" + params.Encode()
}

// crossrefRecord maps one Crossref work. Crossref has no subject-area or
// classification fields, so those stay missing; its "subject" list is a
// topical classification, not author keywords, but it is what fills the
// keyword slots.
func crossrefRecord(item crossrefWork, kw string) types.CanonicalRecord {
	r := types.NewRecord(ProviderCrossref, kw)
	r.Title = cleanMarkup(strings.Join(firstNonBlank(item.Title), ""))

	names := make([]string, 0, len(item.Author))
	for _, a := range item.Author {
		names = append(names, a.displayName())
	}
	r.AssignAuthors(names)

	r.PublicationType = types.TextPtr(item.Type)
	r.Journal = types.First(item.ContainerTitle)
	r.Year = crossrefYear(item)
	r.Volume = types.TextPtr(item.Volume)
	r.Page = types.TextPtr(item.Page)
	r.SetDOI(deref(item.DOI))

	if len(item.Author) > 0 {
		r.Affiliation = item.Author[0].firstAffiliation()
	}
	var others []string
	for _, a := range tail(item.Author) {
		if aff, ok := a.firstAffiliation().Get(); ok {
			others = append(others, aff)
		}
	}
	types.FillSlots(r.OtherInstitutions[:], others)

	types.FillSlots(r.Keywords[:], item.Subject)

	if item.Abstract != nil {
		r.Abstract = cleanMarkup(*item.Abstract)
	}
	return r
}

// crossrefYear prefers the print date, then the online date, then the
// issued date.
func crossrefYear(item crossrefWork) types.Optional[int] {
	for _, d := range []*crossrefDate{item.PublishedPrint, item.PublishedOnline, item.Issued} {
		if y := d.year(); !y.IsMissing() {
			return y
		}
	}
	return types.None[int]()
}

func firstNonBlank(values []string) []string {
	if v, ok := types.First(values).Get(); ok {
		return []string{v}
	}
	return nil
}

func tail[T any](s []T) []T {
	if len(s) < 2 {
		return nil
	}
	return s[1:]
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// Crossref API JSON structures. Pointer fields distinguish an absent key
// from an empty value.
type crossrefResponse struct {
	Status  string          `json:"status"`
	Message crossrefMessage `json:"message"`
}

type crossrefMessage struct {
	TotalResults int            `json:"total-results"`
	Items        []crossrefWork `json:"items"`
}

type crossrefWork struct {
	Title           []string         `json:"title"`
	Author          []crossrefAuthor `json:"author"`
	Type            *string          `json:"type"`
	ContainerTitle  []string         `json:"container-title"`
	PublishedPrint  *crossrefDate    `json:"published-print"`
	PublishedOnline *crossrefDate    `json:"published-online"`
	Issued          *crossrefDate    `json:"issued"`
	Volume          *string          `json:"volume"`
	Page            *string          `json:"page"`
	DOI             *string          `json:"DOI"`
	Abstract        *string          `json:"abstract"`
	Subject         []string         `json:"subject"`
}

type crossrefAuthor struct {
	Given       *string               `json:"given"`
	Family      *string               `json:"family"`
	Name        *string               `json:"name"`
	Affiliation []crossrefAffiliation `json:"affiliation"`
}

type crossrefAffiliation struct {
	Name *string `json:"name"`
}

type crossrefDate struct {
	DateParts [][]*int `json:"date-parts"`
}

// displayName renders "Family, Given", falling back to whichever part is
// present and then to the literal name used for organizational authors.
func (a crossrefAuthor) displayName() string {
	family := strings.TrimSpace(deref(a.Family))
	given := strings.TrimSpace(deref(a.Given))
	switch {
	case family != "" && given != "":
		return family + ", " + given
	case family != "":
		return family
	case given != "":
		return given
	default:
		return strings.TrimSpace(deref(a.Name))
	}
}

func (a crossrefAuthor) firstAffiliation() types.Optional[string] {
	for _, aff := range a.Affiliation {
		if t := types.TextPtr(aff.Name); !t.IsMissing() {
			return t
		}
	}
	return types.None[string]()
}

func (d *crossrefDate) year() types.Optional[int] {
	if d == nil || len(d.DateParts) == 0 || len(d.DateParts[0]) == 0 {
		return types.None[int]()
	}
	y := d.DateParts[0][0]
	if y == nil || *y <= 0 {
		return types.None[int]()
	}
	return types.Some(*y)
}
