// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/litharvest/internal/httputil"
	"github.com/pdiddy/litharvest/pkg/types"
)

// springerMetaBase is the Springer Nature Meta API v2 JSON endpoint.
var springerMetaBase = "https://api.springernature.com/meta/v2/json"

const defaultSpringerPageSize = 5

// SpringerAdapter queries the Springer Nature Meta API. It requires an API
// key, passed as the api_key query parameter.
type SpringerAdapter struct {
	Client   *httputil.Client
	BaseURL  string
	PageSize int
	APIKey   string
	Logger   *zap.Logger
}

// NewSpringer builds a SpringerAdapter from cfg.
func NewSpringer(client *httputil.Client, cfg types.SpringerConfig, logger *zap.Logger) *SpringerAdapter {
	return &SpringerAdapter{
		Client:   client,
		BaseURL:  cfg.BaseURL,
		PageSize: cfg.PageSize,
		APIKey:   cfg.APIKey,
		Logger:   logger,
	}
}

// Name returns the provider identifier.
func (a *SpringerAdapter) Name() string { return ProviderSpringer }

// Fetch returns the Springer records matching keyword whose publication
// date falls inside w.
func (a *SpringerAdapter) Fetch(ctx context.Context, keyword string, w types.DateWindow) ([]types.CanonicalRecord, error) {
	kw, err := checkQuery(keyword, w)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(a.APIKey) == "" {
		return nil, fmt.Errorf("springer: %w", ErrMissingCredentials)
	}

	base := a.BaseURL
	if base == "" {
		base = springerMetaBase
	}
	params := url.Values{
		"q":               {kw},
		"api_key":         {a.APIKey},
		"p":               {strconv.Itoa(capOrDefault(a.PageSize, defaultSpringerPageSize))},
		"date-facet-mode": {"between"},
		"date-facet":      {"[" + w.StartISO() + " TO " + w.EndISO() + "]"},
	}
	nopIfNil(a.Logger).Debug("springer request", zap.String("keyword", kw))

	body, err := a.Client.Get(ctx, base+"?"+params.Encode(), nil)
	if err != nil {
		return nil, transportErr(ProviderSpringer, "", err)
	}

	var sr springerResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, transportErr(ProviderSpringer, "", fmt.Errorf("parsing Springer response: %w", err))
	}

	records := make([]types.CanonicalRecord, 0, len(sr.Records))
	for _, rec := range sr.Records {
		records = append(records, springerRecord(rec, kw))
	}
	return records, nil
}

// springerRecord maps one Springer record. Every creator's affiliation goes
// into the single Affiliation field, joined with "; ", and organizations
// fill the institution slots.
func springerRecord(rec springerRecordJSON, kw string) types.CanonicalRecord {
	r := types.NewRecord(ProviderSpringer, kw)
	r.Title = cleanMarkup(rec.Title)

	names := make([]string, 0, len(rec.Creators))
	var affiliations, organizations []string
	for _, c := range rec.Creators {
		names = append(names, c.Creator)
		affiliations = append(affiliations, nonBlank(c.Affiliation)...)
		organizations = append(organizations, nonBlank(c.Organization)...)
	}
	r.AssignAuthors(names)
	r.Affiliation = types.Text(strings.Join(affiliations, "; "))
	types.FillSlots(r.OtherInstitutions[:], organizations)

	r.PublicationType = types.Text(rec.ContentType)
	r.Journal = types.Text(rec.PublicationName)
	r.Year = leadingYear(rec.PublicationDate)
	r.Volume = types.Text(rec.Volume)
	r.Page = types.Text(rec.StartingPage)
	r.SetDOI(rec.doi())

	// Areas are positional: a missing second subject leaves slot 2 empty
	// rather than pulling the discipline forward.
	r.SubjectAreas[0] = textAt(rec.Subjects, 0)
	r.SubjectAreas[1] = textAt(rec.Subjects, 1)
	if len(rec.Disciplines) > 0 {
		r.SubjectAreas[2] = types.Text(rec.Disciplines[0].Term)
	}

	r.ArticleClassification = types.First(rec.Genre)
	types.FillSlots(r.Keywords[:], rec.Keyword)
	r.Abstract = cleanMarkup(rec.Abstract.String())
	return r
}

func (rec springerRecordJSON) doi() string {
	if strings.TrimSpace(rec.DOI) != "" {
		return rec.DOI
	}
	if strings.HasPrefix(strings.ToLower(rec.Identifier), "doi:") {
		return rec.Identifier
	}
	return ""
}

func textAt(values []string, i int) types.Optional[string] {
	if i < len(values) {
		return types.Text(values[i])
	}
	return types.None[string]()
}

func nonBlank(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Springer Meta API JSON structures.
type springerResponse struct {
	APIMessage string               `json:"apiMessage"`
	Records    []springerRecordJSON `json:"records"`
}

type springerRecordJSON struct {
	ContentType     string               `json:"contentType"`
	Identifier      string               `json:"identifier"`
	Title           string               `json:"title"`
	Creators        []springerCreator    `json:"creators"`
	PublicationName string               `json:"publicationName"`
	DOI             string               `json:"doi"`
	PublicationDate string               `json:"publicationDate"`
	Volume          string               `json:"volume"`
	StartingPage    string               `json:"startingPage"`
	Genre           flexStrings          `json:"genre"`
	Abstract        flexText             `json:"abstract"`
	Subjects        flexStrings          `json:"subjects"`
	Disciplines     []springerDiscipline `json:"disciplines"`
	Keyword         flexStrings          `json:"keyword"`
}

type springerCreator struct {
	Creator      string      `json:"creator"`
	Affiliation  flexStrings `json:"affiliation"`
	Organization flexStrings `json:"organization"`
}

type springerDiscipline struct {
	ID   string `json:"id"`
	Term string `json:"term"`
}

// flexStrings decodes a JSON string or an array of strings.
type flexStrings []string

func (f *flexStrings) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = nil
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexStrings{s}
		return nil
	}
	var ss []string
	if err := json.Unmarshal(data, &ss); err != nil {
		return fmt.Errorf("decoding string or string list: %w", err)
	}
	*f = ss
	return nil
}

// flexText decodes a JSON text field that may be a plain string, a list of
// strings, or a structured object such as {"h1": "Abstract", "p": "..."}.
// For an object the paragraph content is preferred over headings.
type flexText struct {
	parts []string
}

func (f *flexText) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	f.parts = flattenText(v)
	return nil
}

// String joins the decoded parts with a space.
func (f flexText) String() string {
	return strings.Join(f.parts, " ")
}

func flattenText(v any) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []any:
		var out []string
		for _, e := range t {
			out = append(out, flattenText(e)...)
		}
		return out
	case map[string]any:
		if p, ok := t["p"]; ok {
			return flattenText(p)
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var out []string
		for _, k := range keys {
			out = append(out, flattenText(t[k])...)
		}
		return out
	default:
		return nil
	}
}
