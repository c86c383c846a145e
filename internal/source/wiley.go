// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/litharvest/internal/httputil"
	"github.com/pdiddy/litharvest/pkg/types"
)

// wileySRUBase is the Wiley Online Library SRU endpoint.
var wileySRUBase = "https://onlinelibrary.wiley.com/action/sru"

const (
	defaultWileyMaxRecords = 20

	// DefaultBrowserUserAgent is sent to the SRU endpoint, which rejects
	// non-browser clients with a CAPTCHA page.
	DefaultBrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	wileyReferer        = "https://onlinelibrary.wiley.com"
	wileyAcceptLanguage = "en-US,en;q=0.9"
)

// WileyAdapter queries the Wiley Online Library SRU interface. Every request
// is preceded by Pacer's delay and carries a bearer token and browser-like
// headers. SRU Dublin Core records carry no usable author list, so author
// fields are always missing.
type WileyAdapter struct {
	Client     *httputil.Client
	BaseURL    string
	MaxRecords int
	APIKey     string
	UserAgent  string
	Pacer      httputil.Pacer
	Logger     *zap.Logger
}

// NewWiley builds a WileyAdapter from cfg with a uniform random delay pacer
// bounded by cfg.DelayMin and cfg.DelayMax. Zero bounds disable the delay.
func NewWiley(client *httputil.Client, cfg types.WileyConfig, logger *zap.Logger) *WileyAdapter {
	ua := cfg.BrowserUserAgent
	if ua == "" {
		ua = DefaultBrowserUserAgent
	}
	return &WileyAdapter{
		Client:     client,
		BaseURL:    cfg.BaseURL,
		MaxRecords: cfg.MaxRecords,
		APIKey:     cfg.APIKey,
		UserAgent:  ua,
		Pacer:      httputil.NewRandomDelay(cfg.DelayMin, cfg.DelayMax),
		Logger:     logger,
	}
}

// Name returns the provider identifier.
func (a *WileyAdapter) Name() string { return ProviderWiley }

// Fetch returns the Wiley records whose title matches keyword and whose date
// falls inside w. No matching records is not an error.
func (a *WileyAdapter) Fetch(ctx context.Context, keyword string, w types.DateWindow) ([]types.CanonicalRecord, error) {
	kw, err := checkQuery(keyword, w)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(a.APIKey) == "" {
		return nil, fmt.Errorf("wiley: %w", ErrMissingCredentials)
	}
	log := nopIfNil(a.Logger).With(zap.String("provider", ProviderWiley), zap.String("keyword", kw))

	if a.Pacer != nil {
		d, err := a.Pacer.Wait(ctx)
		if err != nil {
			return nil, transportErr(ProviderWiley, "", err)
		}
		log.Info("delayed before request", zap.Duration("delay", d))
	}

	base := a.BaseURL
	if base == "" {
		base = wileySRUBase
	}
	params := url.Values{
		"query":          {wileyQuery(kw, w)},
		"version":        {"1.2"},
		"maximumRecords": {strconv.Itoa(capOrDefault(a.MaxRecords, defaultWileyMaxRecords))},
	}
	header := http.Header{
		"Authorization":   {"Bearer " + a.APIKey},
		"Referer":         {wileyReferer},
		"Accept-Language": {wileyAcceptLanguage},
	}
	ua := a.UserAgent
	if ua == "" {
		ua = DefaultBrowserUserAgent
	}
	header.Set("User-Agent", ua)

	body, err := a.Client.Get(ctx, base+"?"+params.Encode(), header)
	if err != nil {
		return nil, transportErr(ProviderWiley, "", err)
	}

	var resp sruResponse
	if err := xml.Unmarshal(body, &resp); err != nil {
		return nil, transportErr(ProviderWiley, "", fmt.Errorf("parsing SRU response: %w", err))
	}
	if len(resp.Records) == 0 {
		if msg := resp.diagnostic(); msg != "" {
			return nil, transportErr(ProviderWiley, "", fmt.Errorf("SRU diagnostic: %s", msg))
		}
		log.Info("No records found for keyword")
		return []types.CanonicalRecord{}, nil
	}

	records := make([]types.CanonicalRecord, 0, len(resp.Records))
	for _, rec := range resp.Records {
		if rec.Data.DC == nil {
			continue
		}
		records = append(records, wileyRecord(*rec.Data.DC, kw))
	}
	return records, nil
}

// wileyQuery builds the CQL query. A multi-word keyword is quoted so the
// whole phrase binds to dc.title.
func wileyQuery(kw string, w types.DateWindow) string {
	term := kw
	if strings.ContainsAny(kw, " \t\"") {
		term = `"` + strings.ReplaceAll(kw, `"`, `\"`) + `"`
	}
	return fmt.Sprintf("dc.title=%s AND dc.date>=%s AND dc.date<=%s", term, w.StartISO(), w.EndISO())
}

func wileyRecord(dc sruDC, kw string) types.CanonicalRecord {
	r := types.NewRecord(ProviderWiley, kw)
	r.Title = cleanMarkup(dc.Title.Inner)
	r.PublicationType = types.Text(dc.Type)
	r.Journal = types.Text(dc.IsPartOf)
	r.Year = leadingYear(dc.Date)
	r.Volume = types.Text(dc.Volume)
	r.Page = types.Text(dc.StartingPage)
	r.SetDOI(pickDOI(dc.Identifiers))
	r.Abstract = cleanMarkup(dc.Description.Inner)
	return r
}

// pickDOI returns the first identifier that normalizes to a DOI. Landing
// page URLs and other identifiers are not DOIs, so with none the result is
// empty and the DOI fields stay missing.
func pickDOI(ids []string) string {
	for _, id := range ids {
		if d, ok := types.NormalizeDOI(id).Get(); ok && strings.HasPrefix(d, "10.") {
			return d
		}
	}
	return ""
}

// SRU XML structures, namespaced as zs (SRW), dc, dcterms and prism.
// Record data is matched on the local name "dc" since Wiley has served it
// under both the Dublin Core and SRW schema namespaces.
type sruResponse struct {
	XMLName     xml.Name        `xml:"searchRetrieveResponse"`
	NumRecords  int             `xml:"http://www.loc.gov/zing/srw/ numberOfRecords"`
	Records     []sruRecord     `xml:"http://www.loc.gov/zing/srw/ records>record"`
	Diagnostics []sruDiagnostic `xml:"diagnostics>diagnostic"`
}

type sruRecord struct {
	Data sruRecordData `xml:"http://www.loc.gov/zing/srw/ recordData"`
}

type sruRecordData struct {
	DC *sruDC `xml:"dc"`
}

type sruDC struct {
	Title        markupText `xml:"http://purl.org/dc/elements/1.1/ title"`
	Type         string     `xml:"http://purl.org/dc/elements/1.1/ type"`
	Date         string     `xml:"http://purl.org/dc/elements/1.1/ date"`
	Identifiers  []string   `xml:"http://purl.org/dc/elements/1.1/ identifier"`
	Description  markupText `xml:"http://purl.org/dc/elements/1.1/ description"`
	IsPartOf     string     `xml:"http://purl.org/dc/terms/ isPartOf"`
	Volume       string     `xml:"http://prismstandard.org/namespaces/basic/2.1/ volume"`
	StartingPage string     `xml:"http://prismstandard.org/namespaces/basic/2.1/ startingPage"`
}

type sruDiagnostic struct {
	URI     string `xml:"uri"`
	Message string `xml:"message"`
	Details string `xml:"details"`
}

func (r sruResponse) diagnostic() string {
	for _, d := range r.Diagnostics {
		if msg := strings.TrimSpace(strings.Join([]string{d.Message, d.Details}, " ")); msg != "" {
			return msg
		}
	}
	return ""
}
