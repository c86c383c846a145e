// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/litharvest/internal/httputil"
	"github.com/pdiddy/litharvest/pkg/types"
)

// pubmedEutilsBase is the NCBI E-utilities root.
var pubmedEutilsBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

const defaultPubMedRetMax = 10

// PubMed call stages, reported in TransportError.Stage.
const (
	StageESearch = "esearch"
	StageEFetch  = "efetch"
)

// PubMedAdapter queries NCBI PubMed in two stages: esearch resolves the
// keyword and window to PMIDs, efetch retrieves the full article XML for
// those IDs. Every call waits on Pacer first.
type PubMedAdapter struct {
	Client  *httputil.Client
	BaseURL string
	RetMax  int
	APIKey  string
	Pacer   httputil.Pacer
	Logger  *zap.Logger
}

// NewPubMed builds a PubMedAdapter from cfg with a fixed-interval pacer.
// A zero cfg.RequestInterval disables pacing.
func NewPubMed(client *httputil.Client, cfg types.PubMedConfig, logger *zap.Logger) *PubMedAdapter {
	return &PubMedAdapter{
		Client:  client,
		BaseURL: cfg.BaseURL,
		RetMax:  cfg.RetMax,
		APIKey:  cfg.APIKey,
		Pacer:   httputil.NewInterval(cfg.RequestInterval),
		Logger:  logger,
	}
}

// Name returns the provider identifier.
func (a *PubMedAdapter) Name() string { return ProviderPubMed }

// Fetch returns the PubMed articles matching keyword with a publication
// date inside w.
func (a *PubMedAdapter) Fetch(ctx context.Context, keyword string, w types.DateWindow) ([]types.CanonicalRecord, error) {
	kw, err := checkQuery(keyword, w)
	if err != nil {
		return nil, err
	}
	log := nopIfNil(a.Logger).With(zap.String("provider", ProviderPubMed), zap.String("keyword", kw))

	ids, err := a.search(ctx, kw, w)
	if err != nil {
		return nil, transportErr(ProviderPubMed, StageESearch, err)
	}
	log.Debug("pubmed esearch", zap.Int("ids", len(ids)))
	if len(ids) == 0 {
		log.Info("No records found for keyword")
		return []types.CanonicalRecord{}, nil
	}

	set, err := a.fetch(ctx, ids)
	if err != nil {
		return nil, transportErr(ProviderPubMed, StageEFetch, err)
	}

	records := make([]types.CanonicalRecord, 0, len(set.Articles))
	for _, art := range set.Articles {
		records = append(records, pubmedRecord(art, kw))
	}
	return records, nil
}

func (a *PubMedAdapter) base() string {
	if a.BaseURL != "" {
		return strings.TrimRight(a.BaseURL, "/")
	}
	return pubmedEutilsBase
}

func (a *PubMedAdapter) wait(ctx context.Context) error {
	if a.Pacer == nil {
		return nil
	}
	_, err := a.Pacer.Wait(ctx)
	return err
}

func (a *PubMedAdapter) search(ctx context.Context, kw string, w types.DateWindow) ([]string, error) {
	from, to := w.Format("2006/01/02")
	params := url.Values{
		"db":       {"pubmed"},
		"term":     {kw},
		"retmax":   {strconv.Itoa(capOrDefault(a.RetMax, defaultPubMedRetMax))},
		"mindate":  {from},
		"maxdate":  {to},
		"datetype": {"pdat"},
		"retmode":  {"xml"},
	}
	if a.APIKey != "" {
		params.Set("api_key", a.APIKey)
	}

	if err := a.wait(ctx); err != nil {
		return nil, err
	}
	body, err := a.Client.Get(ctx, a.base()+"/esearch.fcgi?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var res eSearchResult
	if err := xml.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("parsing esearch response: %w", err)
	}
	if msg := strings.TrimSpace(res.Error); msg != "" {
		return nil, fmt.Errorf("esearch error: %s", msg)
	}

	ids := make([]string, 0, len(res.IDs))
	for _, id := range res.IDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (a *PubMedAdapter) fetch(ctx context.Context, ids []string) (*pubmedArticleSet, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"id":      {strings.Join(ids, ",")},
		"retmode": {"xml"},
	}
	if a.APIKey != "" {
		params.Set("api_key", a.APIKey)
	}

	if err := a.wait(ctx); err != nil {
		return nil, err
	}
	body, err := a.Client.Get(ctx, a.base()+"/efetch.fcgi?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var set pubmedArticleSet
	if err := xml.Unmarshal(body, &set); err != nil {
		return nil, fmt.Errorf("parsing efetch response: %w", err)
	}
	return &set, nil
}

// pubmedRecord maps one PubmedArticle. PubMed carries no subject areas;
// MeSH headings are not used.
func pubmedRecord(pa pubmedArticle, kw string) types.CanonicalRecord {
	art := pa.Citation.Article
	r := types.NewRecord(ProviderPubMed, kw)

	r.Title = cleanMarkup(art.Title.Inner)

	names := make([]string, 0, len(art.Authors))
	for _, au := range art.Authors {
		names = append(names, au.displayName())
	}
	r.AssignAuthors(names)

	var pubTypes []string
	for _, pt := range art.PublicationTypes {
		pubTypes = append(pubTypes, pt.Value)
	}
	r.PublicationType = types.First(pubTypes)

	r.Journal = types.Text(art.Journal.Title)
	r.Year = art.Journal.Issue.PubDate.year()
	r.Volume = types.Text(art.Journal.Issue.Volume)
	r.Page = types.Text(art.Pagination.MedlinePgn)
	r.SetDOI(pa.doi())

	if len(art.Authors) > 0 {
		r.Affiliation = art.Authors[0].firstAffiliation()
	}
	var others []string
	for _, au := range tail(art.Authors) {
		if aff, ok := au.firstAffiliation().Get(); ok {
			others = append(others, aff)
		}
	}
	types.FillSlots(r.OtherInstitutions[:], others)

	var kws []string
	for _, list := range pa.Citation.KeywordLists {
		for _, k := range list.Keywords {
			if t, ok := cleanMarkup(k.Inner).Get(); ok {
				kws = append(kws, t)
			}
		}
	}
	types.FillSlots(r.Keywords[:], kws)

	var sections []string
	for _, at := range art.Abstract.Texts {
		if t, ok := cleanMarkup(at.Inner).Get(); ok {
			sections = append(sections, t)
		}
	}
	r.Abstract = types.Text(strings.Join(sections, " "))
	return r
}

// doi prefers the article's ELocationID of type doi, then the PubmedData
// article ID of type doi.
func (pa pubmedArticle) doi() string {
	for _, loc := range pa.Citation.Article.ELocationIDs {
		if strings.EqualFold(loc.Type, "doi") && strings.TrimSpace(loc.Value) != "" {
			return loc.Value
		}
	}
	for _, id := range pa.Data.ArticleIDs {
		if strings.EqualFold(id.Type, "doi") && strings.TrimSpace(id.Value) != "" {
			return id.Value
		}
	}
	return ""
}

// displayName renders "LastName, ForeName", falling back to initials and
// then to a collective (group) name.
func (au pubmedAuthor) displayName() string {
	last := strings.TrimSpace(au.LastName)
	first := strings.TrimSpace(au.ForeName)
	if first == "" {
		first = strings.TrimSpace(au.Initials)
	}
	switch {
	case last != "" && first != "":
		return last + ", " + first
	case last != "":
		return last
	default:
		return strings.TrimSpace(au.CollectiveName)
	}
}

func (au pubmedAuthor) firstAffiliation() types.Optional[string] {
	for _, ai := range au.AffiliationInfo {
		if t := types.Text(ai.Affiliation); !t.IsMissing() {
			return t
		}
	}
	return types.None[string]()
}

// year reads PubDate/Year, falling back to the leading year of MedlineDate
// (e.g. "2026 Oct-Nov").
func (d pubmedPubDate) year() types.Optional[int] {
	if y := leadingYear(d.Year); !y.IsMissing() {
		return y
	}
	return leadingYear(d.MedlineDate)
}

// E-utilities XML structures.
type eSearchResult struct {
	XMLName xml.Name `xml:"eSearchResult"`
	Count   int      `xml:"Count"`
	IDs     []string `xml:"IdList>Id"`
	Error   string   `xml:"ERROR"`
}

type pubmedArticleSet struct {
	XMLName  xml.Name        `xml:"PubmedArticleSet"`
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	Citation pubmedCitation `xml:"MedlineCitation"`
	Data     pubmedData     `xml:"PubmedData"`
}

type pubmedCitation struct {
	PMID         string              `xml:"PMID"`
	Article      pubmedArticleDetail `xml:"Article"`
	KeywordLists []pubmedKeywordList `xml:"KeywordList"`
}

type pubmedArticleDetail struct {
	Journal          pubmedJournal       `xml:"Journal"`
	Title            markupText          `xml:"ArticleTitle"`
	Pagination       pubmedPagination    `xml:"Pagination"`
	ELocationIDs     []pubmedTypedID     `xml:"ELocationID"`
	Abstract         pubmedAbstract      `xml:"Abstract"`
	Authors          []pubmedAuthor      `xml:"AuthorList>Author"`
	PublicationTypes []pubmedPublication `xml:"PublicationTypeList>PublicationType"`
}

type pubmedJournal struct {
	Title string             `xml:"Title"`
	Issue pubmedJournalIssue `xml:"JournalIssue"`
}

type pubmedJournalIssue struct {
	Volume  string        `xml:"Volume"`
	PubDate pubmedPubDate `xml:"PubDate"`
}

type pubmedPubDate struct {
	Year        string `xml:"Year"`
	MedlineDate string `xml:"MedlineDate"`
}

type pubmedPagination struct {
	MedlinePgn string `xml:"MedlinePgn"`
}

type pubmedTypedID struct {
	Type  string `xml:"EIdType,attr"`
	Value string `xml:",chardata"`
}

type pubmedArticleID struct {
	Type  string `xml:"IdType,attr"`
	Value string `xml:",chardata"`
}

type pubmedAbstract struct {
	Texts []markupText `xml:"AbstractText"`
}

type pubmedAuthor struct {
	LastName        string                  `xml:"LastName"`
	ForeName        string                  `xml:"ForeName"`
	Initials        string                  `xml:"Initials"`
	CollectiveName  string                  `xml:"CollectiveName"`
	AffiliationInfo []pubmedAffiliationInfo `xml:"AffiliationInfo"`
}

type pubmedAffiliationInfo struct {
	Affiliation string `xml:"Affiliation"`
}

type pubmedPublication struct {
	Value string `xml:",chardata"`
}

type pubmedKeywordList struct {
	Keywords []markupText `xml:"Keyword"`
}

type pubmedData struct {
	ArticleIDs []pubmedArticleID `xml:"ArticleIdList>ArticleId"`
}

// markupText keeps an element's inner XML so inline formatting (<i>, <sup>)
// is stripped by cleanMarkup rather than dropped with its text.
type markupText struct {
	Inner string `xml:",innerxml"`
}
