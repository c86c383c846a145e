// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output serializes harvested records: provider-specific CSV
// layouts, a CSL-YAML export, and the YAML run manifest.
package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/litharvest/internal/source"
	"github.com/pdiddy/litharvest/pkg/types"
)

// DefaultMissingMarker is written for a missing field.
const DefaultMissingMarker = "N/A"

// OtherAuthorsSeparator joins interior authors into one cell. Author names
// themselves contain ", ", so a semicolon keeps the list unambiguous.
const OtherAuthorsSeparator = "; "

// Column is one CSV column: its header and how to read the value.
type Column struct {
	Header string
	Value  func(r *types.CanonicalRecord) types.Optional[string]
}

// Layout is the ordered column set of one provider's CSV file. Layouts
// differ in headers and in which canonical fields they expose; every row
// has exactly len(Columns) cells.
type Layout struct {
	Provider string
	Columns  []Column
}

// Header returns the header row.
func (l Layout) Header() []string {
	h := make([]string, len(l.Columns))
	for i, c := range l.Columns {
		h[i] = c.Header
	}
	return h
}

// Row renders r, writing marker for every missing field.
func (l Layout) Row(r *types.CanonicalRecord, marker string) []string {
	row := make([]string, len(l.Columns))
	for i, c := range l.Columns {
		row[i] = c.Value(r).Or(marker)
	}
	return row
}

// LayoutFor returns the CSV layout of provider.
func LayoutFor(provider string) (Layout, error) {
	switch provider {
	case source.ProviderCrossref:
		return crossrefLayout, nil
	case source.ProviderPubMed:
		return pubmedLayout, nil
	case source.ProviderSpringer:
		return springerLayout, nil
	case source.ProviderWiley:
		return wileyLayout, nil
	default:
		return Layout{}, fmt.Errorf("no output layout for provider %q", provider)
	}
}

var crossrefLayout = Layout{
	Provider: source.ProviderCrossref,
	Columns: concat(
		[]Column{col("Source Keyword", sourceKeyword)},
		bibliographic("Other authors", "Type of publication", "Volume", "Page"),
		[]Column{
			col("DOI", doi),
			col("DOI Unique", doiURL),
			col("Affiliation", affiliation),
			col("Other Institution", institution(0)),
			col("Other Institution 2", institution(1)),
			col("Area", area(0)),
			col("Area 2", area(1)),
			col("Article Classification", classification),
		},
		keywordColumns("KW(keyword) %d"),
		[]Column{col("Abstract", abstract)},
	),
}

var pubmedLayout = Layout{
	Provider: source.ProviderPubMed,
	Columns: concat(
		[]Column{col("Source Keyword", sourceKeyword)},
		bibliographic("Other Authors", "Type of Publication", "Volume", "Page"),
		[]Column{
			col("DOI", doi),
			col("DOI Unique", doiSuffix),
			col("Affiliation", affiliation),
			col("Other Institution", institution(0)),
			col("Area", area(0)),
			col("Article Classification", classification),
		},
		keywordColumns("KW %d"),
		[]Column{col("Abstract", abstract)},
	),
}

var springerLayout = Layout{
	Provider: source.ProviderSpringer,
	Columns: concat(
		[]Column{col("Source Keyword", sourceKeyword)},
		bibliographic("Other Authors", "Type of Publication", "Volume", "Page"),
		[]Column{
			col("DOI", doi),
			col("DOI Unique", doi),
			col("Affiliation", affiliation),
			col("Institution", institution(0)),
			col("Other Institution", institution(1)),
			col("Area 1", area(0)),
			col("Area 2", area(1)),
			col("Area 3", area(2)),
			col("Article Classification", classification),
		},
		keywordColumns("KW %d"),
		[]Column{col("Abstract", abstract)},
	),
}

var wileyLayout = Layout{
	Provider: source.ProviderWiley,
	Columns: concat(
		[]Column{col("keyword", sourceKeyword)},
		bibliographic("Other authors", "Type of publication", "vol", "page"),
		[]Column{
			col("DOI", doi),
			col("DOI Unique", doi),
			col("Affiliation", affiliation),
			col("Other Institution", institution(0)),
			col("Other Institution 2", institution(1)),
			col("Area", area(0)),
			col("Other Areas", area(1)),
			col("Other Areas 2", area(2)),
			col("Article Classification", classification),
		},
		keywordColumns("KW %d"),
		[]Column{col("Abstract", abstract)},
	),
}

// bibliographic returns the Title through Page columns shared by every
// layout; only a few of their headers are spelled differently.
func bibliographic(otherAuthors, pubType, volume, page string) []Column {
	return []Column{
		col("Title", func(r *types.CanonicalRecord) types.Optional[string] { return r.Title }),
		col("First Author", func(r *types.CanonicalRecord) types.Optional[string] { return r.FirstAuthor }),
		col("Final Author", func(r *types.CanonicalRecord) types.Optional[string] { return r.FinalAuthor }),
		col(otherAuthors, func(r *types.CanonicalRecord) types.Optional[string] {
			return types.Text(strings.Join(r.OtherAuthors, OtherAuthorsSeparator))
		}),
		col(pubType, func(r *types.CanonicalRecord) types.Optional[string] { return r.PublicationType }),
		col("Journal", func(r *types.CanonicalRecord) types.Optional[string] { return r.Journal }),
		col("Year", func(r *types.CanonicalRecord) types.Optional[string] {
			if y, ok := r.Year.Get(); ok {
				return types.Some(strconv.Itoa(y))
			}
			return types.None[string]()
		}),
		col(volume, func(r *types.CanonicalRecord) types.Optional[string] { return r.Volume }),
		col(page, func(r *types.CanonicalRecord) types.Optional[string] { return r.Page }),
	}
}

func keywordColumns(format string) []Column {
	cols := make([]Column, types.KeywordSlotCount)
	for i := range cols {
		i := i
		cols[i] = col(fmt.Sprintf(format, i+1), func(r *types.CanonicalRecord) types.Optional[string] {
			return r.Keywords[i]
		})
	}
	return cols
}

func col(header string, v func(r *types.CanonicalRecord) types.Optional[string]) Column {
	return Column{Header: header, Value: v}
}

func concat(groups ...[]Column) []Column {
	var out []Column
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func sourceKeyword(r *types.CanonicalRecord) types.Optional[string] { return types.Text(r.SourceKeyword) }
func doi(r *types.CanonicalRecord) types.Optional[string]           { return r.DOI }
func doiURL(r *types.CanonicalRecord) types.Optional[string]        { return r.DOIURL }
func doiSuffix(r *types.CanonicalRecord) types.Optional[string]     { return r.DOISuffix }
func affiliation(r *types.CanonicalRecord) types.Optional[string]   { return r.Affiliation }
func abstract(r *types.CanonicalRecord) types.Optional[string]      { return r.Abstract }

func classification(r *types.CanonicalRecord) types.Optional[string] {
	return r.ArticleClassification
}

func institution(i int) func(r *types.CanonicalRecord) types.Optional[string] {
	return func(r *types.CanonicalRecord) types.Optional[string] { return r.OtherInstitutions[i] }
}

func area(i int) func(r *types.CanonicalRecord) types.Optional[string] {
	return func(r *types.CanonicalRecord) types.Optional[string] { return r.SubjectAreas[i] }
}
