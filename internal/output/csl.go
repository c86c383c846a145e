// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/litharvest/pkg/types"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format. The field names and structure follow the CSL-JSON/CSL-YAML schema
// so that output is consumable by Pandoc and reference managers.
type CSLItem struct {
	ID             string    `yaml:"id"`
	Type           string    `yaml:"type"`
	Title          string    `yaml:"title,omitempty"`
	Author         []CSLName `yaml:"author,omitempty"`
	ContainerTitle string    `yaml:"container-title,omitempty"`
	Volume         string    `yaml:"volume,omitempty"`
	Page           string    `yaml:"page,omitempty"`
	Issued         *CSLDate  `yaml:"issued,omitempty"`
	DOI            string    `yaml:"DOI,omitempty"`
	URL            string    `yaml:"URL,omitempty"`
	Keyword        string    `yaml:"keyword,omitempty"`
	Abstract       string    `yaml:"abstract,omitempty"`
	Note           string    `yaml:"note,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// WriteCSL writes records as a CSL-YAML list to w.
func WriteCSL(w io.Writer, records []types.CanonicalRecord) error {
	items := make([]CSLItem, len(records))
	for i := range records {
		items[i] = toCSLItem(&records[i], i)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("encoding CSL-YAML: %w", err)
	}
	return enc.Close()
}

// toCSLItem converts a CanonicalRecord to a CSLItem. Records without a DOI
// get a positional id so ids stay unique within one file.
func toCSLItem(r *types.CanonicalRecord, index int) CSLItem {
	item := CSLItem{
		ID:             r.DOI.Or(fmt.Sprintf("%s-%d", r.Source, index+1)),
		Type:           cslType(r.PublicationType.Or("")),
		Title:          r.Title.Or(""),
		ContainerTitle: r.Journal.Or(""),
		Volume:         r.Volume.Or(""),
		Page:           r.Page.Or(""),
		DOI:            r.DOI.Or(""),
		URL:            r.DOIURL.Or(""),
		Abstract:       r.Abstract.Or(""),
		Note:           fmt.Sprintf("source: %s; keyword: %s", r.Source, r.SourceKeyword),
	}

	for _, a := range orderedAuthors(r) {
		item.Author = append(item.Author, parseAuthorName(a))
	}

	if y, ok := r.Year.Get(); ok {
		item.Issued = &CSLDate{DateParts: [][]int{{y}}}
	}

	var kws []string
	for _, k := range r.Keywords {
		if v, ok := k.Get(); ok {
			kws = append(kws, v)
		}
	}
	item.Keyword = strings.Join(kws, ", ")
	return item
}

// orderedAuthors reassembles the author list as first, interior, final.
func orderedAuthors(r *types.CanonicalRecord) []string {
	var out []string
	if v, ok := r.FirstAuthor.Get(); ok {
		out = append(out, v)
	}
	out = append(out, r.OtherAuthors...)
	if v, ok := r.FinalAuthor.Get(); ok {
		out = append(out, v)
	}
	return out
}

// cslType maps a provider publication type onto the CSL type vocabulary.
// Unrecognized types fall back to "article".
func cslType(pubType string) string {
	t := strings.ToLower(strings.TrimSpace(pubType))
	switch {
	case t == "journal-article", t == "journal article", t == "article", strings.HasPrefix(t, "research-article"):
		return "article-journal"
	case t == "book-chapter", t == "chapter":
		return "chapter"
	case t == "proceedings-article", strings.Contains(t, "conference"):
		return "paper-conference"
	case t == "book", t == "monograph":
		return "book"
	case t == "review":
		return "review"
	default:
		return "article"
	}
}

// parseAuthorName splits a "Family, Given" name into CSL parts. Names
// without a comma, such as group authors, use the literal field.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	family, given, ok := strings.Cut(name, ",")
	if !ok {
		return CSLName{Literal: name}
	}
	return CSLName{
		Family: strings.TrimSpace(family),
		Given:  strings.TrimSpace(given),
	}
}
