// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data structures of the harvest pipeline:
// the canonical record every provider is normalized into, the publication
// date window, and the per-stage configuration.
package types

import "strings"

// Slot list capacities.
const (
	KeywordSlotCount     = 6
	AreaSlotCount        = 3
	InstitutionSlotCount = 2
)

// DOIResolver is the base URL used to build DOIURL.
const DOIResolver = "https://doi.org/"

// KeywordSlots holds up to six keywords, filled left to right.
type KeywordSlots [KeywordSlotCount]Optional[string]

// AreaSlots holds up to three subject areas, filled left to right.
type AreaSlots [AreaSlotCount]Optional[string]

// InstitutionSlots holds up to two non-primary institutions.
type InstitutionSlots [InstitutionSlotCount]Optional[string]

// FillSlots copies values into slots left to right, skipping blanks. Values
// beyond the capacity of slots are dropped and slots past the last value stay
// missing. It returns the number of slots filled.
func FillSlots(slots []Optional[string], values []string) int {
	n := 0
	for _, v := range values {
		if n == len(slots) {
			break
		}
		t := Text(v)
		if t.IsMissing() {
			continue
		}
		slots[n] = t
		n++
	}
	for i := n; i < len(slots); i++ {
		slots[i] = None[string]()
	}
	return n
}

// CanonicalRecord is the unified output row produced for every publication a
// provider returns for a keyword. Every field is always present; absence is
// carried by the Optional missing state, never by omission.
type CanonicalRecord struct {
	// Source is the provider that produced the record (e.g. "crossref").
	Source string `json:"source" yaml:"source"`

	// SourceKeyword is the query term that produced this record.
	SourceKeyword string `json:"source_keyword" yaml:"source_keyword"`

	Title       Optional[string] `json:"title" yaml:"title"`
	FirstAuthor Optional[string] `json:"first_author" yaml:"first_author"`
	FinalAuthor Optional[string] `json:"final_author" yaml:"final_author"`

	// OtherAuthors lists the interior authors in source order. Empty when the
	// record has fewer than three authors.
	OtherAuthors []string `json:"other_authors" yaml:"other_authors"`

	PublicationType Optional[string] `json:"publication_type" yaml:"publication_type"`
	Journal         Optional[string] `json:"journal" yaml:"journal"`
	Year            Optional[int]    `json:"year" yaml:"year"`
	Volume          Optional[string] `json:"volume" yaml:"volume"`
	Page            Optional[string] `json:"page" yaml:"page"`

	// DOI, DOIURL and DOISuffix are only ever assigned together through SetDOI.
	DOI       Optional[string] `json:"doi" yaml:"doi"`
	DOIURL    Optional[string] `json:"doi_url" yaml:"doi_url"`
	DOISuffix Optional[string] `json:"doi_suffix" yaml:"doi_suffix"`

	Affiliation       Optional[string] `json:"affiliation" yaml:"affiliation"`
	OtherInstitutions InstitutionSlots `json:"other_institutions" yaml:"other_institutions"`

	SubjectAreas          AreaSlots        `json:"subject_areas" yaml:"subject_areas"`
	ArticleClassification Optional[string] `json:"article_classification" yaml:"article_classification"`

	Keywords KeywordSlots     `json:"keywords" yaml:"keywords"`
	Abstract Optional[string] `json:"abstract" yaml:"abstract"`
}

// NewRecord returns an all-missing record attributed to source and keyword.
func NewRecord(source, keyword string) CanonicalRecord {
	return CanonicalRecord{Source: source, SourceKeyword: keyword}
}

// SetDOI normalizes raw and assigns DOI together with its derived resolver URL
// and unique suffix. A blank raw value leaves all three missing.
func (r *CanonicalRecord) SetDOI(raw string) {
	doi := NormalizeDOI(raw)
	if doi.IsMissing() {
		r.DOI, r.DOIURL, r.DOISuffix = None[string](), None[string](), None[string]()
		return
	}
	v, _ := doi.Get()
	r.DOI = doi
	r.DOIURL = Some(DOIResolver + v)
	r.DOISuffix = Some(DOISuffix(v))
}

// AssignAuthors applies the single author rule used by every provider:
// first is authors[0]; final is the last author only when there are at least
// two; the interior authors are kept only when there are at least three.
func (r *CanonicalRecord) AssignAuthors(authors []string) {
	var names []string
	for _, a := range authors {
		if a = strings.TrimSpace(a); a != "" {
			names = append(names, a)
		}
	}

	r.FirstAuthor, r.FinalAuthor, r.OtherAuthors = None[string](), None[string](), nil
	switch n := len(names); {
	case n == 0:
	case n == 1:
		r.FirstAuthor = Some(names[0])
	default:
		r.FirstAuthor = Some(names[0])
		r.FinalAuthor = Some(names[n-1])
		if n > 2 {
			r.OtherAuthors = append([]string(nil), names[1:n-1]...)
		}
	}
}

var doiPrefixes = []string{
	"https://doi.org/",
	"http://doi.org/",
	"https://dx.doi.org/",
	"http://dx.doi.org/",
	"doi:",
}

// NormalizeDOI trims whitespace and resolver or scheme prefixes from raw.
func NormalizeDOI(raw string) Optional[string] {
	s := strings.TrimSpace(raw)
	lower := strings.ToLower(s)
	for _, p := range doiPrefixes {
		if strings.HasPrefix(lower, p) {
			s = strings.TrimSpace(s[len(p):])
			break
		}
	}
	return Text(s)
}

// DOISuffix strips the registrant prefix up to and including the last "/".
// A DOI without a separator is returned unchanged.
func DOISuffix(doi string) string {
	if i := strings.LastIndex(doi, "/"); i >= 0 {
		return doi[i+1:]
	}
	return doi
}
