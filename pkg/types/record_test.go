// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignAuthors(t *testing.T) {
	tests := []struct {
		name      string
		authors   []string
		wantFirst Optional[string]
		wantFinal Optional[string]
		wantOther []string
	}{
		{"none", nil, None[string](), None[string](), nil},
		{"one", []string{"Lee, A"}, Some("Lee, A"), None[string](), nil},
		{"two", []string{"Lee, A", "Kim, B"}, Some("Lee, A"), Some("Kim, B"), nil},
		{"three", []string{"Lee, A", "Kim, B", "Park, C"}, Some("Lee, A"), Some("Park, C"), []string{"Kim, B"}},
		{"blank names dropped", []string{"", "Lee, A", "  "}, Some("Lee, A"), None[string](), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRecord("test", "kw")
			r.AssignAuthors(tt.authors)
			assert.Equal(t, tt.wantFirst, r.FirstAuthor)
			assert.Equal(t, tt.wantFinal, r.FinalAuthor)
			assert.Equal(t, tt.wantOther, r.OtherAuthors)
		})
	}
}

func TestAssignAuthorsInteriorCount(t *testing.T) {
	for n := 0; n <= 12; n++ {
		authors := make([]string, n)
		for i := range authors {
			authors[i] = fmt.Sprintf("Author %d", i)
		}
		r := NewRecord("test", "kw")
		r.AssignAuthors(authors)

		if n <= 2 {
			assert.Empty(t, r.OtherAuthors, "n=%d", n)
			continue
		}
		require.Len(t, r.OtherAuthors, n-2, "n=%d", n)
		assert.Equal(t, authors[1:n-1], r.OtherAuthors, "n=%d", n)
	}
}

func TestSetDOI(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantDOI    Optional[string]
		wantURL    Optional[string]
		wantSuffix Optional[string]
	}{
		{"bare", "10.1000/xyz", Some("10.1000/xyz"), Some("https://doi.org/10.1000/xyz"), Some("xyz")},
		{"resolver prefix", "https://doi.org/10.1002/abc.123", Some("10.1002/abc.123"), Some("https://doi.org/10.1002/abc.123"), Some("abc.123")},
		{"doi scheme", "doi:10.1002/j.1", Some("10.1002/j.1"), Some("https://doi.org/10.1002/j.1"), Some("j.1")},
		{"nested path uses last separator", "10.1016/j/s0140-6736", Some("10.1016/j/s0140-6736"), Some("https://doi.org/10.1016/j/s0140-6736"), Some("s0140-6736")},
		{"blank", "   ", None[string](), None[string](), None[string]()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRecord("test", "kw")
			r.SetDOI(tt.raw)
			assert.Equal(t, tt.wantDOI, r.DOI)
			assert.Equal(t, tt.wantURL, r.DOIURL)
			assert.Equal(t, tt.wantSuffix, r.DOISuffix)
			assert.Equal(t, r.DOI.IsMissing(), r.DOIURL.IsMissing())
		})
	}
}

func TestFillSlots(t *testing.T) {
	var kw KeywordSlots
	n := FillSlots(kw[:], []string{"a", "", "b", "c", "d", "e", "f", "g", "h"})
	assert.Equal(t, 6, n)
	assert.Equal(t, Some("a"), kw[0])
	assert.Equal(t, Some("b"), kw[1])
	assert.Equal(t, Some("f"), kw[5])

	var areas AreaSlots
	n = FillSlots(areas[:], []string{"Physics"})
	assert.Equal(t, 1, n)
	assert.Equal(t, Some("Physics"), areas[0])
	assert.True(t, areas[1].IsMissing())
	assert.True(t, areas[2].IsMissing())
}

func TestOptionalJSON(t *testing.T) {
	r := NewRecord("crossref", "graphene")
	r.Title = Some("Example Paper")
	r.Year = Some(2026)

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Example Paper", decoded["title"])
	assert.Equal(t, float64(2026), decoded["year"])
	assert.Nil(t, decoded["doi"])
	assert.Nil(t, decoded["abstract"])
}

func TestText(t *testing.T) {
	assert.True(t, Text("").IsMissing())
	assert.True(t, Text(" \n\t").IsMissing())
	assert.Equal(t, Some("x"), Text(" x "))
	assert.Equal(t, "fallback", Text("").Or("fallback"))
	assert.True(t, TextPtr(nil).IsMissing())
	assert.Equal(t, Some("b"), First([]string{"", " ", "b", "c"}))
}

func TestDateWindowValidate(t *testing.T) {
	mon := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	wed := time.Date(2026, 10, 21, 15, 4, 0, 0, time.UTC)

	assert.NoError(t, DateWindow{Start: mon, End: wed}.Validate())
	assert.NoError(t, DateWindow{Start: mon, End: mon}.Validate())
	assert.Error(t, DateWindow{Start: wed, End: mon}.Validate())
	assert.Error(t, DateWindow{}.Validate())

	w := DateWindow{Start: mon, End: wed}
	assert.Equal(t, "2026-10-19..2026-10-21", w.String())
	from, to := w.Format("2006/01/02")
	assert.Equal(t, "2026/10/19", from)
	assert.Equal(t, "2026/10/21", to)
}
