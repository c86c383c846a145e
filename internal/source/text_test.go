// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/litharvest/pkg/types"
)

func TestCleanMarkup(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want types.Optional[string]
	}{
		{"plain", "A plain abstract.", types.Some("A plain abstract.")},
		{"blank", "  \n ", types.None[string]()},
		{"html paragraphs", "<p>First.</p><p>Second.</p>", types.Some("First. Second.")},
		{"jats", "<jats:title>Abstract</jats:title><jats:p>Body <jats:italic>text</jats:italic>.</jats:p>", types.Some("Abstract Body text.")},
		{"entities", "Fe &amp; Co at 5&#8201;K", types.Some("Fe & Co at 5 K")},
		{"escaped markup", "&lt;p&gt;Escaped &amp;amp; tagged&lt;/p&gt;", types.Some("Escaped & tagged")},
		{"inequality kept", "p < 0.05 and q > 2", types.Some("p < 0.05 and q > 2")},
		{"script dropped", "<p>Keep</p><script>alert(1)</script>", types.Some("Keep")},
		{"whitespace collapsed", "a\n\n   b\t c", types.Some("a b c")},
		{"inline tags join words", "CO<sub>2</sub> uptake", types.Some("CO2 uptake")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanMarkup(tt.in))
		})
	}
}

func TestCleanMarkupLeavesNoTagsOrEntities(t *testing.T) {
	inputs := []string{
		"<jats:p>Graphene &lt;i&gt;oxide&lt;/i&gt; &amp;amp; water</jats:p>",
		"&lt;jats:sec&gt;&lt;jats:title&gt;Methods&lt;/jats:title&gt;&lt;/jats:sec&gt;",
		"<div><b>Bold</b> &quot;quoted&quot; &#169; 2026</div>",
	}
	for _, in := range inputs {
		out, ok := cleanMarkup(in).Get()
		if !assert.True(t, ok, in) {
			continue
		}
		assert.NotRegexp(t, markupTag, out, in)
		for _, ent := range []string{"&amp;", "&lt;", "&gt;", "&quot;", "&#"} {
			assert.False(t, strings.Contains(out, ent), "%q still contains %s", out, ent)
		}
	}
}

func TestLeadingYear(t *testing.T) {
	assert.Equal(t, types.Some(2026), leadingYear("2026-10-21"))
	assert.Equal(t, types.Some(2026), leadingYear(" 2026 Oct-Nov"))
	assert.True(t, leadingYear("26").IsMissing())
	assert.True(t, leadingYear("Oct 2026").IsMissing())
	assert.True(t, leadingYear("").IsMissing())
}
