package htmlentity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTableIsBijective(t *testing.T) {
	t.Parallel()

	require.Equal(t, 252, Len())
	Each(func(name string, r rune) {
		got, ok := Name(r)
		require.True(t, ok, name)
		require.Equal(t, name, got)
	})
}

func TestEncode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain ascii", "Hello world", "Hello world"},
		{"accents", "Qualité supérieure", "Qualit&eacute; sup&eacute;rieure"},
		{"markup characters", `5 < 6 & "ok"`, "5 &lt; 6 &amp; &quot;ok&quot;"},
		{"existing entity kept", "caf&eacute; &amp; th&eacute;", "caf&eacute; &amp; th&eacute;"},
		{"unterminated reference", "R&D department", "R&amp;D department"},
		{"unknown reference", "&foo; bar", "&amp;foo; bar"},
		{"non-breaking space", "10\u00a0€", "10&nbsp;&euro;"},
		{"outside table", "日本語 ✓", "日本語 ✓"},
		{"trailing ampersand", "a &", "a &amp;"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, Encode(tc.in))
		})
	}
}

func TestEncodeIsIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"Qualité & prix",
		"&amp;lt; déjà",
		"R&D; élan",
		"x&lt",
		"«Bonjour» — l’été",
		"\xff\xfe invalid é",
	}
	for _, in := range inputs {
		once := Encode(in)
		require.Equal(t, once, Encode(once), in)
	}
}

func TestEncodeSkipsURLs(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"https://example.com/search?q=caf%C3%A9&lang=fr",
		"http://example.com/a&b",
		"Voir https://example.com/é pour détails",
	}
	for _, in := range inputs {
		require.True(t, ContainsURL(in), in)
		require.Equal(t, in, Encode(in))
	}
	require.False(t, ContainsURL("ftp://example.com"))
}

func TestRoundTripOverWholeTable(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	Each(func(_ string, r rune) {
		b.WriteString("x")
		b.WriteRune(r)
	})
	b.WriteString(" plain & text; &amp without semicolon")
	original := b.String()

	encoded := Encode(original)
	require.NotContains(t, encoded, "é")
	require.Equal(t, original, Decode(encoded))
}

func TestDecodeLeavesUnknownReferences(t *testing.T) {
	t.Parallel()

	require.Equal(t, "é &foo; &amp", Decode("&eacute; &foo; &amp"))
	require.Equal(t, "&lt;", Decode("&amp;lt;"))
}
