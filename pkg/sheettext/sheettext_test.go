package sheettext

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderSkipsHeaderAndPadsRows(t *testing.T) {
	t.Parallel()

	got := Render([]Sheet{{
		Name: "FR",
		Rows: [][]string{
			{"FR", "NO", "Notes"},
			{"  Bonjour   le\tmonde ", "Hei verden", "x"},
			{"Titre"},
			{},
		},
	}})

	want := "### Sheet: FR\n\n" +
		"Bonjour le monde : Hei verden : x \n" +
		"Titre :  :  \n" +
		" :  :  \n" +
		"\n"
	require.Equal(t, want, got)
}

func TestRenderEmptySheet(t *testing.T) {
	t.Parallel()

	require.Equal(t, "### Sheet: Empty\n\n\n", Render([]Sheet{{Name: "Empty"}}))
}

func TestParse(t *testing.T) {
	t.Parallel()

	dict := Parse("Title : Bonjour\nBody : Monde")
	require.Equal(t, map[string]string{"Title": "Bonjour", "Body": "Monde"}, dict.Map())
}

func TestParseLastWriteWins(t *testing.T) {
	t.Parallel()

	dict := Parse("Title : Bonjour\nBody : Monde\nTitle : Salut")
	v, ok := dict.Get("Title")
	require.True(t, ok)
	require.Equal(t, "Salut", v)
	require.Equal(t, "Title", dict.Entries()[0].Key)
}

func TestParseDropsLinesWithoutSeparator(t *testing.T) {
	t.Parallel()

	text := "### Sheet: FR\n\n" +
		"Hello   World : Bonjour   le monde \n" +
		"Empty : \n" +
		"a : b : c \n" +
		"no separator here\n"
	dict := Parse(text)

	require.Equal(t, map[string]string{
		"Hello World": "Bonjour le monde",
		"a":           "b : c",
	}, dict.Map())
}

func TestRenderParseRoundTrip(t *testing.T) {
	t.Parallel()

	text := Render([]Sheet{{
		Name: "NO",
		Rows: [][]string{
			{"FR", "NO"},
			{"Qualit&eacute;", "Kvalitet"},
			{"Livraison  gratuite", "Gratis\nfrakt"},
			{"Sans traduction"},
		},
	}})
	dict := Parse(text)

	require.Equal(t, map[string]string{
		"Qualit&eacute;":     "Kvalitet",
		"Livraison gratuite": "Gratis frakt",
	}, dict.Map())
}
