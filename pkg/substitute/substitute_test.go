package substitute

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"weblocalizer/internal/domain/entities"
)

func dictOf(pairs ...string) *entities.Dictionary {
	d := entities.NewDictionary()
	for i := 0; i+1 < len(pairs); i += 2 {
		d.Set(pairs[i], pairs[i+1])
	}
	return d
}

var modes = []Mode{SinglePass, Sequential}

func TestLongestKeyWins(t *testing.T) {
	t.Parallel()

	for _, mode := range modes {
		mode := mode
		t.Run(mode.String(), func(t *testing.T) {
			t.Parallel()

			// Short key inserted first so insertion order alone would pick it.
			dict := dictOf("A", "short", "AB", "long")
			res, err := New(mode).Apply("<p>AB</p><p>A</p>", dict)
			require.NoError(t, err)
			require.Equal(t, "<p>long</p><p>short</p>", res.Document)
			require.Equal(t, 1, res.Matches["AB"])
			require.Equal(t, 1, res.Matches["A"])
		})
	}
}

func TestOverlappingKeysLongestWins(t *testing.T) {
	t.Parallel()

	for _, mode := range modes {
		mode := mode
		t.Run(mode.String(), func(t *testing.T) {
			t.Parallel()

			// The shorter key starts earlier in the text.
			dict := dictOf("Say Hello", "SH", "Hello World", "HW")
			res, err := New(mode).Apply("<p>Say Hello World</p><p>Say Hello</p>", dict)
			require.NoError(t, err)
			require.Equal(t, "<p>Say HW</p><p>SH</p>", res.Document)
			require.Equal(t, 1, res.Matches["Hello World"])
			require.Equal(t, 1, res.Matches["Say Hello"])
		})
	}
}

func TestCaseFoldingBeyondASCII(t *testing.T) {
	t.Parallel()

	// U+017F folds to s and U+212A to k.
	dict := dictOf("Sko", "Shoe", "ÉTÉ", "summer")
	res, err := New(SinglePass).Apply("<p>\u017f\u212ao</p><p>été</p>", dict)
	require.NoError(t, err)
	require.Equal(t, "<p>Shoe</p><p>summer</p>", res.Document)
}

func TestMayMatch(t *testing.T) {
	t.Parallel()

	doc := foldCase("<h1>Hello\n\tWorld</h1><p>Stra\u00dfe</p>")
	require.True(t, mayMatch(doc, "hello world"))
	require.True(t, mayMatch(doc, "HELLO"))
	require.True(t, mayMatch(doc, "STRA\u00dfE"))
	require.False(t, mayMatch(doc, "Goodbye World"))
}

func TestManyKeysFewMatches(t *testing.T) {
	t.Parallel()

	dict := entities.NewDictionary()
	for i := 0; i < 500; i++ {
		dict.Set(fmt.Sprintf("unused sentence number %d with several words", i), "x")
	}
	dict.Set("Welcome home", "Velkommen hjem")
	doc := strings.Repeat("<p>Welcome   home</p>", 200)

	res, err := New(SinglePass).Apply(doc, dict)
	require.NoError(t, err)
	require.Equal(t, strings.Repeat("<p>Velkommen hjem</p>", 200), res.Document)
	require.Equal(t, 200, res.Matches["Welcome home"])
	require.Len(t, res.Unmatched(dict), 500)
}

func TestWhitespaceTolerance(t *testing.T) {
	t.Parallel()

	for _, mode := range modes {
		mode := mode
		t.Run(mode.String(), func(t *testing.T) {
			t.Parallel()

			dict := dictOf("Hello World", "Bonjour le monde")
			engine := New(mode)
			for _, doc := range []string{
				"<h1>Hello&nbsp;World</h1>",
				"<h1>Hello    World</h1>",
				"<h1>Hello\n\tWorld</h1>",
				"<h1>hello world</h1>",
				"<h1>HelloWorld</h1>",
				"<h1>Hello World</h1>",
			} {
				res, err := engine.Apply(doc, dict)
				require.NoError(t, err)
				require.Equal(t, "<h1>Bonjour le monde</h1>", res.Document, doc)
			}
		})
	}
}

func TestMetacharactersAreLiteral(t *testing.T) {
	t.Parallel()

	dict := dictOf("Price (incl. VAT) $5", "Prix (TTC) $1 5 €")
	res, err := New(SinglePass).Apply("<td>Price (incl. VAT) $5</td><td>Price xincl. VAT) $5</td>", dict)
	require.NoError(t, err)
	require.Equal(t, "<td>Prix (TTC) $1 5 €</td><td>Price xincl. VAT) $5</td>", res.Document)
}

func TestNbspNormalizedEverywhere(t *testing.T) {
	t.Parallel()

	dict := dictOf("Contact", "Kontakt")
	res, err := New(Sequential).Apply("a&nbsp;b Contact", dict)
	require.NoError(t, err)
	require.Equal(t, "a b Kontakt", res.Document)
}

func TestSequentialReplacementsInterfere(t *testing.T) {
	t.Parallel()

	dict := dictOf("Our shop", "Shop online", "Shop", "Butikk")
	doc := "<p>Our shop</p>"

	seq, err := New(Sequential).Apply(doc, dict)
	require.NoError(t, err)
	require.Equal(t, "<p>Butikk online</p>", seq.Document)

	single, err := New(SinglePass).Apply(doc, dict)
	require.NoError(t, err)
	require.Equal(t, "<p>Shop online</p>", single.Document)
}

func TestTemplateIsNotMutated(t *testing.T) {
	t.Parallel()

	doc := "<p>Title</p>"
	res, err := New(SinglePass).Apply(doc, dictOf("Title", "Titre"))
	require.NoError(t, err)
	require.Equal(t, "<p>Title</p>", doc)
	require.Equal(t, "<p>Titre</p>", res.Document)
}

func TestUnmatchedAndEmptyKeys(t *testing.T) {
	t.Parallel()

	dict := dictOf("", "ignored", "Title", "Titre", "Missing", "Manquant")
	res, err := New(SinglePass).Apply("<p>Title</p>", dict)
	require.NoError(t, err)
	require.Equal(t, "<p>Titre</p>", res.Document)
	require.Equal(t, []string{"Missing"}, res.Unmatched(dict))
}

func TestEmptyDictionary(t *testing.T) {
	t.Parallel()

	res, err := New(SinglePass).Apply("<p>x&nbsp;y</p>", entities.NewDictionary())
	require.NoError(t, err)
	require.Equal(t, "<p>x&nbsp;y</p>", res.Document)
	require.Empty(t, res.Matches)
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	m, err := ParseMode("Sequential")
	require.NoError(t, err)
	require.Equal(t, Sequential, m)

	m, err = ParseMode("")
	require.NoError(t, err)
	require.Equal(t, SinglePass, m)

	_, err = ParseMode("fuzzy")
	require.Error(t, err)
}
