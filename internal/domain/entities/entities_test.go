package entities

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDictionaryOrdering(t *testing.T) {
	t.Parallel()

	d := NewDictionary()
	d.Set("bb", "1")
	d.Set("a", "2")
	d.Set("cc", "3")
	d.Set("bb", "4")
	d.Set("dddé", "5")

	require.Equal(t, 4, d.Len())
	require.Equal(t, []TranslationEntry{
		{Key: "bb", Value: "4"},
		{Key: "a", Value: "2"},
		{Key: "cc", Value: "3"},
		{Key: "dddé", Value: "5"},
	}, d.Entries())

	var keys []string
	for _, e := range d.ByLengthDesc() {
		keys = append(keys, e.Key)
	}
	require.Equal(t, []string{"dddé", "bb", "cc", "a"}, keys)
}

func TestNilDictionary(t *testing.T) {
	t.Parallel()

	var d *Dictionary
	require.Zero(t, d.Len())
	require.Empty(t, d.Entries())
	_, ok := d.Get("x")
	require.False(t, ok)
}

func TestColumnTableAlignment(t *testing.T) {
	t.Parallel()

	table := NewColumnTable()
	require.True(t, table.Add("FR", []int{3, 4, 5}, map[int]string{3: "Bonjour", 5: "Merci"}))
	require.True(t, table.Add("NO", []int{1, 2, 3, 4}, map[int]string{3: "Hei", 4: "Takk", 1: "dropped"}))
	require.False(t, table.Add("FR", []int{9}, map[int]string{9: "again"}))

	require.Equal(t, []string{"FR", "NO"}, table.Headers())
	require.Equal(t, 3, table.Rows())
	require.Equal(t, []string{"Bonjour", "", "Merci"}, table.Column("FR"))
	require.Equal(t, []string{"Hei", "Takk", ""}, table.Column("NO"))
	require.Nil(t, table.Column("DE"))
}

func TestBuildLanguagePairs(t *testing.T) {
	t.Parallel()

	table := NewColumnTable()
	table.Add("FR", []int{2, 3}, map[int]string{2: "Titre", 3: "Corps"})
	table.Add("NO", []int{2, 3}, map[int]string{2: "Tittel", 3: "Kropp"})
	table.Add("DE", []int{2, 3}, map[int]string{2: "Titel"})

	pairs := BuildLanguagePairs(table, "FR", []string{"NO", "SE", "DE", "FR"})
	require.Len(t, pairs, 2)
	require.Equal(t, LanguagePair{Base: "FR", Target: "NO", Rows: [][2]string{{"Titre", "Tittel"}, {"Corps", "Kropp"}}}, pairs[0])
	require.Equal(t, "DE", pairs[1].Target)
	require.Equal(t, [2]string{"Corps", ""}, pairs[1].Rows[1])

	require.Empty(t, BuildLanguagePairs(table, "IT", []string{"NO"}))
}

func TestRunConfigTargets(t *testing.T) {
	t.Parallel()

	cfg := RunConfig{Languages: []string{"FR", "NO", "SE"}, BaseLanguage: "FR"}
	require.Equal(t, []string{"NO", "SE"}, cfg.Targets())
}

func TestNewLayout(t *testing.T) {
	t.Parallel()

	l := NewLayout(filepath.Join("work", "run"))
	require.Equal(t, filepath.Join("work", "run", "processed_excel_files"), l.ProcessedDir)
	require.Equal(t, filepath.Join("work", "run", "html"), l.HTMLDir)
	require.Equal(t, filepath.Join("work", "run", "Translated_Files"), l.OutputDir)
	require.Equal(t, filepath.Join("work", "run", "Translated_Files.zip"), l.ArchivePath())
}
