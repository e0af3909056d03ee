package archive

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"weblocalizer/internal/domain"
)

func writeZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	w := zip.NewWriter(f)
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(entries[name]))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
}

func readZip(t *testing.T, path string) map[string]string {
	t.Helper()

	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	got := map[string]string{}
	for _, f := range r.File {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		got[f.Name] = string(b)
	}
	return got
}

func TestExtract(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "fragments.zip")
	writeZip(t, src, map[string]string{
		"fragments/NO/index.html": "<html>no</html>",
		"fragments/SE/index.html": "<html>se</html>",
		"fragments/empty/":        "",
	})

	dest := filepath.Join(dir, "out")
	require.NoError(t, NewZip(nil).Extract(src, dest))

	b, err := os.ReadFile(filepath.Join(dest, "fragments", "NO", "index.html"))
	require.NoError(t, err)
	require.Equal(t, "<html>no</html>", string(b))
	require.DirExists(t, filepath.Join(dest, "fragments", "empty"))
}

func TestExtractRejectsEscapingEntries(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"../evil.txt", "a/../../evil.txt", "/etc/evil"} {
		name := name
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			src := filepath.Join(dir, "bad.zip")
			writeZip(t, src, map[string]string{name: "x"})

			err := NewZip(nil).Extract(src, filepath.Join(dir, "out"))
			require.ErrorIs(t, err, domain.ErrInvalidArchivePath)
			require.NoFileExists(t, filepath.Join(dir, "evil.txt"))
		})
	}
}

func TestPack(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out := filepath.Join(dir, "Translated_Files")
	require.NoError(t, os.MkdirAll(filepath.Join(out, "no", "images"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(out, "no", "NO.html"), []byte("<p>no</p>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(out, "no", "images", "logo.png"), []byte("png"), 0o644))
	require.NoError(t, os.Symlink("logo.png", filepath.Join(out, "no", "images", "alias.png")))

	elsewhere := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(elsewhere, "outside.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Symlink(elsewhere, filepath.Join(out, "linked")))

	zipPath := filepath.Join(dir, "Translated_Files.zip")
	require.NoError(t, NewZip(nil).Pack(out, zipPath))

	require.Equal(t, map[string]string{
		"Translated_Files/no/NO.html":          "<p>no</p>",
		"Translated_Files/no/images/logo.png":  "png",
		"Translated_Files/no/images/alias.png": "png",
	}, readZip(t, zipPath))
}

func TestPackThenExtract(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out := filepath.Join(dir, "site")
	require.NoError(t, os.MkdirAll(filepath.Join(out, "se"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(out, "se", "SE.html"), []byte("hej"), 0o644))

	z := NewZip(nil)
	zipPath := filepath.Join(dir, "site.zip")
	require.NoError(t, z.Pack(out, zipPath))

	dest := filepath.Join(dir, "unpacked")
	require.NoError(t, z.Extract(zipPath, dest))
	b, err := os.ReadFile(filepath.Join(dest, "site", "se", "SE.html"))
	require.NoError(t, err)
	require.Equal(t, "hej", string(b))
}

func TestPackMissingDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	err := NewZip(nil).Pack(filepath.Join(dir, "missing"), filepath.Join(dir, "x.zip"))
	require.ErrorIs(t, err, domain.ErrMissingInput)
}
