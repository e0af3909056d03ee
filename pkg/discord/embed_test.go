package discord

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBuildArchiveEmbed(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	embed := BuildArchiveEmbed("2 page(s)", "Translated_Files.zip", at, paris)
	require.Equal(t, embedTitle, embed.Title)
	require.Equal(t, "2 page(s)", embed.Description)
	require.Equal(t, embedColor, embed.Color)
	require.Equal(t, "2026-03-01T12:30:00Z", embed.Timestamp)
	require.Equal(t, "Translated_Files.zip • 2026-03-01 13:30:00 CET", embed.Footer.Text)

	bare := BuildArchiveEmbed("x", "a.zip", time.Time{}, nil)
	require.Empty(t, bare.Timestamp)
	require.Equal(t, "a.zip", bare.Footer.Text)
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	require.Equal(t, "abc", Truncate("abc", 3))
	require.Equal(t, "ab…", Truncate("abcd", 3))
	require.Equal(t, "éé…", Truncate("éééé", 3))
	require.Equal(t, "", Truncate("abc", 0))

	long := strings.Repeat("x", MaxDescriptionLength+10)
	require.Len(t, []rune(BuildArchiveEmbed(long, "a.zip", time.Time{}, nil).Description), MaxDescriptionLength)
}
