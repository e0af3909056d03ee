package discord

import (
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"weblocalizer/pkg/tz"
)

const (
	embedColor = 0x5865F2
	embedTitle = "🌍 Localization finished"

	// Discord rejects longer embed descriptions.
	MaxDescriptionLength = 4096
)

// BuildArchiveEmbed builds the embed that accompanies a published archive.
func BuildArchiveEmbed(message, archiveName string, at time.Time, loc *time.Location) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       embedTitle,
		Description: Truncate(message, MaxDescriptionLength),
		Color:       embedColor,
		Footer:      &discordgo.MessageEmbedFooter{Text: archiveName},
	}
	if !at.IsZero() {
		embed.Timestamp = at.UTC().Format(time.RFC3339)
		embed.Footer.Text = archiveName + " • " + tz.Stamp(at, loc)
	}
	return embed
}

// Truncate cuts s to at most max runes, ending with an ellipsis when cut.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-1]) + "…"
}
