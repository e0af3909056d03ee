package discord

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"

	"weblocalizer/internal/config"
	"weblocalizer/internal/domain"
)

type fakeSender struct {
	channelID string
	send      *discordgo.MessageSend
	body      string
	err       error
}

func (f *fakeSender) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.channelID = channelID
	f.send = data
	if len(data.Files) > 0 {
		b, err := io.ReadAll(data.Files[0].Reader)
		if err != nil {
			return nil, err
		}
		f.body = string(b)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &discordgo.Message{ID: "42"}, nil
}

func writeArchive(t *testing.T, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Translated_Files.zip")
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
	return path
}

func TestNewPublisherDisabled(t *testing.T) {
	t.Parallel()

	_, err := NewPublisher(config.DiscordConfig{Token: "t"}, nil, nil)
	require.ErrorIs(t, err, domain.ErrPublisherDisabled)

	p, err := NewPublisher(config.DiscordConfig{Token: "t", ChannelID: " 123 "}, nil, nil)
	require.NoError(t, err)
	require.Equal(t, "123", p.channelID)
}

func TestPublish(t *testing.T) {
	t.Parallel()

	fake := &fakeSender{}
	p := newPublisher(fake, "123", time.UTC, nil)
	p.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	archive := writeArchive(t, 16)
	require.NoError(t, p.Publish(context.Background(), archive, "2 page(s) ready"))

	require.Equal(t, "123", fake.channelID)
	require.Len(t, fake.send.Embeds, 1)
	require.Equal(t, "2 page(s) ready", fake.send.Embeds[0].Description)
	require.Equal(t, "Translated_Files.zip • 2026-01-02 03:04:05 UTC", fake.send.Embeds[0].Footer.Text)
	require.Len(t, fake.send.Files, 1)
	require.Equal(t, "Translated_Files.zip", fake.send.Files[0].Name)
	require.Equal(t, "application/zip", fake.send.Files[0].ContentType)
	require.Len(t, fake.body, 16)
}

func TestPublishErrors(t *testing.T) {
	t.Parallel()

	t.Run("send failure", func(t *testing.T) {
		t.Parallel()
		p := newPublisher(&fakeSender{err: errors.New("401 Unauthorized")}, "123", nil, nil)
		err := p.Publish(context.Background(), writeArchive(t, 1), "m")
		require.ErrorContains(t, err, "401 Unauthorized")
	})

	t.Run("missing archive", func(t *testing.T) {
		t.Parallel()
		fake := &fakeSender{}
		p := newPublisher(fake, "123", nil, nil)
		require.ErrorIs(t, p.Publish(context.Background(), filepath.Join(t.TempDir(), "none.zip"), "m"), os.ErrNotExist)
		require.Nil(t, fake.send)
	})

	t.Run("too large", func(t *testing.T) {
		t.Parallel()
		fake := &fakeSender{}
		p := newPublisher(fake, "123", nil, nil)
		require.ErrorContains(t, p.Publish(context.Background(), writeArchive(t, MaxAttachmentBytes+1), "m"), "limit")
		require.Nil(t, fake.send)
	})

	t.Run("canceled", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		p := newPublisher(&fakeSender{}, "123", nil, nil)
		require.ErrorIs(t, p.Publish(ctx, writeArchive(t, 1), "m"), context.Canceled)
	})
}
