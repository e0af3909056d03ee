package discord

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"weblocalizer/internal/config"
	"weblocalizer/internal/domain"
	"weblocalizer/internal/ports/output"
	discordfmt "weblocalizer/pkg/discord"
)

// MaxAttachmentBytes is the upload limit of a server without boosts.
const MaxAttachmentBytes = 10 << 20

var _ output.Publisher = (*Publisher)(nil)

// sender is the slice of *discordgo.Session the publisher needs.
type sender interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Publisher posts the finished archive to a Discord channel.
type Publisher struct {
	session   sender
	channelID string
	loc       *time.Location
	logger    *zap.Logger
	now       func() time.Time
}

// NewPublisher creates the Discord session. No gateway connection is opened;
// messages go through the REST API.
func NewPublisher(cfg config.DiscordConfig, loc *time.Location, logger *zap.Logger) (*Publisher, error) {
	if !cfg.Enabled() {
		return nil, domain.ErrPublisherDisabled
	}
	s, err := discordgo.New("Bot " + strings.TrimSpace(cfg.Token))
	if err != nil {
		return nil, fmt.Errorf("discord: create session: %w", err)
	}
	return newPublisher(s, strings.TrimSpace(cfg.ChannelID), loc, logger), nil
}

func newPublisher(s sender, channelID string, loc *time.Location, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{
		session:   s,
		channelID: channelID,
		loc:       loc,
		logger:    logger.Named("discord"),
		now:       time.Now,
	}
}

// Publish uploads archivePath with message as an embed.
func (p *Publisher) Publish(ctx context.Context, archivePath, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(archivePath)
	if err != nil {
		return fmt.Errorf("discord: %w", err)
	}
	if info.Size() > MaxAttachmentBytes {
		return fmt.Errorf("discord: archive is %d bytes, limit is %d", info.Size(), MaxAttachmentBytes)
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("discord: %w", err)
	}
	defer f.Close()

	name := filepath.Base(archivePath)
	msg, err := p.session.ChannelMessageSendComplex(p.channelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{discordfmt.BuildArchiveEmbed(message, name, p.now(), p.loc)},
		Files: []*discordgo.File{{
			Name:        name,
			ContentType: "application/zip",
			Reader:      f,
		}},
	}, discordgo.WithContext(ctx))
	if err != nil {
		p.logger.Warn("discord send failed", zap.String("channel_id", p.channelID), zap.Error(err))
		return fmt.Errorf("discord: send to channel %s: %w", p.channelID, err)
	}

	p.logger.Info("archive published",
		zap.String("channel_id", p.channelID),
		zap.String("message_id", msg.ID),
		zap.Int64("bytes", info.Size()),
	)
	return nil
}
