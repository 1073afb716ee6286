// Package discord wires the bot to the Discord gateway using discordgo.
// It forwards messages from the monitored channel (whitelisted authors only)
// to the ingest handler, serves the manual !summary trigger, and implements
// the dispatch.Sender used for summary delivery.
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"

	"github.com/nkoski/briefbot/pkg/briefbot/dispatch"
	"github.com/nkoski/briefbot/pkg/briefbot/store"
	"github.com/nkoski/briefbot/pkg/briefbot/summary"
)

// summaryCommand is the manual trigger for an on-demand summary run.
const summaryCommand = "!summary"

// Config holds Discord connection configuration.
type Config struct {
	// Token is the Discord bot token.
	Token string

	// MonitorChannel is the only channel whose messages are ingested.
	MonitorChannel string

	// WhitelistedUsers are the author IDs whose messages are stored.
	// Messages from anyone else in the monitored channel are ignored.
	WhitelistedUsers []string
}

// IngestHandler receives converted inbound messages from the monitored
// channel.
type IngestHandler func(in *store.Inbound)

// SummarizeHandler produces a summary for the manual trigger. The string is
// always deliverable; a non-nil error reports a generation fault that was
// recovered by the fallback.
type SummarizeHandler func(ctx context.Context) (string, error)

// Discord is the gateway connection.
type Discord struct {
	cfg       Config
	logger    *slog.Logger
	session   *discordgo.Session
	connected atomic.Bool

	ingest    IngestHandler
	summarize SummarizeHandler

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a Discord connection instance. Handlers are wired by the
// orchestrator before Connect.
func New(cfg Config, logger *slog.Logger) *Discord {
	if logger == nil {
		logger = slog.Default()
	}
	return &Discord{
		cfg:    cfg,
		logger: logger.With("component", "discord"),
	}
}

// SetIngestHandler registers the handler for monitored-channel messages.
func (d *Discord) SetIngestHandler(h IngestHandler) { d.ingest = h }

// SetSummarizeHandler registers the handler for the manual summary trigger.
func (d *Discord) SetSummarizeHandler(h SummarizeHandler) { d.summarize = h }

// Connect opens the Discord gateway WebSocket connection.
func (d *Discord) Connect(ctx context.Context) error {
	if d.cfg.Token == "" {
		return fmt.Errorf("discord: bot token is required")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)

	session, err := discordgo.New("Bot " + d.cfg.Token)
	if err != nil {
		return fmt.Errorf("discord: creating session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent

	session.AddHandler(d.onMessageCreate)

	if err := session.Open(); err != nil {
		return fmt.Errorf("discord: opening gateway: %w", err)
	}

	d.session = session
	d.connected.Store(true)

	user := session.State.User
	d.logger.Info("connected", "bot", user.Username, "id", user.ID)
	return nil
}

// Disconnect closes the gateway connection.
func (d *Discord) Disconnect() error {
	if d.cancel != nil {
		d.cancel()
	}
	if d.session != nil {
		d.session.Close()
	}
	d.connected.Store(false)
	d.logger.Info("disconnected")
	return nil
}

// IsConnected reports whether the gateway connection is open.
func (d *Discord) IsConnected() bool { return d.connected.Load() }

// onMessageCreate handles incoming messages: the manual summary command from
// any channel, and ingestion from the monitored channel.
func (d *Discord) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Ignore the bot's own messages and other bots.
	if m.Author.ID == s.State.User.ID || m.Author.Bot {
		return
	}

	if m.Content == summaryCommand {
		d.handleSummaryCommand(m.ChannelID)
		return
	}

	if m.ChannelID != d.cfg.MonitorChannel {
		return
	}
	if !d.isWhitelisted(m.Author.ID) {
		d.logger.Debug("ignoring message from non-whitelisted user",
			"author", m.Author.Username, "author_id", m.Author.ID)
		return
	}

	if d.ingest != nil {
		d.ingest(convertMessage(m.Message))
	}
}

// handleSummaryCommand runs the pipeline on demand and posts the result to
// the requesting channel. Generation faults are appended as a short note.
func (d *Discord) handleSummaryCommand(channelID string) {
	if d.summarize == nil {
		return
	}

	if _, err := d.session.ChannelMessageSend(channelID, "Contacting LLM to generate summary..."); err != nil {
		d.logger.Warn("failed to send summary acknowledgement", "channel_id", channelID, "error", err)
	}

	go func() {
		text, genErr := d.summarize(d.ctx)
		if genErr != nil {
			text = summary.Truncate(text + "\n\n_Summary generation failed: " + genErr.Error() + "_")
		}
		if _, err := d.session.ChannelMessageSend(channelID, text); err != nil {
			d.logger.Error("failed to send manual summary", "channel_id", channelID, "error", err)
		}
	}()
}

// isWhitelisted reports whether the author ID is in the whitelist.
func (d *Discord) isWhitelisted(authorID string) bool {
	for _, id := range d.cfg.WhitelistedUsers {
		if id == authorID {
			return true
		}
	}
	return false
}

// ---------- dispatch.Sender ----------

// Resolve looks up a destination channel, preferring the state cache over a
// REST call.
func (d *Discord) Resolve(ctx context.Context, id string) (*dispatch.Target, error) {
	if d.session == nil {
		return nil, fmt.Errorf("discord: not connected")
	}

	ch, err := d.session.State.Channel(id)
	if err != nil {
		ch, err = d.session.Channel(id, discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("discord: channel lookup %q: %w", id, err)
		}
	}

	return &dispatch.Target{
		ID:          ch.ID,
		TextCapable: isTextChannel(ch.Type),
	}, nil
}

// Send delivers text content to a channel.
func (d *Discord) Send(ctx context.Context, id, content string) error {
	if d.session == nil {
		return fmt.Errorf("discord: not connected")
	}
	_, err := d.session.ChannelMessageSend(id, content, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("discord: sending to channel %q: %w", id, err)
	}
	return nil
}

// isTextChannel reports whether a channel type accepts plain text messages.
func isTextChannel(t discordgo.ChannelType) bool {
	switch t {
	case discordgo.ChannelTypeGuildText,
		discordgo.ChannelTypeDM,
		discordgo.ChannelTypeGuildNews,
		discordgo.ChannelTypeGuildNewsThread,
		discordgo.ChannelTypeGuildPublicThread,
		discordgo.ChannelTypeGuildPrivateThread:
		return true
	}
	return false
}

// Compile-time interface verification.
var _ dispatch.Sender = (*Discord)(nil)
