// Package bot connects the command surface and the daily broadcast to
// Discord.
package bot

import (
	"context"
	"fmt"
	"slices"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/palemoky/liturgical-calendar-bot/internal/commands"
	"github.com/palemoky/liturgical-calendar-bot/internal/config"
	"github.com/palemoky/liturgical-calendar-bot/internal/logger"
)

// Bot owns the Discord session.
type Bot struct {
	session     *discordgo.Session
	handler     *commands.Handler
	adminRoleID string
	ctx         context.Context
	log         *zap.Logger
}

// New creates a session for cfg's token. Call Open to connect.
func New(cfg config.DiscordConfig, handler *commands.Handler) (*Bot, error) {
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	b := &Bot{
		session:     s,
		handler:     handler,
		adminRoleID: cfg.AdminRoleID,
		ctx:         context.Background(),
		log:         logger.Named("bot"),
	}
	s.AddHandler(b.onReady)
	s.AddHandler(b.onInteraction)
	return b, nil
}

// Session exposes the underlying session, e.g. for command deployment.
func (b *Bot) Session() *discordgo.Session {
	return b.session
}

// Open connects to the gateway. ctx is handed to command handlers.
func (b *Bot) Open(ctx context.Context) error {
	b.ctx = ctx
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}
	return nil
}

// Close disconnects from the gateway.
func (b *Bot) Close() error {
	return b.session.Close()
}

// Sender returns the broadcast sender for channels named channel.
func (b *Bot) Sender(channel string) *ChannelSender {
	return NewChannelSender(b.session.State, b.session, channel)
}

func (b *Bot) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	b.log.Info("Ready",
		zap.String("user", r.User.Username),
		zap.Int("guilds", len(r.Guilds)),
	)
}

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.handleInteraction(b.ctx, s, i)
}

// interactionAPI is the subset of the session used to answer interactions
type interactionAPI interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

func (b *Bot) handleInteraction(ctx context.Context, api interactionAPI, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	inv := Invocation(i.ApplicationCommandData())
	caller := CallerOf(i, b.adminRoleID)
	log := b.log.With(
		zap.String("command", inv.Command),
		zap.String("subcommand", inv.Subcommand),
		zap.String("user_id", caller.UserID),
	)

	var flags discordgo.MessageFlags
	if inv.Ephemeral() {
		flags = discordgo.MessageFlagsEphemeral
	}

	err := api.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: flags},
	}, discordgo.WithContext(ctx))
	if err != nil {
		log.Error("Failed to defer interaction", zap.Error(err))
		return
	}

	reply := b.handler.Handle(ctx, caller, inv)

	chunks := SplitMessage(reply.Content, MaxMessageLength)
	if _, err := api.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &chunks[0]}, discordgo.WithContext(ctx)); err != nil {
		log.Error("Failed to edit interaction reply", zap.Error(err))
		return
	}
	for _, chunk := range chunks[1:] {
		_, err := api.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
			Content: chunk,
			Flags:   flags,
		}, discordgo.WithContext(ctx))
		if err != nil {
			log.Error("Failed to send follow-up message", zap.Error(err))
			return
		}
	}

	log.Debug("Interaction handled", zap.Int("messages", len(chunks)))
}

// Invocation converts slash command data into a transport-free invocation.
func Invocation(data discordgo.ApplicationCommandInteractionData) commands.Invocation {
	inv := commands.Invocation{Command: data.Name, Options: commands.Options{}}

	opts := data.Options
	if len(opts) > 0 && opts[0].Type == discordgo.ApplicationCommandOptionSubCommand {
		inv.Subcommand = opts[0].Name
		opts = opts[0].Options
	}

	for _, o := range opts {
		switch o.Type {
		case discordgo.ApplicationCommandOptionInteger:
			inv.Options[o.Name] = o.IntValue()
		case discordgo.ApplicationCommandOptionString:
			inv.Options[o.Name] = o.StringValue()
		}
	}
	return inv
}

// CallerOf identifies the invoking user. Only guild members can be admins.
func CallerOf(i *discordgo.InteractionCreate, adminRoleID string) commands.Caller {
	if i.Member != nil {
		var id string
		if i.Member.User != nil {
			id = i.Member.User.ID
		}
		return commands.Caller{UserID: id, Admin: IsAdmin(i.Member, adminRoleID)}
	}
	if i.User != nil {
		return commands.Caller{UserID: i.User.ID}
	}
	return commands.Caller{}
}

// IsAdmin reports whether m holds the Administrator permission or the
// configured admin role.
func IsAdmin(m *discordgo.Member, adminRoleID string) bool {
	if m == nil {
		return false
	}
	if m.Permissions&discordgo.PermissionAdministrator != 0 {
		return true
	}
	return adminRoleID != "" && slices.Contains(m.Roles, adminRoleID)
}
