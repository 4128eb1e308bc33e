package bot

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/palemoky/liturgical-calendar-bot/internal/broadcast"
)

type messageAPI interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// ChannelSender delivers the daily post to every guild text channel with a
// given name.
type ChannelSender struct {
	state   *discordgo.State
	api     messageAPI
	channel string
}

// NewChannelSender creates a sender over the session's cached guild state.
func NewChannelSender(state *discordgo.State, api messageAPI, channel string) *ChannelSender {
	return &ChannelSender{state: state, api: api, channel: channel}
}

// TargetChannels lists, per guild, the text channels named like the
// configured channel.
func (c *ChannelSender) TargetChannels(_ context.Context) ([]broadcast.Channel, error) {
	c.state.RLock()
	defer c.state.RUnlock()

	var out []broadcast.Channel
	for _, g := range c.state.Guilds {
		for _, ch := range g.Channels {
			if ch.Type == discordgo.ChannelTypeGuildText && ch.Name == c.channel {
				out = append(out, broadcast.Channel{ID: ch.ID, Name: ch.Name, GuildID: g.ID})
			}
		}
	}
	return out, nil
}

// Send posts content to ch, split at Discord's message limit.
func (c *ChannelSender) Send(ctx context.Context, ch broadcast.Channel, content string) error {
	for _, chunk := range SplitMessage(content, MaxMessageLength) {
		if _, err := c.api.ChannelMessageSend(ch.ID, chunk, discordgo.WithContext(ctx)); err != nil {
			return err
		}
	}
	return nil
}
