package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/palemoky/liturgical-calendar-bot/internal/commands"
	"github.com/palemoky/liturgical-calendar-bot/internal/logger"
)

func float(v float64) *float64 { return &v }

var (
	calendarChoices = []*discordgo.ApplicationCommandOptionChoice{
		{Name: "New Calendar (General Roman Calendar)", Value: "new"},
		{Name: "Tridentine Calendar", Value: "tridentine"},
		{Name: "Roman Martyrology", Value: "martyrology"},
	}

	tableChoices = []*discordgo.ApplicationCommandOptionChoice{
		{Name: "New Calendar", Value: "new_calendar"},
		{Name: "Tridentine Calendar", Value: "tridentine_calendar"},
		{Name: "Roman Martyrology", Value: "roman_martyrology"},
	}

	adminPermission int64 = discordgo.PermissionAdministrator
)

func monthOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        commands.OptMonth,
		Description: "Month (1-12)",
		Required:    true,
		MinValue:    float(1),
		MaxValue:    12,
	}
}

func dayOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        commands.OptDay,
		Description: "Day (1-31)",
		Required:    true,
		MinValue:    float(1),
		MaxValue:    31,
	}
}

func calendarOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        commands.OptCalendar,
		Description: "Which calendar to use",
		Choices:     calendarChoices,
	}
}

func tableOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        commands.OptCalendar,
		Description: "Which calendar to modify",
		Required:    true,
		Choices:     tableChoices,
	}
}

// Definitions returns the slash commands the bot registers
func Definitions() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        commands.CommandCalendar,
			Description: "Get liturgical calendar information",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        commands.SubToday,
					Description: "Show feast day for today",
					Options:     []*discordgo.ApplicationCommandOption{calendarOption()},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        commands.SubDate,
					Description: "Show feast day for a specific date",
					Options: []*discordgo.ApplicationCommandOption{
						monthOption(),
						dayOption(),
						calendarOption(),
					},
				},
			},
		},
		{
			Name:                     commands.CommandDebug,
			Description:              "Debug commands for administrators",
			DefaultMemberPermissions: &adminPermission,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        commands.SubFixEntry,
					Description: "Fix a calendar entry",
					Options: []*discordgo.ApplicationCommandOption{
						tableOption(),
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        commands.OptID,
							Description: "ID of the entry to fix",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        commands.OptField,
							Description: "Field to fix",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        commands.OptValue,
							Description: "New value",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        commands.SubViewErrors,
					Description: "View recent error logs",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        commands.OptLimit,
							Description: "Number of errors to show",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        commands.SubAddEntry,
					Description: "Add a new calendar entry",
					Options: []*discordgo.ApplicationCommandOption{
						tableOption(),
						monthOption(),
						dayOption(),
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        commands.OptData,
							Description: "JSON data for the entry",
							Required:    true,
						},
					},
				},
			},
		},
	}
}

// Registrar registers application commands with Discord
type Registrar interface {
	ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

// Deploy replaces the registered commands with Definitions. An empty guildID
// registers them globally.
func Deploy(ctx context.Context, r Registrar, appID, guildID string) ([]*discordgo.ApplicationCommand, error) {
	scope := "global"
	if guildID != "" {
		scope = "guild " + guildID
	}

	defs := Definitions()
	logger.Info("Deploying slash commands", zap.Int("count", len(defs)), zap.String("scope", scope))

	created, err := r.ApplicationCommandBulkOverwrite(appID, guildID, defs, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to deploy commands (%s): %w", scope, err)
	}

	logger.Info("Deployed slash commands", zap.Int("count", len(created)), zap.String("scope", scope))
	return created, nil
}
