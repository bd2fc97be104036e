package main

import (
	"fmt"
	"strings"

	"chess-stats/render"
	"chess-stats/session"

	"github.com/bwmarrin/discordgo"
)

var usernameOption = []*discordgo.ApplicationCommandOption{
	{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "username",
		Description: "chess.com username",
		Required:    true,
	},
}

// Commands returns the definitions and handlers of all slash-commands.
func (b *Bot) Commands() []session.Command {
	cmds := []session.Command{
		{
			Definition: &discordgo.ApplicationCommand{
				Name:        "ping",
				Description: "Checks whether the bot is alive.",
			},
			Handler: func(s *discordgo.Session, i *discordgo.Interaction) *discordgo.InteractionResponse {
				return &discordgo.InteractionResponse{
					Type: discordgo.InteractionResponseChannelMessageWithSource,
					Data: &discordgo.InteractionResponseData{
						Content: fmt.Sprintf("Pong! %dms", s.HeartbeatLatency().Milliseconds()),
						Flags:   discordgo.MessageFlagsEphemeral,
					},
				}
			},
		},
	}

	for _, c := range render.Categories {
		cmds = append(cmds, session.Command{
			Definition: &discordgo.ApplicationCommand{
				Name:        c.Name,
				Description: c.Help,
				Options:     usernameOption,
			},
			Handler: func(_ *discordgo.Session, i *discordgo.Interaction) *discordgo.InteractionResponse {
				ctx, cancel := b.deadline()
				defer cancel()

				return respond(b.Stats(ctx, username(i), c))
			},
		})
	}

	cmds = append(cmds, session.Command{
		Definition: &discordgo.ApplicationCommand{
			Name:        "nick",
			Description: "Sets your nickname to your chess.com username and rapid rating.",
			Options:     usernameOption,
		},
		Handler: func(s *discordgo.Session, i *discordgo.Interaction) *discordgo.InteractionResponse {
			ctx, cancel := b.deadline()
			defer cancel()

			var uID string
			if i.Member != nil && i.Member.User != nil {
				uID = i.Member.User.ID
			}

			return respond(b.Nick(ctx, s, i.GuildID, uID, username(i)))
		},
	})

	return cmds
}

// username returns the value of the "username" option of a command.
func username(i *discordgo.Interaction) string {
	for _, o := range i.ApplicationCommandData().Options {
		if o.Name == "username" && o.Type == discordgo.ApplicationCommandOptionString {
			return strings.TrimSpace(o.StringValue())
		}
	}
	return ""
}
