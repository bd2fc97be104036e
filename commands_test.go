package main

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommands(t *testing.T) {
	b := NewBot(&Env{APIURL: "https://api.chess.com"})

	var names []string
	for _, c := range b.Commands() {
		require.NotNil(t, c.Handler, c.Definition.Name)
		assert.NotEmpty(t, c.Definition.Description, c.Definition.Name)
		names = append(names, c.Definition.Name)

		if c.Definition.Name == "ping" {
			assert.Empty(t, c.Definition.Options)
			continue
		}

		require.Len(t, c.Definition.Options, 1, c.Definition.Name)
		assert.Equal(t, "username", c.Definition.Options[0].Name)
		assert.True(t, c.Definition.Options[0].Required)
	}

	assert.Equal(t, []string{"ping", "chess", "rapid", "blitz", "bullet", "daily", "puzzle", "nick"}, names)
}

func TestUsername(t *testing.T) {
	i := &discordgo.Interaction{
		Type: discordgo.InteractionApplicationCommand,
		Data: discordgo.ApplicationCommandInteractionData{
			Name: "rapid",
			Options: []*discordgo.ApplicationCommandInteractionDataOption{
				{Name: "username", Type: discordgo.ApplicationCommandOptionString, Value: "  Hikaru "},
			},
		},
	}
	assert.Equal(t, "Hikaru", username(i))

	i.Data = discordgo.ApplicationCommandInteractionData{Name: "rapid"}
	assert.Empty(t, username(i))
}
