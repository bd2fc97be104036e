package session

import "github.com/bwmarrin/discordgo"

// Handler represents a handler for a [*discordgo.ApplicationCommand].
//
// Handlers are called with the user interaction itself (i.e.
// [*discordgo.Interaction]), not the usual [*discordgo.InteractionCreate]. The
// returned response is sent back by the [Session]; a nil response means the
// handler has nothing to say.
type Handler func(*discordgo.Session, *discordgo.Interaction) *discordgo.InteractionResponse

// Command wraps a [*discordgo.ApplicationCommand], containing both the command
// definition itself, as well as the corresponding event handler in form of a
// [Handler] (see also [discordgo.EventHandler]).
type Command struct {
	Definition *discordgo.ApplicationCommand
	Handler    Handler
}

// stale returns all registered commands that have no counterpart in cmds.
func stale(registered []*discordgo.ApplicationCommand, cmds []Command) []*discordgo.ApplicationCommand {
	known := make(map[string]bool, len(cmds))
	for _, c := range cmds {
		known[c.Definition.Name] = true
	}

	var out []*discordgo.ApplicationCommand
	for _, c := range registered {
		if !known[c.Name] {
			out = append(out, c)
		}
	}

	return out
}
