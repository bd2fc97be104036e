package models

// Payload is the presentational result of a single command, independent of
// how it is eventually delivered (see [discordgo.MessageEmbed]).
type Payload struct {
	Title       string
	Description string
	URL         string
	Color       int

	// Image shown next to the title. Empty if there is none.
	Thumbnail string

	Fields []Field

	// Whether the reply is only visible to the user who invoked the command.
	Ephemeral bool
}

// Field is a single labeled value of a [Payload].
type Field struct {
	Label  string
	Value  string
	Inline bool
}
