// Package render turns chess.com player data into [models.Payload]s.
package render

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"chess-stats/chesscom"
	"chess-stats/models"
)

const (
	ColorAccent = 0x81B64C
	ColorError  = 0xE74C3C
)

var ErrNoStats = errors.New("render: no stats for category")

// Stats renders the given category for a player. If the player has no stats
// for the category's primary rating, the result is a [NoStats] payload.
//
// The result only depends on its arguments; now is consulted solely to
// decide whether a player counts as online.
func Stats(p *models.Player, c Category, username string, now time.Time) models.Payload {
	name := p.Username(username)

	if c.Primary != "" {
		if _, ok := p.Stats.Int(c.Primary); !ok {
			return NoStats(c, name)
		}
	}

	payload := models.Payload{
		Title:       title(p, name),
		Description: description(p, c),
		URL:         p.URL(),
		Color:       ColorAccent,
		Fields:      make([]models.Field, 0, len(c.Fields)),
	}

	if avatar, ok := p.Profile.String("avatar"); ok && avatar != "" {
		payload.Thumbnail = avatar
	}

	for _, f := range c.Fields {
		v, ok := f.Value(p, now)
		if !ok {
			continue
		}

		payload.Fields = append(payload.Fields, models.Field{Label: f.Label, Value: v, Inline: f.Inline})
	}

	return payload
}

// Nickname returns the server nickname reflecting a player's rapid rating,
// e.g. "MagnusCarlsen (2839)". Fails with [ErrNoStats] if the player has no
// rapid rating.
func Nickname(p *models.Player, username string) (string, error) {
	r, ok := p.Stats.Int(Rapid.Primary)
	if !ok {
		return "", ErrNoStats
	}

	return fmt.Sprintf("%s (%d)", p.Username(username), r), nil
}

// Failure renders an error returned from [chesscom.Client.Player]. Errors
// outside the chesscom taxonomy (e.g. timeouts) are reported generically.
func Failure(err error, username string) models.Payload {
	switch {
	case errors.Is(err, chesscom.ErrNotFound):
		return NotFound(username)
	case errors.Is(err, chesscom.ErrRateLimited):
		return RateLimited()
	default:
		return Generic()
	}
}

func NotFound(username string) models.Payload {
	return failure(
		"User not found",
		fmt.Sprintf("There is no chess.com account named **%s**.", username),
	)
}

func RateLimited() models.Payload {
	p := failure(
		"Rate limited",
		"chess.com is receiving too many requests right now. Please try again in a minute.",
	)
	p.Ephemeral = true
	return p
}

func Generic() models.Payload {
	return failure(
		"Something went wrong",
		"chess.com could not be reached. Please try again later.",
	)
}

func NoStats(c Category, username string) models.Payload {
	kind := strings.ToLower(c.Label)
	return failure(
		fmt.Sprintf("No %s stats found", kind),
		fmt.Sprintf("**%s** has no %s stats on chess.com.", username, kind),
	)
}

func NicknameDenied() models.Payload {
	p := failure(
		"Cannot change nickname",
		"I am not allowed to change your nickname on this server.",
	)
	p.Ephemeral = true
	return p
}

func NicknameFailed() models.Payload {
	p := failure(
		"Cannot change nickname",
		"Discord did not accept the new nickname. Please try again later.",
	)
	p.Ephemeral = true
	return p
}

func GuildOnly() models.Payload {
	p := failure("Not available here", "This command can only be used on a server.")
	p.Ephemeral = true
	return p
}

func NicknameChanged(nick string) models.Payload {
	return models.Payload{
		Title:       "Nickname changed",
		Description: fmt.Sprintf("Your nickname is now **%s**.", nick),
		Color:       ColorAccent,
		Ephemeral:   true,
	}
}

func failure(title string, desc string) models.Payload {
	return models.Payload{Title: title, Description: desc, Color: ColorError}
}

// title prefixes the name with the player's chess title, e.g. "GM Hikaru".
func title(p *models.Player, name string) string {
	if t, ok := p.Profile.String("title"); ok && t != "" {
		return t + " " + name
	}
	return name
}

func description(p *models.Player, c Category) string {
	if c.Primary != "" {
		return c.Label + " stats"
	}

	var parts []string
	if n, ok := p.Profile.String("name"); ok && n != "" {
		parts = append(parts, n)
	}
	if l, ok := p.Profile.String("location"); ok && l != "" {
		parts = append(parts, l)
	}
	return strings.Join(parts, " · ")
}
