package main

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"time"

	"chess-stats/chesscom"
	"chess-stats/models"
	"chess-stats/render"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
)

// chess.com usernames consist of letters, digits, `_` and `-`.
var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,50}$`)

// Nicknamer changes a member's server nickname. Satisfied by
// [*discordgo.Session].
type Nicknamer interface {
	GuildMemberNickname(guildID string, userID string, nickname string, options ...discordgo.RequestOption) error
}

// Bot answers stats commands with data from chess.com.
type Bot struct {
	chess   *chesscom.Client
	timeout time.Duration
	now     func() time.Time
}

func NewBot(env *Env) *Bot {
	return &Bot{
		chess:   chesscom.New(env.APIURL, env.UserAgent),
		timeout: env.FetchTimeout,
		now:     time.Now,
	}
}

// deadline returns the context a single command runs in.
func (b *Bot) deadline() (context.Context, context.CancelFunc) {
	if b.timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), b.timeout)
}

// Stats fetches the given player and renders category c.
func (b *Bot) Stats(ctx context.Context, username string, c render.Category) models.Payload {
	if !usernamePattern.MatchString(username) {
		log.Debug("Invalid username", "username", username)
		return render.NotFound(username)
	}

	p, err := b.chess.Player(ctx, username)
	if err != nil {
		log.Warn("Player lookup failed", "username", username, "category", c.Name, "err", err)
		return render.Failure(err, username)
	}

	return render.Stats(p, c, username, b.now())
}

// Nick renames the member uID on server gID after the player's rapid rating.
// All replies are only shown to the requesting member.
func (b *Bot) Nick(ctx context.Context, n Nicknamer, gID string, uID string, username string) models.Payload {
	payload := b.nick(ctx, n, gID, uID, username)
	payload.Ephemeral = true
	return payload
}

func (b *Bot) nick(ctx context.Context, n Nicknamer, gID string, uID string, username string) models.Payload {
	if gID == "" || uID == "" {
		return render.GuildOnly()
	}
	if !usernamePattern.MatchString(username) {
		return render.NotFound(username)
	}

	p, err := b.chess.Player(ctx, username)
	if err != nil {
		log.Warn("Player lookup failed", "username", username, "category", "nick", "err", err)
		return render.Failure(err, username)
	}

	nick, err := render.Nickname(p, username)
	if err != nil {
		return render.NoStats(render.Rapid, p.Username(username))
	}

	if err := n.GuildMemberNickname(gID, uID, nick); err != nil {
		if permissionDenied(err) {
			log.Info("Nickname change denied", "gID", gID, "uID", uID, "err", err)
			return render.NicknameDenied()
		}

		log.Warn("Nickname change failed", "gID", gID, "uID", uID, "nick", nick, "err", err)
		return render.NicknameFailed()
	}

	log.Info("Nickname changed", "gID", gID, "uID", uID, "nick", nick)
	return render.NicknameChanged(nick)
}

// permissionDenied reports whether Discord rejected a request for lack of
// permissions. This includes attempts to rename the server owner or members
// ranked above the bot.
func permissionDenied(err error) bool {
	var rErr *discordgo.RESTError
	if !errors.As(err, &rErr) {
		return false
	}

	if rErr.Message != nil && rErr.Message.Code == discordgo.ErrCodeMissingPermissions {
		return true
	}

	return rErr.Response != nil && rErr.Response.StatusCode == http.StatusForbidden
}

// respond converts a payload into an interaction response carrying a single
// embed.
func respond(p models.Payload) *discordgo.InteractionResponse {
	embed := &discordgo.MessageEmbed{
		Title:       p.Title,
		Description: p.Description,
		URL:         p.URL,
		Color:       p.Color,
	}

	if p.Thumbnail != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: p.Thumbnail}
	}

	for _, f := range p.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   f.Label,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}

	data := &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}}
	if p.Ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}

	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	}
}
