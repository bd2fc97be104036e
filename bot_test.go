package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chess-stats/chesscom"
	"chess-stats/models"
	"chess-stats/render"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

const (
	testStats   = `{"chess_rapid": {"last": {"rating": 2839}}, "chess_blitz": {"last": {"rating": 3245}}}`
	testProfile = `{"url": "https://www.chess.com/member/MagnusCarlsen", "last_online": 1710072000}`
)

// newTestBot returns a Bot backed by a stub provider that knows a single
// player, "magnuscarlsen". Requests for "ratelimited" are answered with 429.
func newTestBot(t *testing.T) *Bot {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/pub/player/magnuscarlsen/stats":
			w.Write([]byte(testStats))
		case "/pub/player/magnuscarlsen":
			w.Write([]byte(testProfile))
		case "/pub/player/ratelimited/stats", "/pub/player/ratelimited":
			w.WriteHeader(http.StatusTooManyRequests)
		case "/pub/player/slowpoke/stats":
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	return &Bot{
		chess:   chesscom.New(srv.URL, "test"),
		timeout: time.Second,
		now:     func() time.Time { return testNow },
	}
}

type fakeNicknamer struct {
	err error

	gID, uID, nick string
}

func (f *fakeNicknamer) GuildMemberNickname(gID string, uID string, nick string, _ ...discordgo.RequestOption) error {
	f.gID, f.uID, f.nick = gID, uID, nick
	return f.err
}

func TestBotStats(t *testing.T) {
	b := newTestBot(t)
	ctx := context.Background()

	t.Run("canonical name", func(t *testing.T) {
		p := b.Stats(ctx, "MAGNUSCARLSEN", render.Rapid)
		assert.Equal(t, "MagnusCarlsen", p.Title)
		assert.Equal(t, render.ColorAccent, p.Color)
	})

	t.Run("online", func(t *testing.T) {
		p := b.Stats(ctx, "magnuscarlsen", render.General)
		assert.Contains(t, p.Fields, models.Field{Label: "Last Online", Value: "Online", Inline: true})
	})

	t.Run("missing category", func(t *testing.T) {
		p := b.Stats(ctx, "magnuscarlsen", render.Bullet)
		assert.Equal(t, "No bullet stats found", p.Title)
		assert.Equal(t, render.ColorError, p.Color)
	})

	t.Run("not found", func(t *testing.T) {
		p := b.Stats(ctx, "nobody", render.General)
		assert.Equal(t, render.NotFound("nobody"), p)
	})

	t.Run("invalid username is never requested", func(t *testing.T) {
		p := b.Stats(ctx, "../../etc", render.General)
		assert.Equal(t, render.NotFound("../../etc"), p)
	})

	t.Run("deadline", func(t *testing.T) {
		slow := *b
		slow.timeout = 20 * time.Millisecond

		ctx, cancel := slow.deadline()
		defer cancel()

		start := time.Now()
		p := slow.Stats(ctx, "slowpoke", render.Rapid)
		assert.Equal(t, render.Generic(), p)
		assert.Less(t, time.Since(start), 500*time.Millisecond)
	})

	t.Run("rate limited", func(t *testing.T) {
		p := b.Stats(ctx, "ratelimited", render.Blitz)
		assert.Equal(t, render.RateLimited(), p)
		assert.True(t, p.Ephemeral)
	})
}

func TestBotNick(t *testing.T) {
	b := newTestBot(t)
	ctx := context.Background()

	t.Run("renames", func(t *testing.T) {
		n := &fakeNicknamer{}
		p := b.Nick(ctx, n, "g1", "u1", "magnuscarlsen")

		assert.Equal(t, render.NicknameChanged("MagnusCarlsen (2839)"), p)
		assert.Equal(t, "g1", n.gID)
		assert.Equal(t, "u1", n.uID)
		assert.Equal(t, "MagnusCarlsen (2839)", n.nick)
	})

	t.Run("missing permissions", func(t *testing.T) {
		n := &fakeNicknamer{err: &discordgo.RESTError{
			Response: &http.Response{StatusCode: http.StatusForbidden},
			Message:  &discordgo.APIErrorMessage{Code: discordgo.ErrCodeMissingPermissions, Message: "Missing Permissions"},
		}}
		p := b.Nick(ctx, n, "g1", "u1", "magnuscarlsen")
		assert.Equal(t, render.NicknameDenied(), p)
	})

	t.Run("other discord failure", func(t *testing.T) {
		n := &fakeNicknamer{err: errors.New("connection reset")}
		p := b.Nick(ctx, n, "g1", "u1", "magnuscarlsen")
		assert.Equal(t, render.NicknameFailed(), p)
	})

	t.Run("outside of a server", func(t *testing.T) {
		n := &fakeNicknamer{}
		p := b.Nick(ctx, n, "", "u1", "magnuscarlsen")
		assert.Equal(t, render.GuildOnly(), p)
		assert.Empty(t, n.nick)
	})

	t.Run("player errors are private", func(t *testing.T) {
		n := &fakeNicknamer{}
		p := b.Nick(ctx, n, "g1", "u1", "nobody")
		assert.Equal(t, "User not found", p.Title)
		assert.True(t, p.Ephemeral)
		assert.Empty(t, n.nick)
	})
}

func TestPermissionDenied(t *testing.T) {
	assert.True(t, permissionDenied(&discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusForbidden}}))
	assert.True(t, permissionDenied(&discordgo.RESTError{
		Response: &http.Response{StatusCode: http.StatusBadRequest},
		Message:  &discordgo.APIErrorMessage{Code: discordgo.ErrCodeMissingPermissions},
	}))
	assert.False(t, permissionDenied(&discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusBadRequest}}))
	assert.False(t, permissionDenied(errors.New("forbidden")))
}

func TestRespond(t *testing.T) {
	res := respond(models.Payload{
		Title:     "MagnusCarlsen",
		Color:     render.ColorAccent,
		Thumbnail: "https://example.com/a.png",
		Fields: []models.Field{
			{Label: "Rapid", Value: "2839", Inline: true},
		},
	})

	require.NotNil(t, res.Data)
	require.Len(t, res.Data.Embeds, 1)
	e := res.Data.Embeds[0]

	assert.Equal(t, discordgo.InteractionResponseChannelMessageWithSource, res.Type)
	assert.Equal(t, "MagnusCarlsen", e.Title)
	assert.Equal(t, render.ColorAccent, e.Color)
	assert.Equal(t, "https://example.com/a.png", e.Thumbnail.URL)
	assert.Equal(t, []*discordgo.MessageEmbedField{{Name: "Rapid", Value: "2839", Inline: true}}, e.Fields)
	assert.Zero(t, res.Data.Flags)

	res = respond(render.RateLimited())
	assert.Nil(t, res.Data.Embeds[0].Thumbnail)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, res.Data.Flags)
}
