package models

import (
	"net/url"
	"path"
	"strings"
)

// Player holds both documents fetched for a single chess.com account.
type Player struct {
	Stats   Tree // `/pub/player/{username}/stats`
	Profile Tree // `/pub/player/{username}`
}

// Username returns the canonical spelling of the account name. chess.com only
// preserves the user's casing in the profile URL, e.g.
// "https://www.chess.com/member/MagnusCarlsen". If no usable URL exists, the
// lower-cased profile username is used, and fallback as a last resort.
func (p *Player) Username(fallback string) string {
	if raw, ok := p.Profile.String("url"); ok {
		if u, err := url.Parse(raw); err == nil {
			if name := path.Base(strings.TrimRight(u.Path, "/")); name != "." && name != "/" && name != "" {
				return name
			}
		}
	}

	if name, ok := p.Profile.String("username"); ok && name != "" {
		return name
	}

	return fallback
}

// URL returns the link to the player's chess.com profile page, if known.
func (p *Player) URL() string {
	u, _ := p.Profile.String("url")
	return u
}
