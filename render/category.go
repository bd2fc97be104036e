package render

import (
	"fmt"
	"strconv"
	"time"

	"chess-stats/models"
)

// Category describes what a stats command shows. All commands share a single
// renderer; a Category only carries data.
type Category struct {
	// Command name, e.g. "rapid".
	Name string
	// Human readable name used in titles and error messages, e.g. "Rapid".
	Label string
	// Command description shown in the Discord client.
	Help string

	// Path to the rating a command cannot do without. If the stats lack it,
	// the whole reply becomes a "no stats" error. Empty for commands that
	// never fail on missing stats.
	Primary string

	Fields []FieldSpec
}

// FieldSpec projects a single value out of a [models.Player]. Value reports
// false if the data is missing, in which case the field is left out.
type FieldSpec struct {
	Label  string
	Inline bool
	Value  func(p *models.Player, now time.Time) (string, bool)
}

var (
	General = Category{
		Name:  "chess",
		Label: "General",
		Help:  "Shows a chess.com player's ratings and activity.",
		Fields: []FieldSpec{
			number("Rapid", "chess_rapid.last.rating"),
			number("Blitz", "chess_blitz.last.rating"),
			number("Bullet", "chess_bullet.last.rating"),
			number("Daily", "chess_daily.last.rating"),
			{Label: "Joined", Inline: true, Value: joined},
			{Label: "Last Online", Inline: true, Value: lastOnline},
		},
	}

	Rapid  = timeControl("rapid", "Rapid")
	Blitz  = timeControl("blitz", "Blitz")
	Bullet = timeControl("bullet", "Bullet")
	Daily  = func() Category {
		c := timeControl("daily", "Daily")
		c.Fields = append(c.Fields, FieldSpec{
			Label:  "Timeouts",
			Inline: true,
			Value:  percent("chess_daily.record.timeout_percent"),
		})
		return c
	}()

	Puzzle = Category{
		Name:    "puzzle",
		Label:   "Puzzle",
		Help:    "Shows a chess.com player's puzzle stats.",
		Primary: "tactics.highest.rating",
		Fields: []FieldSpec{
			number("Highest", "tactics.highest.rating"),
			{Label: "Reached", Inline: true, Value: date("tactics.highest.date")},
			number("Lowest", "tactics.lowest.rating"),
			number("Puzzle Rush", "puzzle_rush.best.score"),
		},
	}
)

// Categories lists every stats category in command order.
var Categories = []Category{General, Rapid, Blitz, Bullet, Daily, Puzzle}

// timeControl builds the category for one of chess.com's game modes, whose
// stats all share the same layout under "chess_<mode>".
func timeControl(mode string, label string) Category {
	key := "chess_" + mode

	return Category{
		Name:    mode,
		Label:   label,
		Help:    fmt.Sprintf("Shows a chess.com player's %s stats.", mode),
		Primary: key + ".last.rating",
		Fields: []FieldSpec{
			number("Rating", key+".last.rating"),
			number("Best", key+".best.rating"),
			{Label: "Record", Inline: false, Value: record(key + ".record")},
		},
	}
}

func number(label string, path string) FieldSpec {
	return FieldSpec{
		Label:  label,
		Inline: true,
		Value: func(p *models.Player, _ time.Time) (string, bool) {
			r, ok := p.Stats.Int(path)
			if !ok {
				return "", false
			}
			return strconv.FormatInt(r, 10), true
		},
	}
}

// record formats a win/loss/draw record. Partial records are left out.
func record(path string) func(*models.Player, time.Time) (string, bool) {
	return func(p *models.Player, _ time.Time) (string, bool) {
		rec, ok := p.Stats.Sub(path)
		if !ok {
			return "", false
		}

		w, okW := rec.Int("win")
		l, okL := rec.Int("loss")
		d, okD := rec.Int("draw")
		if !okW || !okL || !okD {
			return "", false
		}

		return fmt.Sprintf("%d W / %d L / %d D", w, l, d), true
	}
}

func percent(path string) func(*models.Player, time.Time) (string, bool) {
	return func(p *models.Player, _ time.Time) (string, bool) {
		f, ok := p.Stats.Float(path)
		if !ok {
			return "", false
		}
		return strconv.FormatFloat(f, 'f', -1, 64) + "%", true
	}
}

func date(path string) func(*models.Player, time.Time) (string, bool) {
	return func(p *models.Player, _ time.Time) (string, bool) {
		ts, ok := p.Stats.Int(path)
		if !ok {
			return "", false
		}
		return Date(ts), true
	}
}

func joined(p *models.Player, _ time.Time) (string, bool) {
	ts, ok := p.Profile.Int("joined")
	if !ok {
		return "", false
	}
	return Date(ts), true
}

func lastOnline(p *models.Player, now time.Time) (string, bool) {
	ts, ok := p.Profile.Int("last_online")
	if !ok {
		return "", false
	}
	return LastOnline(ts, now), true
}
