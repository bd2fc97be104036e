package render

import "time"

const (
	DateLayout = "02.01.2006"

	// Players seen within this window are shown as online.
	OnlineWindow = 5 * time.Minute
)

// Date formats a Unix timestamp (seconds) as DD.MM.YYYY in UTC.
func Date(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(DateLayout)
}

// LastOnline formats a last-seen timestamp relative to now: "Online" within
// [OnlineWindow], the absolute date otherwise.
func LastOnline(ts int64, now time.Time) string {
	if now.Sub(time.Unix(ts, 0)) <= OnlineWindow {
		return "Online"
	}
	return Date(ts)
}
