package activity

import (
	"math"
	"strconv"
	"time"
)

// Relative formats the distance between then and now in the "3 hours ago" style.
// Timestamps in the future count as "a few seconds ago".
func Relative(then, now time.Time) string {
	d := now.Sub(then)
	if d < 0 {
		d = 0
	}

	seconds := d.Seconds()
	minutes := seconds / 60
	hours := minutes / 60
	days := hours / 24

	switch {
	case seconds < 45:
		return "a few seconds ago"
	case seconds < 90:
		return "a minute ago"
	case minutes < 45:
		return plural(minutes, "minutes")
	case minutes < 90:
		return "an hour ago"
	case hours < 22:
		return plural(hours, "hours")
	case hours < 36:
		return "a day ago"
	case days < 26:
		return plural(days, "days")
	case days < 45:
		return "a month ago"
	case days < 320:
		return plural(days/30.4375, "months")
	case days < 548:
		return "a year ago"
	default:
		return plural(days/365.25, "years")
	}
}

func plural(n float64, unit string) string {
	return strconv.Itoa(int(math.Round(n))) + " " + unit + " ago"
}
