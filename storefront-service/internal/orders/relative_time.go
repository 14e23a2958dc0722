package orders

import (
	"fmt"
	"time"
)

const day = 24 * time.Hour

// RelativeTime renders t relative to now: "Just now", "5m ago", "3h ago",
// "Yesterday", "4 days ago", then the calendar date.
func RelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return "Unknown date"
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "Just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case d < day:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	}

	days := int(d / day)
	switch {
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Format("Jan 2, 2006")
	}
}
