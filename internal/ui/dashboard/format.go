package dashboard

import "time"

// FormatClock renders the 12-hour wall clock with seconds, e.g. "03:04:05 PM".
func FormatClock(now time.Time) string {
	return now.Format("03:04:05 PM")
}

// FormatDate renders the long date line, e.g. "Monday, January 2, 2006".
func FormatDate(now time.Time) string {
	return now.Format("Monday, January 2, 2006")
}
