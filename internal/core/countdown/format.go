package countdown

import "fmt"

// FormatTime renders seconds as m:ss, e.g. 300 -> "5:00", 65 -> "1:05".
// Minutes are not capped at 59.
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
