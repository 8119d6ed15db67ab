package utils

import (
	"fmt"
	"time"
)

// FormatTime formats time.Duration output to a human readable value.
// Durations below one second are reported in milliseconds.
func FormatTime(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}

	total := int64(d.Seconds())
	days, rem := total/86400, total%86400
	hours, rem := rem/3600, rem%3600
	minutes, seconds := rem/60, rem%60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd:%dh:%dm:%ds", days, hours, minutes, seconds)
	case hours > 0:
		return fmt.Sprintf("%dh:%dm:%ds", hours, minutes, seconds)
	}
	return fmt.Sprintf("%dm:%ds", minutes, seconds)
}
