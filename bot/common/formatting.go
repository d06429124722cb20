package common

import (
	"fmt"
	"strings"
	"time"
)

// FormatXP formats an XP amount with thousand separators
func FormatXP(xp int64) string {
	str := fmt.Sprintf("%d", xp)

	n := len(str)
	if n <= 3 {
		return str
	}

	var result strings.Builder
	for i, digit := range str {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}

	return result.String()
}

// FormatProgressBar renders current/total as a fixed-width text bar
func FormatProgressBar(current, total int64, width int) string {
	if total <= 0 || width <= 0 {
		return ""
	}
	if current < 0 {
		current = 0
	}
	if current > total {
		current = total
	}

	filled := int(current * int64(width) / total)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}
