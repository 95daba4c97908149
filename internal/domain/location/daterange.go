package location

import (
	"fmt"
	"math"
	"time"
)

const dateLayout = "Jan 2, 2006"

// FormatDateRange форматирует период пребывания для вывода.
// Без даты окончания период считается текущим.
func FormatDateRange(start time.Time, end *time.Time) string {
	from := start.Format(dateLayout)
	if end == nil {
		return from + " - Present"
	}
	to := end.Format(dateLayout)

	days := int(math.Ceil(math.Abs(end.Sub(start).Hours()) / 24))
	switch {
	case days == 0:
		return from + " (same day)"
	case days == 1:
		return fmt.Sprintf("%s - %s (1 day)", from, to)
	case days < 30:
		return fmt.Sprintf("%s - %s (%d days)", from, to, days)
	case days < 365:
		return fmt.Sprintf("%s - %s (%s)", from, to, plural(days/30, "month"))
	default:
		return fmt.Sprintf("%s - %s (%s)", from, to, plural(days/365, "year"))
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
