package runner

import (
	"fmt"
	"math"
	"strconv"
)

// FormatDuration renders milliseconds as "1h 2m 3s", "2m 5s", "45s" or, under a
// second, "0.50s".
func FormatDuration(ms float64) string {
	if ms < 0 || math.IsNaN(ms) {
		ms = 0
	}

	totalSeconds := ms / 1000
	seconds := int64(math.Floor(math.Mod(totalSeconds, 60)))
	minutes := int64(math.Floor(math.Mod(ms/(1000*60), 60)))
	hours := int64(math.Floor(ms / (1000 * 60 * 60)))

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	case seconds == 0:
		return strconv.FormatFloat(math.Mod(totalSeconds, 60), 'f', 2, 64) + "s"
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
