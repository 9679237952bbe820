package utils

import (
	"fmt"
	"time"
)

// FormatRemaining renders a time-remaining duration for API payloads and
// spoken replies. Zero or negative durations mean the auction is over.
func FormatRemaining(d time.Duration) string {
	if d <= 0 {
		return "Auction ended"
	}

	d = d.Round(time.Second)
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm remaining", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds remaining", minutes, seconds)
	default:
		return fmt.Sprintf("%ds remaining", seconds)
	}
}
