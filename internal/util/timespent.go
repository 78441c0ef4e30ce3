package util

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTimeSpent converts the "MM:SS" attempt duration into seconds.
// Attempts recorded before the format was enforced may carry junk, so parse
// failures are reported rather than defaulted.
func ParseTimeSpent(timeSpent string) (int, error) {
	parts := strings.SplitN(timeSpent, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("time spent %q is not MM:SS", timeSpent)
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, fmt.Errorf("time spent %q is not MM:SS", timeSpent)
	}
	seconds, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || seconds < 0 || seconds > 59 || minutes < 0 {
		return 0, fmt.Errorf("time spent %q is not MM:SS", timeSpent)
	}
	return minutes*60 + seconds, nil
}

// FormatTimeSpent renders seconds back into "MM:SS".
func FormatTimeSpent(totalSeconds int) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	return fmt.Sprintf("%02d:%02d", totalSeconds/60, totalSeconds%60)
}
