package preferences

import (
	"math"
	"strconv"
	"strings"
)

// ParseMinutes coerces raw entry text to whole minutes. Text that is not a
// number becomes 0; fractions are truncated. Range checks are left to the
// controller.
func ParseMinutes(value string) int {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0
	}
	if parsed > math.MaxInt32 {
		return math.MaxInt32
	}
	if parsed < math.MinInt32 {
		return math.MinInt32
	}
	return int(parsed)
}

func formatMinutes(minutes int) string {
	return strconv.Itoa(minutes)
}
