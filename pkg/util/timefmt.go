package util

import (
	"strconv"
	"strings"
	"time"
)

// FormatMillis formats a duration given in milliseconds. Values under
// 10ms are shown in milliseconds with the least precision that does not
// end in a zero; larger values are shown in seconds. Trailing zeros are
// removed in both cases.
//
// Examples:
//
//	FormatMillis(0.123) // "0.1ms"
//	FormatMillis(2)     // "2ms"
//	FormatMillis(1234)  // "1.2s"
func FormatMillis(ms float64) string {
	decimals := 2
	if ms > 1 {
		decimals = 1
	}
	return FormatMillisDecimals(ms, decimals)
}

// FormatMillisDecimals is FormatMillis with an explicit number of
// decimals for the seconds form.
func FormatMillisDecimals(ms float64, decimals int) string {
	if ms < 10 {
		return trimZeros(bestPrecision(ms)) + "ms"
	}
	return trimZeros(strconv.FormatFloat(ms/1000, 'f', decimals, 64)) + "s"
}

// FormatDuration formats d with FormatMillis.
func FormatDuration(d time.Duration) string {
	return FormatMillis(float64(d) / float64(time.Millisecond))
}

func bestPrecision(ms float64) string {
	for decimals := 1; decimals <= 10; decimals++ {
		v := strconv.FormatFloat(ms, 'f', decimals, 64)
		if v[len(v)-1] != '0' {
			return v
		}
	}
	return strconv.FormatFloat(ms, 'f', -1, 64)
}

func trimZeros(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	return strings.TrimSuffix(strings.TrimRight(s, "0"), ".")
}
