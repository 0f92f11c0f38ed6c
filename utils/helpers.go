package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FormatBytes renders a byte count as a human readable string, e.g. "1.5 MB".
// Negative counts keep their sign; the usage counter can transiently exceed
// the limit, which makes available storage negative until the reconciler
// runs.
func FormatBytes(bytes int64) string {
	if bytes == 0 {
		return "0 Bytes"
	}
	if bytes < 0 {
		return "-" + FormatBytes(-bytes)
	}

	sizes := []string{"Bytes", "KB", "MB", "GB", "TB"}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(sizes) {
		i = len(sizes) - 1
	}

	value := float64(bytes) / math.Pow(1024, float64(i))
	rounded := math.Round(value*100) / 100

	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + sizes[i]
}

// ParseSize parses strings like "15 GB" or "512MB" into a byte count.
func ParseSize(s string) (int64, error) {
	units := map[string]int64{
		"B":  1,
		"KB": 1024,
		"MB": 1024 * 1024,
		"GB": 1024 * 1024 * 1024,
		"TB": 1024 * 1024 * 1024 * 1024,
	}

	trimmed := strings.TrimSpace(s)
	idx := strings.IndexFunc(trimmed, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.'
	})
	if idx <= 0 {
		return 0, fmt.Errorf("invalid size format: %q", s)
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(trimmed[:idx]), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size format: %q", s)
	}

	unit, ok := units[strings.ToUpper(strings.TrimSpace(trimmed[idx:]))]
	if !ok {
		return 0, fmt.Errorf("invalid size unit in %q", s)
	}

	return int64(math.Floor(value * float64(unit))), nil
}

// CalculateStoragePercentage returns used/total as a percentage rounded to
// two decimals. A zero total reads as fully used.
func CalculateStoragePercentage(used, total int64) float64 {
	if total == 0 {
		return 100
	}
	return math.Round(float64(used)/float64(total)*100*100) / 100
}

// AppendCopySuffix inserts " (Copy)" before a file-extension-like suffix,
// or appends it when the name has no extension:
//
//	report.pdf -> report (Copy).pdf
//	README     -> README (Copy)
func AppendCopySuffix(name string) string {
	lastDot := strings.LastIndex(name, ".")
	if lastDot == -1 {
		return name + " (Copy)"
	}
	return name[:lastDot] + " (Copy)" + name[lastDot:]
}

// GetDateRange parses an ISO date (YYYY-MM-DD) and returns the start of that
// day and the start of the next day in server-local time. The end bound is
// exclusive so sub-millisecond timestamps at the day's edge are not lost.
func GetDateRange(dateString string) (time.Time, time.Time, error) {
	date, err := time.ParseInLocation("2006-01-02", dateString, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", dateString)
	}

	startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.Local)
	nextDay := startOfDay.AddDate(0, 0, 1)

	return startOfDay, nextDay, nil
}

// MonthRange returns the first instant of a calendar month and the first
// instant of the next month in server-local time. The end is exclusive.
func MonthRange(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	return start, start.AddDate(0, 1, 0)
}
