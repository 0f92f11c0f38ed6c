package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{"zero", 0, "0 Bytes"},
		{"bytes", 512, "512 Bytes"},
		{"one kilobyte", 1024, "1 KB"},
		{"fractional megabytes", 1572864, "1.5 MB"},
		{"gigabytes", 16106127360, "15 GB"},
		{"rounds to two decimals", 1234567, "1.18 MB"},
		{"negative bytes keep sign", -1024, "-1 KB"},
		{"negative fractional", -1572864, "-1.5 MB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatBytes(tt.bytes))
		})
	}
}

func TestParseSize(t *testing.T) {
	got, err := ParseSize("15 GB")
	require.NoError(t, err)
	assert.Equal(t, int64(15*1024*1024*1024), got)

	got, err = ParseSize("512MB")
	require.NoError(t, err)
	assert.Equal(t, int64(512*1024*1024), got)

	_, err = ParseSize("fifteen gigs")
	assert.Error(t, err)
}

func TestCalculateStoragePercentage(t *testing.T) {
	assert.Equal(t, 50.0, CalculateStoragePercentage(50, 100))
	assert.Equal(t, 33.33, CalculateStoragePercentage(1, 3))
	assert.Equal(t, 100.0, CalculateStoragePercentage(10, 0))
	assert.Equal(t, 0.0, CalculateStoragePercentage(0, 100))
}

func TestAppendCopySuffix(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"with extension", "report.pdf", "report (Copy).pdf"},
		{"no extension", "README", "README (Copy)"},
		{"multiple dots", "archive.tar.gz", "archive.tar (Copy).gz"},
		{"dot only name", ".env", " (Copy).env"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AppendCopySuffix(tt.in))
		})
	}
}

func TestGetDateRange(t *testing.T) {
	start, next, err := GetDateRange("2024-03-15")
	require.NoError(t, err)

	assert.Equal(t, 2024, start.Year())
	assert.Equal(t, time.March, start.Month())
	assert.Equal(t, 15, start.Day())
	assert.Equal(t, 0, start.Hour())

	// The end bound is the start of the next day, used exclusively, so a
	// timestamp anywhere inside the day falls in [start, next).
	assert.Equal(t, 16, next.Day())
	assert.Equal(t, 0, next.Hour())
	assert.Equal(t, 24*time.Hour, next.Sub(start))

	lastInstant := next.Add(-time.Nanosecond)
	assert.True(t, !lastInstant.Before(start) && lastInstant.Before(next))
}

func TestGetDateRangeInvalid(t *testing.T) {
	_, _, err := GetDateRange("15/03/2024")
	assert.Error(t, err)

	_, _, err = GetDateRange("")
	assert.Error(t, err)
}

func TestMonthRange(t *testing.T) {
	start, end := MonthRange(2024, 2)

	assert.Equal(t, time.February, start.Month())
	assert.Equal(t, 1, start.Day())

	// Exclusive end at the start of the next month; 2024 February has 29
	// days, all of which fall inside [start, end).
	assert.Equal(t, time.March, end.Month())
	assert.Equal(t, 1, end.Day())
	assert.Equal(t, 29*24*time.Hour, end.Sub(start))
}
