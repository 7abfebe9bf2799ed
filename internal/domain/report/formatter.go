package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	zeroPace     = "00:00"
	zeroDuration = "00:00"
	zeroDate     = "00.00"
)

// FormatDistance renders meters as kilometers with exactly two decimals,
// rounding half away from zero at the third decimal.
func FormatDistance(meters float64) string {
	if !isFinite(meters) {
		return "0.00"
	}
	// whole decametres == hundredths of a kilometre
	rounded := math.Round(meters / 10)
	if !fitsInt64(rounded) {
		return "0.00"
	}
	hundredths := int64(rounded)
	sign := ""
	if hundredths < 0 {
		sign = "-"
		hundredths = -hundredths
	}
	return fmt.Sprintf("%s%d.%02d", sign, hundredths/100, hundredths%100)
}

// FormatDate returns "DD.MM" taken from the calendar date of a local timestamp.
// Only the leading YYYY-MM-DD is read, so no timezone conversion happens.
func FormatDate(timestamp string) string {
	value := strings.TrimSpace(timestamp)
	if len(value) < len(time.DateOnly) {
		return zeroDate
	}
	day, err := time.Parse(time.DateOnly, value[:len(time.DateOnly)])
	if err != nil {
		return zeroDate
	}
	return fmt.Sprintf("%02d.%02d", day.Day(), int(day.Month()))
}

// FormatPace converts an average speed in m/s to a per-kilometre pace "MM:SS".
// Minutes are zero-padded to two digits.
func FormatPace(speed *float64) string {
	if speed == nil || !isFinite(*speed) || *speed <= 0 {
		return zeroPace
	}
	secondsPerKm := 1000 / *speed
	if !isFinite(secondsPerKm) {
		return zeroPace
	}
	if !fitsInt64(secondsPerKm) {
		return zeroPace
	}
	minutes := int64(math.Floor(secondsPerKm / 60))
	seconds := int64(math.Floor(math.Mod(secondsPerKm, 60)))
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// FormatDuration renders whole seconds as "H:MM:SS" from one hour upwards, otherwise "MM:SS".
func FormatDuration(totalSeconds float64) string {
	if !isFinite(totalSeconds) || totalSeconds < 0 || !fitsInt64(totalSeconds) {
		return zeroDuration
	}
	whole := int64(math.Floor(totalSeconds))
	hours := whole / 3600
	minutes := (whole % 3600) / 60
	seconds := whole % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// RoundToInt rounds half away from zero. Absent and non-finite values render as "0".
func RoundToInt(value *float64) string {
	if value == nil || !isFinite(*value) {
		return "0"
	}
	rounded := math.Round(*value)
	if rounded == 0 {
		// drop the sign of -0
		rounded = 0
	}
	return strconv.FormatFloat(rounded, 'f', 0, 64)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// fitsInt64 reports whether v converts to int64 without overflow.
func fitsInt64(v float64) bool {
	return isFinite(v) && math.Abs(v) < math.MaxInt64
}
