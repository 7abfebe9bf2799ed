package report

import (
	"strings"

	"github.com/yanqian/run-reporter/internal/domain/activity"
)

// GenerateReportText merges the activity metrics with the user's annotations into the
// copyable report. A nil activity yields "". The function is pure: equal inputs give
// byte-identical output.
func GenerateReportText(act *activity.Activity, temperature string, weather Weather, effortLevel, comments string) string {
	if act == nil {
		return ""
	}

	distanceKm := FormatDistance(act.Distance)
	pulse := RoundToInt(act.AverageHR)
	pace := FormatPace(act.AverageSpeed)
	duration := FormatDuration(act.Duration)
	elevation := RoundToInt(orZero(act.ElevationGain))

	var b strings.Builder
	b.WriteString(distanceKm)
	b.WriteString(" км, ")
	b.WriteString(pulse)
	b.WriteString(" пульс, ")
	b.WriteString(pace)
	b.WriteString("/км,\n")
	b.WriteString(duration)
	b.WriteString(", ")
	b.WriteString(elevation)
	b.WriteString(" м набор")
	if temp := strings.TrimSpace(temperature); temp != "" {
		b.WriteString(", ")
		b.WriteString(temp)
		b.WriteString("°C")
	}
	if desc := weather.Describe(); desc != "" {
		b.WriteString(", ")
		b.WriteString(desc)
	}
	b.WriteString(".\nОщущения: ")
	b.WriteString(effortLevel)
	b.WriteString(".\nКомментарий: ")
	b.WriteString(comments)
	return b.String()
}

func orZero(v *float64) *float64 {
	if v != nil {
		return v
	}
	zero := 0.0
	return &zero
}
