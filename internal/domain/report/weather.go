package report

import "strings"

// Condition is one of the fixed weather flags a user can tick.
type Condition string

const (
	StrongWind Condition = "strongWind"
	LightRain  Condition = "lightRain"
	StrongRain Condition = "strongRain"
	Storm      Condition = "storm"
	Snow       Condition = "snow"
)

// conditions is the rendering order of the weather description.
var conditions = []Condition{StrongWind, LightRain, StrongRain, Storm, Snow}

var conditionSymbols = map[Condition]string{
	StrongWind: "💨",
	LightRain:  "🌦️",
	StrongRain: "🌧️",
	Storm:      "⛈️",
	Snow:       "🌨️",
}

// Conditions returns the weather conditions in rendering order.
func Conditions() []Condition {
	out := make([]Condition, len(conditions))
	copy(out, conditions)
	return out
}

// Symbol returns the emoji rendered for the condition.
func (c Condition) Symbol() string {
	return conditionSymbols[c]
}

// Weather holds the user's weather flags. The zero value has every flag off.
type Weather struct {
	StrongWind bool `json:"strongWind"`
	LightRain  bool `json:"lightRain"`
	StrongRain bool `json:"strongRain"`
	Storm      bool `json:"storm"`
	Snow       bool `json:"snow"`
}

// Has reports whether the condition is ticked.
func (w Weather) Has(c Condition) bool {
	switch c {
	case StrongWind:
		return w.StrongWind
	case LightRain:
		return w.LightRain
	case StrongRain:
		return w.StrongRain
	case Storm:
		return w.Storm
	case Snow:
		return w.Snow
	default:
		return false
	}
}

// With returns a copy of w with the condition set to on. Unknown conditions are ignored.
func (w Weather) With(c Condition, on bool) Weather {
	switch c {
	case StrongWind:
		w.StrongWind = on
	case LightRain:
		w.LightRain = on
	case StrongRain:
		w.StrongRain = on
	case Storm:
		w.Storm = on
	case Snow:
		w.Snow = on
	}
	return w
}

// Describe joins the symbols of the ticked conditions with single spaces, in fixed order.
func (w Weather) Describe() string {
	symbols := make([]string, 0, len(conditions))
	for _, c := range conditions {
		if w.Has(c) {
			symbols = append(symbols, c.Symbol())
		}
	}
	return strings.Join(symbols, " ")
}
