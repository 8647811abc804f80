package weather

import "errors"

// ErrIncomplete indicates the response lacked temperature or weather code.
var ErrIncomplete = errors.New("incomplete weather payload")

// Condition is a display form of a WMO weather code.
type Condition struct {
	Symbol string
	Text   string
}

// Describe maps a WMO weather code onto the dashboard's coarse conditions.
func Describe(code int) Condition {
	switch {
	case code == 0:
		return Condition{Symbol: "☀️", Text: "Clear"}
	case code <= 3:
		return Condition{Symbol: "⛅", Text: "Partly Cloudy"}
	case code <= 67:
		return Condition{Symbol: "🌧️", Text: "Rainy"}
	case code <= 77:
		return Condition{Symbol: "🌨️", Text: "Snowy"}
	default:
		return Condition{Symbol: "🌤️", Text: "Cloudy"}
	}
}
