package formatting

import "strconv"

// FormatPercent converts a [0,1] fraction to a whole-number percentage
// string (e.g. 0.87 -> "87%"). Values round to the nearest integer.
func FormatPercent(fraction float64) string {
	return strconv.FormatFloat(fraction*100, 'f', 0, 64) + "%"
}
