package stats

import "math"

// Round1 rounds to one decimal place, halves away from zero.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Percent returns part/whole*100 rounded to one decimal. whole must be > 0.
func Percent(part, whole int) float64 {
	return Round1(float64(part) / float64(whole) * 100)
}
