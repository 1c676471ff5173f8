package utils

import "math"

// Round1 rounds to 1 decimal place (weights and nutrition values).
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Round2 rounds to 2 decimal places (percentages, ounces, risk scores).
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
