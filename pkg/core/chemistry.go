package core

import "math"

// ProtonMass is used to convert between m/z and neutral mass.
const ProtonMass = 1.00727646688

// NeutralMass returns the neutral monoisotopic mass of an ion observed at mz
// with the given signed charge, assuming protonation or deprotonation.
func NeutralMass(mz float64, charge int) float64 {
	if charge == 0 {
		return 0
	}
	z := float64(charge)
	return math.Abs(z)*mz - z*ProtonMass
}

// RoundFloat rounds a float to specified decimal places
func RoundFloat(val float64, precision int) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}
