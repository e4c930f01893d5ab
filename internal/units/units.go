// Package units converts between dBV and linear voltage ratios.
package units

import "math"

// VoltFactor converts a dBV value to the equivalent linear voltage ratio.
// 1 V is 0 dBV, so VoltFactor(0) == 1.
func VoltFactor(dBV float64) float64 {
	return math.Pow(10.0, dBV/20.0)
}

// DBV converts a linear voltage ratio to dBV.
func DBV(volts float64) float64 {
	return 20.0 * math.Log10(volts)
}
