package feeds

import "math"

// Magnesio y sodio viajan en mg por la API pero se guardan en gramos.
// El redondeo a microgramo evita acumular ruido binario en el round-trip.

func MilligramsToGrams(mg float64) float64 {
	return roundMicro(mg / 1000.0)
}

func GramsToMilligrams(g float64) float64 {
	return roundMicro(g * 1000.0)
}

// roundMicro redondea a 6 decimales.
func roundMicro(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
