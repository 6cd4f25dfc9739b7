package analysis

// Bands holds the current energy in the three frequency regions, already
// normalized by bin count so the values are comparable across bands.
// Values are always finite and non-negative.
type Bands struct {
	Low  float64
	Mid  float64
	High float64
}
