package scoring

import "math"

// EstimateLinear maps a raw correct count onto the area's historical
// scaled-score range by linear interpolation. Zero items yields the floor
// bound. The ratio is always within [0,1], so no clamping is needed.
func EstimateLinear(correct, totalItems int, areaCode string) float64 {
	b := BoundsFor(areaCode)

	ratio := 0.0
	if totalItems > 0 {
		ratio = float64(correct) / float64(totalItems)
	}

	return round2(b.Min + ratio*(b.Max-b.Min))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
