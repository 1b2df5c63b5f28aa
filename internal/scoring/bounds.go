package scoring

// HistoricalBounds is the calibrated scaled-score floor (zero correct) and
// ceiling (all correct) for one knowledge area, taken from the published
// national exam score tables.
type HistoricalBounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ReferenceArea anchors the coherence estimator and serves as the fallback
// for unrecognized area codes.
const ReferenceArea = AreaLC

var historicalBounds = map[string]HistoricalBounds{
	AreaLC: {Min: 299.6, Max: 820.8},
	AreaCH: {Min: 289.9, Max: 823.0},
	AreaCN: {Min: 314.4, Max: 868.4},
	AreaMT: {Min: 319.8, Max: 958.6},
}

// BoundsFor looks up the historical bounds for an area code. Unknown codes
// fall back to the reference area's bounds so reporting stays available
// even with a misconfigured template.
func BoundsFor(areaCode string) HistoricalBounds {
	if b, ok := historicalBounds[areaCode]; ok {
		return b
	}
	return historicalBounds[ReferenceArea]
}
