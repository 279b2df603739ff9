// Package grade maps percentages to letter grades and grade points.
package grade

// Band is one row of the grading scale.
type Band struct {
	MinPercent float64 `json:"min_percent"`
	Letter     string  `json:"letter"`
	Point      float64 `json:"point"`
}

// bands are ordered highest threshold first; the last one catches everything else.
var bands = [...]Band{
	{MinPercent: 90, Letter: "A+", Point: 10.0},
	{MinPercent: 80, Letter: "A", Point: 9.0},
	{MinPercent: 70, Letter: "B+", Point: 8.0},
	{MinPercent: 60, Letter: "B", Point: 7.0},
	{MinPercent: 50, Letter: "C", Point: 6.0},
	{MinPercent: 40, Letter: "D", Point: 5.0},
}

// Fail is returned for anything below the lowest threshold, including NaN.
var Fail = Band{Letter: "F", Point: 0.0}

// FromPercent returns the band `p` falls in. Lower bounds are inclusive.
func FromPercent(p float64) Band {
	for _, b := range bands {
		if p >= b.MinPercent {
			return b
		}
	}
	return Fail
}

// Bands returns a copy of the grading scale, Fail included.
func Bands() []Band {
	all := make([]Band, 0, len(bands)+1)
	all = append(all, bands[:]...)
	return append(all, Fail)
}
