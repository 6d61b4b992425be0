// Package grading turns a student's per-subject marks into an aggregate
// score and a grade band.
//
// Everything here is pure: no I/O, no shared state, no errors at
// evaluation time. The band table is configuration and is validated
// once, when the Scale is built.
package grading

// Pair is one subject's contribution to an aggregate.
type Pair struct {
	Marks    int `json:"marks"`
	MaxMarks int `json:"max_marks"`
}

// Summary is the aggregate of a student's recorded marks.
type Summary struct {
	TotalMarks int    `json:"total_marks"`
	TotalMax   int    `json:"total_max"`
	Grade      string `json:"grade"`
}

// Sum adds up the marks and maxima of pairs. It is order independent
// and returns zeros for an empty slice.
func Sum(pairs []Pair) (totalMarks, totalMax int) {
	for _, p := range pairs {
		totalMarks += p.Marks
		totalMax += p.MaxMarks
	}
	return totalMarks, totalMax
}

// Aggregate sums pairs and grades the result against the scale.
//
// A student with no recorded marks gets (0, 0, fallback).
func (s *Scale) Aggregate(pairs []Pair) Summary {
	totalMarks, totalMax := Sum(pairs)
	return Summary{
		TotalMarks: totalMarks,
		TotalMax:   totalMax,
		Grade:      s.Grade(totalMarks, totalMax),
	}
}

// Percentage returns total as a percentage of max, or 0 when max is not positive.
func Percentage(total, max int) float64 {
	if max <= 0 {
		return 0
	}
	return float64(total) * 100 / float64(max)
}
