package grading

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	// DefaultBands is the band table used when none is configured.
	DefaultBands = "A:80,B:65,C:50,D:40,F:0"

	// DefaultFallback is the grade for a zero maximum.
	DefaultFallback = "N/A"
)

// Band is a grade label and the minimum percentage (inclusive) that earns it.
type Band struct {
	Label      string
	MinPercent int
}

// Scale maps an aggregate to a grade band. Bands are kept sorted by
// MinPercent, highest first.
type Scale struct {
	bands    []Band
	fallback string
}

// NewScale validates bands and builds a Scale.
//
// Rules: at least one band, labels non-empty and unique, minimums
// within 0..100 and unique, fallback non-empty.
func NewScale(bands []Band, fallback string) (*Scale, error) {
	if len(bands) == 0 {
		return nil, errors.New("grading: at least one band is required")
	}
	if strings.TrimSpace(fallback) == "" {
		return nil, errors.New("grading: fallback label is required")
	}

	sorted := make([]Band, len(bands))
	copy(sorted, bands)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinPercent > sorted[j].MinPercent
	})

	labels := make(map[string]struct{}, len(sorted))
	for i, b := range sorted {
		if b.Label == "" {
			return nil, errors.New("grading: band label must not be empty")
		}
		if b.MinPercent < 0 || b.MinPercent > 100 {
			return nil, fmt.Errorf("grading: band %q minimum %d is outside 0..100", b.Label, b.MinPercent)
		}
		if _, dup := labels[b.Label]; dup {
			return nil, fmt.Errorf("grading: duplicate band label %q", b.Label)
		}
		if i > 0 && sorted[i-1].MinPercent == b.MinPercent {
			return nil, fmt.Errorf("grading: bands %q and %q share minimum %d", sorted[i-1].Label, b.Label, b.MinPercent)
		}
		labels[b.Label] = struct{}{}
	}

	return &Scale{bands: sorted, fallback: fallback}, nil
}

// DefaultScale returns the scale built from DefaultBands.
func DefaultScale() *Scale {
	bands, err := ParseBands(DefaultBands)
	if err != nil {
		panic(err)
	}
	s, err := NewScale(bands, DefaultFallback)
	if err != nil {
		panic(err)
	}
	return s
}

// ParseBands parses "A:80,B:65,F:0" into bands. Whitespace around
// entries is ignored.
func ParseBands(raw string) ([]Band, error) {
	var bands []Band
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		label, min, ok := strings.Cut(entry, ":")
		if !ok {
			return nil, fmt.Errorf("grading: band %q is not label:minimum", entry)
		}
		pct, err := strconv.Atoi(strings.TrimSpace(min))
		if err != nil {
			return nil, fmt.Errorf("grading: band %q minimum: %w", entry, err)
		}
		bands = append(bands, Band{Label: strings.TrimSpace(label), MinPercent: pct})
	}
	if len(bands) == 0 {
		return nil, errors.New("grading: empty band table")
	}
	return bands, nil
}

// Grade returns the band label for total out of max.
//
// max <= 0 yields the fallback label. The comparison is done in integers
// (total*100 >= min*max) so 80/100 and 120/150 land in the same band.
// Totals below every band (negative marks) get the lowest band.
func (s *Scale) Grade(total, max int) string {
	if max <= 0 {
		return s.fallback
	}
	for _, b := range s.bands {
		if int64(total)*100 >= int64(b.MinPercent)*int64(max) {
			return b.Label
		}
	}
	return s.bands[len(s.bands)-1].Label
}

// Fallback is the label used when there is nothing to grade.
func (s *Scale) Fallback() string { return s.fallback }

// Bands returns a copy of the band table, highest first.
func (s *Scale) Bands() []Band {
	out := make([]Band, len(s.bands))
	copy(out, s.bands)
	return out
}
