package binpack

import (
	"fmt"
	"strings"
)

// Heuristic selects the rule used to choose among the free rectangles that can
// hold a request.
type Heuristic int

const (
	// BestShortSideFit (BSSF) places the rectangle against the short side of the
	// free rectangle into which it fits best.
	BestShortSideFit Heuristic = iota
	// BestLongSideFit (BLSF) places the rectangle against the long side of the
	// free rectangle into which it fits best.
	BestLongSideFit
	// BestAreaFit (BAF) places the rectangle into the smallest free rectangle
	// into which it fits.
	BestAreaFit
	// BottomLeft (BL) does the Tetris placement: lowest resulting top edge,
	// leftmost on ties.
	BottomLeft
	// ContactPoint (CP) chooses the placement where the rectangle touches the bin
	// walls and other placed rectangles as much as possible.
	ContactPoint
)

var heuristicNames = [...]struct {
	name   string
	abbrev string
}{
	BestShortSideFit: {"BestShortSideFit", "BSSF"},
	BestLongSideFit:  {"BestLongSideFit", "BLSF"},
	BestAreaFit:      {"BestAreaFit", "BAF"},
	BottomLeft:       {"BottomLeft", "BL"},
	ContactPoint:     {"ContactPoint", "CP"},
}

// Heuristics returns every supported heuristic in declaration order.
func Heuristics() []Heuristic {
	return []Heuristic{BestShortSideFit, BestLongSideFit, BestAreaFit, BottomLeft, ContactPoint}
}

// Valid reports whether h is one of the declared heuristics.
func (h Heuristic) Valid() bool {
	return h >= BestShortSideFit && h <= ContactPoint
}

func (h Heuristic) String() string {
	if !h.Valid() {
		return fmt.Sprintf("Heuristic(%d)", int(h))
	}
	return heuristicNames[h].name
}

// Abbrev returns the short form of the heuristic name, e.g. "BSSF".
func (h Heuristic) Abbrev() string {
	if !h.Valid() {
		return "?"
	}
	return heuristicNames[h].abbrev
}

// ParseHeuristic converts a heuristic name or abbreviation into a Heuristic.
// Matching ignores case, and the "Rect" prefix and "Rule" suffix are optional.
func ParseHeuristic(s string) (Heuristic, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.TrimPrefix(key, "rect")
	key = strings.TrimSuffix(key, "rule")
	key = strings.NewReplacer("-", "", "_", "", " ", "").Replace(key)

	for _, h := range Heuristics() {
		if key == strings.ToLower(heuristicNames[h].name) || key == strings.ToLower(heuristicNames[h].abbrev) {
			return h, nil
		}
	}
	return 0, fmt.Errorf("binpack: unknown heuristic %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (h Heuristic) MarshalText() ([]byte, error) {
	if !h.Valid() {
		return nil, fmt.Errorf("binpack: invalid heuristic %d", int(h))
	}
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Heuristic) UnmarshalText(text []byte) error {
	parsed, err := ParseHeuristic(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
