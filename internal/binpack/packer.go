package binpack

import (
	"errors"
	"math"
	"slices"
)

// ErrInvalidBinSize is returned when a bin is initialised with a non-positive dimension.
var ErrInvalidBinSize = errors.New("binpack: bin width and height must be greater than 0")

// Packer packs rectangles into a single fixed-size bin using the MAXRECTS method.
//
// A Packer is not safe for concurrent use.
type Packer struct {
	binWidth  int
	binHeight int
	used      []Rect
	free      []Rect

	// LegacyAreaFit reproduces the area-fit scoring of the plugin this packer
	// replaces. That scorer reset its running best to the current free
	// rectangle's area before comparing, so the last fitting free rectangle
	// always won. Leave it false for real best-area-fit behaviour.
	LegacyAreaFit bool
}

// New creates a packer for an empty bin of width x height.
func New(width, height int) (*Packer, error) {
	p := &Packer{}
	if err := p.Init(width, height); err != nil {
		return nil, err
	}
	return p, nil
}

// Init (re)initialises the packer to an empty bin of width x height. The
// packer is left unchanged when either dimension is not positive.
func (p *Packer) Init(width, height int) error {
	if width <= 0 || height <= 0 {
		return ErrInvalidBinSize
	}

	p.binWidth = width
	p.binHeight = height
	p.used = p.used[:0]
	p.free = append(p.free[:0], NewRect(0, 0, width, height))
	return nil
}

// Width returns the bin width.
func (p *Packer) Width() int {
	return p.binWidth
}

// Height returns the bin height.
func (p *Packer) Height() int {
	return p.binHeight
}

// UsedRects returns a copy of the placed rectangles in placement order.
func (p *Packer) UsedRects() []Rect {
	return slices.Clone(p.used)
}

// FreeRects returns a copy of the current free rectangle list.
func (p *Packer) FreeRects() []Rect {
	return slices.Clone(p.free)
}

// Insert places a single width x height rectangle using the given heuristic
// and returns its position. When nothing fits, or either dimension is not
// positive, the zero Rect is returned and the packer is not modified.
func (p *Packer) Insert(width, height int, heuristic Heuristic) Rect {
	if width <= 0 || height <= 0 {
		return Rect{}
	}

	node, _, _, ok := p.findPosition(width, height, heuristic)
	if !ok {
		return Rect{}
	}

	p.placeRect(node)
	return node
}

// InsertAll packs as many of sizes as possible. Each round places the request
// with the best score across all remaining requests, rather than the next one
// in input order. Packing stops when no remaining request fits. The placed
// rectangles are returned in placement order.
func (p *Packer) InsertAll(sizes []Size, heuristic Heuristic) []Rect {
	rects, _ := p.InsertAllIndexed(sizes, heuristic)
	return rects
}

// InsertAllIndexed behaves like InsertAll and additionally returns, for each
// placed rectangle, the index into sizes of the request it satisfies.
func (p *Packer) InsertAllIndexed(sizes []Size, heuristic Heuristic) ([]Rect, []int) {
	remaining := make([]int, 0, len(sizes))
	for i, size := range sizes {
		if size.Valid() {
			remaining = append(remaining, i)
		}
	}

	var placed []Rect
	var indices []int

	for len(remaining) > 0 {
		var bestNode Rect
		bestScore1 := math.MaxInt
		bestScore2 := math.MaxInt
		bestPos := -1

		for pos, idx := range remaining {
			node, score1, score2, ok := p.findPosition(sizes[idx].Width, sizes[idx].Height, heuristic)
			if !ok {
				continue
			}
			if score1 < bestScore1 || (score1 == bestScore1 && score2 < bestScore2) {
				bestNode = node
				bestScore1 = score1
				bestScore2 = score2
				bestPos = pos
			}
		}

		if bestPos < 0 {
			break
		}

		p.placeRect(bestNode)
		placed = append(placed, bestNode)
		indices = append(indices, remaining[bestPos])
		remaining = slices.Delete(remaining, bestPos, bestPos+1)
	}

	return placed, indices
}

// Occupancy returns the ratio of used surface area to the bin area, in the
// range 0.0 to 1.0.
func (p *Packer) Occupancy() float64 {
	binArea := p.binWidth * p.binHeight
	if binArea == 0 {
		return 0
	}

	usedArea := 0
	for _, r := range p.used {
		usedArea += r.Area()
	}
	return float64(usedArea) / float64(binArea)
}

// placeRect commits node to the bin: it splits every free rectangle the node
// overlaps, prunes the free list and records the node as used.
func (p *Packer) placeRect(node Rect) {
	survivors := make([]Rect, 0, len(p.free)+4)
	var fragments []Rect

	for _, free := range p.free {
		var split bool
		fragments, split = splitFreeNode(free, node, fragments)
		if !split {
			survivors = append(survivors, free)
		}
	}

	p.free = append(survivors, fragments...)
	p.pruneFreeList()
	p.used = append(p.used, node)
}
