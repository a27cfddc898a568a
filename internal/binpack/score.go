package binpack

import "math"

// findPosition scans the free list for the best place to put a width x height
// rectangle under the given heuristic. Smaller scores are better; the
// contact-point score is negated so that more contact wins. ok is false when no
// free rectangle can hold the request.
func (p *Packer) findPosition(width, height int, heuristic Heuristic) (best Rect, score1, score2 int, ok bool) {
	score1 = math.MaxInt
	score2 = math.MaxInt

	legacyArea := p.LegacyAreaFit && heuristic == BestAreaFit

	for _, free := range p.free {
		if free.Width < width || free.Height < height {
			continue
		}

		s1, s2 := p.scoreFreeRect(free, width, height, heuristic)
		if !legacyArea && !(s1 < score1 || (s1 == score1 && s2 < score2)) {
			continue
		}

		best = NewRect(free.X, free.Y, width, height)
		score1 = s1
		score2 = s2
		ok = true
	}
	return best, score1, score2, ok
}

// scoreFreeRect returns the primary and secondary score for placing a
// width x height rectangle at the top-left corner of free. Unknown heuristics
// score as BestShortSideFit.
func (p *Packer) scoreFreeRect(free Rect, width, height int, heuristic Heuristic) (int, int) {
	leftoverHoriz := abs(free.Width - width)
	leftoverVert := abs(free.Height - height)
	shortSideFit := min(leftoverHoriz, leftoverVert)
	longSideFit := max(leftoverHoriz, leftoverVert)

	switch heuristic {
	case BestLongSideFit:
		return longSideFit, shortSideFit
	case BestAreaFit:
		return free.Area() - width*height, shortSideFit
	case BottomLeft:
		return free.Y + height, free.X
	case ContactPoint:
		return -p.contactPointScore(free.X, free.Y, width, height), 0
	default:
		return shortSideFit, longSideFit
	}
}

// contactPointScore sums the length of the candidate's edges that lie on the
// bin boundary or flush against an already placed rectangle.
func (p *Packer) contactPointScore(x, y, width, height int) int {
	score := 0

	if x == 0 || x+width == p.binWidth {
		score += height
	}
	if y == 0 || y+height == p.binHeight {
		score += width
	}

	for _, used := range p.used {
		if used.X == x+width || used.Right() == x {
			score += commonIntervalLength(used.Y, used.Bottom(), y, y+height)
		}
		if used.Y == y+height || used.Bottom() == y {
			score += commonIntervalLength(used.X, used.Right(), x, x+width)
		}
	}
	return score
}

// commonIntervalLength returns 0 if the intervals [i1start, i1end] and
// [i2start, i2end] are disjoint, or the length of their overlap otherwise.
func commonIntervalLength(i1start, i1end, i2start, i2end int) int {
	if i1end < i2start || i2end < i1start {
		return 0
	}
	return min(i1end, i2end) - max(i1start, i2start)
}
