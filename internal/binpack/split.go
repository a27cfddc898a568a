package binpack

// splitFreeNode appends to out the parts of free that remain unoccupied once
// used is placed, and reports whether the two rectangles overlapped at all.
// When they do not overlap, out is returned unchanged and free stays valid.
// When they do, free must be discarded by the caller, even if no fragment was
// produced because used covers it entirely.
func splitFreeNode(free, used Rect, out []Rect) ([]Rect, bool) {
	// Separating axis test.
	if used.X >= free.Right() || used.Right() <= free.X ||
		used.Y >= free.Bottom() || used.Bottom() <= free.Y {
		return out, false
	}

	// Past the test both spans overlap. Top and bottom fragments keep the full
	// width of free, left and right fragments keep its full height.
	if used.Y > free.Y {
		top := free
		top.Height = used.Y - free.Y
		out = append(out, top)
	}
	if used.Bottom() < free.Bottom() {
		bottom := free
		bottom.Y = used.Bottom()
		bottom.Height = free.Bottom() - used.Bottom()
		out = append(out, bottom)
	}
	if used.X > free.X {
		left := free
		left.Width = used.X - free.X
		out = append(out, left)
	}
	if used.Right() < free.Right() {
		right := free
		right.X = used.Right()
		right.Width = free.Right() - used.Right()
		out = append(out, right)
	}

	return out, true
}
