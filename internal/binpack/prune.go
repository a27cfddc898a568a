package binpack

// pruneFreeList removes every free rectangle that is contained in another.
func (p *Packer) pruneFreeList() {
	p.free = pruneContained(p.free)
}

// pruneContained marks each rectangle contained in a surviving rectangle and
// then compacts rects in place. Of two identical rectangles the later one is
// kept. Running it again on its own output removes nothing.
func pruneContained(rects []Rect) []Rect {
	if len(rects) <= 1 {
		return rects
	}

	removed := make([]bool, len(rects))
	for i := range rects {
		if removed[i] {
			continue
		}
		for j := i + 1; j < len(rects); j++ {
			if removed[j] {
				continue
			}
			if rects[j].ContainsRect(rects[i]) {
				removed[i] = true
				break
			}
			if rects[i].ContainsRect(rects[j]) {
				removed[j] = true
			}
		}
	}

	kept := rects[:0]
	for i, r := range rects {
		if !removed[i] {
			kept = append(kept, r)
		}
	}
	return kept
}
