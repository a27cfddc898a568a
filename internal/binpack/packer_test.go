package binpack

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPacker(t *testing.T, w, h int) *Packer {
	t.Helper()
	p, err := New(w, h)
	require.NoError(t, err)
	return p
}

func TestNew_InvalidSize(t *testing.T) {
	for _, tc := range []struct{ w, h int }{{0, 10}, {10, 0}, {-1, 5}, {0, 0}} {
		p, err := New(tc.w, tc.h)
		assert.ErrorIs(t, err, ErrInvalidBinSize, "size %dx%d", tc.w, tc.h)
		assert.Nil(t, p)
	}
}

func TestInit_SeedsSingleFreeRect(t *testing.T) {
	p := newTestPacker(t, 128, 64)

	assert.Equal(t, 128, p.Width())
	assert.Equal(t, 64, p.Height())
	assert.Empty(t, p.UsedRects())
	assert.Equal(t, []Rect{NewRect(0, 0, 128, 64)}, p.FreeRects())
	assert.Zero(t, p.Occupancy())
}

func TestInit_ResetsState(t *testing.T) {
	p := newTestPacker(t, 100, 100)
	p.Insert(40, 40, BestShortSideFit)
	require.Len(t, p.UsedRects(), 1)

	require.NoError(t, p.Init(50, 20))
	assert.Empty(t, p.UsedRects())
	assert.Equal(t, []Rect{NewRect(0, 0, 50, 20)}, p.FreeRects())
}

func TestInit_InvalidLeavesPackerUnchanged(t *testing.T) {
	p := newTestPacker(t, 100, 100)
	p.Insert(40, 40, BestShortSideFit)
	free := p.FreeRects()

	assert.ErrorIs(t, p.Init(0, 100), ErrInvalidBinSize)
	assert.Equal(t, 100, p.Width())
	assert.Len(t, p.UsedRects(), 1)
	assert.Equal(t, free, p.FreeRects())
}

func TestInsert_FirstPlacementAnchorsTopLeft(t *testing.T) {
	p := newTestPacker(t, 100, 100)

	got := p.Insert(50, 50, BestAreaFit)

	assert.Equal(t, NewRect(0, 0, 50, 50), got)
	assert.True(t, got.Placed())
}

func TestInsert_FullBinReturnsSentinel(t *testing.T) {
	p := newTestPacker(t, 10, 10)

	assert.Equal(t, NewRect(0, 0, 10, 10), p.Insert(10, 10, BestShortSideFit))
	assert.Empty(t, p.FreeRects())

	got := p.Insert(1, 1, BestShortSideFit)
	assert.False(t, got.Placed())
	assert.Zero(t, got.Height)
	assert.Len(t, p.UsedRects(), 1)
}

func TestInsert_BottomLeftFillsStrip(t *testing.T) {
	p := newTestPacker(t, 100, 50)

	assert.Equal(t, NewRect(0, 0, 60, 50), p.Insert(60, 50, BottomLeft))
	assert.Equal(t, NewRect(60, 0, 40, 50), p.Insert(40, 50, BottomLeft))
	assert.Equal(t, 1.0, p.Occupancy())
}

func TestInsert_NonPositiveRequestNeverPlaces(t *testing.T) {
	p := newTestPacker(t, 100, 100)

	for _, tc := range []struct{ w, h int }{{0, 10}, {10, 0}, {-5, 5}} {
		got := p.Insert(tc.w, tc.h, BestShortSideFit)
		assert.False(t, got.Placed())
	}
	assert.Empty(t, p.UsedRects())
	assert.Equal(t, []Rect{NewRect(0, 0, 100, 100)}, p.FreeRects())
}

func TestInsert_TooLargeLeavesStateUntouched(t *testing.T) {
	p := newTestPacker(t, 100, 100)
	p.Insert(30, 30, BestShortSideFit)
	free := p.FreeRects()

	got := p.Insert(101, 10, BestShortSideFit)

	assert.False(t, got.Placed())
	assert.Equal(t, free, p.FreeRects())
	assert.Len(t, p.UsedRects(), 1)
}

func TestInsert_FullTieKeepsFirstCandidate(t *testing.T) {
	p := newTestPacker(t, 100, 100)
	p.Insert(10, 10, BestShortSideFit)

	// The bottom and right fragments score identically for a 10x10 request.
	got := p.Insert(10, 10, BestShortSideFit)
	assert.Equal(t, NewRect(0, 10, 10, 10), got)
}

func TestInsert_BestAreaFitPicksSmallestFreeRect(t *testing.T) {
	p := newTestPacker(t, 100, 100)
	p.Insert(30, 70, BestAreaFit)

	// Free list is now the 100x30 strip below and the 70x100 strip to the right.
	got := p.Insert(20, 20, BestAreaFit)
	assert.Equal(t, NewRect(0, 70, 20, 20), got)
}

func TestInsert_LegacyAreaFitPicksLastFittingFreeRect(t *testing.T) {
	p := newTestPacker(t, 100, 100)
	p.LegacyAreaFit = true
	p.Insert(30, 70, BestAreaFit)

	got := p.Insert(20, 20, BestAreaFit)
	assert.Equal(t, NewRect(30, 0, 20, 20), got)
}

func TestInsert_LegacyAreaFitOnlyAffectsAreaFit(t *testing.T) {
	plain := newTestPacker(t, 100, 100)
	legacy := newTestPacker(t, 100, 100)
	legacy.LegacyAreaFit = true

	plain.Insert(30, 70, BestShortSideFit)
	legacy.Insert(30, 70, BestShortSideFit)

	assert.Equal(t, plain.Insert(20, 20, BestShortSideFit), legacy.Insert(20, 20, BestShortSideFit))
}

func TestInsert_BottomLeftPrefersLowestTopEdge(t *testing.T) {
	p := newTestPacker(t, 100, 100)
	p.Insert(40, 60, BottomLeft)

	// Candidates are (0,60) with top edge 80 and (40,0) with top edge 20.
	got := p.Insert(20, 20, BottomLeft)
	assert.Equal(t, NewRect(40, 0, 20, 20), got)
}

func TestContactPointScore(t *testing.T) {
	p := newTestPacker(t, 100, 100)
	p.Insert(50, 50, ContactPoint)

	// Touches the right wall, the top wall and the placed rect along its full height.
	assert.Equal(t, 150, p.contactPointScore(50, 0, 50, 50))
	// Touches the left wall and the placed rect's bottom edge.
	assert.Equal(t, 40, p.contactPointScore(0, 50, 20, 20))
}

func TestInsert_ContactPointPrefersMoreContact(t *testing.T) {
	p := newTestPacker(t, 100, 100)
	p.Insert(50, 50, ContactPoint)

	// (50,0) scores 130 against 90 for (0,50).
	got := p.Insert(50, 40, ContactPoint)
	assert.Equal(t, NewRect(50, 0, 50, 40), got)
}

func TestCommonIntervalLength(t *testing.T) {
	assert.Equal(t, 0, commonIntervalLength(0, 10, 20, 30))
	assert.Equal(t, 0, commonIntervalLength(0, 10, 10, 20))
	assert.Equal(t, 5, commonIntervalLength(0, 10, 5, 20))
	assert.Equal(t, 4, commonIntervalLength(3, 7, 0, 10))
}

func TestInsertAll_PlacesEveryRequest(t *testing.T) {
	p := newTestPacker(t, 100, 100)
	sizes := []Size{{30, 30}, {20, 20}, {50, 50}}

	placed := p.InsertAll(sizes, BestAreaFit)

	require.Len(t, placed, 3)
	bin := NewRect(0, 0, 100, 100)
	for i, a := range placed {
		assert.True(t, bin.ContainsRect(a), "rect %v outside bin", a)
		for _, b := range placed[i+1:] {
			assert.False(t, a.Intersects(b), "%v overlaps %v", a, b)
		}
	}
}

func TestInsertAllIndexed_GlobalBestFirst(t *testing.T) {
	p := newTestPacker(t, 100, 100)
	sizes := []Size{{30, 30}, {20, 20}, {50, 50}}

	placed, indices := p.InsertAllIndexed(sizes, BestAreaFit)

	require.Len(t, placed, 3)
	require.Len(t, indices, 3)
	// The largest request leaves the least area in the single free rect.
	assert.Equal(t, 2, indices[0])
	assert.ElementsMatch(t, []int{0, 1, 2}, indices)
	for i, idx := range indices {
		assert.Equal(t, sizes[idx], placed[i].Size())
	}
}

func TestInsertAllIndexed_SkipsUnfittableAndInvalid(t *testing.T) {
	p := newTestPacker(t, 64, 64)
	sizes := []Size{{65, 10}, {0, 5}, {32, 32}, {64, 32}, {-1, -1}}

	placed, indices := p.InsertAllIndexed(sizes, BestShortSideFit)

	assert.ElementsMatch(t, []int{2, 3}, indices)
	assert.Len(t, placed, 2)
}

func TestInsertAll_EmptyInput(t *testing.T) {
	p := newTestPacker(t, 10, 10)
	assert.Empty(t, p.InsertAll(nil, BestShortSideFit))
}

func TestOccupancy_ZeroValuePacker(t *testing.T) {
	var p Packer
	assert.Zero(t, p.Occupancy())
}

func TestAccessorsReturnCopies(t *testing.T) {
	p := newTestPacker(t, 100, 100)
	p.Insert(10, 10, BestShortSideFit)

	used := p.UsedRects()
	used[0].X = 99
	free := p.FreeRects()
	free[0].Width = 1

	assert.Equal(t, 0, p.UsedRects()[0].X)
	assert.NotEqual(t, 1, p.FreeRects()[0].Width)
}

// checkInvariants verifies, cell by cell, that every point of the bin is either
// used or covered by a free rect, and that the free list is pruned and disjoint
// from every used rect.
func checkInvariants(t *testing.T, p *Packer) {
	t.Helper()

	bin := NewRect(0, 0, p.Width(), p.Height())
	used := p.UsedRects()
	free := p.FreeRects()

	for i, a := range used {
		require.True(t, bin.ContainsRect(a), "used %v outside bin", a)
		for _, b := range used[i+1:] {
			require.False(t, a.Intersects(b), "used %v overlaps %v", a, b)
		}
	}

	for i, f := range free {
		require.True(t, bin.ContainsRect(f), "free %v outside bin", f)
		require.Positive(t, f.Width)
		require.Positive(t, f.Height)
		for _, u := range used {
			require.False(t, f.Intersects(u), "free %v overlaps used %v", f, u)
		}
		for j, g := range free {
			if i != j {
				require.False(t, g.ContainsRect(f), "free %v contained in %v", f, g)
			}
		}
	}

	for y := 0; y < p.Height(); y++ {
		for x := 0; x < p.Width(); x++ {
			cell := NewRect(x, y, 1, 1)
			covered := false
			for _, r := range used {
				if r.ContainsRect(cell) {
					covered = true
					break
				}
			}
			if !covered {
				for _, r := range free {
					if r.ContainsRect(cell) {
						covered = true
						break
					}
				}
			}
			require.True(t, covered, "cell (%d,%d) neither used nor free", x, y)
		}
	}
}

func TestInsert_InvariantsHoldForRandomRequests(t *testing.T) {
	for _, h := range Heuristics() {
		t.Run(h.String(), func(t *testing.T) {
			rng := rand.New(rand.NewPCG(42, uint64(h)))
			p := newTestPacker(t, 48, 40)

			prevOccupancy := 0.0
			for i := 0; i < 60; i++ {
				w := rng.IntN(14) + 1
				hh := rng.IntN(14) + 1
				before := len(p.UsedRects())

				got := p.Insert(w, hh, h)
				if got.Placed() {
					assert.Equal(t, w, got.Width)
					assert.Equal(t, hh, got.Height)
					assert.Len(t, p.UsedRects(), before+1)
				} else {
					assert.Len(t, p.UsedRects(), before)
				}

				occ := p.Occupancy()
				assert.GreaterOrEqual(t, occ, prevOccupancy)
				assert.LessOrEqual(t, occ, 1.0)
				prevOccupancy = occ

				checkInvariants(t, p)
			}
		})
	}
}

func TestInsertAll_InvariantsHoldForRandomBatch(t *testing.T) {
	for _, h := range Heuristics() {
		t.Run(h.String(), func(t *testing.T) {
			rng := rand.New(rand.NewPCG(7, uint64(h)))
			sizes := make([]Size, 40)
			for i := range sizes {
				sizes[i] = NewSize(rng.IntN(12)+1, rng.IntN(12)+1)
			}

			p := newTestPacker(t, 40, 40)
			placed, indices := p.InsertAllIndexed(sizes, h)

			require.Equal(t, len(placed), len(indices))
			seen := map[int]bool{}
			for i, idx := range indices {
				assert.False(t, seen[idx], "request %d placed twice", idx)
				seen[idx] = true
				assert.Equal(t, sizes[idx], placed[i].Size())
			}
			checkInvariants(t, p)
		})
	}
}

func TestInsert_LegacyAreaFitKeepsInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	p := newTestPacker(t, 32, 32)
	p.LegacyAreaFit = true

	for i := 0; i < 40; i++ {
		p.Insert(rng.IntN(10)+1, rng.IntN(10)+1, BestAreaFit)
		checkInvariants(t, p)
	}
}
