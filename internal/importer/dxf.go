package importer

import (
	"fmt"
	"math"
	"slices"

	"github.com/piwi3910/AtlasPack/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

// joinTolerance is the distance below which LINE and ARC endpoints are
// treated as the same vertex.
const joinTolerance = 0.01

// arcSteps is the number of chords used when sampling curved edges for
// their extent.
const arcSteps = 32

type point struct{ X, Y float64 }

// bounds is an axis-aligned box grown one point at a time.
type bounds struct {
	minX, minY, maxX, maxY float64
	empty                  bool
}

func newBounds() bounds {
	return bounds{empty: true}
}

func (b *bounds) add(p point) {
	if b.empty {
		*b = bounds{minX: p.X, minY: p.Y, maxX: p.X, maxY: p.Y}
		return
	}
	b.minX = min(b.minX, p.X)
	b.minY = min(b.minY, p.Y)
	b.maxX = max(b.maxX, p.X)
	b.maxY = max(b.maxY, p.Y)
}

func (b bounds) width() float64  { return b.maxX - b.minX }
func (b bounds) height() float64 { return b.maxY - b.minY }

// pixels rounds a drawing extent up to whole pixels, ignoring float noise
// below a millionth.
func pixels(v float64) int {
	return int(math.Ceil(v - 1e-6))
}

type segment struct {
	start, end point
}

// ImportDXF reads a DXF drawing and returns one sprite per closed shape,
// sized to the shape's bounding box. Closed shapes are LWPOLYLINEs with at
// least three vertices, CIRCLEs, and loops of connected LINEs and ARCs.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var shapes []bounds
	var loose []segment

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			if len(e.Vertices) < 3 {
				result.Warnings = append(result.Warnings, "Skipped LWPOLYLINE with fewer than 3 vertices")
				continue
			}
			shapes = append(shapes, polylineBounds(e.Vertices, e.Bulges))
		case *entity.Circle:
			shapes = append(shapes, circleBounds(e.Center[0], e.Center[1], e.Radius))
		case *entity.Arc:
			pts := arcPoints(e.Circle.Center[0], e.Circle.Center[1], e.Circle.Radius, e.Angle[0], e.Angle[1])
			for i := 1; i < len(pts); i++ {
				loose = append(loose, segment{pts[i-1], pts[i]})
			}
		case *entity.Line:
			loose = append(loose, segment{
				start: point{e.Start[0], e.Start[1]},
				end:   point{e.End[0], e.End[1]},
			})
		}
	}

	loops, open := closedLoops(loose, joinTolerance)
	shapes = append(shapes, loops...)
	if open > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Ignored %d open chain(s) of LINE/ARC entities", open))
	}

	if len(shapes) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	n := 0
	for _, b := range shapes {
		w, h := pixels(b.width()), pixels(b.height())
		if w <= 0 || h <= 0 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped degenerate shape (%.2f x %.2f)", b.width(), b.height()))
			continue
		}
		n++
		sprite := model.NewSprite(fmt.Sprintf("DXF Shape %d", n), w, h, 1)
		sprite.Source = path
		result.Sprites = append(result.Sprites, sprite)
	}

	return result
}

// polylineBounds measures a closed polyline. Bulges follow the dxf parser's
// indexing: a nonzero bulges[i] turns the edge from vertex i-1 into vertex i
// into an arc, which can reach past both ends. bulges[0] belongs to the
// closing edge.
func polylineBounds(vertices [][]float64, bulges []float64) bounds {
	b := newBounds()
	n := len(vertices)
	for i, v := range vertices {
		p := point{v[0], v[1]}
		b.add(p)
		if i >= len(bulges) || math.Abs(bulges[i]) < 1e-9 {
			continue
		}
		prev := vertices[(i+n-1)%n]
		for _, q := range bulgePoints(point{prev[0], prev[1]}, p, bulges[i]) {
			b.add(q)
		}
	}
	return b
}

// bulgePoints samples the arc between p1 and p2 described by a DXF bulge,
// the tangent of a quarter of the included angle. Positive bulges turn
// counter-clockwise.
func bulgePoints(p1, p2 point, bulge float64) []point {
	dx, dy := p2.X-p1.X, p2.Y-p1.Y
	chord := math.Hypot(dx, dy)
	if chord < 1e-9 {
		return []point{p1, p2}
	}

	theta := 4 * math.Atan(bulge)
	radius := chord / (2 * math.Sin(math.Abs(theta)/2))

	// Distance from the chord midpoint to the centre, signed toward the left
	// of p1->p2 for counter-clockwise arcs.
	offset := radius * math.Cos(theta/2)
	if bulge < 0 {
		offset = -offset
	}
	cx := (p1.X+p2.X)/2 - dy/chord*offset
	cy := (p1.Y+p2.Y)/2 + dx/chord*offset

	start := math.Atan2(p1.Y-cy, p1.X-cx)
	pts := make([]point, arcSteps+1)
	for i := range pts {
		a := start + theta*float64(i)/arcSteps
		pts[i] = point{cx + radius*math.Cos(a), cy + radius*math.Sin(a)}
	}
	return pts
}

func circleBounds(cx, cy, r float64) bounds {
	b := newBounds()
	b.add(point{cx - r, cy - r})
	b.add(point{cx + r, cy + r})
	return b
}

// arcPoints samples a counter-clockwise arc given in degrees.
func arcPoints(cx, cy, r, startDeg, endDeg float64) []point {
	start := startDeg * math.Pi / 180
	end := endDeg * math.Pi / 180
	if end <= start {
		end += 2 * math.Pi
	}
	pts := make([]point, arcSteps+1)
	for i := range pts {
		a := start + (end-start)*float64(i)/arcSteps
		pts[i] = point{cx + r*math.Cos(a), cy + r*math.Sin(a)}
	}
	return pts
}

// closedLoops groups segments that share endpoints and returns the bounds of
// every group in which each vertex joins exactly two segment ends. Groups with
// a dangling end are counted in open. Loops are ordered largest area first.
func closedLoops(segs []segment, tolerance float64) ([]bounds, int) {
	if len(segs) == 0 {
		return nil, 0
	}

	type key struct{ x, y int64 }
	snap := func(p point) key {
		return key{int64(math.Round(p.X / tolerance)), int64(math.Round(p.Y / tolerance))}
	}

	vertex := map[key]int{}
	id := func(p point) int {
		k := snap(p)
		if v, ok := vertex[k]; ok {
			return v
		}
		vertex[k] = len(vertex)
		return vertex[k]
	}

	ends := make([][2]int, len(segs))
	for i, s := range segs {
		ends[i] = [2]int{id(s.start), id(s.end)}
	}

	parent := make([]int, len(vertex))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(v int) int {
		if parent[v] != v {
			parent[v] = find(parent[v])
		}
		return parent[v]
	}

	degree := make([]int, len(vertex))
	for _, e := range ends {
		degree[e[0]]++
		degree[e[1]]++
		parent[find(e[0])] = find(e[1])
	}

	type group struct {
		b      bounds
		closed bool
		order  int
	}
	groups := map[int]*group{}
	for i, s := range segs {
		root := find(ends[i][0])
		g, ok := groups[root]
		if !ok {
			g = &group{b: newBounds(), closed: true, order: len(groups)}
			groups[root] = g
		}
		g.b.add(s.start)
		g.b.add(s.end)
		if degree[ends[i][0]] != 2 || degree[ends[i][1]] != 2 {
			g.closed = false
		}
	}

	ordered := make([]*group, 0, len(groups))
	for _, g := range groups {
		ordered = append(ordered, g)
	}
	slices.SortFunc(ordered, func(a, b *group) int { return a.order - b.order })

	var loops []bounds
	open := 0
	for _, g := range ordered {
		if g.closed {
			loops = append(loops, g.b)
		} else {
			open++
		}
	}
	slices.SortStableFunc(loops, func(a, b bounds) int {
		aa, ba := a.width()*a.height(), b.width()*b.height()
		switch {
		case aa > ba:
			return -1
		case aa < ba:
			return 1
		}
		return 0
	})
	return loops, open
}
