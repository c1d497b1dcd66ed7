package meshtri

import (
	"math"
	"sort"

	dvec2 "github.com/flywave/go3d/float64/vec2"
	dvec3 "github.com/flywave/go3d/float64/vec3"
)

// newellNormal returns the unnormalized polygon normal. Its direction makes the
// corners wind counter-clockwise when looking against it.
func newellNormal(pts []dvec3.T) dvec3.T {
	var n dvec3.T
	for i := range pts {
		c := &pts[i]
		nx := &pts[(i+1)%len(pts)]
		n[0] += (c[1] - nx[1]) * (c[2] + nx[2])
		n[1] += (c[2] - nx[2]) * (c[0] + nx[0])
		n[2] += (c[0] - nx[0]) * (c[1] + nx[1])
	}
	return n
}

// projectFace maps the corners onto the plane of their normal. The result keeps
// the face winding as counter-clockwise. ok is false when the corners span no area.
func projectFace(pts []dvec3.T) (res []dvec2.T, ok bool) {
	n := newellNormal(pts)
	l := n.Length()
	if l == 0 || math.IsNaN(l) {
		return nil, false
	}
	n = dvec3.T{n[0] / l, n[1] / l, n[2] / l}

	// cross with the axis least aligned to the normal
	ax, ay, az := math.Abs(n[0]), math.Abs(n[1]), math.Abs(n[2])
	axis := dvec3.T{0, 0, 1}
	if ax <= ay && ax <= az {
		axis = dvec3.T{1, 0, 0}
	} else if ay <= az {
		axis = dvec3.T{0, 1, 0}
	}
	u := dvec3.Cross(&axis, &n)
	u.Normalize()
	v := dvec3.Cross(&n, &u)

	res = make([]dvec2.T, len(pts))
	for i := range pts {
		res[i] = dvec2.T{dvec3.Dot(&pts[i], &u), dvec3.Dot(&pts[i], &v)}
	}
	return res, true
}

func area2(a, b, c *dvec2.T) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

func dist(a, b *dvec2.T) float64 {
	return math.Hypot(b[0]-a[0], b[1]-a[1])
}

// triQuality is twice the area over the perimeter. It is zero for slivers and
// grows as the triangle gets closer to equilateral for a given size.
func triQuality(a, b, c *dvec2.T) float64 {
	per := dist(a, b) + dist(b, c) + dist(c, a)
	if per == 0 {
		return 0
	}
	return area2(a, b, c) / per
}

func splitQuality(pts []dvec2.T, tris [2][3]int) (float64, bool) {
	q := 0.0
	for _, t := range tris {
		a, b, c := &pts[t[0]], &pts[t[1]], &pts[t[2]]
		if area2(a, b, c) <= 0 {
			return 0, false
		}
		q += triQuality(a, b, c)
	}
	return q, true
}

func pointInTriangle(p, a, b, c *dvec2.T) bool {
	d1 := area2(p, a, b)
	d2 := area2(p, b, c)
	d3 := area2(p, c, a)
	neg := d1 < 0 || d2 < 0 || d3 < 0
	pos := d1 > 0 || d2 > 0 || d3 > 0
	return !(neg && pos)
}

// earClip triangulates a simple counter-clockwise polygon. It always returns
// len(pts)-2 triangles; when no clean ear exists the most convex corner is cut.
func earClip(pts []dvec2.T) [][3]int {
	idx := make([]int, len(pts))
	for i := range idx {
		idx[i] = i
	}
	tris := make([][3]int, 0, len(pts)-2)
	for len(idx) > 3 {
		n := len(idx)
		ear := -1
		for i := 0; i < n && ear < 0; i++ {
			pv, cu, nx := idx[(i+n-1)%n], idx[i], idx[(i+1)%n]
			a, b, c := &pts[pv], &pts[cu], &pts[nx]
			if area2(a, b, c) <= 0 {
				continue
			}
			blocked := false
			for _, j := range idx {
				if j == pv || j == cu || j == nx {
					continue
				}
				p := &pts[j]
				if *p == *a || *p == *b || *p == *c {
					continue
				}
				if pointInTriangle(p, a, b, c) {
					blocked = true
					break
				}
			}
			if !blocked {
				ear = i
			}
		}
		if ear < 0 {
			best := math.Inf(-1)
			for i := 0; i < n; i++ {
				ar := area2(&pts[idx[(i+n-1)%n]], &pts[idx[i]], &pts[idx[(i+1)%n]])
				if ar > best {
					best, ear = ar, i
				}
			}
		}
		tris = append(tris, [3]int{idx[(ear+n-1)%n], idx[ear], idx[(ear+1)%n]})
		idx = append(idx[:ear], idx[ear+1:]...)
	}
	return append(tris, [3]int{idx[0], idx[1], idx[2]})
}

func fanFill(n int) [][3]int {
	tris := make([][3]int, 0, n-2)
	for i := 1; i < n-1; i++ {
		tris = append(tris, [3]int{0, i, i + 1})
	}
	return tris
}

type polyEdge struct{ a, b int }

func edgeKey(a, b int) polyEdge {
	if a > b {
		a, b = b, a
	}
	return polyEdge{a, b}
}

// beautify flips inner diagonals of a triangulated polygon while a flip raises
// the summed quality of the two triangles sharing it.
func beautify(pts []dvec2.T, tris [][3]int) [][3]int {
	n := len(pts)
	boundary := make(map[polyEdge]bool, n)
	for i := 0; i < n; i++ {
		boundary[edgeKey(i, (i+1)%n)] = true
	}
	maxPasses := n * n
	for pass := 0; pass < maxPasses; pass++ {
		owners := make(map[polyEdge][]int)
		for ti, t := range tris {
			for k := 0; k < 3; k++ {
				e := edgeKey(t[k], t[(k+1)%3])
				if !boundary[e] {
					owners[e] = append(owners[e], ti)
				}
			}
		}
		keys := make([]polyEdge, 0, len(owners))
		for e := range owners {
			keys = append(keys, e)
		}
		sort.Slice(keys, func(i, j int) bool {
			if keys[i].a != keys[j].a {
				return keys[i].a < keys[j].a
			}
			return keys[i].b < keys[j].b
		})
		flipped := false
		for _, e := range keys {
			ts := owners[e]
			if len(ts) != 2 {
				continue
			}
			t1, t2 := tris[ts[0]], tris[ts[1]]
			c := opposite(t1, e)
			d := opposite(t2, e)
			if c < 0 || d < 0 {
				continue
			}
			// orient so that t1 runs a->b->c
			a, b := e.a, e.b
			if !hasDirectedEdge(t1, a, b) {
				a, b = b, a
			}
			cur, ok := splitQuality(pts, [2][3]int{{a, b, c}, {b, a, d}})
			if !ok {
				continue
			}
			alt, ok := splitQuality(pts, [2][3]int{{a, d, c}, {d, b, c}})
			if !ok || alt <= cur*(1+1e-9) {
				continue
			}
			tris[ts[0]] = [3]int{a, d, c}
			tris[ts[1]] = [3]int{d, b, c}
			flipped = true
			break
		}
		if !flipped {
			break
		}
	}
	return tris
}

func opposite(t [3]int, e polyEdge) int {
	for _, v := range t {
		if v != e.a && v != e.b {
			return v
		}
	}
	return -1
}

func hasDirectedEdge(t [3]int, a, b int) bool {
	for k := 0; k < 3; k++ {
		if t[k] == a && t[(k+1)%3] == b {
			return true
		}
	}
	return false
}
