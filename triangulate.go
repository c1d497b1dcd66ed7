package meshtri

import (
	dvec3 "github.com/flywave/go3d/float64/vec3"
)

// Triangulate splits every face in faces into triangles inside em. Triangles are
// left alone, quads follow quad and larger faces follow ngon. The new faces take
// the place of the face they come from and are returned in that order.
// Nothing is changed when an error is returned.
func Triangulate(em *EditMesh, faces []*EditFace, quad QuadMethod, ngon NgonMethod) ([]*EditFace, error) {
	if em.freed {
		return nil, ErrFreed
	}
	repl := make(map[*EditFace][]*EditFace)
	var created []*EditFace
	for _, f := range faces {
		if !em.owned[f] {
			return nil, ErrForeignFace
		}
		if _, done := repl[f]; done {
			continue
		}
		if f.Len() < 3 {
			return nil, ErrDegenerateFace
		}
		if f.Len() == 3 {
			continue
		}
		var corners [][3]int
		if f.Len() == 4 {
			corners = splitQuad(facePoints(f), quad)
		} else {
			corners = splitNgon(facePoints(f), ngon)
		}
		tris := make([]*EditFace, len(corners))
		for i, c := range corners {
			tris[i] = &EditFace{
				Loops:    []EditLoop{f.Loops[c[0]], f.Loops[c[1]], f.Loops[c[2]]},
				Material: f.Material,
				hasUV:    f.hasUV,
			}
		}
		repl[f] = tris
		created = append(created, tris...)
	}
	em.splice(repl)
	return created, nil
}

func facePoints(f *EditFace) []dvec3.T {
	pts := make([]dvec3.T, len(f.Loops))
	for i, l := range f.Loops {
		co := l.Vert.Co
		pts[i] = dvec3.T{float64(co[0]), float64(co[1]), float64(co[2])}
	}
	return pts
}

func distance(a, b *dvec3.T) float64 {
	d := dvec3.Sub(a, b)
	return d.Length()
}

var (
	quadSplit02 = [2][3]int{{0, 1, 2}, {0, 2, 3}}
	quadSplit13 = [2][3]int{{0, 1, 3}, {1, 2, 3}}
)

func splitQuad(pts []dvec3.T, method QuadMethod) [][3]int {
	split := quadSplit02
	switch method {
	case QuadFixed:
	case QuadAlternate:
		split = quadSplit13
	case QuadShortEdge, QuadLongEdge:
		d02 := distance(&pts[0], &pts[2])
		d13 := distance(&pts[1], &pts[3])
		if (method == QuadShortEdge && d13 < d02) || (method == QuadLongEdge && d13 > d02) {
			split = quadSplit13
		}
	default:
		split = beautyQuad(pts)
	}
	return [][3]int{split[0], split[1]}
}

func beautyQuad(pts []dvec3.T) [2][3]int {
	p2, ok := projectFace(pts)
	if !ok {
		return quadSplit02
	}
	q02, ok02 := splitQuality(p2, quadSplit02)
	q13, ok13 := splitQuality(p2, quadSplit13)
	switch {
	case ok13 && !ok02:
		return quadSplit13
	case ok13 && ok02 && q13 > q02*(1+1e-9):
		return quadSplit13
	}
	return quadSplit02
}

func splitNgon(pts []dvec3.T, method NgonMethod) [][3]int {
	p2, ok := projectFace(pts)
	if !ok {
		return fanFill(len(pts))
	}
	tris := earClip(p2)
	if method == NgonBeauty {
		tris = beautify(p2, tris)
	}
	return tris
}
