package meshtri

import (
	"fmt"
	"strings"
)

// QuadMethod selects how a four sided face is split.
type QuadMethod int

const (
	// QuadBeauty splits along the diagonal giving the better shaped pair of triangles.
	QuadBeauty QuadMethod = iota
	// QuadFixed always splits corner 0 to corner 2.
	QuadFixed
	// QuadAlternate always splits corner 1 to corner 3.
	QuadAlternate
	// QuadShortEdge splits along the shorter diagonal.
	QuadShortEdge
	// QuadLongEdge splits along the longer diagonal.
	QuadLongEdge
)

var quadMethodNames = map[QuadMethod]string{
	QuadBeauty:    "beauty",
	QuadFixed:     "fixed",
	QuadAlternate: "alternate",
	QuadShortEdge: "shortest_diagonal",
	QuadLongEdge:  "longest_diagonal",
}

func (q QuadMethod) String() string {
	if s, ok := quadMethodNames[q]; ok {
		return s
	}
	return fmt.Sprintf("QuadMethod(%d)", int(q))
}

func ParseQuadMethod(s string) (QuadMethod, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, v := range quadMethodNames {
		if v == s {
			return k, nil
		}
	}
	return QuadBeauty, fmt.Errorf("unknown quad method %q", s)
}

func (q QuadMethod) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

func (q *QuadMethod) UnmarshalText(text []byte) error {
	v, err := ParseQuadMethod(string(text))
	if err != nil {
		return err
	}
	*q = v
	return nil
}

// NgonMethod selects how a face with more than four sides is split.
type NgonMethod int

const (
	// NgonBeauty ear clips the face then flips inner diagonals to improve triangle shape.
	NgonBeauty NgonMethod = iota
	// NgonEarClip keeps the ear clipping result as is.
	NgonEarClip
)

var ngonMethodNames = map[NgonMethod]string{
	NgonBeauty:  "beauty",
	NgonEarClip: "clip",
}

func (n NgonMethod) String() string {
	if s, ok := ngonMethodNames[n]; ok {
		return s
	}
	return fmt.Sprintf("NgonMethod(%d)", int(n))
}

func ParseNgonMethod(s string) (NgonMethod, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, v := range ngonMethodNames {
		if v == s {
			return k, nil
		}
	}
	return NgonBeauty, fmt.Errorf("unknown ngon method %q", s)
}

func (n NgonMethod) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

func (n *NgonMethod) UnmarshalText(text []byte) error {
	v, err := ParseNgonMethod(string(text))
	if err != nil {
		return err
	}
	*n = v
	return nil
}

// Options holds the split policies. The zero value selects beauty for both.
type Options struct {
	QuadMethod QuadMethod `yaml:"quad_method"`
	NgonMethod NgonMethod `yaml:"ngon_method"`
}

func DefaultOptions() Options {
	return Options{QuadMethod: QuadBeauty, NgonMethod: NgonBeauty}
}
