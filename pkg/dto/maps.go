package dto

import (
	"encoding/json"
	"math"

	"github.com/chazu/lvcad/pkg/geom"
)

// The ToMap/FromMap pairs are the structural form of each record: a
// map from field name to value, as produced by decoding JSON or YAML into
// map[string]any. FromMap requires every field and a numeric value for
// every number. Keys it does not know are ignored.

func PointToMap(p PointDTO) map[string]any {
	return map[string]any{"x": p.X, "y": p.Y}
}

func SegmentToMap(s SegmentDTO) map[string]any {
	return map[string]any{"a": PointToMap(s.A), "b": PointToMap(s.B)}
}

func CircleToMap(c CircleDTO) map[string]any {
	return map[string]any{"center": PointToMap(c.Center), "r": c.R}
}

func FilletArcToMap(a FilletArcDTO) map[string]any {
	return map[string]any{
		"center": PointToMap(a.Center),
		"r":      a.R,
		"t1":     PointToMap(a.T1),
		"t2":     PointToMap(a.T2),
	}
}

func PointFromMap(m map[string]any) (PointDTO, error) {
	return pointAt(m, "")
}

func SegmentFromMap(m map[string]any) (SegmentDTO, error) {
	return segmentAt(m, "")
}

func CircleFromMap(m map[string]any) (CircleDTO, error) {
	return circleAt(m, "")
}

func FilletArcFromMap(m map[string]any) (FilletArcDTO, error) {
	return filletArcAt(m, "")
}

// ---------------------------------------------------------------------------
// field readers; path is the dotted location used in error messages
// ---------------------------------------------------------------------------

func malformed(path, format string, args ...any) error {
	if path == "" {
		path = "(root)"
	}
	return geom.Errorf(geom.MalformedDTO, "dto", "%s: "+format, append([]any{path}, args...)...)
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func pointAt(m map[string]any, path string) (PointDTO, error) {
	if m == nil {
		return PointDTO{}, malformed(path, "missing object")
	}
	x, err := numberField(m, path, "x")
	if err != nil {
		return PointDTO{}, err
	}
	y, err := numberField(m, path, "y")
	if err != nil {
		return PointDTO{}, err
	}
	return PointDTO{X: x, Y: y}, nil
}

func segmentAt(m map[string]any, path string) (SegmentDTO, error) {
	if m == nil {
		return SegmentDTO{}, malformed(path, "missing object")
	}
	a, err := pointField(m, path, "a")
	if err != nil {
		return SegmentDTO{}, err
	}
	b, err := pointField(m, path, "b")
	if err != nil {
		return SegmentDTO{}, err
	}
	return SegmentDTO{A: a, B: b}, nil
}

func circleAt(m map[string]any, path string) (CircleDTO, error) {
	if m == nil {
		return CircleDTO{}, malformed(path, "missing object")
	}
	c, err := pointField(m, path, "center")
	if err != nil {
		return CircleDTO{}, err
	}
	r, err := numberField(m, path, "r")
	if err != nil {
		return CircleDTO{}, err
	}
	return CircleDTO{Center: c, R: r}, nil
}

func filletArcAt(m map[string]any, path string) (FilletArcDTO, error) {
	if m == nil {
		return FilletArcDTO{}, malformed(path, "missing object")
	}
	c, err := pointField(m, path, "center")
	if err != nil {
		return FilletArcDTO{}, err
	}
	r, err := numberField(m, path, "r")
	if err != nil {
		return FilletArcDTO{}, err
	}
	t1, err := pointField(m, path, "t1")
	if err != nil {
		return FilletArcDTO{}, err
	}
	t2, err := pointField(m, path, "t2")
	if err != nil {
		return FilletArcDTO{}, err
	}
	return FilletArcDTO{Center: c, R: r, T1: t1, T2: t2}, nil
}

func pointField(m map[string]any, path, key string) (PointDTO, error) {
	sub, err := objectField(m, path, key)
	if err != nil {
		return PointDTO{}, err
	}
	return pointAt(sub, join(path, key))
}

func objectField(m map[string]any, path, key string) (map[string]any, error) {
	v, ok := m[key]
	if !ok {
		return nil, malformed(join(path, key), "missing field")
	}
	obj, ok := asObject(v)
	if !ok {
		return nil, malformed(join(path, key), "expected an object, got %T", v)
	}
	return obj, nil
}

func numberField(m map[string]any, path, key string) (float64, error) {
	v, ok := m[key]
	if !ok {
		return 0, malformed(join(path, key), "missing field")
	}
	f, ok := asNumber(v)
	if !ok {
		return 0, malformed(join(path, key), "expected a number, got %T", v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, malformed(join(path, key), "non-finite number %v", f)
	}
	return f, nil
}

func stringField(m map[string]any, path, key string, def string) (string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", malformed(join(path, key), "expected a string, got %T", v)
	}
	return s, nil
}

// asObject accepts the map shapes produced by encoding/json and yaml.v3.
func asObject(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	}
	return nil, false
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
