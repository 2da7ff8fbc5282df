package engine

import (
	"errors"
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/lvcad/pkg/dto"
	"github.com/chazu/lvcad/pkg/edit"
	"github.com/chazu/lvcad/pkg/fillet"
	"github.com/chazu/lvcad/pkg/geom"
	"github.com/chazu/lvcad/pkg/intersect"
	"github.com/chazu/lvcad/pkg/units"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms script source before passing it to zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: first-seg -> first_seg
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing geometry through the zygomys environment
// ---------------------------------------------------------------------------

type sexpPoint struct {
	p geom.Point
}

func (s *sexpPoint) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(point %g %g)", s.p.X, s.p.Y)
}
func (s *sexpPoint) Type() *zygo.RegisteredType { return nil }

type sexpSegment struct {
	seg geom.Segment
}

func (s *sexpSegment) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(segment %g %g %g %g)", s.seg.A.X, s.seg.A.Y, s.seg.B.X, s.seg.B.Y)
}
func (s *sexpSegment) Type() *zygo.RegisteredType { return nil }

type sexpCircle struct {
	c geom.Circle
}

func (s *sexpCircle) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(circle %g %g %g)", s.c.Center.X, s.c.Center.Y, s.c.R)
}
func (s *sexpCircle) Type() *zygo.RegisteredType { return nil }

type sexpArc struct {
	arc geom.FilletArc
}

func (s *sexpArc) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(arc %g %g r=%g)", s.arc.Center.X, s.arc.Center.Y, s.arc.R)
}
func (s *sexpArc) Type() *zygo.RegisteredType { return nil }

// sexpFillet holds a full fillet result so scripts can pull out the arc
// and the trimmed segments.
type sexpFillet struct {
	res fillet.Result
}

func (s *sexpFillet) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(fillet r=%g)", s.res.Arc.R)
}
func (s *sexpFillet) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_b) and plain strings ("b").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toLength accepts a number in canonical inches or a length string such
// as "10'-6 3/4\"" or "25mm". Bare numbers inside strings are inches.
func toLength(s zygo.Sexp) (float64, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return units.Parse(str.S, units.Inch)
	}
	return toFloat64(s)
}

func toUnit(s zygo.Sexp) (units.Unit, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return units.Unit{}, err
	}
	u, ok := units.Lookup(name)
	if !ok {
		return units.Unit{}, fmt.Errorf("unknown unit %q", name)
	}
	return u, nil
}

func toEnd(s zygo.Sexp) (geom.End, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected endpoint keyword (:a, :b): %w", err)
	}
	return geom.ParseEnd(name)
}

func toPoint(s zygo.Sexp) (geom.Point, error) {
	if v, ok := s.(*sexpPoint); ok {
		return v.p, nil
	}
	return geom.Point{}, fmt.Errorf("expected point, got %T (%s)", s, s.SexpString(nil))
}

func toSegment(s zygo.Sexp) (geom.Segment, error) {
	if v, ok := s.(*sexpSegment); ok {
		return v.seg, nil
	}
	return geom.Segment{}, fmt.Errorf("expected segment, got %T (%s)", s, s.SexpString(nil))
}

// toCurve accepts the operands of intersection queries: segments and
// circles.
func toCurve(s zygo.Sexp) (geom.Curve, error) {
	switch v := s.(type) {
	case *sexpSegment:
		return v.seg, nil
	case *sexpCircle:
		return v.c, nil
	}
	return nil, fmt.Errorf("expected segment or circle, got %T (%s)", s, s.SexpString(nil))
}

func toFillet(s zygo.Sexp) (fillet.Result, error) {
	if v, ok := s.(*sexpFillet); ok {
		return v.res, nil
	}
	return fillet.Result{}, fmt.Errorf("expected fillet, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Evaluation session
// ---------------------------------------------------------------------------

// session is the state shared by the builtins of one evaluation.
type session struct {
	doc    *dto.Document
	tol    geom.Tolerance
	format units.FormatOptions

	// fault is the last kernel error returned by a builtin.
	fault *geom.Error
}

// kernel records a kernel failure so that it can be reported with its kind
// after zygomys unwinds.
func (s *session) kernel(name string, err error) error {
	var ge *geom.Error
	if errors.As(err, &ge) {
		s.fault = ge
	}
	return fmt.Errorf("%s: %w", name, err)
}

// annotate attaches the recorded kernel failure to the first eval error.
func (s *session) annotate(errs []EvalError) []EvalError {
	if s.fault != nil && len(errs) > 0 {
		errs[0].Kind = s.fault.Kind.String()
		errs[0].Message = s.fault.Error()
	}
	return errs
}

func (s *session) emit(name string, g any) error {
	return s.doc.Add(name, g)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the geometry builtins into a zygomys
// environment. Shapes passed to emit are appended to the session's
// document.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals and
// kebab-case names match the underscore names registered here.
func registerBuiltins(env *zygo.Zlisp, s *session) {
	builtins := map[string]func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error){
		"point":      s.point,
		"segment":    s.segment,
		"circle":     s.circle,
		"parse_len":  s.parseLen,
		"fmt_len":    s.fmtLen,
		"intersect":  s.intersect,
		"hit":        s.hit,
		"fillet":     s.fillet,
		"arc":        s.arc,
		"first_seg":  s.firstSeg,
		"second_seg": s.secondSeg,
		"trim":       s.trim,
		"extend":     s.extend,
		"emit":       s.emitShape,
	}
	for name, fn := range builtins {
		env.AddFunction(name, fn)
	}
}

// -----------------------------------------------------------------------
// (point 3 4)  (point "1'" "6in")
// -----------------------------------------------------------------------
func (s *session) point(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 2 {
		return zygo.SexpNull, fmt.Errorf("point requires exactly 2 arguments, got %d", len(args))
	}
	x, err := toLength(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("point: x: %w", err)
	}
	y, err := toLength(args[1])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("point: y: %w", err)
	}
	return &sexpPoint{p: geom.Pt(x, y)}, nil
}

// -----------------------------------------------------------------------
// (segment p q)  (segment 0 0 10 0)
// -----------------------------------------------------------------------
func (s *session) segment(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	var a, b geom.Point
	switch len(args) {
	case 2:
		var err error
		if a, err = toPoint(args[0]); err != nil {
			return zygo.SexpNull, fmt.Errorf("segment: start: %w", err)
		}
		if b, err = toPoint(args[1]); err != nil {
			return zygo.SexpNull, fmt.Errorf("segment: end: %w", err)
		}
	case 4:
		var v [4]float64
		for i := range v {
			f, err := toLength(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("segment: coordinate %d: %w", i+1, err)
			}
			v[i] = f
		}
		a, b = geom.Pt(v[0], v[1]), geom.Pt(v[2], v[3])
	default:
		return zygo.SexpNull, fmt.Errorf("segment requires 2 points or 4 coordinates, got %d arguments", len(args))
	}
	seg, err := geom.NewSegment(a, b, s.tol)
	if err != nil {
		return zygo.SexpNull, s.kernel("segment", err)
	}
	return &sexpSegment{seg: seg}, nil
}

// -----------------------------------------------------------------------
// (circle p 2)  (circle 5 5 "1 1/2in")
// -----------------------------------------------------------------------
func (s *session) circle(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	var center geom.Point
	var rArg zygo.Sexp
	switch len(args) {
	case 2:
		p, err := toPoint(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("circle: center: %w", err)
		}
		center, rArg = p, args[1]
	case 3:
		x, err := toLength(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("circle: x: %w", err)
		}
		y, err := toLength(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("circle: y: %w", err)
		}
		center, rArg = geom.Pt(x, y), args[2]
	default:
		return zygo.SexpNull, fmt.Errorf("circle requires a center and a radius, got %d arguments", len(args))
	}
	r, err := toLength(rArg)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("circle: radius: %w", err)
	}
	c, err := geom.NewCircle(center, r, s.tol)
	if err != nil {
		return zygo.SexpNull, s.kernel("circle", err)
	}
	return &sexpCircle{c: c}, nil
}

// -----------------------------------------------------------------------
// (parse-len "10'-6 3/4\"")  (parse-len "25" :unit "mm")
// -----------------------------------------------------------------------
func (s *session) parseLen(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	if len(pa.positional) != 1 {
		return zygo.SexpNull, fmt.Errorf("parse-len requires exactly 1 length, got %d", len(pa.positional))
	}
	bare := units.Inch
	if v, ok := pa.kw["unit"]; ok {
		u, err := toUnit(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("parse-len: unit: %w", err)
		}
		bare = u
	}

	switch v := pa.positional[0].(type) {
	case *zygo.SexpStr:
		f, err := units.Parse(v.S, bare)
		if err != nil {
			return zygo.SexpNull, s.kernel("parse-len", err)
		}
		return &zygo.SexpFloat{Val: f}, nil
	default:
		f, err := toFloat64(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("parse-len: %w", err)
		}
		return &zygo.SexpFloat{Val: units.ToCanonical(f, bare)}, nil
	}
}

// -----------------------------------------------------------------------
// (fmt-len 126.75)  (fmt-len 10 :unit "mm" :style :decimal :precision 2)
// -----------------------------------------------------------------------
func (s *session) fmtLen(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	if len(pa.positional) != 1 {
		return zygo.SexpNull, fmt.Errorf("fmt-len requires exactly 1 value, got %d", len(pa.positional))
	}
	v, err := toLength(pa.positional[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("fmt-len: value: %w", err)
	}

	opts := s.format
	if kv, ok := pa.kw["unit"]; ok {
		u, err := toUnit(kv)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("fmt-len: unit: %w", err)
		}
		opts.Unit = u
	}
	if kv, ok := pa.kw["style"]; ok {
		name, err := toKeywordString(kv)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("fmt-len: style: %w", err)
		}
		st, err := units.ParseStyle(name)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("fmt-len: %w", err)
		}
		opts.Style = st
	}
	if kv, ok := pa.kw["precision"]; ok {
		p, err := toInt(kv)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("fmt-len: precision: %w", err)
		}
		opts.Precision = p
	}

	out, err := units.Format(v, opts)
	if err != nil {
		return zygo.SexpNull, s.kernel("fmt-len", err)
	}
	return &zygo.SexpStr{S: out}, nil
}

// -----------------------------------------------------------------------
// (intersect a b) returns the number of hits.
// -----------------------------------------------------------------------
func (s *session) intersect(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	res, err := s.query("intersect", args, 2)
	if err != nil {
		return zygo.SexpNull, err
	}
	return &zygo.SexpInt{Val: int64(len(res.Hits))}, nil
}

// -----------------------------------------------------------------------
// (hit a b 0) returns the first hit point.
// -----------------------------------------------------------------------
func (s *session) hit(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	res, err := s.query("hit", args, 3)
	if err != nil {
		return zygo.SexpNull, err
	}
	i, err := toInt(args[2])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("hit: index: %w", err)
	}
	if i < 0 || i >= len(res.Hits) {
		return zygo.SexpNull, s.kernel("hit", geom.Errorf(geom.NoIntersection, "engine.hit",
			"index %d out of range, %s has %d hits", i, res.Kind, len(res.Hits)))
	}
	return &sexpPoint{p: res.Hits[i].P}, nil
}

func (s *session) query(name string, args []zygo.Sexp, want int) (intersect.Result, error) {
	if len(args) != want {
		return intersect.Result{}, fmt.Errorf("%s requires exactly %d arguments, got %d", name, want, len(args))
	}
	a, err := toCurve(args[0])
	if err != nil {
		return intersect.Result{}, fmt.Errorf("%s: first: %w", name, err)
	}
	b, err := toCurve(args[1])
	if err != nil {
		return intersect.Result{}, fmt.Errorf("%s: second: %w", name, err)
	}
	res, err := intersect.Curves(a, b, s.tol)
	if err != nil {
		return intersect.Result{}, s.kernel(name, err)
	}
	return res, nil
}

// -----------------------------------------------------------------------
// (fillet s1 s2 2) rounds the corner where s1 and s2 come closest.
// -----------------------------------------------------------------------
func (s *session) fillet(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 3 {
		return zygo.SexpNull, fmt.Errorf("fillet requires 2 segments and a radius, got %d arguments", len(args))
	}
	s1, err := toSegment(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("fillet: first: %w", err)
	}
	s2, err := toSegment(args[1])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("fillet: second: %w", err)
	}
	r, err := toLength(args[2])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("fillet: radius: %w", err)
	}
	res, err := fillet.Solve(s1, s2, r, fillet.NearestCorner(s1, s2), s.tol)
	if err != nil {
		return zygo.SexpNull, s.kernel("fillet", err)
	}
	return &sexpFillet{res: res}, nil
}

func (s *session) arc(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	res, err := s.filletArg("arc", args)
	if err != nil {
		return zygo.SexpNull, err
	}
	return &sexpArc{arc: res.Arc}, nil
}

func (s *session) firstSeg(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	res, err := s.filletArg("first-seg", args)
	if err != nil {
		return zygo.SexpNull, err
	}
	return &sexpSegment{seg: res.First}, nil
}

func (s *session) secondSeg(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	res, err := s.filletArg("second-seg", args)
	if err != nil {
		return zygo.SexpNull, err
	}
	return &sexpSegment{seg: res.Second}, nil
}

func (s *session) filletArg(name string, args []zygo.Sexp) (fillet.Result, error) {
	if len(args) != 1 {
		return fillet.Result{}, fmt.Errorf("%s requires exactly 1 fillet, got %d arguments", name, len(args))
	}
	res, err := toFillet(args[0])
	if err != nil {
		return fillet.Result{}, fmt.Errorf("%s: %w", name, err)
	}
	return res, nil
}

// -----------------------------------------------------------------------
// (trim s target :end :b)
// -----------------------------------------------------------------------
func (s *session) trim(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	seg, target, live, _, err := editArgs("trim", args)
	if err != nil {
		return zygo.SexpNull, err
	}
	out, err := edit.Trim(seg, target, live, s.tol)
	if err != nil {
		return zygo.SexpNull, s.kernel("trim", err)
	}
	return &sexpSegment{seg: out}, nil
}

// -----------------------------------------------------------------------
// (extend s target :end :a :max 100)
// -----------------------------------------------------------------------
func (s *session) extend(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	seg, target, live, pa, err := editArgs("extend", args)
	if err != nil {
		return zygo.SexpNull, err
	}
	maxDist := edit.Unbounded
	if v, ok := pa.kw["max"]; ok {
		if maxDist, err = toLength(v); err != nil {
			return zygo.SexpNull, fmt.Errorf("extend: max: %w", err)
		}
	}
	out, err := edit.Extend(seg, target, live, maxDist, s.tol)
	if err != nil {
		return zygo.SexpNull, s.kernel("extend", err)
	}
	return &sexpSegment{seg: out}, nil
}

// editArgs reads the shared (op segment target :end e) shape of trim and
// extend. The live end defaults to B.
func editArgs(name string, args []zygo.Sexp) (geom.Segment, geom.Curve, geom.End, kwArgs, error) {
	pa := parseArgs(args)
	if len(pa.positional) != 2 {
		return geom.Segment{}, nil, 0, pa, fmt.Errorf("%s requires a segment and a target, got %d arguments", name, len(pa.positional))
	}
	seg, err := toSegment(pa.positional[0])
	if err != nil {
		return geom.Segment{}, nil, 0, pa, fmt.Errorf("%s: segment: %w", name, err)
	}
	target, err := toCurve(pa.positional[1])
	if err != nil {
		return geom.Segment{}, nil, 0, pa, fmt.Errorf("%s: target: %w", name, err)
	}
	live := geom.EndB
	if v, ok := pa.kw["end"]; ok {
		if live, err = toEnd(v); err != nil {
			return geom.Segment{}, nil, 0, pa, fmt.Errorf("%s: end: %w", name, err)
		}
	}
	return seg, target, live, pa, nil
}

// -----------------------------------------------------------------------
// (emit "name" shape) adds shape to the output document and returns it.
// A fillet emits its trimmed first segment, its arc and its trimmed second
// segment as name/first, name/arc and name/second.
// -----------------------------------------------------------------------
func (s *session) emitShape(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 2 {
		return zygo.SexpNull, fmt.Errorf("emit requires a name and a shape, got %d arguments", len(args))
	}
	entity, err := toString(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("emit: name: %w", err)
	}

	switch v := args[1].(type) {
	case *sexpPoint:
		err = s.emit(entity, v.p)
	case *sexpSegment:
		err = s.emit(entity, v.seg)
	case *sexpCircle:
		err = s.emit(entity, v.c)
	case *sexpArc:
		err = s.emit(entity, v.arc)
	case *sexpFillet:
		for _, part := range []struct {
			suffix string
			g      any
		}{
			{"first", v.res.First},
			{"arc", v.res.Arc},
			{"second", v.res.Second},
		} {
			if err = s.emit(entity+"/"+part.suffix, part.g); err != nil {
				break
			}
		}
	default:
		return zygo.SexpNull, fmt.Errorf("emit: expected a shape, got %T (%s)", args[1], args[1].SexpString(nil))
	}
	if err != nil {
		return zygo.SexpNull, s.kernel("emit", err)
	}
	return args[1], nil
}
