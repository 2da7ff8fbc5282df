package app

import (
	"math"

	"github.com/chazu/lvcad/pkg/dto"
	"github.com/chazu/lvcad/pkg/edit"
	"github.com/chazu/lvcad/pkg/fillet"
	"github.com/chazu/lvcad/pkg/geom"
	"github.com/chazu/lvcad/pkg/units"
)

// CurveDTO carries a trim or extend target. Exactly one field is set.
type CurveDTO struct {
	Segment *dto.SegmentDTO `json:"segment,omitempty"`
	Circle  *dto.CircleDTO  `json:"circle,omitempty"`
}

// CurveFrom wraps a kernel curve.
func CurveFrom(c geom.Curve) CurveDTO {
	switch v := c.(type) {
	case geom.Segment:
		s := dto.FromSegment(v)
		return CurveDTO{Segment: &s}
	case geom.Circle:
		cd := dto.FromCircle(v)
		return CurveDTO{Circle: &cd}
	}
	return CurveDTO{}
}

func (c CurveDTO) curve(tol geom.Tolerance) (geom.Curve, error) {
	switch {
	case c.Segment != nil && c.Circle != nil:
		return nil, geom.Errorf(geom.MalformedDTO, "app.CurveDTO", "target has both a segment and a circle")
	case c.Segment != nil:
		return c.Segment.Geom(tol)
	case c.Circle != nil:
		return c.Circle.Geom(tol)
	}
	return nil, geom.Errorf(geom.MalformedDTO, "app.CurveDTO", "target has no geometry")
}

// Reply is the result of an editing operation. On failure Segments is
// empty and Error and Kind describe the refusal.
type Reply struct {
	Segments []dto.SegmentDTO  `json:"segments"`
	Arc      *dto.FilletArcDTO `json:"arc,omitempty"`
	Error    string            `json:"error,omitempty"`
	Kind     string            `json:"kind,omitempty"`
}

func (a *App) refuse(op string, err error) Reply {
	msg, kind := a.fail(op, err)
	return Reply{Segments: []dto.SegmentDTO{}, Error: msg, Kind: kind}
}

// FilletRequest asks for a fillet between two segments. Radius is length
// text; bare numbers are in the display unit. Corner names the meeting
// endpoints as two letters, first segment then second ("ba" is s1.B with
// s2.A); empty picks the closest pair.
type FilletRequest struct {
	First  dto.SegmentDTO `json:"first"`
	Second dto.SegmentDTO `json:"second"`
	Radius string         `json:"radius"`
	Corner string         `json:"corner,omitempty"`
}

// Fillet returns the arc plus both segments trimmed to its tangent points.
func (a *App) Fillet(req FilletRequest) Reply {
	const op = "fillet"

	s1, err := req.First.Geom(a.tol)
	if err != nil {
		return a.refuse(op, err)
	}
	s2, err := req.Second.Geom(a.tol)
	if err != nil {
		return a.refuse(op, err)
	}
	r, err := a.length(op, "radius", req.Radius)
	if err != nil {
		return a.refuse(op, err)
	}
	corner := fillet.NearestCorner(s1, s2)
	if req.Corner != "" {
		if corner, err = parseCorner(req.Corner); err != nil {
			return a.refuse(op, err)
		}
	}

	res, err := fillet.Solve(s1, s2, r, corner, a.tol)
	if err != nil {
		return a.refuse(op, err)
	}
	arc := dto.FromFilletArc(res.Arc)
	return Reply{
		Segments: []dto.SegmentDTO{dto.FromSegment(res.First), dto.FromSegment(res.Second)},
		Arc:      &arc,
	}
}

func parseCorner(s string) (fillet.Corner, error) {
	if len(s) != 2 {
		return fillet.Corner{}, geom.Errorf(geom.MalformedDTO, "app.parseCorner", "corner %q must be two endpoint letters", s)
	}
	first, err := geom.ParseEnd(s[:1])
	if err != nil {
		return fillet.Corner{}, geom.Errorf(geom.MalformedDTO, "app.parseCorner", "corner %q: %v", s, err)
	}
	second, err := geom.ParseEnd(s[1:])
	if err != nil {
		return fillet.Corner{}, geom.Errorf(geom.MalformedDTO, "app.parseCorner", "corner %q: %v", s, err)
	}
	return fillet.Corner{First: first, Second: second}, nil
}

// TrimRequest asks to trim Segment against Target. The moving endpoint is
// End ("a" or "b"); when End is empty it is the endpoint nearest Pick, and
// with neither it is B.
type TrimRequest struct {
	Segment dto.SegmentDTO `json:"segment"`
	Target  CurveDTO       `json:"target"`
	End     string         `json:"end,omitempty"`
	Pick    *dto.PointDTO  `json:"pick,omitempty"`
}

// Trim returns the trimmed segment.
func (a *App) Trim(req TrimRequest) Reply {
	const op = "trim"

	s, target, live, err := a.editOperands(req.Segment, req.Target, req.End, req.Pick)
	if err != nil {
		return a.refuse(op, err)
	}
	out, err := edit.Trim(s, target, live, a.tol)
	if err != nil {
		return a.refuse(op, err)
	}
	return Reply{Segments: []dto.SegmentDTO{dto.FromSegment(out)}}
}

// ExtendRequest is TrimRequest plus Max, the farthest the endpoint may
// travel as length text. Empty means unbounded.
type ExtendRequest struct {
	Segment dto.SegmentDTO `json:"segment"`
	Target  CurveDTO       `json:"target"`
	End     string         `json:"end,omitempty"`
	Pick    *dto.PointDTO  `json:"pick,omitempty"`
	Max     string         `json:"max,omitempty"`
}

// Extend returns the extended segment.
func (a *App) Extend(req ExtendRequest) Reply {
	const op = "extend"

	s, target, live, err := a.editOperands(req.Segment, req.Target, req.End, req.Pick)
	if err != nil {
		return a.refuse(op, err)
	}
	maxDist := edit.Unbounded
	if req.Max != "" {
		if maxDist, err = a.length(op, "max", req.Max); err != nil {
			return a.refuse(op, err)
		}
	}
	out, err := edit.Extend(s, target, live, maxDist, a.tol)
	if err != nil {
		return a.refuse(op, err)
	}
	return Reply{Segments: []dto.SegmentDTO{dto.FromSegment(out)}}
}

func (a *App) editOperands(sd dto.SegmentDTO, td CurveDTO, end string, pick *dto.PointDTO) (geom.Segment, geom.Curve, geom.End, error) {
	s, err := sd.Geom(a.tol)
	if err != nil {
		return geom.Segment{}, nil, 0, err
	}
	target, err := td.curve(a.tol)
	if err != nil {
		return geom.Segment{}, nil, 0, err
	}
	live := geom.EndB
	switch {
	case end != "":
		if live, err = geom.ParseEnd(end); err != nil {
			return geom.Segment{}, nil, 0, geom.Errorf(geom.MalformedDTO, "app.editOperands", "%v", err)
		}
	case pick != nil:
		live = edit.LiveEnd(s, pick.Geom())
	}
	return s, target, live, nil
}

// LengthReply is a parsed or formatted length. Value is canonical inches.
type LengthReply struct {
	Value float64 `json:"value"`
	Text  string  `json:"text"`
	Error string  `json:"error,omitempty"`
	Kind  string  `json:"kind,omitempty"`
}

// ParseLength reads s, with bare numbers in the display unit, and echoes
// it back in the display format.
func (a *App) ParseLength(s string) LengthReply {
	v, err := units.Parse(s, a.format.Unit)
	if err != nil {
		msg, kind := a.fail("parse-length", err)
		return LengthReply{Error: msg, Kind: kind}
	}
	text, err := units.Format(v, a.format)
	if err != nil {
		msg, kind := a.fail("parse-length", err)
		return LengthReply{Value: v, Error: msg, Kind: kind}
	}
	return LengthReply{Value: v, Text: text}
}

// FormatLength writes a canonical value in the display format.
func (a *App) FormatLength(v float64) LengthReply {
	text, err := units.Format(v, a.format)
	if err != nil {
		msg, kind := a.fail("format-length", err)
		return LengthReply{Value: v, Error: msg, Kind: kind}
	}
	return LengthReply{Value: v, Text: text}
}

// Snap rounds p to the configured grid. Non-finite input is returned as
// is.
func (a *App) Snap(p dto.PointDTO) dto.PointDTO {
	if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
		return p
	}
	return dto.FromPoint(units.SnapPoint(p.Geom(), a.format.Snap))
}
