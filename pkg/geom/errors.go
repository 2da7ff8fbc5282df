package geom

import (
	"errors"
	"fmt"
)

// Kind classifies a kernel failure.
type Kind int

const (
	DegenerateVector Kind = iota + 1
	DegenerateGeometry
	NoIntersection
	NoFilletSolution
	InvalidFilletRadius
	UnitParseError
	MalformedDTO
	SchemaIncompatible
)

func (k Kind) String() string {
	switch k {
	case DegenerateVector:
		return "degenerate_vector"
	case DegenerateGeometry:
		return "degenerate_geometry"
	case NoIntersection:
		return "no_intersection"
	case NoFilletSolution:
		return "no_fillet_solution"
	case InvalidFilletRadius:
		return "invalid_fillet_radius"
	case UnitParseError:
		return "unit_parse_error"
	case MalformedDTO:
		return "malformed_dto"
	case SchemaIncompatible:
		return "schema_incompatible"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is the typed failure returned by every kernel operation.
type Error struct {
	Kind Kind
	Op   string // operation that failed, e.g. "fillet.Solve"
	Msg  string
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Msg != "":
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Msg)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	case e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	default:
		return e.Kind.String()
	}
}

// Is reports whether target is an *Error of the same Kind, so that
// errors.Is(err, geom.ErrNoIntersection) works regardless of Op and Msg.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Errorf builds an *Error of the given kind.
func Errorf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Sentinels for errors.Is comparisons.
var (
	ErrDegenerateVector    = &Error{Kind: DegenerateVector}
	ErrDegenerateGeometry  = &Error{Kind: DegenerateGeometry}
	ErrNoIntersection      = &Error{Kind: NoIntersection}
	ErrNoFilletSolution    = &Error{Kind: NoFilletSolution}
	ErrInvalidFilletRadius = &Error{Kind: InvalidFilletRadius}
	ErrUnitParse           = &Error{Kind: UnitParseError}
	ErrMalformedDTO        = &Error{Kind: MalformedDTO}
	ErrSchemaIncompatible  = &Error{Kind: SchemaIncompatible}
)

// KindOf extracts the Kind of a kernel error anywhere in err's chain.
func KindOf(err error) (Kind, bool) {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind, true
	}
	return 0, false
}
