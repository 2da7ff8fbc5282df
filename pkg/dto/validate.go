package dto

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/chazu/lvcad/pkg/geom"
	"github.com/chazu/lvcad/pkg/units"
)

// Severity indicates whether a validation finding blocks loading the
// document into the kernel or is merely informational.
type Severity int

const (
	SeverityError   Severity = iota // blocks use
	SeverityWarning                 // informational
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// ValidationError describes a single finding. Index is the entity's
// position, or -1 for document-level findings.
type ValidationError struct {
	Index    int
	Entity   string
	Message  string
	Severity Severity
}

func (e ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	if e.Entity == "" {
		return fmt.Sprintf("[%s] entity %d: %s", e.Severity, e.Index, e.Message)
	}
	return fmt.Sprintf("[%s] entity %d (%s): %s", e.Severity, e.Index, e.Entity, e.Message)
}

// Validate checks a decoded document and returns every finding. An empty
// slice means the document is usable. The document is never modified.
func Validate(doc *Document, tol geom.Tolerance) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateHeader(doc)...)
	errs = append(errs, validateNames(doc)...)
	errs = append(errs, validateGeometry(doc, tol)...)
	return errs
}

// HasErrors reports whether any finding is blocking.
func HasErrors(errs []ValidationError) bool {
	for _, e := range errs {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

func validateHeader(doc *Document) []ValidationError {
	var errs []ValidationError
	if err := CheckCompatible(doc.Schema, Current); err != nil {
		errs = append(errs, ValidationError{Index: -1, Message: err.Error(), Severity: SeverityError})
	}
	if _, ok := units.Lookup(doc.Units); !ok {
		errs = append(errs, ValidationError{
			Index:    -1,
			Message:  fmt.Sprintf("unknown units %q", doc.Units),
			Severity: SeverityError,
		})
	}
	if doc.ID == "" {
		errs = append(errs, ValidationError{Index: -1, Message: "document has no id", Severity: SeverityWarning})
	} else if _, err := uuid.Parse(doc.ID); err != nil {
		errs = append(errs, ValidationError{
			Index:    -1,
			Message:  fmt.Sprintf("id %q is not a UUID", doc.ID),
			Severity: SeverityWarning,
		})
	}
	return errs
}

// validateNames flags duplicate names as errors, since entities are
// addressed by name, and unnamed entities as warnings.
func validateNames(doc *Document) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]int)
	for i, e := range doc.Entities {
		if e.Name == "" {
			errs = append(errs, ValidationError{Index: i, Message: "entity has no name", Severity: SeverityWarning})
			continue
		}
		if first, dup := seen[e.Name]; dup {
			errs = append(errs, ValidationError{
				Index:    i,
				Entity:   e.Name,
				Message:  fmt.Sprintf("duplicate name %q (first used by entity %d)", e.Name, first),
				Severity: SeverityError,
			})
			continue
		}
		seen[e.Name] = i
	}
	return errs
}

func validateGeometry(doc *Document, tol geom.Tolerance) []ValidationError {
	var errs []ValidationError
	for i, e := range doc.Entities {
		if _, err := e.Geom(tol); err != nil {
			errs = append(errs, ValidationError{Index: i, Entity: e.Name, Message: err.Error(), Severity: SeverityError})
			continue
		}
		if !typeMatches(e) {
			errs = append(errs, ValidationError{
				Index:    i,
				Entity:   e.Name,
				Message:  fmt.Sprintf("type %q does not match geometry %T", e.Type, e.Geometry),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

func typeMatches(e Entity) bool {
	switch e.Geometry.(type) {
	case PointDTO:
		return e.Type == TypePoint
	case SegmentDTO:
		return e.Type == TypeSegment
	case CircleDTO:
		return e.Type == TypeCircle
	case FilletArcDTO:
		return e.Type == TypeFilletArc
	}
	return false
}
