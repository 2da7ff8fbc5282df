package dto

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/chazu/lvcad/pkg/geom"
)

// EntityType tags the geometry held by an Entity.
type EntityType string

const (
	TypePoint     EntityType = "point"
	TypeSegment   EntityType = "segment"
	TypeCircle    EntityType = "circle"
	TypeFilletArc EntityType = "fillet_arc"
)

// DefaultUnits is the unit symbol used when a document does not name one.
const DefaultUnits = "in"

// Document is the persisted drawing. Coordinates are canonical inches;
// Units is the display unit the drawing was authored in.
type Document struct {
	Schema   SchemaVersion `json:"schema" yaml:"schema"`
	ID       string        `json:"id" yaml:"id"`
	Units    string        `json:"units" yaml:"units"`
	Entities []Entity      `json:"entities" yaml:"entities"`
}

// Entity is one named piece of geometry. Geometry holds a PointDTO,
// SegmentDTO, CircleDTO or FilletArcDTO matching Type.
type Entity struct {
	Type     EntityType `json:"type" yaml:"type"`
	Name     string     `json:"name" yaml:"name"`
	Geometry any        `json:"geometry" yaml:"geometry"`
}

// NewDocument returns an empty document at the current schema with a fresh
// id.
func NewDocument(units string) *Document {
	if units == "" {
		units = DefaultUnits
	}
	return &Document{
		Schema:   Current,
		ID:       uuid.NewString(),
		Units:    units,
		Entities: []Entity{},
	}
}

// EntityFor wraps a geometry value or DTO in an Entity.
func EntityFor(name string, g any) (Entity, error) {
	switch v := g.(type) {
	case geom.Point:
		return Entity{Type: TypePoint, Name: name, Geometry: FromPoint(v)}, nil
	case geom.Segment:
		return Entity{Type: TypeSegment, Name: name, Geometry: FromSegment(v)}, nil
	case geom.Circle:
		return Entity{Type: TypeCircle, Name: name, Geometry: FromCircle(v)}, nil
	case geom.FilletArc:
		return Entity{Type: TypeFilletArc, Name: name, Geometry: FromFilletArc(v)}, nil
	case PointDTO:
		return Entity{Type: TypePoint, Name: name, Geometry: v}, nil
	case SegmentDTO:
		return Entity{Type: TypeSegment, Name: name, Geometry: v}, nil
	case CircleDTO:
		return Entity{Type: TypeCircle, Name: name, Geometry: v}, nil
	case FilletArcDTO:
		return Entity{Type: TypeFilletArc, Name: name, Geometry: v}, nil
	}
	return Entity{}, geom.Errorf(geom.MalformedDTO, "dto.EntityFor", "unsupported geometry %T", g)
}

// Add appends a named geometry value to the document.
func (d *Document) Add(name string, g any) error {
	e, err := EntityFor(name, g)
	if err != nil {
		return err
	}
	d.Entities = append(d.Entities, e)
	return nil
}

// Find returns the first entity with the given name.
func (d *Document) Find(name string) (Entity, bool) {
	for _, e := range d.Entities {
		if e.Name == name {
			return e, true
		}
	}
	return Entity{}, false
}

// Geom converts the entity's record to its geometry value: a geom.Point,
// geom.Segment, geom.Circle or geom.FilletArc.
func (e Entity) Geom(tol geom.Tolerance) (any, error) {
	switch v := e.Geometry.(type) {
	case PointDTO:
		return v.Geom(), nil
	case SegmentDTO:
		return v.Geom(tol)
	case CircleDTO:
		return v.Geom(tol)
	case FilletArcDTO:
		return v.Geom(tol)
	}
	return nil, geom.Errorf(geom.MalformedDTO, "dto.Entity", "entity %q of type %s holds %T", e.Name, e.Type, e.Geometry)
}

// Shape is a decoded entity ready for the kernel.
type Shape struct {
	Name  string
	Type  EntityType
	Value any
}

// Curve returns the shape as an intersection operand. Only segments and
// circles are curves.
func (s Shape) Curve() (geom.Curve, bool) {
	c, ok := s.Value.(geom.Curve)
	return c, ok
}

// Shapes converts every entity, failing on the first invariant violation.
func (d *Document) Shapes(tol geom.Tolerance) ([]Shape, error) {
	out := make([]Shape, 0, len(d.Entities))
	for i, e := range d.Entities {
		v, err := e.Geom(tol)
		if err != nil {
			return nil, fmt.Errorf("entity %d (%q): %w", i, e.Name, err)
		}
		out = append(out, Shape{Name: e.Name, Type: e.Type, Value: v})
	}
	return out, nil
}

// Segment looks up a named segment.
func (d *Document) Segment(name string, tol geom.Tolerance) (geom.Segment, error) {
	e, ok := d.Find(name)
	if !ok {
		return geom.Segment{}, fmt.Errorf("no entity named %q", name)
	}
	rec, ok := e.Geometry.(SegmentDTO)
	if !ok {
		return geom.Segment{}, fmt.Errorf("entity %q is a %s, not a segment", name, e.Type)
	}
	return rec.Geom(tol)
}

// Curve looks up a named segment or circle.
func (d *Document) Curve(name string, tol geom.Tolerance) (geom.Curve, error) {
	e, ok := d.Find(name)
	if !ok {
		return nil, fmt.Errorf("no entity named %q", name)
	}
	v, err := e.Geom(tol)
	if err != nil {
		return nil, err
	}
	c, ok := v.(geom.Curve)
	if !ok {
		return nil, fmt.Errorf("entity %q is a %s, not a segment or circle", name, e.Type)
	}
	return c, nil
}

// ---------------------------------------------------------------------------
// map form
// ---------------------------------------------------------------------------

// ToMap returns the structural form of the document.
func (d *Document) ToMap() map[string]any {
	ents := make([]any, len(d.Entities))
	for i, e := range d.Entities {
		ents[i] = map[string]any{
			"type":     string(e.Type),
			"name":     e.Name,
			"geometry": geometryToMap(e.Geometry),
		}
	}
	return map[string]any{
		"schema":   map[string]any{"major": d.Schema.Major, "minor": d.Schema.Minor, "patch": d.Schema.Patch},
		"id":       d.ID,
		"units":    d.Units,
		"entities": ents,
	}
}

func geometryToMap(g any) map[string]any {
	switch v := g.(type) {
	case PointDTO:
		return PointToMap(v)
	case SegmentDTO:
		return SegmentToMap(v)
	case CircleDTO:
		return CircleToMap(v)
	case FilletArcDTO:
		return FilletArcToMap(v)
	}
	return nil
}

// DocumentFromMap validates and decodes the structural form of a document
// readable by reader. The schema version is checked before any entity is
// looked at; a major mismatch fails with SchemaIncompatible.
func DocumentFromMap(m map[string]any, reader SchemaVersion) (*Document, error) {
	if m == nil {
		return nil, malformed("", "expected a document object")
	}
	raw, ok := m["schema"]
	if !ok {
		return nil, malformed("schema", "missing field")
	}
	schema, err := schemaFrom(raw)
	if err != nil {
		return nil, err
	}
	if err := CheckCompatible(schema, reader); err != nil {
		return nil, err
	}

	doc := &Document{Schema: schema, Entities: []Entity{}}
	if doc.ID, err = stringField(m, "", "id", ""); err != nil {
		return nil, err
	}
	if doc.Units, err = stringField(m, "", "units", DefaultUnits); err != nil {
		return nil, err
	}
	if doc.Units == "" {
		doc.Units = DefaultUnits
	}

	rawEnts, ok := m["entities"]
	if !ok || rawEnts == nil {
		return doc, nil
	}
	list, ok := rawEnts.([]any)
	if !ok {
		return nil, malformed("entities", "expected a list, got %T", rawEnts)
	}
	for i, item := range list {
		path := fmt.Sprintf("entities[%d]", i)
		em, ok := asObject(item)
		if !ok {
			return nil, malformed(path, "expected an object, got %T", item)
		}
		e, err := entityFromMap(em, path)
		if err != nil {
			return nil, err
		}
		doc.Entities = append(doc.Entities, e)
	}
	return doc, nil
}

func entityFromMap(m map[string]any, path string) (Entity, error) {
	typ, err := stringField(m, path, "type", "")
	if err != nil {
		return Entity{}, err
	}
	name, err := stringField(m, path, "name", "")
	if err != nil {
		return Entity{}, err
	}
	g, err := objectField(m, path, "geometry")
	if err != nil {
		return Entity{}, err
	}
	gpath := join(path, "geometry")

	e := Entity{Type: EntityType(typ), Name: name}
	switch e.Type {
	case TypePoint:
		e.Geometry, err = pointAt(g, gpath)
	case TypeSegment:
		e.Geometry, err = segmentAt(g, gpath)
	case TypeCircle:
		e.Geometry, err = circleAt(g, gpath)
	case TypeFilletArc:
		e.Geometry, err = filletArcAt(g, gpath)
	case "":
		return Entity{}, malformed(join(path, "type"), "missing field")
	default:
		return Entity{}, malformed(join(path, "type"), "unknown entity type %q", typ)
	}
	if err != nil {
		return Entity{}, err
	}
	return e, nil
}
