package dto

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chazu/lvcad/pkg/geom"
)

// SchemaVersion is the semantic version of the document layout.
type SchemaVersion struct {
	Major int `json:"major" yaml:"major"`
	Minor int `json:"minor" yaml:"minor"`
	Patch int `json:"patch" yaml:"patch"`
}

// Current is the version this package writes and the only major it reads.
var Current = SchemaVersion{Major: 0, Minor: 1, Patch: 0}

func (v SchemaVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// ParseSchemaVersion reads "major.minor.patch". Missing trailing parts are
// zero, so "1" and "1.2" are accepted.
func ParseSchemaVersion(s string) (SchemaVersion, error) {
	parts := strings.Split(strings.TrimPrefix(strings.TrimSpace(s), "v"), ".")
	if len(parts) == 0 || len(parts) > 3 || parts[0] == "" {
		return SchemaVersion{}, malformed("schema", "bad version %q", s)
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return SchemaVersion{}, malformed("schema", "bad version %q", s)
		}
		nums[i] = n
	}
	return SchemaVersion{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// Compatible reports whether a reader supporting reader can load a
// document written at v. Only the major versions have to agree.
func (v SchemaVersion) Compatible(reader SchemaVersion) bool {
	return v.Major == reader.Major
}

// CheckCompatible returns SchemaIncompatible when v cannot be read by
// reader.
func CheckCompatible(v, reader SchemaVersion) error {
	if !v.Compatible(reader) {
		return geom.Errorf(geom.SchemaIncompatible, "dto.CheckCompatible",
			"document schema %s needs major version %d, reader supports %d", v, v.Major, reader.Major)
	}
	return nil
}

// schemaFrom decodes the schema field, which may be a version string or an
// object with major, minor and patch.
func schemaFrom(v any) (SchemaVersion, error) {
	if s, ok := v.(string); ok {
		return ParseSchemaVersion(s)
	}
	m, ok := asObject(v)
	if !ok {
		return SchemaVersion{}, malformed("schema", "expected a version string or object, got %T", v)
	}
	major, err := versionPart(m, "major", true)
	if err != nil {
		return SchemaVersion{}, err
	}
	minor, err := versionPart(m, "minor", false)
	if err != nil {
		return SchemaVersion{}, err
	}
	patch, err := versionPart(m, "patch", false)
	if err != nil {
		return SchemaVersion{}, err
	}
	return SchemaVersion{Major: major, Minor: minor, Patch: patch}, nil
}

func versionPart(m map[string]any, key string, required bool) (int, error) {
	if _, ok := m[key]; !ok && !required {
		return 0, nil
	}
	f, err := numberField(m, "schema", key)
	if err != nil {
		return 0, err
	}
	if f < 0 || f != float64(int(f)) {
		return 0, malformed(join("schema", key), "expected a non-negative integer, got %v", f)
	}
	return int(f), nil
}
