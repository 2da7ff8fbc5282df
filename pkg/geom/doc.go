// Package geom defines the 2D value types of the lvcad geometry kernel:
// points, vectors, segments, circles and fillet arcs, together with the
// explicit tolerance policy every comparison takes and the typed errors the
// kernel reports. All types are immutable values; edits produce new
// instances.
package geom
