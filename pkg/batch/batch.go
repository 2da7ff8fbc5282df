// Package batch runs many intersection queries concurrently. Each query is
// a pure kernel call, so pairs are independent and results come back in
// input order regardless of scheduling.
package batch

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/chazu/lvcad/pkg/dto"
	"github.com/chazu/lvcad/pkg/geom"
	"github.com/chazu/lvcad/pkg/intersect"
)

// Pair is one intersection query.
type Pair struct {
	A, B geom.Curve
	Name string // label for reporting, e.g. "base x wall"
}

// Outcome is the result of one pair. Err holds kernel errors such as a
// degenerate operand; they do not stop the rest of the batch.
type Outcome struct {
	Name   string
	Result intersect.Result
	Err    error
}

// IntersectAll answers every pair with at most workers goroutines; zero or
// less uses GOMAXPROCS. outcomes[i] always belongs to pairs[i]. The only
// error returned is the context's, when it is cancelled before the batch
// finishes.
func IntersectAll(ctx context.Context, pairs []Pair, tol geom.Tolerance, workers int) ([]Outcome, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	out := make([]Outcome, len(pairs))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, p := range pairs {
		if egCtx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			res, err := intersect.Curves(p.A, p.B, tol)
			out[i] = Outcome{Name: p.Name, Result: res, Err: err}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Pairs builds every unordered pair of curve shapes, in document order.
// Points and arcs are skipped.
func Pairs(shapes []dto.Shape) []Pair {
	type named struct {
		name  string
		curve geom.Curve
	}
	var curves []named
	for i, s := range shapes {
		c, ok := s.Curve()
		if !ok {
			continue
		}
		name := s.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		}
		curves = append(curves, named{name: name, curve: c})
	}

	var pairs []Pair
	for i := 0; i < len(curves); i++ {
		for j := i + 1; j < len(curves); j++ {
			pairs = append(pairs, Pair{
				A:    curves[i].curve,
				B:    curves[j].curve,
				Name: curves[i].name + " x " + curves[j].name,
			})
		}
	}
	return pairs
}
