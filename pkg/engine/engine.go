// Package engine evaluates headless geometry scripts. It wraps zygomys in a
// sandboxed environment, exposes the kernel operations as builtins, and
// collects emitted shapes into a dto.Document.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/lvcad/pkg/dto"
	"github.com/chazu/lvcad/pkg/geom"
	"github.com/chazu/lvcad/pkg/units"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error, a runtime error in user code, or a kernel
// operation that refused its input. Kind is the kernel error kind
// ("no_intersection", ...) when a builtin failed, and empty otherwise.
type EvalError struct {
	Line    int
	Col     int
	Message string
	Kind    string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine wraps the zygomys interpreter.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64

	timeout time.Duration
	tol     geom.Tolerance
	format  units.FormatOptions
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout replaces EvalTimeout. Non-positive durations are ignored.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithTolerance sets the tolerance passed to every kernel call.
func WithTolerance(tol geom.Tolerance) Option {
	return func(e *Engine) { e.tol = tol }
}

// WithFormat sets the default options of fmt-len.
func WithFormat(opts units.FormatOptions) Option {
	return func(e *Engine) { e.format = opts }
}

// NewEngine creates a new Engine instance.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		timeout: EvalTimeout,
		tol:     geom.DefaultTolerance,
		format:  units.DefaultFormat,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Evaluate runs a script and returns the document of shapes it emitted.
// Each call creates a fresh zygomys sandbox for deterministic evaluation.
//
// Return semantics:
//   - On success: returns document + nil errors + nil error
//   - On parse/eval failure: returns nil document + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*dto.Document, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		doc, evalErrs, err := e.evaluate(source)
		ch <- evalResult{doc: doc, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, e.timeout, &e.mu, &e.generation)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*dto.Document, []EvalError, error) {
	doc := dto.NewDocument(dto.DefaultUnits)

	// Empty source is a valid program that emits nothing.
	if strings.TrimSpace(source) == "" {
		return doc, nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	s := &session{doc: doc, tol: e.tol, format: e.format}
	registerBuiltins(env, s)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, s.annotate(parseZygomysError(err)), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, s.annotate(parseZygomysError(err)), nil
	}
	return doc, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	// zygomys formats parse errors as "Error on line N: <details>\n"
	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{
				Line:    line,
				Message: strings.TrimSpace(m[2]),
			}}
		}
	}

	// Fallback: no line info available.
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
