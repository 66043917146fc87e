package stretch

import (
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	werrors "github.com/matzehuels/stretchwarp/pkg/errors"
)

// Default weighting exponents.
const (
	DefaultExponent1 = 1.0
	DefaultExponent2 = 2.0
	DefaultExponent3 = 1.0
)

type cacheState uint8

const (
	stale cacheState = iota
	clean
)

// Engine is the anchor-driven deformation. The zero value is not usable;
// construct one with [New], [New2D] or [New3D].
type Engine[V, R any] struct {
	space   Space[V, R]
	anchors []*Anchor[V, R]

	mode WeightingMode
	exp1 float64
	exp2 float64
	exp3 float64

	state  cacheState
	logger *log.Logger
}

// Engine2D deforms the plane.
type Engine2D = Engine[r2.Vec, float64]

// Engine3D deforms space.
type Engine3D = Engine[r3.Vec, quat.Number]

// Option configures an engine at construction.
type Option func(*config)

type config struct {
	mode   WeightingMode
	exps   [3]float64
	logger *log.Logger
}

// WithWeightingMode sets the initial weighting mode (default [Simple]).
func WithWeightingMode(m WeightingMode) Option {
	return func(c *config) { c.mode = m }
}

// WithExponents sets the three weighting exponents.
func WithExponents(e1, e2, e3 float64) Option {
	return func(c *config) { c.exps = [3]float64{e1, e2, e3} }
}

// WithLogger sets the logger used for rebuild diagnostics. Rebuilds are
// logged at debug level.
func WithLogger(l *log.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// New returns an empty engine over the given space.
func New[V, R any](space Space[V, R], opts ...Option) *Engine[V, R] {
	cfg := config{
		mode: Simple,
		exps: [3]float64{DefaultExponent1, DefaultExponent2, DefaultExponent3},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.New(io.Discard)
	}
	return &Engine[V, R]{
		space:  space,
		mode:   cfg.mode,
		exp1:   cfg.exps[0],
		exp2:   cfg.exps[1],
		exp3:   cfg.exps[2],
		logger: cfg.logger,
	}
}

// New2D returns an empty engine for the plane.
func New2D(opts ...Option) *Engine2D {
	return New[r2.Vec, float64](Plane{}, opts...)
}

// New3D returns an empty engine for space.
func New3D(opts ...Option) *Engine3D {
	return New[r3.Vec, quat.Number](Volume{}, opts...)
}

// Space returns the engine's vector space.
func (e *Engine[V, R]) Space() Space[V, R] { return e.space }

// Stale reports whether the next evaluation will rebuild the cache.
func (e *Engine[V, R]) Stale() bool { return e.state == stale }

func (e *Engine[V, R]) invalidate() { e.state = stale }

func (e *Engine[V, R]) ensure() {
	if e.state == stale {
		e.rebuild()
	}
}

// =============================================================================
// Anchors
// =============================================================================

// AddAnchor adds an identity anchor whose origin and target are both p and
// returns its index.
func (e *Engine[V, R]) AddAnchor(p V) int {
	return e.AddAnchorPair(p, p)
}

// AddAnchorPair adds an anchor moving origin to target and returns its index.
func (e *Engine[V, R]) AddAnchorPair(origin, target V) int {
	e.anchors = append(e.anchors, &Anchor[V, R]{origin: origin, target: target})
	e.invalidate()
	return len(e.anchors) - 1
}

// AddAnchorCoords adds an anchor from raw coordinates: Dim values give an
// identity anchor, 2·Dim values give origin followed by target. Any other
// count is an INVALID_ARGUMENT error.
func (e *Engine[V, R]) AddAnchorCoords(coords ...float64) (int, error) {
	dim := e.space.Dim()
	switch len(coords) {
	case dim:
		if err := werrors.ValidateCoords(coords, dim); err != nil {
			return -1, err
		}
		return e.AddAnchor(e.space.Vec(coords)), nil
	case 2 * dim:
		if err := werrors.ValidateCoords(coords[:dim], dim); err != nil {
			return -1, err
		}
		if err := werrors.ValidateCoords(coords[dim:], dim); err != nil {
			return -1, err
		}
		return e.AddAnchorPair(e.space.Vec(coords[:dim]), e.space.Vec(coords[dim:])), nil
	}
	return -1, werrors.New(werrors.ErrCodeInvalidArgument,
		"anchor needs %d or %d coordinates, got %d", dim, 2*dim, len(coords))
}

// RemoveAnchor removes the anchor at index i. Later anchors shift down by one.
func (e *Engine[V, R]) RemoveAnchor(i int) error {
	if err := e.checkIndex(i); err != nil {
		return err
	}
	e.anchors = slices.Delete(e.anchors, i, i+1)
	e.invalidate()
	return nil
}

// RemoveAnchorRef removes the given anchor.
func (e *Engine[V, R]) RemoveAnchorRef(a *Anchor[V, R]) error {
	i := e.IndexOf(a)
	if i < 0 {
		return werrors.New(werrors.ErrCodeInvalidArgument, "anchor does not belong to this engine")
	}
	return e.RemoveAnchor(i)
}

// AnchorCount returns the number of anchors.
func (e *Engine[V, R]) AnchorCount() int { return len(e.anchors) }

// AnchorAt returns the anchor at index i.
func (e *Engine[V, R]) AnchorAt(i int) (*Anchor[V, R], error) {
	if err := e.checkIndex(i); err != nil {
		return nil, err
	}
	return e.anchors[i], nil
}

// Anchors returns the anchors in index order. The slice is a copy.
func (e *Engine[V, R]) Anchors() []*Anchor[V, R] {
	return slices.Clone(e.anchors)
}

// IndexOf returns the current index of a, or -1.
func (e *Engine[V, R]) IndexOf(a *Anchor[V, R]) int {
	return slices.Index(e.anchors, a)
}

// Origin returns the origin of anchor i.
func (e *Engine[V, R]) Origin(i int) (V, error) {
	if err := e.checkIndex(i); err != nil {
		var zero V
		return zero, err
	}
	return e.anchors[i].origin, nil
}

// SetOrigin moves the origin of anchor i.
func (e *Engine[V, R]) SetOrigin(i int, p V) error {
	if err := e.checkIndex(i); err != nil {
		return err
	}
	e.anchors[i].origin = p
	e.invalidate()
	return nil
}

// Target returns the target of anchor i.
func (e *Engine[V, R]) Target(i int) (V, error) {
	if err := e.checkIndex(i); err != nil {
		var zero V
		return zero, err
	}
	return e.anchors[i].target, nil
}

// SetTarget moves the target of anchor i.
func (e *Engine[V, R]) SetTarget(i int, p V) error {
	if err := e.checkIndex(i); err != nil {
		return err
	}
	e.anchors[i].target = p
	e.invalidate()
	return nil
}

func (e *Engine[V, R]) checkIndex(i int) error {
	if i < 0 || i >= len(e.anchors) {
		return werrors.New(werrors.ErrCodeIndexOutOfRange,
			"anchor index %d out of range [0, %d)", i, len(e.anchors))
	}
	return nil
}

// =============================================================================
// Lookup
// =============================================================================

// FindByOrigin returns the most recently added anchor whose origin lies
// within tol of p.
func (e *Engine[V, R]) FindByOrigin(p V, tol float64) (int, bool) {
	return e.find(p, tol, Origins)
}

// FindByTarget returns the most recently added anchor whose target lies
// within tol of p.
func (e *Engine[V, R]) FindByTarget(p V, tol float64) (int, bool) {
	return e.find(p, tol, Targets)
}

// FindByEither returns the most recently added anchor whose origin or target
// lies within tol of p.
func (e *Engine[V, R]) FindByEither(p V, tol float64) (int, bool) {
	for i := len(e.anchors) - 1; i >= 0; i-- {
		a := e.anchors[i]
		if e.within(p, a.origin, tol) || e.within(p, a.target, tol) {
			return i, true
		}
	}
	return -1, false
}

func (e *Engine[V, R]) find(p V, tol float64, set PointSet) (int, bool) {
	for i := len(e.anchors) - 1; i >= 0; i-- {
		if e.within(p, e.anchors[i].position(set), tol) {
			return i, true
		}
	}
	return -1, false
}

func (e *Engine[V, R]) within(p, q V, tol float64) bool {
	return e.space.Norm(e.space.Sub(p, q)) <= tol
}

// =============================================================================
// Parameters
// =============================================================================

// SetWeightingMode switches between [Simple] and [Directional] evaluation.
func (e *Engine[V, R]) SetWeightingMode(m WeightingMode) {
	e.mode = m
	e.invalidate()
}

// WeightingMode returns the current weighting mode.
func (e *Engine[V, R]) WeightingMode() WeightingMode { return e.mode }

// IsSimple reports whether the engine is in [Simple] mode.
func (e *Engine[V, R]) IsSimple() bool { return e.mode == Simple }

// IsDirectional reports whether the engine is in [Directional] mode.
func (e *Engine[V, R]) IsDirectional() bool { return e.mode == Directional }

// SetExponent1 sets the exponent for peer influence on local transforms.
func (e *Engine[V, R]) SetExponent1(v float64) {
	e.exp1 = v
	e.invalidate()
}

// SetExponent2 sets the exponent for anchor influence on evaluated points.
func (e *Engine[V, R]) SetExponent2(v float64) {
	e.exp2 = v
	e.invalidate()
}

// SetExponent3 sets the direction-alignment exponent.
func (e *Engine[V, R]) SetExponent3(v float64) {
	e.exp3 = v
	e.invalidate()
}

// Exponent1 returns the exponent for peer influence on local transforms.
func (e *Engine[V, R]) Exponent1() float64 { return e.exp1 }

// Exponent2 returns the exponent for anchor influence on evaluated points.
func (e *Engine[V, R]) Exponent2() float64 { return e.exp2 }

// Exponent3 returns the direction-alignment exponent.
func (e *Engine[V, R]) Exponent3() float64 { return e.exp3 }
