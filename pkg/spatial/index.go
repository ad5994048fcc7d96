package spatial

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodecanvas/pkg/errors"
	"github.com/matzehuels/nodecanvas/pkg/observability"
)

const (
	// DefaultGridSize is the default cell side in world units. It keeps the
	// average number of elements per cell low for typical node sizes.
	DefaultGridSize = 500.0

	// DefaultMaxCellsPerElement caps how many cells a single element may
	// occupy. Larger elements are rejected as invalid geometry.
	DefaultMaxCellsPerElement = 1 << 20
)

// Index is a uniform-grid spatial hash over element bounding rects.
//
// The zero value is not usable - use New to create an Index.
// Index is not safe for concurrent use without external synchronization.
type Index struct {
	gridSize float64
	maxCells int

	cells    map[Cell]map[string]struct{} // cell -> member IDs
	elements map[string]*entry            // ID -> cached element + cell range

	logger *log.Logger
	hooks  observability.IndexHooks
}

type entry struct {
	elem  Element
	cells cellRange
}

// Option configures an Index.
type Option func(*Index)

// WithLogger sets the logger used to report rejected updates at debug level.
func WithLogger(l *log.Logger) Option {
	return func(ix *Index) {
		if l != nil {
			ix.logger = l
		}
	}
}

// WithMaxCellsPerElement overrides [DefaultMaxCellsPerElement].
// Non-positive values are ignored.
func WithMaxCellsPerElement(n int) Option {
	return func(ix *Index) {
		if n > 0 {
			ix.maxCells = n
		}
	}
}

// WithHooks overrides the hooks captured from [observability.Index].
func WithHooks(h observability.IndexHooks) Option {
	return func(ix *Index) {
		if h != nil {
			ix.hooks = h
		}
	}
}

// New creates an empty index with square cells of side gridSize.
// Returns an INVALID_CONFIG error if gridSize is not a finite positive number.
func New(gridSize float64, opts ...Option) (*Index, error) {
	if err := errors.ValidateGridSize(gridSize); err != nil {
		return nil, err
	}
	ix := &Index{
		gridSize: gridSize,
		maxCells: DefaultMaxCellsPerElement,
		cells:    make(map[Cell]map[string]struct{}),
		elements: make(map[string]*entry),
		logger:   log.New(io.Discard),
		hooks:    observability.Index(),
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix, nil
}

// GridSize returns the cell side in world units.
func (ix *Index) GridSize() float64 { return ix.gridSize }

// Len returns the number of registered elements.
func (ix *Index) Len() int { return len(ix.elements) }

// CellCount returns the number of occupied cells.
func (ix *Index) CellCount() int { return len(ix.cells) }

// Get returns the element registered under id, with the bounds it was last
// updated with.
func (ix *Index) Get(id string) (Element, bool) {
	e, ok := ix.elements[id]
	if !ok {
		return Element{}, false
	}
	return e.elem, true
}

// Update inserts e or, if its ID is already registered, replaces the stored
// kind and bounds and moves it to the cells its new bounds span. Only cells
// that enter or leave the element's span are touched.
//
// Returns an INVALID_INPUT error for an unknown kind, an INVALID_ID error
// for an unusable ID and an INVALID_GEOMETRY
// error for bounds that are non-finite, have negative size, or span more than
// the configured cell limit. A rejected update leaves the previous state of e
// and of every other element unchanged.
func (ix *Index) Update(e Element) error {
	s, err := ix.check(e)
	if err != nil {
		ix.logger.Debug("rejected element update", "id", e.ID, "kind", e.Kind, "bounds", e.Bounds, "err", err)
		ix.hooks.OnUpdate(e.Kind.String(), 0, err)
		return err
	}
	next := s.toRange()

	cur, ok := ix.elements[e.ID]
	if !ok {
		next.each(func(c Cell) { ix.addToCell(c, e.ID) })
		ix.elements[e.ID] = &entry{elem: e, cells: next}
		ix.hooks.OnUpdate(e.Kind.String(), next.count(), nil)
		return nil
	}

	prev := cur.cells
	cur.elem = e
	if prev == next {
		ix.hooks.OnUpdate(e.Kind.String(), 0, nil)
		return nil
	}

	changed := 0
	prev.each(func(c Cell) {
		if !next.contains(c) {
			ix.removeFromCell(c, e.ID)
			changed++
		}
	})
	next.each(func(c Cell) {
		if !prev.contains(c) {
			ix.addToCell(c, e.ID)
			changed++
		}
	})
	cur.cells = next
	ix.hooks.OnUpdate(e.Kind.String(), changed, nil)
	return nil
}

func (ix *Index) check(e Element) (span, error) {
	if !e.Kind.Valid() {
		return span{}, errors.New(errors.ErrCodeInvalidInput, "element %q has unknown kind %d", e.ID, uint8(e.Kind))
	}
	if err := errors.ValidateID(e.Kind.String(), e.ID); err != nil {
		return span{}, err
	}
	b := e.Bounds
	if !b.IsFinite() {
		return span{}, errors.New(errors.ErrCodeInvalidGeometry, "%s %s has non-finite bounds %s", e.Kind, e.ID, b)
	}
	if b.Width < 0 || b.Height < 0 {
		return span{}, errors.New(errors.ErrCodeInvalidGeometry, "%s %s has negative size %s", e.Kind, e.ID, b)
	}
	s := spanOf(b, ix.gridSize)
	if !s.bounded() {
		return span{}, errors.New(errors.ErrCodeInvalidGeometry, "%s %s lies outside the addressable grid", e.Kind, e.ID)
	}
	if n := s.cells(); n > float64(ix.maxCells) {
		return span{}, errors.New(errors.ErrCodeInvalidGeometry, "%s %s spans %.0f cells (max %d)", e.Kind, e.ID, n, ix.maxCells)
	}
	return s, nil
}

// Remove unregisters id from every cell it occupies. It reports whether the
// ID was known; removing an unknown ID is a no-op.
func (ix *Index) Remove(id string) bool {
	e, ok := ix.elements[id]
	if !ok {
		ix.hooks.OnRemove(false)
		return false
	}
	e.cells.each(func(c Cell) { ix.removeFromCell(c, id) })
	delete(ix.elements, id)
	ix.hooks.OnRemove(true)
	return true
}

// Clear removes every element.
func (ix *Index) Clear() {
	ix.cells = make(map[Cell]map[string]struct{})
	ix.elements = make(map[string]*entry)
}

func (ix *Index) addToCell(c Cell, id string) {
	members, ok := ix.cells[c]
	if !ok {
		members = make(map[string]struct{})
		ix.cells[c] = members
	}
	members[id] = struct{}{}
}

func (ix *Index) removeFromCell(c Cell, id string) {
	members, ok := ix.cells[c]
	if !ok {
		return
	}
	delete(members, id)
	if len(members) == 0 {
		delete(ix.cells, c)
	}
}
