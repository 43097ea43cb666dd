// Package placement keeps the objects a user has placed on land cells
// and persists them between sessions.
package placement

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/1siamBot/isogrid/engine/viewport"
)

var (
	// ErrWaterCell is returned when placing onto a water cell.
	ErrWaterCell = errors.New("placement: cannot place on water")
	// ErrOccupied is returned when the cell already holds an object.
	ErrOccupied = errors.New("placement: cell already occupied")
	// ErrBoardNotFound is returned by stores for unknown board names.
	ErrBoardNotFound = errors.New("placement: board not found")
)

// DefaultKind is used when an object is placed without a kind.
const DefaultKind = "house"

// Object is one placed object.
type Object struct {
	X        int       `json:"x"`
	Y        int       `json:"y"`
	Kind     string    `json:"kind"`
	PlacedAt time.Time `json:"placed_at"`
}

type key struct{ x, y int }

// Board holds placed objects keyed by grid coordinate.
// It is safe for concurrent use.
type Board struct {
	Now func() time.Time

	mu      sync.RWMutex
	objects map[key]Object
}

// NewBoard creates an empty board.
func NewBoard() *Board {
	return &Board{
		Now:     time.Now,
		objects: make(map[key]Object),
	}
}

// Place puts an object on a land cell.
func (b *Board) Place(cell viewport.GridCell, kind string) (Object, error) {
	if cell.Terrain == viewport.TerrainWater {
		return Object{}, fmt.Errorf("%w at (%d, %d)", ErrWaterCell, cell.X, cell.Y)
	}
	if kind == "" {
		kind = DefaultKind
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	k := key{cell.X, cell.Y}
	if _, ok := b.objects[k]; ok {
		return Object{}, fmt.Errorf("%w at (%d, %d)", ErrOccupied, cell.X, cell.Y)
	}
	obj := Object{X: cell.X, Y: cell.Y, Kind: kind, PlacedAt: b.Now().UTC()}
	b.objects[k] = obj
	return obj, nil
}

// Remove deletes the object at (x, y) and reports whether one was there.
func (b *Board) Remove(x, y int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	k := key{x, y}
	if _, ok := b.objects[k]; !ok {
		return false
	}
	delete(b.objects, k)
	return true
}

// At returns the object at (x, y).
func (b *Board) At(x, y int) (Object, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	obj, ok := b.objects[key{x, y}]
	return obj, ok
}

// Len returns the number of placed objects.
func (b *Board) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.objects)
}

// Objects returns all objects in back-to-front draw order.
func (b *Board) Objects() []Object {
	b.mu.RLock()
	out := make([]Object, 0, len(b.objects))
	for _, obj := range b.objects {
		out = append(out, obj)
	}
	b.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		di, dj := out[i].X+out[i].Y, out[j].X+out[j].Y
		if di != dj {
			return di < dj
		}
		return out[i].Y < out[j].Y
	})
	return out
}

// Within returns the objects inside a window, in draw order.
func (b *Board) Within(w viewport.Window) []Object {
	var out []Object
	for _, obj := range b.Objects() {
		if w.Contains(obj.X, obj.Y) {
			out = append(out, obj)
		}
	}
	return out
}

// Reset replaces the board content. Later duplicates of a cell win.
func (b *Board) Reset(objects []Object) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects = make(map[key]Object, len(objects))
	for _, obj := range objects {
		b.objects[key{obj.X, obj.Y}] = obj
	}
}
