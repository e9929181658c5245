// Package engine is the rules engine behind a board session: board contents,
// hands, placement rules, legal-move generation and check detection for the
// three board geometries. Each geometry is a zero-size type parameter, so
// squares of different board sizes are distinct, non-interchangeable types.
package engine

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/park285/shuuro-session/internal/notation"
	"github.com/park285/shuuro-session/internal/variant"
)

// Geometry is implemented by the three board-size marker types.
type Geometry interface {
	Class() variant.Geometry
}

// Small is the 6x6 board.
type Small struct{}

// Medium is the 8x8 board.
type Medium struct{}

// Large is the 12x12 board.
type Large struct{}

func (Small) Class() variant.Geometry { return variant.Small }
func (Medium) Class() variant.Geometry { return variant.Medium }
func (Large) Class() variant.Geometry { return variant.Large }

func classOf[G Geometry]() variant.Geometry {
	var g G
	return g.Class()
}

// NumSquares is files*ranks for G.
func NumSquares[G Geometry]() int {
	c := classOf[G]()
	return c.Files() * c.Ranks()
}

// Square is a board square of geometry G, numbered rank-major from a1.
type Square[G Geometry] uint8

// NewSquare returns the square at zero-based file/rank when it is on the board.
func NewSquare[G Geometry](file, rank int) (Square[G], bool) {
	c := classOf[G]()
	if file < 0 || rank < 0 || file >= c.Files() || rank >= c.Ranks() {
		return 0, false
	}
	return Square[G](rank*c.Files() + file), true
}

// SquareAt converts a geometry-independent coordinate.
func SquareAt[G Geometry](c notation.Coord) (Square[G], bool) {
	return NewSquare[G](c.File, c.Rank)
}

// ParseSquare parses "a1" style names and checks bounds for G.
func ParseSquare[G Geometry](s string) (Square[G], bool) {
	c, ok := notation.ParseSquare(s)
	if !ok {
		return 0, false
	}
	return SquareAt[G](c)
}

// AllSquares enumerates the board in square order.
func AllSquares[G Geometry]() []Square[G] {
	n := NumSquares[G]()
	out := make([]Square[G], n)
	for i := range out {
		out[i] = Square[G](i)
	}
	return out
}

func (s Square[G]) File() int { return int(s) % classOf[G]().Files() }
func (s Square[G]) Rank() int { return int(s) / classOf[G]().Files() }

// Coord returns the geometry-independent coordinate.
func (s Square[G]) Coord() notation.Coord {
	return notation.Coord{File: s.File(), Rank: s.Rank()}
}

func (s Square[G]) String() string { return s.Coord().String() }

// offset moves by df/dr and reports whether the result is on the board.
func (s Square[G]) offset(df, dr int) (Square[G], bool) {
	return NewSquare[G](s.File()+df, s.Rank()+dr)
}

// Set is a square set sized for geometry G.
type Set[G Geometry] struct {
	bits *bitset.BitSet
}

// NewSet returns an empty set.
func NewSet[G Geometry]() Set[G] {
	return Set[G]{bits: bitset.New(uint(NumSquares[G]()))}
}

func (s Set[G]) Add(sq Square[G]) { s.bits.Set(uint(sq)) }
func (s Set[G]) Remove(sq Square[G]) { s.bits.Clear(uint(sq)) }
func (s Set[G]) Has(sq Square[G]) bool { return s.bits.Test(uint(sq)) }
func (s Set[G]) Count() int { return int(s.bits.Count()) }

// Squares lists members in ascending order.
func (s Set[G]) Squares() []Square[G] {
	out := make([]Square[G], 0, s.Count())
	for i, ok := s.bits.NextSet(0); ok; i, ok = s.bits.NextSet(i + 1) {
		out = append(out, Square[G](i))
	}
	return out
}
