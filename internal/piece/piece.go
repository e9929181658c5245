// Package piece defines colors, piece types and their letters.
package piece

import (
	"strings"
	"unicode"
)

// Color identifies a side. NoColor tags unowned board decorations (plinths).
type Color uint8

const (
	White Color = iota
	Black
	NoColor
)

// Colors lists the two playing sides.
var Colors = [2]Color{White, Black}

func (c Color) String() string {
	switch c {
	case White:
		return "w"
	case Black:
		return "b"
	default:
		return "-"
	}
}

// Name returns the long form used in caller-facing maps.
func (c Color) Name() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	default:
		return "none"
	}
}

// Flip returns the opposing side. NoColor stays NoColor.
func (c Color) Flip() Color {
	switch c {
	case White:
		return Black
	case Black:
		return White
	default:
		return NoColor
	}
}

// IsPlayer reports whether c is White or Black.
func (c Color) IsPlayer() bool { return c == White || c == Black }

// ParseColor accepts "w", "b", "white", "black" (any case).
func ParseColor(s string) (Color, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "w", "white":
		return White, true
	case "b", "black":
		return Black, true
	default:
		return NoColor, false
	}
}

// Type is the closed set of piece kinds. The numeric order is the caller-agreed
// shop ordering: K Q R B N P C A G, with Plinth last.
type Type uint8

const (
	King Type = iota
	Queen
	Rook
	Bishop
	Knight
	Pawn
	Chancellor
	ArchBishop
	Giraffe
	Plinth
)

// NumTypes counts every kind including Plinth.
const NumTypes = 10

// NumShopTypes counts the kinds reported in shop vectors (everything but Plinth).
const NumShopTypes = 9

// Types lists all kinds in order.
var Types = [NumTypes]Type{King, Queen, Rook, Bishop, Knight, Pawn, Chancellor, ArchBishop, Giraffe, Plinth}

var typeChars = [NumTypes]rune{'k', 'q', 'r', 'b', 'n', 'p', 'c', 'a', 'g', 'l'}

// Char returns the lowercase letter for t.
func (t Type) Char() rune {
	if int(t) >= NumTypes {
		return '?'
	}
	return typeChars[t]
}

func (t Type) String() string {
	switch t {
	case King:
		return "king"
	case Queen:
		return "queen"
	case Rook:
		return "rook"
	case Bishop:
		return "bishop"
	case Knight:
		return "knight"
	case Pawn:
		return "pawn"
	case Chancellor:
		return "chancellor"
	case ArchBishop:
		return "archbishop"
	case Giraffe:
		return "giraffe"
	case Plinth:
		return "plinth"
	default:
		return "unknown"
	}
}

// TypeFromChar maps a letter (any case) to a piece kind.
func TypeFromChar(r rune) (Type, bool) {
	lr := unicode.ToLower(r)
	for i, c := range typeChars {
		if c == lr {
			return Type(i), true
		}
	}
	return 0, false
}

// Piece is a kind owned by a color.
type Piece struct {
	Type  Type
	Color Color
}

// PlinthPiece is the only valid plinth value.
var PlinthPiece = Piece{Type: Plinth, Color: NoColor}

// Valid enforces the plinth ownership invariant: plinths are NoColor and
// everything else belongs to a player.
func (p Piece) Valid() bool {
	if p.Type == Plinth {
		return p.Color == NoColor
	}
	return int(p.Type) < NumTypes && p.Color.IsPlayer()
}

// Char returns the notation letter: uppercase for White, lowercase for Black,
// 'L' for a plinth.
func (p Piece) Char() rune {
	if p.Type == Plinth {
		return 'L'
	}
	c := p.Type.Char()
	if p.Color == White {
		return unicode.ToUpper(c)
	}
	return c
}

func (p Piece) String() string { return string(p.Char()) }

// Role is the caller-facing role name, e.g. "q-piece" or "l-piece".
func (p Piece) Role() string {
	return string(p.Type.Char()) + "-piece"
}

// FromChar parses a notation letter. Letter case carries the color; 'L'/'l'
// yields the plinth.
func FromChar(r rune) (Piece, bool) {
	t, ok := TypeFromChar(r)
	if !ok {
		return Piece{}, false
	}
	if t == Plinth {
		return PlinthPiece, true
	}
	if unicode.IsUpper(r) {
		return Piece{Type: t, Color: White}, true
	}
	return Piece{Type: t, Color: Black}, true
}

// ParseChar parses a single-letter string.
func ParseChar(s string) (Piece, bool) {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) != 1 {
		return Piece{}, false
	}
	return FromChar(r[0])
}
