// Package notation parses and formats the compact move encoding shared with
// callers: drafting moves (+Q), placement moves (Q@c1) and normal moves
// (c1c4, a11a12=Q, optional +/# suffix).
package notation

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/park285/shuuro-session/internal/piece"
)

// Coord is a geometry-independent zero-based square coordinate.
type Coord struct {
	File int
	Rank int
}

// String renders "a1" style names; ranks may have two digits.
func (c Coord) String() string {
	if c.File < 0 || c.File > 25 || c.Rank < 0 {
		return ""
	}
	return string(rune('a'+c.File)) + strconv.Itoa(c.Rank+1)
}

// ParseSquare parses "a1".."l12". Bounds against a concrete board are the
// caller's job.
func ParseSquare(s string) (Coord, bool) {
	c, n, ok := scanSquare(strings.TrimSpace(s))
	if !ok || n != len(strings.TrimSpace(s)) {
		return Coord{}, false
	}
	return c, true
}

// scanSquare reads one square from the front of s and reports how many bytes
// it consumed.
func scanSquare(s string) (Coord, int, bool) {
	if len(s) < 2 {
		return Coord{}, 0, false
	}
	f := s[0]
	if f < 'a' || f > 'z' {
		return Coord{}, 0, false
	}
	i := 1
	for i < len(s) && i < 3 && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 1 {
		return Coord{}, 0, false
	}
	rank, err := strconv.Atoi(s[1:i])
	if err != nil || rank < 1 {
		return Coord{}, 0, false
	}
	return Coord{File: int(f - 'a'), Rank: rank - 1}, i, true
}

// Kind distinguishes the three move shapes.
type Kind uint8

const (
	Buy Kind = iota + 1
	Put
	Normal
)

func (k Kind) String() string {
	switch k {
	case Buy:
		return "buy"
	case Put:
		return "put"
	case Normal:
		return "normal"
	default:
		return "invalid"
	}
}

// Move is one parsed move. Check/Mate are output annotations and are ignored
// when a move is applied.
type Move struct {
	Kind    Kind
	Piece   piece.Piece // Buy and Put
	From    Coord       // Normal
	To      Coord       // Put and Normal
	Promote piece.Type  // Normal, meaningful when HasPromote
	// HasPromote is set when a promotion letter was given.
	HasPromote bool
	Check      bool
	Mate       bool
}

// String returns the canonical form. Every canonical form re-parses to an
// equal Move.
func (m Move) String() string {
	var b strings.Builder
	switch m.Kind {
	case Buy:
		b.WriteByte('+')
		b.WriteRune(m.Piece.Char())
	case Put:
		b.WriteRune(m.Piece.Char())
		b.WriteByte('@')
		b.WriteString(m.To.String())
	case Normal:
		b.WriteString(m.From.String())
		b.WriteString(m.To.String())
		if m.HasPromote {
			b.WriteByte('=')
			b.WriteRune(unicode.ToUpper(m.Promote.Char()))
		}
	default:
		return ""
	}
	switch {
	case m.Mate:
		b.WriteByte('#')
	case m.Check:
		b.WriteByte('+')
	}
	return b.String()
}

// Parse reads any of the three shapes. It never panics; ok=false marks
// malformed input.
func Parse(raw string) (Move, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Move{}, false
	}
	if s[0] == '+' {
		return parseBuy(s[1:])
	}
	if i := strings.IndexByte(s, '@'); i >= 0 {
		return parsePut(s[:i], s[i+1:])
	}
	return parseNormal(s)
}

func parseBuy(rest string) (Move, bool) {
	p, ok := piece.ParseChar(rest)
	if !ok || p.Type == piece.Plinth {
		return Move{}, false
	}
	return Move{Kind: Buy, Piece: p}, true
}

func parsePut(letter, square string) (Move, bool) {
	p, ok := piece.ParseChar(letter)
	if !ok || p.Type == piece.Plinth {
		return Move{}, false
	}
	square, check, mate := stripMarkers(square)
	to, ok := ParseSquare(square)
	if !ok {
		return Move{}, false
	}
	return Move{Kind: Put, Piece: p, To: to, Check: check, Mate: mate}, true
}

func parseNormal(s string) (Move, bool) {
	s, check, mate := stripMarkers(s)
	from, n, ok := scanSquare(s)
	if !ok {
		return Move{}, false
	}
	s = s[n:]
	if len(s) > 0 && (s[0] == '_' || s[0] == '-') {
		s = s[1:]
	}
	to, n, ok := scanSquare(s)
	if !ok {
		return Move{}, false
	}
	s = strings.TrimPrefix(s[n:], "=")
	m := Move{Kind: Normal, From: from, To: to, Check: check, Mate: mate}
	switch len(s) {
	case 0:
	case 1:
		t, ok := piece.TypeFromChar(rune(s[0]))
		if !ok || t == piece.King || t == piece.Pawn || t == piece.Plinth {
			return Move{}, false
		}
		m.Promote = t
		m.HasPromote = true
	default:
		return Move{}, false
	}
	return m, true
}

func stripMarkers(s string) (string, bool, bool) {
	switch {
	case strings.HasSuffix(s, "#"):
		return strings.TrimSuffix(s, "#"), false, true
	case strings.HasSuffix(s, "+"):
		return strings.TrimSuffix(s, "+"), true, false
	default:
		return s, false, false
	}
}
