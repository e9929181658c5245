package engine

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/park285/shuuro-session/internal/gameerr"
	"github.com/park285/shuuro-session/internal/piece"
	"github.com/park285/shuuro-session/internal/variant"
)

// Outcome is the fight result as far as the engine can tell.
type Outcome uint8

const (
	Ongoing Outcome = iota
	WhiteWins
	BlackWins
	Stalemate
)

func (o Outcome) String() string {
	switch o {
	case WhiteWins:
		return "white_wins"
	case BlackWins:
		return "black_wins"
	case Stalemate:
		return "stalemate"
	default:
		return "ongoing"
	}
}

type cell struct {
	piece    piece.Piece
	occupied bool
	plinth   bool
}

// Position is the full state of one board of geometry G.
type Position[G Geometry] struct {
	variant variant.Variant
	cells   []cell
	// sets[White], sets[Black] hold piece squares; sets[NoColor] holds plinths.
	sets    [3]Set[G]
	hand    [2][piece.NumTypes]int
	side    piece.Color
	ply     int
	outcome Outcome
}

// New returns an empty board with White to move.
func New[G Geometry](v variant.Variant) *Position[G] {
	p := &Position[G]{variant: v, side: piece.White}
	p.reset()
	return p
}

func (p *Position[G]) reset() {
	p.cells = make([]cell, NumSquares[G]())
	for i := range p.sets {
		p.sets[i] = NewSet[G]()
	}
	p.hand = [2][piece.NumTypes]int{}
	p.side = piece.White
	p.ply = 0
	p.outcome = Ongoing
}

func (p *Position[G]) Variant() variant.Variant { return p.variant }
func (p *Position[G]) SideToMove() piece.Color { return p.side }
func (p *Position[G]) Ply() int { return p.ply }
func (p *Position[G]) Outcome() Outcome { return p.outcome }

// PieceAt returns the player piece on sq. Plinths are reported by IsPlinth.
func (p *Position[G]) PieceAt(sq Square[G]) (piece.Piece, bool) {
	c := p.cells[sq]
	return c.piece, c.occupied
}

// IsPlinth reports whether sq carries an obstacle.
func (p *Position[G]) IsPlinth(sq Square[G]) bool { return p.cells[sq].plinth }

// PlayerSquares lists the squares holding c's pieces; NoColor lists plinths.
func (p *Position[G]) PlayerSquares(c piece.Color) []Square[G] {
	if int(c) >= len(p.sets) {
		return nil
	}
	return p.sets[c].Squares()
}

// Count is the number of c's pieces on the board (plinths for NoColor).
func (p *Position[G]) Count(c piece.Color) int {
	if int(c) >= len(p.sets) {
		return 0
	}
	return p.sets[c].Count()
}

// Hand returns how many of pc are waiting to be placed.
func (p *Position[G]) Hand(pc piece.Piece) int {
	if !pc.Color.IsPlayer() || int(pc.Type) >= piece.NumTypes {
		return 0
	}
	return p.hand[pc.Color][pc.Type]
}

// HandSize sums c's hand.
func (p *Position[G]) HandSize(c piece.Color) int {
	if !c.IsPlayer() {
		return 0
	}
	n := 0
	for _, v := range p.hand[c] {
		n += v
	}
	return n
}

// HandsEmpty reports whether both hands are exhausted.
func (p *Position[G]) HandsEmpty() bool {
	return p.HandSize(piece.White) == 0 && p.HandSize(piece.Black) == 0
}

// HandLetters lists c's hand as repeated piece letters in type order.
func (p *Position[G]) HandLetters(c piece.Color) string {
	if !c.IsPlayer() {
		return ""
	}
	var b strings.Builder
	for _, t := range piece.Types {
		pc := piece.Piece{Type: t, Color: c}
		for i := 0; i < p.hand[c][t]; i++ {
			b.WriteRune(pc.Char())
		}
	}
	return b.String()
}

// SetHand replaces both hands from a hand string ("-", "KQ2R3p", "kqrbPP").
func (p *Position[G]) SetHand(s string) error {
	h, err := parseHand(s)
	if err != nil {
		return err
	}
	p.hand = h
	return nil
}

func (p *Position[G]) putPiece(sq Square[G], pc piece.Piece) {
	c := &p.cells[sq]
	c.piece = pc
	c.occupied = true
	p.sets[pc.Color].Add(sq)
}

func (p *Position[G]) removePiece(sq Square[G]) {
	c := &p.cells[sq]
	if !c.occupied {
		return
	}
	p.sets[c.piece.Color].Remove(sq)
	c.piece = piece.Piece{}
	c.occupied = false
}

func (p *Position[G]) putPlinth(sq Square[G]) {
	p.cells[sq].plinth = true
	p.sets[piece.NoColor].Add(sq)
}

// SFEN encodes the position as "<board> <side> <hands> <ply>". Rows run from
// rank 1 upward; empty runs above nine are written as 5 plus the rest; a
// plinth is L followed by 0 or by the piece standing on it.
func (p *Position[G]) SFEN() string {
	geo := classOf[G]()
	var b strings.Builder
	for r := 0; r < geo.Ranks(); r++ {
		if r > 0 {
			b.WriteByte('/')
		}
		empty := 0
		for f := 0; f < geo.Files(); f++ {
			sq, _ := NewSquare[G](f, r)
			c := p.cells[sq]
			if !c.plinth && !c.occupied {
				empty++
				continue
			}
			writeEmptyRun(&b, empty)
			empty = 0
			if c.plinth {
				b.WriteByte('L')
				if c.occupied {
					b.WriteRune(c.piece.Char())
				} else {
					b.WriteByte('0')
				}
				continue
			}
			b.WriteRune(c.piece.Char())
		}
		writeEmptyRun(&b, empty)
	}
	b.WriteByte(' ')
	b.WriteString(p.side.String())
	b.WriteByte(' ')
	b.WriteString(formatHand(p.hand))
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(p.ply))
	return b.String()
}

func writeEmptyRun(b *strings.Builder, n int) {
	for n > 9 {
		b.WriteByte('5')
		n -= 5
	}
	if n > 0 {
		b.WriteByte(byte('0' + n))
	}
}

func formatHand(h [2][piece.NumTypes]int) string {
	var b strings.Builder
	for _, c := range piece.Colors {
		for _, t := range piece.Types {
			n := h[c][t]
			if n == 0 {
				continue
			}
			if n > 1 {
				b.WriteString(strconv.Itoa(n))
			}
			b.WriteRune(piece.Piece{Type: t, Color: c}.Char())
		}
	}
	if b.Len() == 0 {
		return "-"
	}
	return b.String()
}

func parseHand(s string) ([2][piece.NumTypes]int, error) {
	var h [2][piece.NumTypes]int
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return h, nil
	}
	count := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			count = count*10 + int(r-'0')
			continue
		}
		pc, ok := piece.FromChar(r)
		if !ok || pc.Type == piece.Plinth {
			return h, fmt.Errorf("hand %q: %w", s, gameerr.ErrMalformedHand)
		}
		if count == 0 {
			count = 1
		}
		h[pc.Color][pc.Type] += count
		count = 0
	}
	if count != 0 {
		return h, fmt.Errorf("hand %q: trailing count: %w", s, gameerr.ErrMalformedHand)
	}
	return h, nil
}

// SetSFEN replaces the whole position. On error the position is unchanged.
func (p *Position[G]) SetSFEN(s string) error {
	fields := strings.Fields(s)
	if len(fields) < 3 || len(fields) > 4 {
		return fmt.Errorf("sfen %q: want 3 or 4 fields: %w", s, gameerr.ErrMalformedPosition)
	}
	next := New[G](p.variant)
	if err := next.parseBoard(fields[0]); err != nil {
		return fmt.Errorf("sfen %q: %w", s, err)
	}
	switch fields[1] {
	case "w":
		next.side = piece.White
	case "b":
		next.side = piece.Black
	default:
		return fmt.Errorf("sfen %q: side %q: %w", s, fields[1], gameerr.ErrMalformedPosition)
	}
	h, err := parseHand(fields[2])
	if err != nil {
		return err
	}
	next.hand = h
	if len(fields) == 4 {
		n, err := strconv.Atoi(fields[3])
		if err != nil || n < 0 {
			return fmt.Errorf("sfen %q: ply %q: %w", s, fields[3], gameerr.ErrMalformedPosition)
		}
		next.ply = n
	}
	if next.HandsEmpty() {
		next.evaluate()
	}
	*p = *next
	return nil
}

func (p *Position[G]) parseBoard(board string) error {
	geo := classOf[G]()
	rows := strings.Split(board, "/")
	if len(rows) != geo.Ranks() {
		return fmt.Errorf("want %d rows, got %d: %w", geo.Ranks(), len(rows), gameerr.ErrMalformedPosition)
	}
	for r, row := range rows {
		f := 0
		runes := []rune(row)
		for i := 0; i < len(runes); i++ {
			ch := runes[i]
			if ch >= '0' && ch <= '9' {
				f += int(ch - '0')
				continue
			}
			sq, ok := NewSquare[G](f, r)
			if !ok {
				return fmt.Errorf("row %d overflows: %w", r+1, gameerr.ErrMalformedPosition)
			}
			if ch == 'L' || ch == 'l' {
				p.putPlinth(sq)
				if i+1 < len(runes) {
					switch nx := runes[i+1]; {
					case nx == '0':
						i++
					case !unicode.IsDigit(nx) && nx != 'L' && nx != 'l':
						pc, ok := piece.FromChar(nx)
						if !ok {
							return fmt.Errorf("row %d: %q: %w", r+1, nx, gameerr.ErrMalformedPosition)
						}
						p.putPiece(sq, pc)
						i++
					}
				}
				f++
				continue
			}
			pc, ok := piece.FromChar(ch)
			if !ok {
				return fmt.Errorf("row %d: %q: %w", r+1, ch, gameerr.ErrMalformedPosition)
			}
			p.putPiece(sq, pc)
			f++
		}
		if f != geo.Files() {
			return fmt.Errorf("row %d has %d files, want %d: %w", r+1, f, geo.Files(), gameerr.ErrMalformedPosition)
		}
	}
	return nil
}
