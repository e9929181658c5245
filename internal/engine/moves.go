package engine

import (
	"fmt"

	"github.com/park285/shuuro-session/internal/gameerr"
	"github.com/park285/shuuro-session/internal/notation"
	"github.com/park285/shuuro-session/internal/piece"
)

type step struct{ df, dr int }

var (
	orthSteps = []step{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	diagSteps = []step{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	kingSteps = append(append([]step(nil), orthSteps...), diagSteps...)

	knightJumps = []step{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	// giraffe: (1,4) leaper
	giraffeJumps = []step{{1, 4}, {4, 1}, {4, -1}, {1, -4}, {-1, -4}, {-4, -1}, {-4, 1}, {-1, 4}}
)

// forward is the rank direction pawns of c advance in.
func forward(c piece.Color) int {
	if c == piece.Black {
		return -1
	}
	return 1
}

// landable reports whether pc may finish on sq. Only a knight stands on a
// plinth; own pieces always block.
func (p *Position[G]) landable(sq Square[G], pc piece.Piece) bool {
	c := p.cells[sq]
	if c.plinth && pc.Type != piece.Knight {
		return false
	}
	return !c.occupied || c.piece.Color != pc.Color
}

func (p *Position[G]) slide(from Square[G], pc piece.Piece, dirs []step, out []Square[G]) []Square[G] {
	for _, d := range dirs {
		sq := from
		for {
			next, ok := sq.offset(d.df, d.dr)
			if !ok {
				break
			}
			c := p.cells[next]
			if c.plinth {
				break
			}
			if c.occupied {
				if c.piece.Color != pc.Color {
					out = append(out, next)
				}
				break
			}
			out = append(out, next)
			sq = next
		}
	}
	return out
}

func (p *Position[G]) leap(from Square[G], pc piece.Piece, jumps []step, out []Square[G]) []Square[G] {
	for _, d := range jumps {
		next, ok := from.offset(d.df, d.dr)
		if ok && p.landable(next, pc) {
			out = append(out, next)
		}
	}
	return out
}

// pseudoTargets lists destinations ignoring own-king safety. Captures of the
// enemy king are included so attack detection can reuse it.
func (p *Position[G]) pseudoTargets(from Square[G], pc piece.Piece) []Square[G] {
	var out []Square[G]
	switch pc.Type {
	case piece.King:
		out = p.leap(from, pc, kingSteps, out)
	case piece.Queen:
		out = p.slide(from, pc, kingSteps, out)
	case piece.Rook:
		out = p.slide(from, pc, orthSteps, out)
	case piece.Bishop:
		out = p.slide(from, pc, diagSteps, out)
	case piece.Knight:
		out = p.leap(from, pc, knightJumps, out)
	case piece.Chancellor:
		out = p.slide(from, pc, orthSteps, out)
		out = p.leap(from, pc, knightJumps, out)
	case piece.ArchBishop:
		out = p.slide(from, pc, diagSteps, out)
		out = p.leap(from, pc, knightJumps, out)
	case piece.Giraffe:
		out = p.leap(from, pc, giraffeJumps, out)
	case piece.Pawn:
		dr := forward(pc.Color)
		if next, ok := from.offset(0, dr); ok {
			if c := p.cells[next]; !c.occupied && !c.plinth {
				out = append(out, next)
			}
		}
		for _, df := range [2]int{-1, 1} {
			next, ok := from.offset(df, dr)
			if !ok {
				continue
			}
			if c := p.cells[next]; c.occupied && !c.plinth && c.piece.Color != pc.Color {
				out = append(out, next)
			}
		}
	}
	return out
}

// kingSquare finds c's king.
func (p *Position[G]) kingSquare(c piece.Color) (Square[G], bool) {
	for _, sq := range p.sets[c].Squares() {
		if p.cells[sq].piece.Type == piece.King {
			return sq, true
		}
	}
	return 0, false
}

// attacked reports whether any piece of by can capture on target.
func (p *Position[G]) attacked(target Square[G], by piece.Color) bool {
	for _, sq := range p.sets[by].Squares() {
		for _, to := range p.pseudoTargets(sq, p.cells[sq].piece) {
			if to == target {
				return true
			}
		}
	}
	return false
}

// InCheck reports whether c's king is attacked. A side without a king is
// never in check.
func (p *Position[G]) InCheck(c piece.Color) bool {
	if !c.IsPlayer() {
		return false
	}
	k, ok := p.kingSquare(c)
	if !ok {
		return false
	}
	return p.attacked(k, c.Flip())
}

type undo[G Geometry] struct {
	from, to Square[G]
	moved    piece.Piece
	captured piece.Piece
	hadCapt  bool
}

func (p *Position[G]) apply(from, to Square[G], promote piece.Type, promoted bool) undo[G] {
	u := undo[G]{from: from, to: to, moved: p.cells[from].piece}
	if c := p.cells[to]; c.occupied {
		u.captured, u.hadCapt = c.piece, true
		p.removePiece(to)
	}
	p.removePiece(from)
	pc := u.moved
	if promoted {
		pc.Type = promote
	}
	p.putPiece(to, pc)
	return u
}

func (p *Position[G]) revert(u undo[G]) {
	p.removePiece(u.to)
	if u.hadCapt {
		p.putPiece(u.to, u.captured)
	}
	p.putPiece(u.from, u.moved)
}

func (p *Position[G]) isPromotion(to Square[G], pc piece.Piece) bool {
	if pc.Type != piece.Pawn {
		return false
	}
	if pc.Color == piece.White {
		return to.Rank() == classOf[G]().Ranks()-1
	}
	return to.Rank() == 0
}

// legalFrom filters pseudo-legal targets by own-king safety and drops king
// captures.
func (p *Position[G]) legalFrom(from Square[G]) []Square[G] {
	c := p.cells[from]
	if !c.occupied {
		return nil
	}
	pc := c.piece
	var out []Square[G]
	for _, to := range p.pseudoTargets(from, pc) {
		if t := p.cells[to]; t.occupied && t.piece.Type == piece.King {
			continue
		}
		u := p.apply(from, to, piece.Queen, p.isPromotion(to, pc))
		safe := !p.InCheck(pc.Color)
		p.revert(u)
		if safe {
			out = append(out, to)
		}
	}
	return out
}

// LegalMovesFrom returns destinations for the piece on from when it belongs
// to the side to move, otherwise nothing.
func (p *Position[G]) LegalMovesFrom(from Square[G]) []Square[G] {
	c := p.cells[from]
	if !c.occupied || c.piece.Color != p.side || p.outcome != Ongoing {
		return nil
	}
	return p.legalFrom(from)
}

// LegalMoves maps every origin square of c with at least one legal move to its
// destinations.
func (p *Position[G]) LegalMoves(c piece.Color) map[Square[G]][]Square[G] {
	out := make(map[Square[G]][]Square[G])
	if !c.IsPlayer() || p.outcome != Ongoing {
		return out
	}
	for _, from := range p.sets[c].Squares() {
		if dests := p.legalFrom(from); len(dests) > 0 {
			out[from] = dests
		}
	}
	return out
}

func (p *Position[G]) hasLegalMove(c piece.Color) bool {
	for _, from := range p.sets[c].Squares() {
		if len(p.legalFrom(from)) > 0 {
			return true
		}
	}
	return false
}

// evaluate refreshes the outcome for the side to move. Positions missing a
// side entirely are left ongoing.
func (p *Position[G]) evaluate() {
	p.outcome = Ongoing
	if p.sets[piece.White].Count() == 0 || p.sets[piece.Black].Count() == 0 {
		return
	}
	if p.hasLegalMove(p.side) {
		return
	}
	switch {
	case !p.InCheck(p.side):
		p.outcome = Stalemate
	case p.side == piece.White:
		p.outcome = BlackWins
	default:
		p.outcome = WhiteWins
	}
}

// Played describes a move applied by Play.
type Played[G Geometry] struct {
	From, To  Square[G]
	Piece     piece.Piece
	Captured  bool
	Promoted  bool
	PromoteTo piece.Type
	Check     bool
	Mate      bool
}

// Notation returns the canonical recorded form with check/mate markers.
func (m Played[G]) Notation() notation.Move {
	return notation.Move{
		Kind:       notation.Normal,
		From:       m.From.Coord(),
		To:         m.To.Coord(),
		Promote:    m.PromoteTo,
		HasPromote: m.Promoted,
		Check:      m.Check && !m.Mate,
		Mate:       m.Mate,
	}
}

// Play applies a normal move for the side to move. A pawn reaching the last
// rank promotes to promote when has is set, otherwise to a queen.
func (p *Position[G]) Play(from, to Square[G], promote piece.Type, has bool) (Played[G], error) {
	if p.outcome != Ongoing {
		return Played[G]{}, fmt.Errorf("play %s%s: %w", from, to, gameerr.ErrGameOver)
	}
	c := p.cells[from]
	if !c.occupied {
		return Played[G]{}, fmt.Errorf("play %s%s: empty origin: %w", from, to, gameerr.ErrIllegalMove)
	}
	if c.piece.Color != p.side {
		return Played[G]{}, fmt.Errorf("play %s%s: %w", from, to, gameerr.ErrNotYourTurn)
	}
	legal := false
	for _, d := range p.legalFrom(from) {
		if d == to {
			legal = true
			break
		}
	}
	if !legal {
		return Played[G]{}, fmt.Errorf("play %s%s: %w", from, to, gameerr.ErrIllegalMove)
	}
	promotes := p.isPromotion(to, c.piece)
	if has && !promotes {
		return Played[G]{}, fmt.Errorf("play %s%s: promotion on a non-promoting move: %w", from, to, gameerr.ErrIllegalMove)
	}
	if !has {
		promote = piece.Queen
	}
	if promotes && !p.canPromoteTo(promote) {
		return Played[G]{}, fmt.Errorf("play %s%s: promotion to %s: %w", from, to, promote, gameerr.ErrIllegalMove)
	}

	captured := p.cells[to].occupied
	p.apply(from, to, promote, promotes)
	p.side = p.side.Flip()
	p.ply++
	p.evaluate()

	m := Played[G]{From: from, To: to, Piece: c.piece, Captured: captured}
	if promotes {
		m.Promoted, m.PromoteTo = true, promote
	}
	m.Check = p.InCheck(p.side)
	m.Mate = m.Check && p.outcome != Ongoing && p.outcome != Stalemate
	return m, nil
}

func (p *Position[G]) canPromoteTo(t piece.Type) bool {
	for _, allowed := range p.variant.PromotionTypes() {
		if allowed == t {
			return true
		}
	}
	return false
}
