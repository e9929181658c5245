package engine

import (
	"fmt"

	"github.com/park285/shuuro-session/internal/gameerr"
	"github.com/park285/shuuro-session/internal/piece"
)

// backRank is the first rank of c's side of the board.
func backRank[G Geometry](c piece.Color) int {
	if c == piece.Black {
		return classOf[G]().Ranks() - 1
	}
	return 0
}

// inZone reports whether rank lies in c's deployment zone.
func inZone[G Geometry](c piece.Color, rank int) bool {
	geo := classOf[G]()
	if c == piece.Black {
		return rank >= geo.Ranks()-geo.DeployRanks()
	}
	return rank < geo.DeployRanks()
}

// EmptySquares lists squares holding neither a piece nor a plinth.
func (p *Position[G]) EmptySquares() []Square[G] {
	var out []Square[G]
	for i, c := range p.cells {
		if !c.occupied && !c.plinth {
			out = append(out, Square[G](i))
		}
	}
	return out
}

// PlacementSquares lists the empty squares pc may be put on now. The result is
// empty when pc is not in hand, its color is not on move or it cannot be
// placed anywhere.
func (p *Position[G]) PlacementSquares(pc piece.Piece) []Square[G] {
	if p.Hand(pc) == 0 || pc.Color != p.side {
		return nil
	}
	if pc.Type != piece.King && p.hand[pc.Color][piece.King] > 0 {
		return nil
	}
	var out []Square[G]
	for _, sq := range p.EmptySquares() {
		if p.placeable(sq, pc) {
			out = append(out, sq)
		}
	}
	return out
}

func (p *Position[G]) placeable(sq Square[G], pc piece.Piece) bool {
	rank := sq.Rank()
	back := backRank[G](pc.Color)
	switch {
	case pc.Type == piece.King && rank != back:
		return false
	case !inZone[G](pc.Color, rank):
		return false
	case pc.Type == piece.Pawn && rank == back:
		return false
	}
	p.putPiece(sq, pc)
	checks := p.InCheck(pc.Color.Flip())
	p.removePiece(sq)
	return !checks
}

// Place moves one pc from hand onto sq and hands the turn on. A color whose
// hand is empty is skipped.
func (p *Position[G]) Place(pc piece.Piece, sq Square[G]) error {
	if !pc.Valid() || pc.Type == piece.Plinth {
		return fmt.Errorf("place %c@%s: %w", pc.Char(), sq, gameerr.ErrUnknownPiece)
	}
	if p.Hand(pc) == 0 {
		return fmt.Errorf("place %c@%s: %w", pc.Char(), sq, gameerr.ErrOutOfHand)
	}
	if pc.Color != p.side {
		return fmt.Errorf("place %c@%s: %w", pc.Char(), sq, gameerr.ErrNotYourTurn)
	}
	if c := p.cells[sq]; c.occupied || c.plinth {
		return fmt.Errorf("place %c@%s: %w", pc.Char(), sq, gameerr.ErrSquareOccupied)
	}
	if pc.Type != piece.King && p.hand[pc.Color][piece.King] > 0 {
		return fmt.Errorf("place %c@%s: king goes first: %w", pc.Char(), sq, gameerr.ErrIllegalPlacement)
	}
	if !p.placeable(sq, pc) {
		return fmt.Errorf("place %c@%s: %w", pc.Char(), sq, gameerr.ErrIllegalPlacement)
	}
	p.putPiece(sq, pc)
	p.hand[pc.Color][pc.Type]--
	p.ply++
	if next := p.side.Flip(); p.HandSize(next) > 0 {
		p.side = next
	}
	return nil
}

// PassEmptyHand gives the move to the other color when the side to move has
// an empty hand and the other does not. It reports whether the turn changed.
func (p *Position[G]) PassEmptyHand() bool {
	next := p.side.Flip()
	if p.HandSize(p.side) > 0 || p.HandSize(next) == 0 {
		return false
	}
	p.side = next
	return true
}

// Rand is the slice of math/rand/v2 used for plinth layout.
type Rand interface {
	Perm(n int) []int
}

// LayPlinths puts n plinths on random empty squares between the two
// deployment zones.
func (p *Position[G]) LayPlinths(rng Rand, n int) {
	geo := classOf[G]()
	var middle []Square[G]
	for _, sq := range p.EmptySquares() {
		r := sq.Rank()
		if r >= geo.DeployRanks() && r < geo.Ranks()-geo.DeployRanks() {
			middle = append(middle, sq)
		}
	}
	if n > len(middle) {
		n = len(middle)
	}
	for _, i := range rng.Perm(len(middle))[:n] {
		p.putPlinth(middle[i])
	}
}

// BeginFight discards what is left in both hands and gives White the move.
func (p *Position[G]) BeginFight() {
	p.hand = [2][piece.NumTypes]int{}
	p.side = piece.White
	p.evaluate()
}
