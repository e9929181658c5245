package facade

import (
	"github.com/park285/shuuro-session/internal/engine"
	"github.com/park285/shuuro-session/internal/notation"
	"github.com/park285/shuuro-session/internal/piece"
	"github.com/park285/shuuro-session/internal/session"
	"github.com/park285/shuuro-session/pkg/shuurodto"
)

// geometrySession is what the facade needs from a board, with every square
// already turned into its string name.
type geometrySession interface {
	phase() session.Phase
	advance(to session.Phase) error
	record(mv notation.Move)
	layPlinths(rng engine.Rand, n int) error
	setHand(s string) error
	setSFEN(s string) error
	sfen() string
	sideToMove() piece.Color
	pieces() map[string]shuurodto.PieceView
	plinths() map[string]shuurodto.PieceView
	piecesCount() int
	handLetters(c piece.Color) string
	lastMove() string
	lastMoveFlag() session.Flag
	isCheck(c piece.Color) bool
	placeMoves(pc piece.Piece) []string
	place(s string) (string, error)
	startFight() error
	legalMoves(c piece.Color) map[string][]string
	legalMovesFrom(square string) map[string][]string
	makeMove(s string) (string, error)
	history() []session.Entry
	outcome() engine.Outcome
}

// boardAdapter binds one Board instantiation to geometrySession.
type boardAdapter[G engine.Geometry] struct {
	b *session.Board[G]
}

var (
	_ geometrySession = (*boardAdapter[engine.Small])(nil)
	_ geometrySession = (*boardAdapter[engine.Medium])(nil)
	_ geometrySession = (*boardAdapter[engine.Large])(nil)
)

func (a *boardAdapter[G]) phase() session.Phase { return a.b.Phase() }
func (a *boardAdapter[G]) advance(to session.Phase) error { return a.b.Advance(to) }
func (a *boardAdapter[G]) record(mv notation.Move) { a.b.Record(mv) }
func (a *boardAdapter[G]) layPlinths(r engine.Rand, n int) error { return a.b.LayPlinths(r, n) }
func (a *boardAdapter[G]) setHand(s string) error { return a.b.SetHand(s) }
func (a *boardAdapter[G]) setSFEN(s string) error { return a.b.SetSFEN(s) }
func (a *boardAdapter[G]) sfen() string { return a.b.SFEN() }
func (a *boardAdapter[G]) sideToMove() piece.Color { return a.b.SideToMove() }
func (a *boardAdapter[G]) piecesCount() int { return a.b.PiecesCount() }
func (a *boardAdapter[G]) lastMove() string { return a.b.LastMove() }
func (a *boardAdapter[G]) lastMoveFlag() session.Flag { return a.b.LastMoveFlag() }
func (a *boardAdapter[G]) isCheck(c piece.Color) bool { return a.b.IsCheck(c) }
func (a *boardAdapter[G]) startFight() error { return a.b.StartFight() }
func (a *boardAdapter[G]) history() []session.Entry { return a.b.History() }
func (a *boardAdapter[G]) outcome() engine.Outcome { return a.b.Outcome() }

func (a *boardAdapter[G]) handLetters(c piece.Color) string {
	return a.b.Position().HandLetters(c)
}

func (a *boardAdapter[G]) pieces() map[string]shuurodto.PieceView {
	pos := a.b.Position()
	out := make(map[string]shuurodto.PieceView)
	for _, c := range piece.Colors {
		for _, sq := range pos.PlayerSquares(c) {
			pc, _ := pos.PieceAt(sq)
			out[sq.String()] = shuurodto.PieceView{Role: pc.Role(), Color: pc.Color.Name()}
		}
	}
	return out
}

func (a *boardAdapter[G]) plinths() map[string]shuurodto.PieceView {
	out := make(map[string]shuurodto.PieceView)
	for _, sq := range a.b.Position().PlayerSquares(piece.NoColor) {
		out[sq.String()] = shuurodto.PieceView{Role: piece.PlinthPiece.Role(), Color: piece.NoColor.Name()}
	}
	return out
}

func (a *boardAdapter[G]) placeMoves(pc piece.Piece) []string {
	return squareNames(a.b.PlaceMoves(pc))
}

func (a *boardAdapter[G]) place(s string) (string, error) {
	mv, err := a.b.PlaceNotation(s)
	if err != nil {
		return "", err
	}
	return mv.String(), nil
}

func (a *boardAdapter[G]) legalMoves(c piece.Color) map[string][]string {
	out := make(map[string][]string)
	for from, dests := range a.b.LegalMoves(c) {
		out[from.String()] = squareNames(dests)
	}
	return out
}

func (a *boardAdapter[G]) legalMovesFrom(square string) map[string][]string {
	out := make(map[string][]string)
	sq, ok := engine.ParseSquare[G](square)
	if !ok {
		return out
	}
	if dests := a.b.LegalMovesFrom(sq); len(dests) > 0 {
		out[sq.String()] = squareNames(dests)
	}
	return out
}

func (a *boardAdapter[G]) makeMove(s string) (string, error) { return a.b.MakeMove(s) }

func squareNames[G engine.Geometry](squares []engine.Square[G]) []string {
	out := make([]string, 0, len(squares))
	for _, sq := range squares {
		out = append(out, sq.String())
	}
	return out
}
