// Package session wraps one rules-engine position of a fixed geometry and
// gates its operations by game phase.
package session

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/park285/shuuro-session/internal/engine"
	"github.com/park285/shuuro-session/internal/gameerr"
	"github.com/park285/shuuro-session/internal/notation"
	"github.com/park285/shuuro-session/internal/piece"
	"github.com/park285/shuuro-session/internal/variant"
)

// Phase is the lifecycle stage. It only moves forward.
type Phase uint8

const (
	Shopping Phase = iota
	Placement
	Fight
)

func (p Phase) String() string {
	switch p {
	case Shopping:
		return "shopping"
	case Placement:
		return "placement"
	case Fight:
		return "fight"
	default:
		return "unknown"
	}
}

// Flag classifies the last recorded move.
type Flag uint8

const (
	FlagNone Flag = iota
	FlagPromotion
	FlagCheck
	FlagMate
)

// Entry is one history record.
type Entry struct {
	Notation string
	Phase    Phase
	Ply      int
	Flag     Flag
}

// Board is the session state for geometry G.
type Board[G engine.Geometry] struct {
	pos     *engine.Position[G]
	phase   Phase
	history []Entry
	logger  *zap.Logger
}

// New returns an empty board in the Shopping phase.
func New[G engine.Geometry](v variant.Variant, logger *zap.Logger) *Board[G] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Board[G]{pos: engine.New[G](v), phase: Shopping, logger: logger}
}

func (b *Board[G]) Phase() Phase { return b.phase }
func (b *Board[G]) Position() *engine.Position[G] { return b.pos }
func (b *Board[G]) SideToMove() piece.Color { return b.pos.SideToMove() }
func (b *Board[G]) Outcome() engine.Outcome { return b.pos.Outcome() }

// Advance moves to a later phase. Staying put or going back is refused.
func (b *Board[G]) Advance(to Phase) error {
	if to <= b.phase || to > Fight {
		return fmt.Errorf("advance %s -> %s: %w", b.phase, to, gameerr.ErrWrongPhase)
	}
	b.logger.Debug("board_phase_changed",
		zap.String("from", b.phase.String()),
		zap.String("to", to.String()),
		zap.Int("ply", b.pos.Ply()),
	)
	b.phase = to
	if to == Fight {
		b.pos.BeginFight()
	}
	return nil
}

// Record appends an externally produced entry, e.g. a drafting move.
func (b *Board[G]) Record(mv notation.Move) {
	b.history = append(b.history, Entry{Notation: mv.String(), Phase: b.phase, Ply: b.pos.Ply()})
}

// LayPlinths scatters the phase's obstacles. Only valid while placing.
func (b *Board[G]) LayPlinths(rng engine.Rand, n int) error {
	if b.phase != Placement {
		return fmt.Errorf("lay plinths: %w", gameerr.ErrWrongPhase)
	}
	b.pos.LayPlinths(rng, n)
	return nil
}

// SetHand replaces both hands. Hands are meaningless once fighting.
func (b *Board[G]) SetHand(s string) error {
	if b.phase == Fight {
		return fmt.Errorf("set hand: %w", gameerr.ErrWrongPhase)
	}
	if err := b.pos.SetHand(s); err != nil {
		return err
	}
	b.settleTurn()
	return nil
}

// settleTurn passes the placement turn on when the side to move has nothing
// left to place.
func (b *Board[G]) settleTurn() {
	if b.phase != Placement {
		return
	}
	if b.pos.PassEmptyHand() {
		b.logger.Debug("board_turn_passed", zap.String("side", b.pos.SideToMove().Name()))
	}
}

// SetSFEN restores a snapshot and starts a fresh history. The phase follows
// the snapshot: pieces in hand mean Placement, a populated board with empty
// hands means Fight, an empty board keeps the current phase. A snapshot that
// would send the board back a phase is refused.
func (b *Board[G]) SetSFEN(s string) error {
	next := engine.New[G](b.pos.Variant())
	if err := next.SetSFEN(s); err != nil {
		return err
	}
	target := b.phase
	switch {
	case !next.HandsEmpty():
		target = Placement
	case next.Count(piece.White)+next.Count(piece.Black) > 0:
		target = Fight
	}
	if target < b.phase {
		return fmt.Errorf("set sfen in %s: snapshot is in %s: %w", b.phase, target, gameerr.ErrWrongPhase)
	}
	b.pos = next
	b.history = nil
	if target != b.phase {
		b.logger.Debug("board_phase_changed",
			zap.String("from", b.phase.String()),
			zap.String("to", target.String()),
			zap.String("cause", "sfen"),
		)
		b.phase = target
	}
	b.settleTurn()
	return nil
}

func (b *Board[G]) SFEN() string { return b.pos.SFEN() }

// PlaceMoves lists the squares pc may be placed on. Outside Placement, or
// when pc has nowhere to go, the result is empty.
func (b *Board[G]) PlaceMoves(pc piece.Piece) []engine.Square[G] {
	if b.phase != Placement {
		return nil
	}
	return b.pos.PlacementSquares(pc)
}

// Place puts pc from its owner's hand on sq and records it. When both hands
// run dry the board moves on to Fight.
func (b *Board[G]) Place(pc piece.Piece, sq engine.Square[G]) (notation.Move, error) {
	mv := notation.Move{Kind: notation.Put, Piece: pc, To: sq.Coord()}
	if b.phase != Placement {
		return notation.Move{}, fmt.Errorf("place %s in %s: %w", mv, b.phase, gameerr.ErrWrongPhase)
	}
	if err := b.pos.Place(pc, sq); err != nil {
		return notation.Move{}, err
	}
	b.history = append(b.history, Entry{Notation: mv.String(), Phase: Placement, Ply: b.pos.Ply()})
	if b.pos.HandsEmpty() {
		if err := b.Advance(Fight); err != nil {
			return notation.Move{}, err
		}
	}
	return mv, nil
}

// PlaceNotation applies "Q@c1" style input.
func (b *Board[G]) PlaceNotation(s string) (notation.Move, error) {
	mv, ok := notation.Parse(s)
	if !ok || mv.Kind != notation.Put {
		return notation.Move{}, fmt.Errorf("place %q: %w", s, gameerr.ErrMalformedMove)
	}
	sq, ok := engine.SquareAt[G](mv.To)
	if !ok {
		return notation.Move{}, fmt.Errorf("place %q: %w", s, gameerr.ErrUnknownSquare)
	}
	return b.Place(mv.Piece, sq)
}

// StartFight ends placement early; unplaced pieces are forfeited.
func (b *Board[G]) StartFight() error {
	if b.phase != Placement {
		return fmt.Errorf("start fight in %s: %w", b.phase, gameerr.ErrWrongPhase)
	}
	return b.Advance(Fight)
}

// LegalMoves maps c's origin squares to destinations. Empty outside Fight
// and when c is not on move.
func (b *Board[G]) LegalMoves(c piece.Color) map[engine.Square[G]][]engine.Square[G] {
	if b.phase != Fight || c != b.pos.SideToMove() {
		return map[engine.Square[G]][]engine.Square[G]{}
	}
	return b.pos.LegalMoves(c)
}

// LegalMovesFrom lists destinations for the side to move's piece on sq.
func (b *Board[G]) LegalMovesFrom(sq engine.Square[G]) []engine.Square[G] {
	if b.phase != Fight {
		return nil
	}
	return b.pos.LegalMovesFrom(sq)
}

// MakeMove applies a normal move and returns the notation it was recorded as.
func (b *Board[G]) MakeMove(s string) (string, error) {
	if b.phase != Fight {
		return "", fmt.Errorf("move %q in %s: %w", s, b.phase, gameerr.ErrWrongPhase)
	}
	mv, ok := notation.Parse(s)
	if !ok || mv.Kind != notation.Normal {
		return "", fmt.Errorf("move %q: %w", s, gameerr.ErrMalformedMove)
	}
	from, ok := engine.SquareAt[G](mv.From)
	if !ok {
		return "", fmt.Errorf("move %q: %w", s, gameerr.ErrUnknownSquare)
	}
	to, ok := engine.SquareAt[G](mv.To)
	if !ok {
		return "", fmt.Errorf("move %q: %w", s, gameerr.ErrUnknownSquare)
	}
	played, err := b.pos.Play(from, to, mv.Promote, mv.HasPromote)
	if err != nil {
		return "", err
	}
	rec := played.Notation().String()
	flag := FlagNone
	switch {
	case played.Promoted:
		flag = FlagPromotion
	case played.Mate:
		flag = FlagMate
	case played.Check:
		flag = FlagCheck
	}
	b.history = append(b.history, Entry{Notation: rec, Phase: Fight, Ply: b.pos.Ply(), Flag: flag})
	if out := b.pos.Outcome(); out != engine.Ongoing {
		b.logger.Info("board_game_over", zap.String("outcome", out.String()), zap.String("move", rec))
	}
	return rec, nil
}

// IsCheck reports whether c's king is attacked.
func (b *Board[G]) IsCheck(c piece.Color) bool { return b.pos.InCheck(c) }

// PiecesCount sums both colors' pieces on the board. Plinths are not counted.
func (b *Board[G]) PiecesCount() int {
	return b.pos.Count(piece.White) + b.pos.Count(piece.Black)
}

// LastMove is the most recent recorded notation, "" before anything happened.
func (b *Board[G]) LastMove() string {
	if len(b.history) == 0 {
		return ""
	}
	return b.history[len(b.history)-1].Notation
}

// LastMoveFlag is FlagNone before anything happened.
func (b *Board[G]) LastMoveFlag() Flag {
	if len(b.history) == 0 {
		return FlagNone
	}
	return b.history[len(b.history)-1].Flag
}

// History returns a copy of the records.
func (b *Board[G]) History() []Entry {
	return append([]Entry(nil), b.history...)
}
