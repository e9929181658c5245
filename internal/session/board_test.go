package session

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/park285/shuuro-session/internal/engine"
	"github.com/park285/shuuro-session/internal/gameerr"
	"github.com/park285/shuuro-session/internal/piece"
	"github.com/park285/shuuro-session/internal/variant"
)

func newBoard[G engine.Geometry](t *testing.T, v variant.Variant, sfen string) *Board[G] {
	t.Helper()
	b := New[G](v, nil)
	if sfen != "" {
		if err := b.SetSFEN(sfen); err != nil {
			t.Fatalf("set sfen %q: %v", sfen, err)
		}
	}
	return b
}

func TestEmptyHistoryQueries(t *testing.T) {
	b := New[engine.Large](variant.Shuuro, nil)
	if b.LastMove() != "" {
		t.Fatalf("last move on a fresh board = %q", b.LastMove())
	}
	if b.LastMoveFlag() != FlagNone {
		t.Fatalf("flag = %v", b.LastMoveFlag())
	}
	if b.PiecesCount() != 0 || b.Phase() != Shopping {
		t.Fatalf("unexpected fresh state")
	}
}

func TestOperationsRefusedOutsideTheirPhase(t *testing.T) {
	b := New[engine.Medium](variant.Standard, nil)
	king := piece.Piece{Type: piece.King, Color: piece.White}
	if _, err := b.PlaceNotation("K@e1"); !errors.Is(err, gameerr.ErrWrongPhase) {
		t.Fatalf("place in shopping: %v", err)
	}
	if _, err := b.MakeMove("e1e2"); !errors.Is(err, gameerr.ErrWrongPhase) {
		t.Fatalf("move in shopping: %v", err)
	}
	if err := b.StartFight(); !errors.Is(err, gameerr.ErrWrongPhase) {
		t.Fatalf("start fight in shopping: %v", err)
	}
	if len(b.PlaceMoves(king)) != 0 || len(b.LegalMoves(piece.White)) != 0 {
		t.Fatalf("queries outside their phase should be empty")
	}

	if err := b.Advance(Placement); err != nil {
		t.Fatalf("advance: %v", err)
	}
	for _, back := range []Phase{Shopping, Placement} {
		if err := b.Advance(back); !errors.Is(err, gameerr.ErrWrongPhase) {
			t.Fatalf("advance to %s: %v", back, err)
		}
	}
	if b.Phase() != Placement {
		t.Fatalf("phase regressed to %s", b.Phase())
	}
	if _, err := b.MakeMove("e1e2"); !errors.Is(err, gameerr.ErrWrongPhase) {
		t.Fatalf("move in placement: %v", err)
	}
}

func TestPlacementOnStandardFixture(t *testing.T) {
	b := newBoard[engine.Medium](t, variant.Standard, "4K3/8/8/1L01L04/4L03/6L01/8/8 b RBNNNPPPPPPPPPPPPkqrbbnnp 1")
	if b.Phase() != Placement {
		t.Fatalf("phase = %s", b.Phase())
	}
	_, err := b.PlaceNotation("k@b4")
	if !errors.Is(err, gameerr.ErrSquareOccupied) || gameerr.KindOf(err) != gameerr.KindRuleViolation {
		t.Fatalf("king on plinth: %v", err)
	}
	if _, err := b.PlaceNotation("k@z9"); gameerr.KindOf(err) != gameerr.KindInvalidInput {
		t.Fatalf("unknown square: %v", err)
	}
	if _, err := b.PlaceNotation("k@e13"); !errors.Is(err, gameerr.ErrUnknownSquare) {
		t.Fatalf("off-board square: %v", err)
	}
	mv, err := b.PlaceNotation("k@e8")
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if mv.String() != "k@e8" || b.LastMove() != "k@e8" {
		t.Fatalf("recorded %q / %q", mv, b.LastMove())
	}
	if b.SideToMove() != piece.White {
		t.Fatalf("white should place next")
	}
	if b.PiecesCount() != 2 {
		t.Fatalf("pieces = %d", b.PiecesCount())
	}
}

func TestPlacementRunsIntoFight(t *testing.T) {
	b := newBoard[engine.Small](t, variant.ShuuroMini, "6/6/6/6/6/6 w KRkn 0")
	for _, mv := range []string{"K@c1", "k@d6", "R@a1", "n@b6"} {
		if _, err := b.PlaceNotation(mv); err != nil {
			t.Fatalf("%s: %v", mv, err)
		}
	}
	if b.Phase() != Fight {
		t.Fatalf("empty hands should start the fight, phase %s", b.Phase())
	}
	if b.SideToMove() != piece.White {
		t.Fatalf("white moves first")
	}
	if len(b.History()) != 4 {
		t.Fatalf("history = %v", b.History())
	}
	if len(b.LegalMoves(piece.White)) == 0 {
		t.Fatalf("white should have moves")
	}
	if got := b.LegalMoves(piece.Black); len(got) != 0 {
		t.Fatalf("black is not on move, got %v", got)
	}
	if len(b.LegalMovesFrom(mustSquare[engine.Small](t, "d6"))) != 0 {
		t.Fatalf("black king is not the side to move")
	}
}

func TestStartFightForfeitsHands(t *testing.T) {
	b := newBoard[engine.Medium](t, variant.Standard, "4K3/8/8/8/8/8/8/4k3 w QRq 2")
	if err := b.StartFight(); err != nil {
		t.Fatalf("start fight: %v", err)
	}
	if b.Phase() != Fight || !b.Position().HandsEmpty() {
		t.Fatalf("hands should be cleared in fight")
	}
	if err := b.StartFight(); !errors.Is(err, gameerr.ErrWrongPhase) {
		t.Fatalf("second start fight: %v", err)
	}
	if err := b.SetHand("Q"); !errors.Is(err, gameerr.ErrWrongPhase) {
		t.Fatalf("set hand in fight: %v", err)
	}
	if err := b.SetSFEN("4K3/8/8/8/8/8/8/4k3 w Q 2"); !errors.Is(err, gameerr.ErrWrongPhase) {
		t.Fatalf("snapshot with hands in fight: %v", err)
	}
}

func TestMakeMoveEchoAndFlags(t *testing.T) {
	const start = "R3K3/8/8/8/8/8/6pp/7k w - 0"
	b := newBoard[engine.Medium](t, variant.Standard, start)
	if b.Phase() != Fight {
		t.Fatalf("phase = %s", b.Phase())
	}

	if _, err := b.MakeMove("garbage"); gameerr.KindOf(err) != gameerr.KindInvalidInput {
		t.Fatalf("malformed: %v", err)
	}
	if _, err := b.MakeMove("a1b2"); !errors.Is(err, gameerr.ErrIllegalMove) {
		t.Fatalf("illegal: %v", err)
	}

	rec, err := b.MakeMove("a1-a8")
	if err != nil {
		t.Fatalf("make move: %v", err)
	}
	if rec != "a1a8#" || b.LastMove() != rec || b.LastMoveFlag() != FlagMate {
		t.Fatalf("recorded %q flag %v", rec, b.LastMoveFlag())
	}
	if !b.IsCheck(piece.Black) || b.Outcome() != engine.WhiteWins {
		t.Fatalf("black should be mated")
	}
	after := b.SFEN()

	again := newBoard[engine.Medium](t, variant.Standard, start)
	if _, err := again.MakeMove(rec); err != nil {
		t.Fatalf("replaying echoed move: %v", err)
	}
	if again.SFEN() != after {
		t.Fatalf("echo replay diverged: %q vs %q", again.SFEN(), after)
	}
}

func TestPromotionFlag(t *testing.T) {
	b := newBoard[engine.Small](t, variant.ShuuroMini, "K5/6/6/6/p5/5k w - 0")
	if _, err := b.MakeMove("a1b1"); err != nil {
		t.Fatalf("white king: %v", err)
	}
	rec, err := b.MakeMove("a5a6")
	if err == nil {
		t.Fatalf("black pawns move down, got %q", rec)
	}
	b = newBoard[engine.Small](t, variant.ShuuroMini, "1K4/P5/6/6/6/5k w - 0")
	rec, err = b.MakeMove("a2a1")
	if err == nil {
		t.Fatalf("white pawns move up, got %q", rec)
	}
	b = newBoard[engine.Small](t, variant.ShuuroMini, "1K4/6/6/4k1/P5/6 w - 0")
	rec, err = b.MakeMove("a5a6r")
	if err != nil {
		t.Fatalf("promotion: %v", err)
	}
	if rec != "a5a6=R" || b.LastMoveFlag() != FlagPromotion {
		t.Fatalf("recorded %q flag %v", rec, b.LastMoveFlag())
	}
}

func TestPromotionWithCheckKeepsPromotionFlag(t *testing.T) {
	b := newBoard[engine.Small](t, variant.ShuuroMini, "1K4/6/6/6/P5/5k w - 0")
	rec, err := b.MakeMove("a5a6")
	if err != nil {
		t.Fatalf("promotion: %v", err)
	}
	if rec != "a5a6=Q+" || b.LastMoveFlag() != FlagPromotion {
		t.Fatalf("recorded %q flag %v", rec, b.LastMoveFlag())
	}
}

func TestOffTurnLegalMovesEmpty(t *testing.T) {
	b := newBoard[engine.Small](t, variant.ShuuroMini, "K5/6/6/6/6/r4k w - 2")
	if got := b.LegalMoves(piece.Black); len(got) != 0 {
		t.Fatalf("black moves off turn = %v", got)
	}
	if len(b.LegalMoves(piece.White)) == 0 {
		t.Fatalf("white should have moves")
	}
}

func TestPlacementTurnPassesToNonEmptyHand(t *testing.T) {
	b := newBoard[engine.Small](t, variant.ShuuroMini, "K5/6/6/6/6/6 w k 1")
	if b.Phase() != Placement || b.SideToMove() != piece.Black {
		t.Fatalf("phase %s side %v", b.Phase(), b.SideToMove())
	}
	bk := piece.Piece{Type: piece.King, Color: piece.Black}
	if len(b.PlaceMoves(bk)) == 0 {
		t.Fatalf("black king should have squares")
	}
	if _, err := b.PlaceNotation("k@f6"); err != nil {
		t.Fatalf("place: %v", err)
	}
	if b.Phase() != Fight {
		t.Fatalf("phase = %s", b.Phase())
	}

	b = newBoard[engine.Small](t, variant.ShuuroMini, "6/6/6/6/6/6 w Kk 0")
	if _, err := b.PlaceNotation("K@c1"); err != nil {
		t.Fatalf("white king: %v", err)
	}
	if err := b.SetHand("R"); err != nil {
		t.Fatalf("set hand: %v", err)
	}
	if b.SideToMove() != piece.White {
		t.Fatalf("white holds the only hand, side %v", b.SideToMove())
	}
	br := piece.Piece{Type: piece.Rook, Color: piece.Black}
	wr := piece.Piece{Type: piece.Rook, Color: piece.White}
	if len(b.PlaceMoves(br)) != 0 || len(b.PlaceMoves(wr)) == 0 {
		t.Fatalf("placement squares should follow the turn")
	}
	if _, err := b.PlaceNotation("R@a1"); err != nil {
		t.Fatalf("white rook: %v", err)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	b := New[engine.Large](variant.ShuuroFairy, nil)
	if err := b.Advance(Placement); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if err := b.LayPlinths(rand.New(rand.NewPCG(1, 2)), 8); err != nil {
		t.Fatalf("plinths: %v", err)
	}
	if err := b.SetHand("KQ2GkcP"); err != nil {
		t.Fatalf("set hand: %v", err)
	}
	snap := b.SFEN()
	if err := b.SetSFEN(snap); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if b.SFEN() != snap {
		t.Fatalf("round trip: %q vs %q", b.SFEN(), snap)
	}
	if b.Phase() != Placement {
		t.Fatalf("phase = %s", b.Phase())
	}
	if err := b.LayPlinths(rand.New(rand.NewPCG(1, 2)), 1); err != nil {
		t.Fatalf("plinths in placement: %v", err)
	}
}

func mustSquare[G engine.Geometry](t *testing.T, name string) engine.Square[G] {
	t.Helper()
	sq, ok := engine.ParseSquare[G](name)
	if !ok {
		t.Fatalf("bad square %q", name)
	}
	return sq
}
