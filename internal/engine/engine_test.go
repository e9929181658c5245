package engine

import (
	"errors"
	"math/rand/v2"
	"sort"
	"strings"
	"testing"

	nchess "github.com/corentings/chess/v2"
	"github.com/stretchr/testify/require"

	"github.com/park285/shuuro-session/internal/gameerr"
	"github.com/park285/shuuro-session/internal/piece"
	"github.com/park285/shuuro-session/internal/variant"
)

const standardPlacementSFEN = "4K3/8/8/1L01L04/4L03/6L01/8/8 b RBNNNPPPPPPPPPPPPkqrbbnnp 1"

func mustSFEN[G Geometry](t *testing.T, v variant.Variant, sfen string) *Position[G] {
	t.Helper()
	p := New[G](v)
	require.NoError(t, p.SetSFEN(sfen))
	return p
}

func sq[G Geometry](t *testing.T, name string) Square[G] {
	t.Helper()
	s, ok := ParseSquare[G](name)
	require.True(t, ok, name)
	return s
}

func names[G Geometry](squares []Square[G]) []string {
	out := make([]string, 0, len(squares))
	for _, s := range squares {
		out = append(out, s.String())
	}
	sort.Strings(out)
	return out
}

func TestStandardPlacementFixture(t *testing.T) {
	p := mustSFEN[Medium](t, variant.Standard, standardPlacementSFEN)

	require.Equal(t, "kqrbbnnpRBNNNPPPPPPPPPPPP", p.HandLetters(piece.Black)+p.HandLetters(piece.White))
	require.Equal(t, piece.Black, p.SideToMove())
	require.Equal(t, 1, p.Ply())
	require.Equal(t, 1, p.Count(piece.White))
	require.Equal(t, 4, p.Count(piece.NoColor))
	require.Equal(t, "4K3/8/8/1L01L04/4L03/6L01/8/8 b RB3N12Pkqr2b2np 1", p.SFEN())
}

func TestSFENRoundTrip(t *testing.T) {
	cases := []string{
		"4K3/8/8/1L01L04/4L03/6L01/8/8 b RB3N12Pkqr2b2np 1",
		"R3K3/8/8/8/8/8/6pp/7k w - 0",
		"2K5/8/Ln7/8/8/1Q6/8/k7 b - 14",
	}
	for _, s := range cases {
		p := mustSFEN[Medium](t, variant.Standard, s)
		require.Equal(t, s, p.SFEN())
	}

	large := New[Large](variant.Shuuro)
	require.Equal(t, strings.Repeat("57/", 11)+"57 w - 0", large.SFEN())
	require.NoError(t, large.SetSFEN(large.SFEN()))

	small := mustSFEN[Small](t, variant.ShuuroMini, "2K3/6/1L04/4L01/6/3k2 w - 3")
	require.Equal(t, "2K3/6/1L04/4L01/6/3k2 w - 3", small.SFEN())
}

func TestSetSFENRejectsAndKeepsState(t *testing.T) {
	p := mustSFEN[Medium](t, variant.Standard, standardPlacementSFEN)
	before := p.SFEN()
	for _, bad := range []string{
		"",
		"8/8 w - 0",
		"4K3/8/8/8/8/8/8/8 x - 0",
		"4K4/8/8/8/8/8/8/8 w - 0",
		"4X3/8/8/8/8/8/8/8 w - 0",
		"4K3/8/8/8/8/8/8/8 w 3 0",
		"4K3/8/8/8/8/8/8/8 w - -1",
	} {
		err := p.SetSFEN(bad)
		require.Error(t, err, bad)
		require.Equal(t, gameerr.KindInvalidInput, gameerr.KindOf(err), bad)
		require.Equal(t, before, p.SFEN())
	}
	// ply is optional
	require.NoError(t, p.SetSFEN("4K3/8/8/8/8/8/8/4k3 w -"))
	require.Equal(t, 0, p.Ply())
}

func TestEmptyRunEncoding(t *testing.T) {
	for n, want := range map[int]string{0: "", 3: "3", 9: "9", 10: "55", 11: "56", 12: "57"} {
		var b strings.Builder
		writeEmptyRun(&b, n)
		require.Equal(t, want, b.String(), n)
	}
}

func TestPlaceKingOnPlinthIsOccupied(t *testing.T) {
	p := mustSFEN[Medium](t, variant.Standard, standardPlacementSFEN)
	king := piece.Piece{Type: piece.King, Color: piece.Black}
	err := p.Place(king, sq[Medium](t, "b4"))
	require.True(t, errors.Is(err, gameerr.ErrSquareOccupied), "got %v", err)
	require.Equal(t, 1, p.Hand(king))
}

func TestPlacementOrderAndZones(t *testing.T) {
	p := mustSFEN[Medium](t, variant.Standard, standardPlacementSFEN)
	bq := piece.Piece{Type: piece.Queen, Color: piece.Black}
	bk := piece.Piece{Type: piece.King, Color: piece.Black}

	require.Empty(t, p.PlacementSquares(bq), "king goes first")
	require.ErrorIs(t, p.Place(bq, sq[Medium](t, "d8")), gameerr.ErrIllegalPlacement)

	require.Equal(t, []string{"a8", "b8", "c8", "d8", "e8", "f8", "g8", "h8"}, names(p.PlacementSquares(bk)))
	require.ErrorIs(t, p.Place(bk, sq[Medium](t, "e7")), gameerr.ErrIllegalPlacement)
	require.NoError(t, p.Place(bk, sq[Medium](t, "e8")))
	require.Equal(t, piece.White, p.SideToMove())
	require.Equal(t, 2, p.Ply())

	wp := piece.Piece{Type: piece.Pawn, Color: piece.White}
	pawnSquares := names(p.PlacementSquares(wp))
	require.Contains(t, pawnSquares, "a2")
	require.Contains(t, pawnSquares, "h3")
	require.NotContains(t, pawnSquares, "a1")
	require.NotContains(t, pawnSquares, "a4")

	require.ErrorIs(t, p.Place(bq, sq[Medium](t, "d8")), gameerr.ErrNotYourTurn)
	require.ErrorIs(t, p.Place(piece.Piece{Type: piece.Queen, Color: piece.White}, sq[Medium](t, "d1")), gameerr.ErrOutOfHand)
}

func TestPlacementMayNotGiveCheck(t *testing.T) {
	p := mustSFEN[Medium](t, variant.Standard, "4K3/8/8/8/8/8/8/4k3 w R 0")
	rook := piece.Piece{Type: piece.Rook, Color: piece.White}
	squares := names(p.PlacementSquares(rook))
	require.NotContains(t, squares, "e2")
	require.NotContains(t, squares, "e3")
	require.Contains(t, squares, "a1")
	require.ErrorIs(t, p.Place(rook, sq[Medium](t, "e3")), gameerr.ErrIllegalPlacement)

	require.NoError(t, p.Place(rook, sq[Medium](t, "a1")))
	require.True(t, p.HandsEmpty())
	require.Equal(t, piece.White, p.SideToMove(), "no one left to hand the turn to")
}

func TestLayPlinthsStaysInNeutralRanks(t *testing.T) {
	p := New[Large](variant.Shuuro)
	p.LayPlinths(rand.New(rand.NewPCG(7, 7)), variant.Large.PlinthCount())
	plinths := p.PlayerSquares(piece.NoColor)
	require.Len(t, plinths, 8)
	for _, s := range plinths {
		require.True(t, s.Rank() >= 3 && s.Rank() <= 8, s.String())
	}

	again := New[Large](variant.Shuuro)
	again.LayPlinths(rand.New(rand.NewPCG(7, 7)), 8)
	require.Equal(t, p.SFEN(), again.SFEN())
}

func TestPlinthBlocksSlidersButNotKnights(t *testing.T) {
	p := mustSFEN[Medium](t, variant.Standard, "RN2K3/8/L07/8/8/8/8/7k w - 0")
	require.Equal(t, []string{"a2"}, names(p.LegalMovesFrom(sq[Medium](t, "a1"))))
	require.Equal(t, []string{"a3", "c3", "d2"}, names(p.LegalMovesFrom(sq[Medium](t, "b1"))))

	m, err := p.Play(sq[Medium](t, "b1"), sq[Medium](t, "a3"), 0, false)
	require.NoError(t, err)
	require.Equal(t, "b1a3", m.Notation().String())
	require.Equal(t, "R3K3/8/LN7/8/8/8/8/7k b - 1", p.SFEN())
}

func TestGiraffeLeaps(t *testing.T) {
	p := New[Large](variant.ShuuroFairy)
	p.putPiece(sq[Large](t, "l1"), piece.Piece{Type: piece.King, Color: piece.White})
	p.putPiece(sq[Large](t, "l12"), piece.Piece{Type: piece.King, Color: piece.Black})
	p.putPiece(sq[Large](t, "a1"), piece.Piece{Type: piece.Giraffe, Color: piece.White})
	p.putPlinth(sq[Large](t, "e2"))
	require.Equal(t, []string{"b5"}, names(p.LegalMovesFrom(sq[Large](t, "a1"))))
}

func TestCheckmateAndGameOver(t *testing.T) {
	p := mustSFEN[Medium](t, variant.Standard, "R3K3/8/8/8/8/8/6pp/7k w - 0")
	m, err := p.Play(sq[Medium](t, "a1"), sq[Medium](t, "a8"), 0, false)
	require.NoError(t, err)
	require.True(t, m.Mate)
	require.Equal(t, "a1a8#", m.Notation().String())
	require.Equal(t, WhiteWins, p.Outcome())
	require.True(t, p.InCheck(piece.Black))
	require.Empty(t, p.LegalMoves(piece.Black))

	_, err = p.Play(sq[Medium](t, "h8"), sq[Medium](t, "g8"), 0, false)
	require.ErrorIs(t, err, gameerr.ErrGameOver)
}

func TestStalemateOnRestore(t *testing.T) {
	p := mustSFEN[Medium](t, variant.Standard, "2K5/8/8/8/8/1Q6/8/k7 b - 0")
	require.Equal(t, Stalemate, p.Outcome())
	require.False(t, p.InCheck(piece.Black))
}

func TestPlayRejections(t *testing.T) {
	p := mustSFEN[Medium](t, variant.Standard, "4K3/8/8/8/8/8/P7/4k3 w - 0")
	_, err := p.Play(sq[Medium](t, "e8"), sq[Medium](t, "d8"), 0, false)
	require.ErrorIs(t, err, gameerr.ErrNotYourTurn)
	_, err = p.Play(sq[Medium](t, "c3"), sq[Medium](t, "c4"), 0, false)
	require.ErrorIs(t, err, gameerr.ErrIllegalMove)
	_, err = p.Play(sq[Medium](t, "e1"), sq[Medium](t, "e3"), 0, false)
	require.ErrorIs(t, err, gameerr.ErrIllegalMove)
	_, err = p.Play(sq[Medium](t, "e1"), sq[Medium](t, "e2"), piece.Rook, true)
	require.ErrorIs(t, err, gameerr.ErrIllegalMove)
	_, err = p.Play(sq[Medium](t, "a7"), sq[Medium](t, "a8"), piece.Giraffe, true)
	require.ErrorIs(t, err, gameerr.ErrIllegalMove, "fairy promotion outside a fairy variant")

	m, err := p.Play(sq[Medium](t, "a7"), sq[Medium](t, "a8"), piece.Knight, true)
	require.NoError(t, err)
	require.Equal(t, "a7a8=N", m.Notation().String())
	got, _ := p.PieceAt(sq[Medium](t, "a8"))
	require.Equal(t, piece.Piece{Type: piece.Knight, Color: piece.White}, got)
}

func TestDefaultPromotionIsQueen(t *testing.T) {
	p := mustSFEN[Small](t, variant.ShuuroMini, "K5/6/6/6/5p/k5 b - 0")
	_, err := p.Play(sq[Small](t, "f5"), sq[Small](t, "f6"), 0, false)
	require.Error(t, err, "black pawns move down")
	m, err := p.Play(sq[Small](t, "f5"), sq[Small](t, "f4"), 0, false)
	require.NoError(t, err)
	require.False(t, m.Promoted)

	p = mustSFEN[Small](t, variant.ShuuroMini, "K5/5p/6/6/6/k5 b - 0")
	m, err = p.Play(sq[Small](t, "f2"), sq[Small](t, "f1"), 0, false)
	require.NoError(t, err)
	require.True(t, m.Promoted)
	require.Equal(t, piece.Queen, m.PromoteTo)
	require.True(t, m.Check, "queen on f1 sees a1 along the rank")
	require.Equal(t, "f2f1=Q+", m.Notation().String())
}

// toFEN converts a pawnless, plinthless board to FEN for the reference library.
func toFEN(t *testing.T, sfen string) string {
	t.Helper()
	fields := strings.Fields(sfen)
	rows := strings.Split(fields[0], "/")
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return strings.Join(rows, "/") + " " + fields[1] + " - - 0 1"
}

func TestMoveGenerationMatchesReferenceLibrary(t *testing.T) {
	positions := []string{
		"4K3/8/8/8/8/8/8/4k3 w - 0",
		"R3K2R/8/8/3q4/8/8/8/4k3 w - 0",
		"4K3/8/2n5/8/3Q4/8/8/r3k2r b - 0",
		"1N2K1B1/8/8/8/4r3/8/8/2b1k2n w - 0",
		"3QK3/8/8/8/8/8/8/4k2R b - 0",
		"8/2K5/8/3b4/8/1n6/8/3k4 w - 0",
	}
	for _, s := range positions {
		p := mustSFEN[Medium](t, variant.Standard, s)

		opt, err := nchess.FEN(toFEN(t, s))
		require.NoError(t, err, s)
		game := nchess.NewGame(opt)
		var want []string
		for _, mv := range game.ValidMoves() {
			want = append(want, mv.S1().String()+mv.S2().String())
		}
		sort.Strings(want)

		var got []string
		for from, dests := range p.LegalMoves(p.SideToMove()) {
			for _, to := range dests {
				got = append(got, from.String()+to.String())
			}
		}
		sort.Strings(got)
		require.Equal(t, want, got, s)
	}
}
