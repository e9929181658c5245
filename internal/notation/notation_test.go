package notation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/park285/shuuro-session/internal/piece"
)

func TestParseShapes(t *testing.T) {
	m, ok := Parse("+G")
	require.True(t, ok)
	require.Equal(t, Buy, m.Kind)
	require.Equal(t, piece.Piece{Type: piece.Giraffe, Color: piece.White}, m.Piece)

	m, ok = Parse("k@f12")
	require.True(t, ok)
	require.Equal(t, Put, m.Kind)
	require.Equal(t, piece.Black, m.Piece.Color)
	require.Equal(t, Coord{File: 5, Rank: 11}, m.To)

	m, ok = Parse("a11a12=Q#")
	require.True(t, ok)
	require.Equal(t, Normal, m.Kind)
	require.Equal(t, Coord{0, 10}, m.From)
	require.Equal(t, Coord{0, 11}, m.To)
	require.True(t, m.HasPromote)
	require.Equal(t, piece.Queen, m.Promote)
	require.True(t, m.Mate)
}

func TestParseAcceptsSeparatorsAndBarePromotion(t *testing.T) {
	for _, in := range []string{"b1_c3", "b1-c3", " b1c3 ", "b1c3+"} {
		m, ok := Parse(in)
		require.True(t, ok, in)
		require.Equal(t, "b1c3", Move{Kind: Normal, From: m.From, To: m.To}.String(), in)
	}
	m, ok := Parse("e7e8n")
	require.True(t, ok)
	require.Equal(t, piece.Knight, m.Promote)
	require.Equal(t, "e7e8=N", m.String())
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "+", "+L", "+X", "L@a1", "Q@", "Q@z", "a0a1", "a1", "a1a2=K", "a1a2=P", "a1a2qq", "hello", "@@"} {
		_, ok := Parse(in)
		require.False(t, ok, in)
	}
}

func TestCanonicalFormsReparse(t *testing.T) {
	moves := []Move{
		{Kind: Buy, Piece: piece.Piece{Type: piece.Pawn, Color: piece.Black}},
		{Kind: Put, Piece: piece.Piece{Type: piece.King, Color: piece.White}, To: Coord{4, 0}},
		{Kind: Normal, From: Coord{1, 9}, To: Coord{1, 10}},
		{Kind: Normal, From: Coord{2, 6}, To: Coord{2, 7}, Promote: piece.Chancellor, HasPromote: true, Check: true},
	}
	for _, m := range moves {
		back, ok := Parse(m.String())
		require.True(t, ok, m.String())
		require.Equal(t, m, back)
	}
}
