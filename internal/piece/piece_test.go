package piece

import "testing"

func TestFromCharCarriesColor(t *testing.T) {
	cases := []struct {
		in   rune
		want Piece
	}{
		{'K', Piece{King, White}},
		{'q', Piece{Queen, Black}},
		{'G', Piece{Giraffe, White}},
		{'a', Piece{ArchBishop, Black}},
		{'L', PlinthPiece},
		{'l', PlinthPiece},
	}
	for _, tc := range cases {
		got, ok := FromChar(tc.in)
		if !ok || got != tc.want {
			t.Fatalf("FromChar(%q) = %v,%v want %v", tc.in, got, ok, tc.want)
		}
		if got.Char() != tc.in && tc.in != 'l' {
			t.Fatalf("Char() = %q want %q", got.Char(), tc.in)
		}
	}
	if _, ok := FromChar('x'); ok {
		t.Fatalf("expected unknown letter to fail")
	}
}

func TestPlinthOwnershipInvariant(t *testing.T) {
	if !PlinthPiece.Valid() {
		t.Fatalf("plinth should be valid")
	}
	if (Piece{Type: Plinth, Color: White}).Valid() {
		t.Fatalf("owned plinth must be invalid")
	}
	if (Piece{Type: Queen, Color: NoColor}).Valid() {
		t.Fatalf("unowned queen must be invalid")
	}
}

func TestParseColor(t *testing.T) {
	for in, want := range map[string]Color{"w": White, "B": Black, " white ": White, "black": Black} {
		got, ok := ParseColor(in)
		if !ok || got != want {
			t.Fatalf("ParseColor(%q) = %v,%v", in, got, ok)
		}
	}
	if c, ok := ParseColor("x"); ok || c != NoColor {
		t.Fatalf("unknown color should map to NoColor, got %v %v", c, ok)
	}
	if White.Flip() != Black || NoColor.Flip() != NoColor {
		t.Fatalf("unexpected flip")
	}
}

func TestRole(t *testing.T) {
	if got := (Piece{Queen, White}).Role(); got != "q-piece" {
		t.Fatalf("role = %q", got)
	}
	if got := PlinthPiece.Role(); got != "l-piece" {
		t.Fatalf("plinth role = %q", got)
	}
}
