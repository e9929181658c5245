package variant

import (
	"testing"

	"github.com/park285/shuuro-session/internal/piece"
)

func TestLookupNamesAndCodes(t *testing.T) {
	cases := map[string]Variant{
		"shuuro":          Shuuro,
		"shuuroFairy":     ShuuroFairy,
		"STANDARD":        Standard,
		"standardfairy":   StandardFairy,
		"shuuroMini":      ShuuroMini,
		"shuuroMiniFairy": ShuuroMiniFairy,
		"2":               Standard,
		" 4 ":             ShuuroMini,
	}
	for in, want := range cases {
		got, ok := Lookup(in)
		if !ok || got != want {
			t.Fatalf("Lookup(%q) = %v,%v want %v", in, got, ok, want)
		}
	}
}

func TestUnknownFallsBackToDefault(t *testing.T) {
	for _, in := range []string{"", "crazyhouse", "17", "-1"} {
		if got, ok := Lookup(in); ok || got != Default {
			t.Fatalf("Lookup(%q) = %v,%v want default and unknown", in, got, ok)
		}
	}
}

func TestGeometryMapping(t *testing.T) {
	cases := map[Variant]int{
		Shuuro: 12, ShuuroFairy: 12, Standard: 8, StandardFairy: 8, ShuuroMini: 6, ShuuroMiniFairy: 6,
	}
	for v, files := range cases {
		if got := v.Geometry().Files(); got != files {
			t.Fatalf("%s files = %d want %d", v, got, files)
		}
	}
}

func TestPurchasable(t *testing.T) {
	for _, v := range All {
		if v.CanBuy(piece.King) || v.CanBuy(piece.Plinth) {
			t.Fatalf("%s: king/plinth must never be purchasable", v)
		}
		if !v.CanBuy(piece.Queen) {
			t.Fatalf("%s: queen should be purchasable", v)
		}
		if v.CanBuy(piece.Giraffe) != v.IsFairy() {
			t.Fatalf("%s: giraffe purchasable only in fairy variants", v)
		}
	}
}

func TestGiraffeCapMatchesFixture(t *testing.T) {
	// three +G from 800 leave 660: two purchases at 70, the third rejected by the cap
	if Price(piece.Giraffe) != 70 || ShuuroFairy.MaxCount(piece.Giraffe) != 2 {
		t.Fatalf("giraffe price/cap changed: %d/%d", Price(piece.Giraffe), ShuuroFairy.MaxCount(piece.Giraffe))
	}
	if ShuuroFairy.StartCredit() != 800 {
		t.Fatalf("start credit = %d", ShuuroFairy.StartCredit())
	}
}

func TestPawnCapFitsZone(t *testing.T) {
	for _, v := range All {
		g := v.Geometry()
		if v.MaxCount(piece.Pawn) > (g.DeployRanks()-1)*g.Files() {
			t.Fatalf("%s: pawn cap exceeds non-back-rank zone", v)
		}
	}
}
