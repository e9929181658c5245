// Package variant is the static registry mapping a variant identifier to its
// board geometry and drafting rules.
package variant

import (
	"strconv"
	"strings"

	"github.com/park285/shuuro-session/internal/piece"
)

// Variant identifies ruleset plus geometry.
type Variant uint8

const (
	Shuuro Variant = iota
	ShuuroFairy
	Standard
	StandardFairy
	ShuuroMini
	ShuuroMiniFairy
)

// Default is used whenever an identifier cannot be recognised.
const Default = Shuuro

// All lists every variant in code order.
var All = []Variant{Shuuro, ShuuroFairy, Standard, StandardFairy, ShuuroMini, ShuuroMiniFairy}

var names = [...]string{"shuuro", "shuuroFairy", "standard", "standardFairy", "shuuroMini", "shuuroMiniFairy"}

func (v Variant) String() string {
	if int(v) >= len(names) {
		return names[Default]
	}
	return names[v]
}

// Lookup resolves a caller-supplied name or numeric code.
func Lookup(s string) (Variant, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Default, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 0 && n < len(names) {
			return Variant(n), true
		}
		return Default, false
	}
	for i, name := range names {
		if strings.EqualFold(name, s) {
			return Variant(i), true
		}
	}
	return Default, false
}

// Geometry is one of the three fixed board sizes.
type Geometry uint8

const (
	Large Geometry = iota
	Medium
	Small
)

// Files returns the board width.
func (g Geometry) Files() int {
	switch g {
	case Small:
		return 6
	case Medium:
		return 8
	default:
		return 12
	}
}

// Ranks returns the board height. All geometries are square.
func (g Geometry) Ranks() int { return g.Files() }

func (g Geometry) String() string {
	switch g {
	case Small:
		return "6x6"
	case Medium:
		return "8x8"
	default:
		return "12x12"
	}
}

// DeployRanks is the depth of each side's placement zone.
func (g Geometry) DeployRanks() int {
	if g == Small {
		return 2
	}
	return 3
}

// Capacity is the number of squares in one placement zone.
func (g Geometry) Capacity() int { return g.DeployRanks() * g.Files() }

// PlinthCount is the number of obstacles laid out when placement begins.
func (g Geometry) PlinthCount() int {
	switch g {
	case Small:
		return 2
	case Medium:
		return 4
	default:
		return 8
	}
}

// Geometry returns the board size backing v.
func (v Variant) Geometry() Geometry {
	switch v {
	case Standard, StandardFairy:
		return Medium
	case ShuuroMini, ShuuroMiniFairy:
		return Small
	default:
		return Large
	}
}

// IsFairy reports whether the fairy piece kinds are in play.
func (v Variant) IsFairy() bool {
	return v == ShuuroFairy || v == StandardFairy || v == ShuuroMiniFairy
}

// StartCredit is each player's drafting budget.
func (v Variant) StartCredit() int {
	if v.Geometry() == Small {
		return 400
	}
	return 800
}

// price table, variant independent
var prices = [piece.NumTypes]int{
	piece.King:       0,
	piece.Queen:      110,
	piece.Rook:       70,
	piece.Bishop:     40,
	piece.Knight:     40,
	piece.Pawn:       10,
	piece.Chancellor: 110,
	piece.ArchBishop: 110,
	piece.Giraffe:    70,
	piece.Plinth:     0,
}

// Price returns the credit cost of t.
func Price(t piece.Type) int {
	if int(t) >= piece.NumTypes {
		return 0
	}
	return prices[t]
}

// per-geometry shop caps, indexed by piece.Type
var maxCounts = map[Geometry][piece.NumTypes]int{
	Large:  {1, 3, 6, 6, 6, 12, 2, 2, 2, 0},
	Medium: {1, 2, 4, 4, 4, 8, 1, 1, 2, 0},
	Small:  {1, 1, 2, 2, 2, 6, 1, 1, 1, 0},
}

// InPlay reports whether t can exist at all under v. Fairy kinds only exist in
// fairy variants; plinths always exist but never belong to a player.
func (v Variant) InPlay(t piece.Type) bool {
	switch t {
	case piece.Chancellor, piece.ArchBishop, piece.Giraffe:
		return v.IsFairy()
	default:
		return int(t) < piece.NumTypes
	}
}

// CanBuy reports whether t is purchasable under v.
func (v Variant) CanBuy(t piece.Type) bool {
	if t == piece.King || t == piece.Plinth {
		return false
	}
	return v.InPlay(t)
}

// MaxCount caps how many of t a single player may own under v.
func (v Variant) MaxCount(t piece.Type) int {
	if !v.InPlay(t) || int(t) >= piece.NumTypes {
		return 0
	}
	g := v.Geometry()
	n := maxCounts[g][t]
	if t == piece.Pawn {
		if pawnRoom := (g.DeployRanks() - 1) * g.Files(); n > pawnRoom {
			n = pawnRoom
		}
	}
	return n
}

// PromotionTypes lists the kinds a pawn may promote to under v.
func (v Variant) PromotionTypes() []piece.Type {
	out := []piece.Type{piece.Queen, piece.Rook, piece.Bishop, piece.Knight}
	if v.IsFairy() {
		out = append(out, piece.Chancellor, piece.ArchBishop, piece.Giraffe)
	}
	return out
}
