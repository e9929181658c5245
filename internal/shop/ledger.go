// Package shop keeps the drafting economy: per-color credit, purchased piece
// counters and confirmation flags.
package shop

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/park285/shuuro-session/internal/gameerr"
	"github.com/park285/shuuro-session/internal/notation"
	"github.com/park285/shuuro-session/internal/piece"
	"github.com/park285/shuuro-session/internal/variant"
)

// NeutralCredit is reported for anything that is not a player color.
const NeutralCredit = 800

// Items is the per-type counter vector in the order K Q R B N P C A G.
type Items [piece.NumShopTypes]uint8

type entry struct {
	credit    int
	purchased [piece.NumShopTypes]int
	confirmed bool
}

// Ledger is the drafting state of one session. Each player starts with a king
// that is not paid for.
type Ledger struct {
	variant variant.Variant
	players [2]entry
	history []notation.Move
}

// New returns a fresh ledger for v.
func New(v variant.Variant) *Ledger {
	l := &Ledger{variant: v}
	for _, c := range piece.Colors {
		l.players[c] = entry{credit: v.StartCredit()}
		l.players[c].purchased[piece.King] = 1
	}
	return l
}

func (l *Ledger) Variant() variant.Variant { return l.variant }

// Buy charges c for one t.
func (l *Ledger) Buy(c piece.Color, t piece.Type) error {
	if !c.IsPlayer() {
		return fmt.Errorf("buy: color %q: %w", c, gameerr.ErrUnknownColor)
	}
	mv := notation.Move{Kind: notation.Buy, Piece: piece.Piece{Type: t, Color: c}}
	if !l.variant.CanBuy(t) {
		return fmt.Errorf("buy %s: %w", mv, gameerr.ErrNotPurchasable)
	}
	e := &l.players[c]
	if e.confirmed {
		return fmt.Errorf("buy %s: %w", mv, gameerr.ErrAlreadyConfirmed)
	}
	price := variant.Price(t)
	if price > e.credit {
		return fmt.Errorf("buy %s: costs %d, %d left: %w", mv, price, e.credit, gameerr.ErrInsufficientCredit)
	}
	if e.purchased[t] >= l.variant.MaxCount(t) {
		return fmt.Errorf("buy %s: at most %d: %w", mv, l.variant.MaxCount(t), gameerr.ErrPieceLimit)
	}
	if l.total(c) >= l.variant.Geometry().Capacity() {
		return fmt.Errorf("buy %s: deployment zone is full: %w", mv, gameerr.ErrPieceLimit)
	}
	e.credit -= price
	e.purchased[t]++
	l.history = append(l.history, mv)
	return nil
}

// BuyNotation applies a drafting move such as "+Q" (white) or "+q" (black).
func (l *Ledger) BuyNotation(s string) (notation.Move, error) {
	mv, ok := notation.Parse(s)
	if !ok || mv.Kind != notation.Buy {
		return notation.Move{}, fmt.Errorf("buy %q: %w", s, gameerr.ErrMalformedMove)
	}
	if err := l.Buy(mv.Piece.Color, mv.Piece.Type); err != nil {
		return notation.Move{}, err
	}
	return mv, nil
}

// Confirm closes c's drafting. A second call fails and changes nothing.
func (l *Ledger) Confirm(c piece.Color) error {
	if !c.IsPlayer() {
		return fmt.Errorf("confirm: color %q: %w", c, gameerr.ErrUnknownColor)
	}
	if l.players[c].confirmed {
		return fmt.Errorf("confirm %s: %w", c.Name(), gameerr.ErrAlreadyConfirmed)
	}
	l.players[c].confirmed = true
	return nil
}

func (l *Ledger) Confirmed(c piece.Color) bool {
	return c.IsPlayer() && l.players[c].confirmed
}

// BothConfirmed reports whether placement may begin.
func (l *Ledger) BothConfirmed() bool {
	return l.players[piece.White].confirmed && l.players[piece.Black].confirmed
}

// Credit returns c's remaining credit, NeutralCredit for NoColor.
func (l *Ledger) Credit(c piece.Color) int {
	if !c.IsPlayer() {
		return NeutralCredit
	}
	return l.players[c].credit
}

// Items returns c's counters. NoColor yields all zeros.
func (l *Ledger) Items(c piece.Color) Items {
	var out Items
	if !c.IsPlayer() {
		return out
	}
	for t, n := range l.players[c].purchased {
		out[t] = uint8(n)
	}
	return out
}

// Count returns how many of pc have been drafted.
func (l *Ledger) Count(pc piece.Piece) int {
	if !pc.Color.IsPlayer() || int(pc.Type) >= piece.NumShopTypes {
		return 0
	}
	return l.players[pc.Color].purchased[pc.Type]
}

func (l *Ledger) total(c piece.Color) int {
	n := 0
	for _, v := range l.players[c].purchased {
		n += v
	}
	return n
}

// History returns the drafting moves in purchase order.
func (l *Ledger) History() []notation.Move {
	return append([]notation.Move(nil), l.history...)
}

// Hand renders both players' drafts as a hand string, white first, e.g.
// "KQ2R3Pkq8p".
func (l *Ledger) Hand() string {
	var b strings.Builder
	for _, c := range piece.Colors {
		for t, n := range l.players[c].purchased {
			if n == 0 {
				continue
			}
			if n > 1 {
				b.WriteString(strconv.Itoa(n))
			}
			b.WriteRune(piece.Piece{Type: piece.Type(t), Color: c}.Char())
		}
	}
	if b.Len() == 0 {
		return "-"
	}
	return b.String()
}

// SetHand restores the counters from a hand string and recomputes credit from
// the price table. Kings are implied and earlier purchase records are dropped.
// It is refused once either side has
// confirmed, and on any error the ledger is unchanged.
func (l *Ledger) SetHand(s string) error {
	if l.players[piece.White].confirmed || l.players[piece.Black].confirmed {
		return fmt.Errorf("set hand: %w", gameerr.ErrAlreadyConfirmed)
	}
	var next [2]entry
	for _, c := range piece.Colors {
		next[c].purchased[piece.King] = 1
	}
	count := 0
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsDigit(r) {
			count = count*10 + int(r-'0')
			continue
		}
		if r == '-' {
			continue
		}
		pc, ok := piece.FromChar(r)
		if !ok || pc.Type == piece.Plinth {
			return fmt.Errorf("set hand %q: %w", s, gameerr.ErrMalformedHand)
		}
		if count == 0 {
			count = 1
		}
		if pc.Type != piece.King {
			if !l.variant.CanBuy(pc.Type) {
				return fmt.Errorf("set hand %q: %s: %w", s, pc.Type, gameerr.ErrNotPurchasable)
			}
			next[pc.Color].purchased[pc.Type] += count
		}
		count = 0
	}
	for _, c := range piece.Colors {
		credit := l.variant.StartCredit()
		for t, n := range next[c].purchased {
			if piece.Type(t) != piece.King && n > l.variant.MaxCount(piece.Type(t)) {
				return fmt.Errorf("set hand %q: %s: %w", s, piece.Type(t), gameerr.ErrPieceLimit)
			}
			credit -= n * variant.Price(piece.Type(t))
		}
		if credit < 0 {
			return fmt.Errorf("set hand %q: %s overspends: %w", s, c.Name(), gameerr.ErrInsufficientCredit)
		}
		next[c].credit = credit
	}
	l.players = next
	l.history = nil
	return nil
}
