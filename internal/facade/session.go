// Package facade is the single entry point for a Shuuro game. A Session owns
// the drafting ledger and exactly one geometry-specific board, chosen from the
// variant when the session is built, and reshapes every answer into square
// names, string-keyed maps and fixed-order vectors.
package facade

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/park285/shuuro-session/internal/engine"
	"github.com/park285/shuuro-session/internal/gameerr"
	"github.com/park285/shuuro-session/internal/notation"
	"github.com/park285/shuuro-session/internal/piece"
	"github.com/park285/shuuro-session/internal/session"
	"github.com/park285/shuuro-session/internal/shop"
	"github.com/park285/shuuro-session/internal/variant"
	"github.com/park285/shuuro-session/pkg/shuurodto"
)

// Option customises a Session.
type Option func(*Session)

// WithLogger sets the logger. nil keeps the no-op default.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.base = l
		}
	}
}

// WithSeed fixes the plinth layout RNG so sessions are reproducible.
func WithSeed(seed uint64) Option {
	return func(s *Session) {
		s.seed = seed
		s.seeded = true
	}
}

// Session is one game. It is not safe for concurrent use.
type Session struct {
	id      uuid.UUID
	variant variant.Variant
	ledger  *shop.Ledger
	board   geometrySession
	base    *zap.Logger
	logger  *zap.Logger
	rng     *rand.Rand
	seed    uint64
	seeded  bool
}

// New builds a session for variantID, a name or numeric code. Unknown
// identifiers fall back to variant.Default.
func New(variantID string, opts ...Option) *Session {
	s := &Session{base: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	s.reset(variantID)
	return s
}

func (s *Session) reset(variantID string) {
	v, known := variant.Lookup(variantID)
	s.id = uuid.New()
	s.variant = v
	s.logger = s.base.With(zap.String("session_id", s.id.String()))
	s.ledger = shop.New(v)
	s.board = newBoard(v, s.logger)
	if s.seeded {
		s.rng = rand.New(rand.NewPCG(s.seed, s.seed))
	} else {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if !known && strings.TrimSpace(variantID) != "" {
		s.logger.Warn("session_variant_fallback", zap.String("requested", variantID), zap.String("variant", v.String()))
	}
	s.logger.Info("session_created", zap.String("variant", v.String()), zap.String("geometry", v.Geometry().String()))
}

func newBoard(v variant.Variant, logger *zap.Logger) geometrySession {
	switch v.Geometry() {
	case variant.Small:
		return &boardAdapter[engine.Small]{b: session.New[engine.Small](v, logger)}
	case variant.Medium:
		return &boardAdapter[engine.Medium]{b: session.New[engine.Medium](v, logger)}
	default:
		return &boardAdapter[engine.Large]{b: session.New[engine.Large](v, logger)}
	}
}

// active returns the one live board. Losing it breaks the facade's own
// contract, so it panics instead of returning an error.
func (s *Session) active() geometrySession {
	if s.board == nil {
		panic(gameerr.ErrNoActiveBoard)
	}
	return s.board
}

func (s *Session) ID() string { return s.id.String() }
func (s *Session) Variant() variant.Variant { return s.variant }
func (s *Session) Phase() session.Phase { return s.active().phase() }
func (s *Session) StartCredit() int { return s.variant.StartCredit() }
func (s *Session) Outcome() string { return s.active().outcome().String() }

// ChangeVariant discards all state and starts over on variantID.
func (s *Session) ChangeVariant(variantID string) {
	prev := s.variant
	s.board = nil
	s.reset(variantID)
	s.logger.Info("session_variant_changed", zap.String("from", prev.String()), zap.String("to", s.variant.String()))
}

func (s *Session) requirePhase(op string, want session.Phase) error {
	if got := s.active().phase(); got != want {
		return fmt.Errorf("%s in %s: %w", op, got, gameerr.ErrWrongPhase)
	}
	return nil
}

func (s *Session) rejected(op string, err error) error {
	s.logger.Debug("session_rejected",
		zap.String("op", op),
		zap.String("code", gameerr.Code(err)),
		zap.String("kind", gameerr.KindOf(err).String()),
		zap.Error(err),
	)
	return err
}

// Buy applies a drafting move such as "+Q" or "+q".
func (s *Session) Buy(move string) error {
	if err := s.requirePhase("buy", session.Shopping); err != nil {
		return s.rejected("buy", err)
	}
	mv, err := s.ledger.BuyNotation(move)
	if err != nil {
		return s.rejected("buy", err)
	}
	s.logger.Debug("session_buy", zap.String("move", mv.String()), zap.Int("credit", s.ledger.Credit(mv.Piece.Color)))
	return nil
}

// Confirm closes drafting for color ("w"/"b"). Once both colors confirmed,
// the drafted pieces become hands, plinths are laid and placement begins.
func (s *Session) Confirm(color string) error {
	c, ok := piece.ParseColor(color)
	if !ok {
		return s.rejected("confirm", fmt.Errorf("confirm %q: %w", color, gameerr.ErrUnknownColor))
	}
	if err := s.requirePhase("confirm", session.Shopping); err != nil {
		return s.rejected("confirm", err)
	}
	if err := s.ledger.Confirm(c); err != nil {
		return s.rejected("confirm", err)
	}
	s.logger.Info("session_confirmed", zap.String("color", c.Name()))
	if s.ledger.BothConfirmed() {
		return s.beginPlacement()
	}
	return nil
}

func (s *Session) beginPlacement() error {
	b := s.active()
	for _, mv := range s.ledger.History() {
		b.record(mv)
	}
	if err := b.advance(session.Placement); err != nil {
		return err
	}
	if err := b.setHand(s.ledger.Hand()); err != nil {
		return err
	}
	if err := b.layPlinths(s.rng, s.variant.Geometry().PlinthCount()); err != nil {
		return err
	}
	s.logger.Info("session_phase_changed", zap.String("phase", session.Placement.String()), zap.String("sfen", b.sfen()))
	return nil
}

// Credit is color's remaining credit. Anything but "w"/"b" reports the
// neutral 800.
func (s *Session) Credit(color string) int {
	c, _ := piece.ParseColor(color)
	return s.ledger.Credit(c)
}

func (s *Session) IsConfirmed(color string) bool {
	c, _ := piece.ParseColor(color)
	return s.ledger.Confirmed(c)
}

// ShopItems is color's draft vector in K Q R B N P C A G order.
func (s *Session) ShopItems(color string) shuurodto.ShopItems {
	c, _ := piece.ParseColor(color)
	return shuurodto.ShopItems(s.ledger.Items(c))
}

// PieceCount is the drafted count for one piece letter; 0 when unknown.
func (s *Session) PieceCount(letter string) int {
	pc, ok := piece.ParseChar(letter)
	if !ok {
		return 0
	}
	return s.ledger.Count(pc)
}

// SetShopHand restores both drafts from a hand string.
func (s *Session) SetShopHand(hand string) error {
	if err := s.requirePhase("set shop hand", session.Shopping); err != nil {
		return s.rejected("set_shop_hand", err)
	}
	if err := s.ledger.SetHand(hand); err != nil {
		return s.rejected("set_shop_hand", err)
	}
	return nil
}

// SetSFEN restores a snapshot. A snapshot with pieces in hand skips drafting.
func (s *Session) SetSFEN(sfen string) error {
	b := s.active()
	before := b.phase()
	if err := b.setSFEN(sfen); err != nil {
		return s.rejected("set_sfen", err)
	}
	if after := b.phase(); after != before {
		s.logger.Info("session_phase_changed", zap.String("phase", after.String()), zap.String("cause", "sfen"))
	}
	return nil
}

func (s *Session) GenerateSFEN() string { return s.active().sfen() }

// SetHand replaces the placement hands on the board.
func (s *Session) SetHand(hand string) error {
	if err := s.active().setHand(hand); err != nil {
		return s.rejected("set_hand", err)
	}
	return nil
}

// SideToMove is "w" or "b".
func (s *Session) SideToMove() string { return s.active().sideToMove().String() }

func (s *Session) MapPlinths() map[string]shuurodto.PieceView { return s.active().plinths() }
func (s *Session) MapPieces() map[string]shuurodto.PieceView { return s.active().pieces() }
func (s *Session) PiecesCount() int { return s.active().piecesCount() }

// LastMove is "" before the first recorded move.
func (s *Session) LastMove() string { return s.active().lastMove() }

// LastMoveFlag is 0 none, 1 promotion, 2 check, 3 checkmate.
func (s *Session) LastMoveFlag() uint8 { return uint8(s.active().lastMoveFlag()) }

// IsCheck reports false for anything but "w"/"b".
func (s *Session) IsCheck(color string) bool {
	c, ok := piece.ParseColor(color)
	if !ok {
		return false
	}
	return s.active().isCheck(c)
}

// PlaceMoves maps "<LETTER>@" to the squares that piece may go on. The key is
// uppercase for both colors. The list may be empty; a malformed letter yields
// an empty map.
func (s *Session) PlaceMoves(letter string) map[string][]string {
	out := make(map[string][]string)
	pc, ok := piece.ParseChar(letter)
	if !ok || !pc.Valid() || pc.Type == piece.Plinth {
		return out
	}
	out[strings.ToUpper(string(pc.Char()))+"@"] = s.active().placeMoves(pc)
	return out
}

// CountHandPieces lists black's hand then white's, one letter per piece.
func (s *Session) CountHandPieces() string {
	b := s.active()
	return b.handLetters(piece.Black) + b.handLetters(piece.White)
}

// Place applies "Q@c1" and returns the recorded notation.
func (s *Session) Place(move string) (string, error) {
	b := s.active()
	rec, err := b.place(move)
	if err != nil {
		return "", s.rejected("place", err)
	}
	if b.phase() == session.Fight {
		s.logger.Info("session_phase_changed", zap.String("phase", session.Fight.String()), zap.String("cause", "hands_empty"))
	}
	return rec, nil
}

// StartFight ends placement now; unplaced pieces are forfeited.
func (s *Session) StartFight() error {
	if err := s.active().startFight(); err != nil {
		return s.rejected("start_fight", err)
	}
	s.logger.Info("session_phase_changed", zap.String("phase", session.Fight.String()), zap.String("cause", "start_fight"))
	return nil
}

// LegalMoves takes a color ("w"/"b") or a square. For a color it maps every
// origin square to its destinations; for a square it returns that square's
// destinations when it holds a piece of the side to move. Anything else is
// an empty map.
func (s *Session) LegalMoves(colorOrSquare string) map[string][]string {
	if c, ok := piece.ParseColor(colorOrSquare); ok {
		return s.active().legalMoves(c)
	}
	return s.active().legalMovesFrom(strings.TrimSpace(colorOrSquare))
}

// MakeMove applies a normal move and echoes the notation it was recorded as,
// which may carry =X, + or # markers.
func (s *Session) MakeMove(move string) (string, error) {
	rec, err := s.active().makeMove(move)
	if err != nil {
		return "", s.rejected("make_move", err)
	}
	s.logger.Debug("session_move", zap.String("move", rec))
	return rec, nil
}

// History lists every recorded move, drafting included.
func (s *Session) History() []shuurodto.HistoryEntry {
	entries := s.active().history()
	out := make([]shuurodto.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, shuurodto.HistoryEntry{
			Notation: e.Notation,
			Phase:    e.Phase.String(),
			Ply:      e.Ply,
			Flag:     uint8(e.Flag),
		})
	}
	return out
}

// BoardView collects everything a renderer needs.
func (s *Session) BoardView() shuurodto.BoardView {
	b := s.active()
	geo := s.variant.Geometry()
	view := shuurodto.BoardView{
		SessionID:  s.id.String(),
		Variant:    s.variant.String(),
		Phase:      b.phase().String(),
		Files:      geo.Files(),
		Ranks:      geo.Ranks(),
		SideToMove: b.sideToMove().Name(),
		Pieces:     b.pieces(),
		Check:      b.isCheck(b.sideToMove()),
		Outcome:    b.outcome().String(),
		WhiteHand:  b.handLetters(piece.White),
		BlackHand:  b.handLetters(piece.Black),
		SFEN:       b.sfen(),
	}
	for sq := range b.plinths() {
		view.Plinths = append(view.Plinths, sq)
	}
	sort.Strings(view.Plinths)
	if mv, ok := notation.Parse(b.lastMove()); ok {
		switch mv.Kind {
		case notation.Normal:
			view.LastFrom, view.LastTo = mv.From.String(), mv.To.String()
		case notation.Put:
			view.LastTo = mv.To.String()
		}
	}
	return view
}

// DomainError converts err into the caller-facing shape. nil stays nil.
func DomainError(err error) *shuurodto.DomainError {
	if err == nil {
		return nil
	}
	return &shuurodto.DomainError{
		Code:    gameerr.Code(err),
		Kind:    gameerr.KindOf(err).String(),
		Message: err.Error(),
	}
}
