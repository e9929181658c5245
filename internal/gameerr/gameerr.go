// Package gameerr holds the typed failures shared by the shop, the board
// sessions and the facade.
package gameerr

import "errors"

// Kind is the error class a caller reacts to.
type Kind int

const (
	KindNone Kind = iota
	// KindInvalidInput: malformed notation or unknown color/piece letters.
	KindInvalidInput
	// KindRuleViolation: well-formed request the rules reject.
	KindRuleViolation
	// KindStateCorruption: internal contract broken. Never recoverable.
	KindStateCorruption
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInvalidInput:
		return "invalid_input"
	case KindRuleViolation:
		return "rule_violation"
	case KindStateCorruption:
		return "state_corruption"
	default:
		return "unknown"
	}
}

// Rule is a rule violation. The string value is the stable code.
type Rule string

func (e Rule) Error() string { return string(e) }

// Input is a parse failure. The string value is the stable code.
type Input string

func (e Input) Error() string { return string(e) }

const (
	ErrWrongPhase         Rule = "wrong_phase"
	ErrNotPurchasable     Rule = "not_purchasable"
	ErrAlreadyConfirmed   Rule = "already_confirmed"
	ErrInsufficientCredit Rule = "insufficient_credit"
	ErrPieceLimit         Rule = "piece_limit"
	ErrSquareOccupied     Rule = "square_occupied"
	ErrOutOfHand          Rule = "out_of_hand"
	ErrIllegalPlacement   Rule = "illegal_placement"
	ErrIllegalMove        Rule = "illegal_move"
	ErrNotYourTurn        Rule = "not_your_turn"
	ErrGameOver           Rule = "game_over"
)

const (
	ErrMalformedMove     Input = "malformed_move"
	ErrMalformedPosition Input = "malformed_position"
	ErrMalformedHand     Input = "malformed_hand"
	ErrUnknownColor      Input = "unknown_color"
	ErrUnknownPiece      Input = "unknown_piece"
	ErrUnknownSquare     Input = "unknown_square"
)

// ErrNoActiveBoard signals the facade lost its active geometry session.
var ErrNoActiveBoard = errors.New("state_corruption: no active board session")

// KindOf classifies err, looking through wrapping.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var r Rule
	if errors.As(err, &r) {
		return KindRuleViolation
	}
	var in Input
	if errors.As(err, &in) {
		return KindInvalidInput
	}
	if errors.Is(err, ErrNoActiveBoard) {
		return KindStateCorruption
	}
	return KindUnknown
}

// Code returns the stable code of the innermost typed error, or "" when err
// carries none.
func Code(err error) string {
	var r Rule
	if errors.As(err, &r) {
		return string(r)
	}
	var in Input
	if errors.As(err, &in) {
		return string(in)
	}
	if errors.Is(err, ErrNoActiveBoard) {
		return "state_corruption"
	}
	return ""
}
