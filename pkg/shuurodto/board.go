package shuurodto

// PieceView is one occupied square. Role is "<letter>-piece", e.g. "q-piece"
// or "l-piece" for a plinth; Color is "white", "black" or "none".
type PieceView struct {
	Role  string
	Color string
}

// ShopItems counts drafted pieces in the order K Q R B N P C A G.
type ShopItems [9]uint8

// BoardView is a geometry-agnostic snapshot for renderers and presenters.
type BoardView struct {
	SessionID  string
	Variant    string
	Phase      string
	Files      int
	Ranks      int
	SideToMove string
	Pieces     map[string]PieceView
	Plinths    []string
	LastFrom   string
	LastTo     string
	Check      bool
	Outcome    string
	WhiteHand  string
	BlackHand  string
	SFEN       string
}
