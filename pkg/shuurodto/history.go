package shuurodto

// HistoryEntry is one recorded move with its metadata. Flag is 0 for a plain
// move, 1 promotion, 2 check, 3 checkmate.
type HistoryEntry struct {
	Notation string
	Phase    string
	Ply      int
	Flag     uint8
}
