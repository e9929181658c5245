package presenter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/park285/shuuro-session/internal/msgcat"
	"github.com/park285/shuuro-session/internal/notation"
	"github.com/park285/shuuro-session/internal/piece"
	"github.com/park285/shuuro-session/pkg/shuurodto"
)

const historyRecentLimit = 8

// Formatter renders session DTOs into plain text blocks.
type Formatter struct {
	catalog *msgcat.Catalog
	title   cases.Caser
}

func NewFormatter(catalog *msgcat.Catalog) *Formatter {
	return &Formatter{catalog: catalog, title: cases.Title(language.English)}
}

func (f *Formatter) render(key string, data map[string]any, fallback string) string {
	if f == nil || f.catalog == nil {
		return fallback
	}
	return f.catalog.RenderOr(key, data, fallback)
}

// Board draws view as a grid, rank 1 at the bottom. A bare plinth is '#', a
// piece standing on one is followed by '*'.
func (f *Formatter) Board(view shuurodto.BoardView) string {
	var sb strings.Builder
	side := f.title.String(view.SideToMove)
	sb.WriteString(f.render("title.board", map[string]any{
		"Variant": view.Variant,
		"Phase":   f.Phase(view.Phase),
		"Side":    side,
	}, view.Variant+" | "+view.Phase))
	sb.WriteString("\n\n")
	writeGrid(&sb, view)

	if view.Outcome != "" && view.Outcome != "ongoing" {
		sb.WriteString("\n")
		sb.WriteString(f.Outcome(view.Outcome))
	} else if view.Check {
		sb.WriteString("\n")
		sb.WriteString(f.render("status.check", map[string]any{"Color": side}, side+" is in check"))
	}
	if view.LastTo != "" {
		last := view.LastTo
		if view.LastFrom != "" {
			last = view.LastFrom + view.LastTo
		}
		sb.WriteString("\n")
		sb.WriteString(f.render("status.last_move", map[string]any{"Move": last}, last))
	}
	if view.WhiteHand != "" || view.BlackHand != "" {
		sb.WriteString("\n")
		sb.WriteString(f.Hands(view.BlackHand, view.WhiteHand))
	}
	return sb.String()
}

func writeGrid(sb *strings.Builder, view shuurodto.BoardView) {
	plinths := make(map[string]bool, len(view.Plinths))
	for _, sq := range view.Plinths {
		plinths[sq] = true
	}
	labelWidth := len(strconv.Itoa(view.Ranks))
	for r := view.Ranks - 1; r >= 0; r-- {
		fmt.Fprintf(sb, "%*d ", labelWidth, r+1)
		for fl := 0; fl < view.Files; fl++ {
			name := notation.Coord{File: fl, Rank: r}.String()
			pv, occupied := view.Pieces[name]
			switch {
			case occupied:
				sb.WriteRune(viewChar(pv))
				if plinths[name] {
					sb.WriteByte('*')
				} else {
					sb.WriteByte(' ')
				}
			case plinths[name]:
				sb.WriteString("# ")
			default:
				sb.WriteString(". ")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(strings.Repeat(" ", labelWidth+1))
	for fl := 0; fl < view.Files; fl++ {
		sb.WriteRune(rune('a' + fl))
		sb.WriteByte(' ')
	}
	sb.WriteByte('\n')
}

func viewChar(pv shuurodto.PieceView) rune {
	letter, _ := strings.CutSuffix(pv.Role, "-piece")
	if letter == "" {
		return '?'
	}
	if pv.Color == piece.White.Name() {
		return []rune(strings.ToUpper(letter))[0]
	}
	return []rune(letter)[0]
}

// Shop lists one color's drafted pieces in shop order with their names.
func (f *Formatter) Shop(color string, credit int, confirmed bool, items shuurodto.ShopItems) string {
	var sb strings.Builder
	name := f.title.String(color)
	sb.WriteString(f.render("title.shop", map[string]any{
		"Color":     name,
		"Credit":    credit,
		"Confirmed": confirmed,
	}, fmt.Sprintf("%s credit %d", name, credit)))
	for i, n := range items {
		if n == 0 {
			continue
		}
		t := piece.Types[i]
		fmt.Fprintf(&sb, "\n• %s x%d", f.title.String(t.String()), n)
	}
	return sb.String()
}

// Hands renders both hands, black first, the order CountHandPieces uses.
func (f *Formatter) Hands(black, white string) string {
	if black == "" {
		black = "-"
	}
	if white == "" {
		white = "-"
	}
	return f.render("status.hands", map[string]any{"Black": black, "White": white},
		"black "+black+" | white "+white)
}

func (f *Formatter) Phase(phase string) string {
	return f.render("phase."+strings.ToLower(strings.TrimSpace(phase)), nil, phase)
}

func (f *Formatter) Outcome(outcome string) string {
	return f.render("outcome."+strings.ToLower(strings.TrimSpace(outcome)), nil, outcome)
}

// History lists the most recent entries, newest last.
func (f *Formatter) History(entries []shuurodto.HistoryEntry) string {
	var sb strings.Builder
	sb.WriteString(f.render("title.history", map[string]any{"Count": len(entries)}, "history"))
	start := 0
	if len(entries) > historyRecentLimit {
		start = len(entries) - historyRecentLimit
		sb.WriteString("\n…")
	}
	for _, e := range entries[start:] {
		fmt.Fprintf(&sb, "\n%3d %-9s %s", e.Ply, e.Phase, e.Notation)
		switch e.Flag {
		case 1:
			sb.WriteString(" (promotion)")
		case 2:
			sb.WriteString(" (check)")
		case 3:
			sb.WriteString(" (mate)")
		}
	}
	return sb.String()
}

// Moves prints a legal move map with sorted keys. Keys without destinations
// are left out.
func (f *Formatter) Moves(moves map[string][]string) string {
	keys := make([]string, 0, len(moves))
	for k, dests := range moves {
		if len(dests) > 0 {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return "-"
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		dests := append([]string(nil), moves[k]...)
		sort.Strings(dests)
		lines = append(lines, k+": "+strings.Join(dests, " "))
	}
	return strings.Join(lines, "\n")
}

// Error renders a domain error through the "error.<code>" messages. phase
// and color fill the templates that mention them.
func (f *Formatter) Error(derr *shuurodto.DomainError, phase, color string) string {
	if derr == nil {
		return ""
	}
	data := map[string]any{
		"Phase":   f.Phase(phase),
		"Color":   f.title.String(color),
		"Message": derr.Error(),
	}
	fallback := f.render("error.fallback", data, derr.Error())
	if derr.Code == "" {
		return fallback
	}
	return f.render("error."+derr.Code, data, fallback)
}

func (f *Formatter) Rendered(path string) string {
	return f.render("status.rendered", map[string]any{"Path": path}, path)
}

func (f *Formatter) VariantChanged(variant, id string) string {
	return f.render("status.variant_changed", map[string]any{"Variant": variant, "ID": id}, variant+" "+id)
}

func (f *Formatter) Help() string {
	title := f.render("title.help", nil, "commands")
	return title + "\n" + strings.TrimRight(f.render("help", nil, ""), "\n")
}
