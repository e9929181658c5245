// Package render draws a session snapshot as a PNG image.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"
	"strconv"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/park285/shuuro-session/internal/gameerr"
	"github.com/park285/shuuro-session/internal/notation"
	"github.com/park285/shuuro-session/internal/piece"
	"github.com/park285/shuuro-session/pkg/shuurodto"
)

// DefaultSquareSize is used when a Renderer is built with a non-positive size.
const DefaultSquareSize = 56

type Options struct {
	// Header replaces the "<variant> | <phase>" title.
	Header string
	// Turn replaces the side-to-move or outcome line.
	Turn string
	// Hands draws both hands under the board.
	Hands bool
}

type BoardRenderer interface {
	RenderPNG(ctx context.Context, view shuurodto.BoardView, opts Options) ([]byte, error)
}

type Renderer struct {
	squareSize int
}

var _ BoardRenderer = (*Renderer)(nil)

func New(squareSize int) *Renderer {
	if squareSize <= 0 {
		squareSize = DefaultSquareSize
	}
	return &Renderer{squareSize: squareSize}
}

var (
	lightSquare         = color.RGBA{233, 207, 163, 255}
	darkSquare          = color.RGBA{187, 136, 96, 255}
	backgroundColor     = color.RGBA{20, 22, 32, 255}
	lastMoveFill        = color.NRGBA{R: 255, G: 228, B: 120, A: 140}
	checkFill           = color.NRGBA{R: 230, G: 64, B: 64, A: 150}
	hudPanelColor       = color.NRGBA{R: 28, G: 31, B: 46, A: 250}
	hudTurnPanelColor   = color.NRGBA{R: 32, G: 35, B: 52, A: 245}
	hudShadowColor      = color.NRGBA{0, 0, 0, 50}
	hudTextPrimary      = color.NRGBA{R: 236, G: 239, B: 255, A: 255}
	hudTurnTextColor    = color.NRGBA{R: 204, G: 210, B: 236, A: 255}
	coordinateTextColor = color.NRGBA{R: 8, G: 214, B: 120, A: 255}
)

// layout holds the pixel geometry of one render.
type layout struct {
	files, ranks int
	square       int
	origin       image.Point
	board        image.Rectangle
	size         image.Point
}

func newLayout(files, ranks, square int) layout {
	const (
		sideMargin   = 36
		topMargin    = 96
		bottomMargin = 64
	)
	origin := image.Point{X: sideMargin, Y: topMargin}
	board := image.Rect(origin.X, origin.Y, origin.X+files*square, origin.Y+ranks*square)
	return layout{
		files:  files,
		ranks:  ranks,
		square: square,
		origin: origin,
		board:  board,
		size:   image.Point{X: board.Max.X + sideMargin, Y: board.Max.Y + bottomMargin},
	}
}

// squareRect maps a coordinate to pixels with rank 1 at the bottom.
func (l layout) squareRect(c notation.Coord) image.Rectangle {
	x := l.origin.X + c.File*l.square
	y := l.origin.Y + (l.ranks-1-c.Rank)*l.square
	return image.Rect(x, y, x+l.square, y+l.square)
}

func (l layout) contains(c notation.Coord) bool {
	return c.File >= 0 && c.File < l.files && c.Rank >= 0 && c.Rank < l.ranks
}

func (l layout) coord(name string) (notation.Coord, error) {
	c, ok := notation.ParseSquare(name)
	if !ok || !l.contains(c) {
		return notation.Coord{}, fmt.Errorf("square %q: %w", name, gameerr.ErrUnknownSquare)
	}
	return c, nil
}

func (r *Renderer) RenderPNG(ctx context.Context, view shuurodto.BoardView, opts Options) ([]byte, error) {
	if view.Files <= 0 || view.Ranks <= 0 || view.Files > 26 {
		return nil, fmt.Errorf("render %dx%d board: %w", view.Files, view.Ranks, gameerr.ErrMalformedPosition)
	}
	l := newLayout(view.Files, view.Ranks, r.squareSize)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	img := image.NewRGBA(image.Rect(0, 0, l.size.X, l.size.Y))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, imagedraw.Src)

	title, turn := hudTexts(view, opts)
	drawHUD(img, l, title, turn)
	drawSquares(img, l)
	if err := drawHighlights(img, l, view); err != nil {
		return nil, err
	}
	if err := drawPlinths(img, l, view.Plinths); err != nil {
		return nil, err
	}
	if err := drawPieces(ctx, img, l, view.Pieces); err != nil {
		return nil, err
	}
	drawCoordinates(img, l)
	if opts.Hands {
		drawHands(img, l, view.WhiteHand, view.BlackHand)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return pngBuf.Bytes(), nil
}

func hudTexts(view shuurodto.BoardView, opts Options) (string, string) {
	title := strings.TrimSpace(opts.Header)
	if title == "" {
		title = view.Variant + " | " + view.Phase
	}
	turn := strings.TrimSpace(opts.Turn)
	if turn == "" {
		switch view.Outcome {
		case "", "ongoing":
			turn = view.SideToMove + " to move"
			if view.Check {
				turn += ", check"
			}
		default:
			turn = strings.ReplaceAll(view.Outcome, "_", " ")
		}
	}
	return title, turn
}

func drawSquares(dst imagedraw.Image, l layout) {
	for r := 0; r < l.ranks; r++ {
		for f := 0; f < l.files; f++ {
			clr := lightSquare
			if (f+r)%2 == 0 {
				clr = darkSquare
			}
			rect := l.squareRect(notation.Coord{File: f, Rank: r})
			imagedraw.Draw(dst, rect, image.NewUniform(clr), image.Point{}, imagedraw.Src)
		}
	}
}

func drawHighlights(img *image.RGBA, l layout, view shuurodto.BoardView) error {
	for _, name := range []string{view.LastFrom, view.LastTo} {
		if name == "" {
			continue
		}
		c, err := l.coord(name)
		if err != nil {
			return err
		}
		imagedraw.Draw(img, l.squareRect(c), image.NewUniform(lastMoveFill), image.Point{}, imagedraw.Over)
	}
	if !view.Check {
		return nil
	}
	king := piece.Piece{Type: piece.King}.Role()
	for name, pv := range view.Pieces {
		if pv.Role != king || pv.Color != view.SideToMove {
			continue
		}
		c, err := l.coord(name)
		if err != nil {
			return err
		}
		imagedraw.Draw(img, l.squareRect(c), image.NewUniform(checkFill), image.Point{}, imagedraw.Over)
	}
	return nil
}

func drawPlinths(dst imagedraw.Image, l layout, plinths []string) error {
	for _, name := range plinths {
		c, err := l.coord(name)
		if err != nil {
			return err
		}
		tok, err := tokenImage(piece.PlinthPiece, l.square)
		if err != nil {
			return err
		}
		imagedraw.Draw(dst, l.squareRect(c), tok, image.Point{}, imagedraw.Over)
	}
	return nil
}

// drawPieces draws player pieces slightly inset so a plinth underneath stays
// visible around a knight standing on it.
func drawPieces(ctx context.Context, dst imagedraw.Image, l layout, pieces map[string]shuurodto.PieceView) error {
	inset := l.square / 10
	for name, pv := range pieces {
		if err := ctx.Err(); err != nil {
			return err
		}
		c, err := l.coord(name)
		if err != nil {
			return err
		}
		pc, err := pieceOf(pv)
		if err != nil {
			return fmt.Errorf("square %s: %w", name, err)
		}
		tok, err := tokenImage(pc, l.square-2*inset)
		if err != nil {
			return err
		}
		rect := l.squareRect(c).Inset(inset)
		imagedraw.Draw(dst, rect, tok, image.Point{}, imagedraw.Over)
	}
	return nil
}

func pieceOf(pv shuurodto.PieceView) (piece.Piece, error) {
	letter, ok := strings.CutSuffix(pv.Role, "-piece")
	if !ok || len(letter) != 1 {
		return piece.Piece{}, fmt.Errorf("role %q: %w", pv.Role, gameerr.ErrUnknownPiece)
	}
	c, ok := piece.ParseColor(pv.Color)
	if !ok {
		return piece.Piece{}, fmt.Errorf("color %q: %w", pv.Color, gameerr.ErrUnknownColor)
	}
	if c == piece.White {
		letter = strings.ToUpper(letter)
	}
	pc, ok := piece.ParseChar(letter)
	if !ok || !pc.Valid() || pc.Type == piece.Plinth {
		return piece.Piece{}, fmt.Errorf("role %q: %w", pv.Role, gameerr.ErrUnknownPiece)
	}
	return pc, nil
}

func drawCoordinates(dst imagedraw.Image, l layout) {
	drawer := &font.Drawer{
		Dst:  dst,
		Face: basicfont.Face7x13,
		Src:  image.NewUniform(coordinateTextColor),
	}
	ascent := basicfont.Face7x13.Metrics().Ascent.Ceil()
	for r := 0; r < l.ranks; r++ {
		rect := l.squareRect(notation.Coord{File: 0, Rank: r})
		drawCenteredText(drawer, strconv.Itoa(r+1), l.origin.X/2, rect.Min.Y+l.square/2+ascent/2)
	}
	for f := 0; f < l.files; f++ {
		rect := l.squareRect(notation.Coord{File: f, Rank: 0})
		drawCenteredText(drawer, string(rune('a'+f)), rect.Min.X+l.square/2, l.board.Max.Y+ascent+4)
	}
}

func drawHands(img *image.RGBA, l layout, white, black string) {
	if white == "" {
		white = "-"
	}
	if black == "" {
		black = "-"
	}
	text := "white " + white + "  black " + black
	drawer := &font.Drawer{Dst: img, Face: basicfont.Face7x13}
	rect := image.Rect(l.board.Min.X, l.board.Max.Y+24, l.board.Max.X, l.board.Max.Y+48)
	text = truncateWithEllipsis(drawer.Face, text, rect.Dx()-16)
	drawRoundedPanel(img, rect, 8, hudTurnPanelColor)
	drawCenteredString(drawer, rect, text, hudTurnTextColor)
}

func drawHUD(img *image.RGBA, l layout, title, turn string) {
	const (
		titleHeight   = 32
		turnHeight    = 24
		gap           = 8
		gapToBoard    = 16
		radius        = 10
		paddingX      = 20
		shadowOffsetY = 4
	)
	drawer := &font.Drawer{Dst: img, Face: basicfont.Face7x13}

	turnBottom := l.board.Min.Y - gapToBoard
	turnRect := image.Rect(l.board.Min.X, turnBottom-turnHeight, l.board.Max.X, turnBottom)
	titleBottom := turnRect.Min.Y - gap
	titleRect := image.Rect(l.board.Min.X, titleBottom-titleHeight, l.board.Max.X, titleBottom)

	drawRoundedPanel(img, titleRect.Add(image.Pt(0, shadowOffsetY)), radius, hudShadowColor)
	drawRoundedPanel(img, turnRect.Add(image.Pt(0, shadowOffsetY)), radius, hudShadowColor)
	drawRoundedPanel(img, titleRect, radius, hudPanelColor)
	drawRoundedPanel(img, turnRect, radius, hudTurnPanelColor)

	title = truncateWithEllipsis(drawer.Face, title, titleRect.Dx()-paddingX*2)
	turn = truncateWithEllipsis(drawer.Face, turn, turnRect.Dx()-paddingX*2)
	drawCenteredString(drawer, titleRect, title, hudTextPrimary)
	drawCenteredString(drawer, turnRect, turn, hudTurnTextColor)
}
