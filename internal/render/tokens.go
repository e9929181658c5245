package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/park285/shuuro-session/internal/piece"
)

const tokenViewBox = 100

var (
	whiteTokenSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">` +
		`<circle cx="50" cy="50" r="40" fill="#f6f1e4" stroke="#22242c" stroke-width="5"/></svg>`
	blackTokenSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">` +
		`<circle cx="50" cy="50" r="40" fill="#23252e" stroke="#e4e0d4" stroke-width="5"/></svg>`
	plinthSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">` +
		`<polygon points="30,8 70,8 92,30 92,70 70,92 30,92 8,70 8,30" fill="#6d717c" stroke="#3b3e47" stroke-width="5"/></svg>`
)

var (
	whiteGlyphColor = color.NRGBA{R: 24, G: 26, B: 34, A: 255}
	blackGlyphColor = color.NRGBA{R: 242, G: 238, B: 226, A: 255}
)

type tokenCacheKey struct {
	piece piece.Piece
	size  int
}

var (
	tokenCache   = map[tokenCacheKey]image.Image{}
	tokenCacheMu sync.RWMutex
)

// tokenImage returns the square image for pc at size pixels. Plinths get a
// stone, player pieces a disc carrying their letter.
func tokenImage(pc piece.Piece, size int) (image.Image, error) {
	key := tokenCacheKey{piece: pc, size: size}

	tokenCacheMu.RLock()
	if img, ok := tokenCache[key]; ok {
		tokenCacheMu.RUnlock()
		return img, nil
	}
	tokenCacheMu.RUnlock()

	src, glyph := tokenSource(pc)
	img, err := rasterizeSVG(src, size)
	if err != nil {
		return nil, fmt.Errorf("token %s: %w", pc, err)
	}
	if pc.Type != piece.Plinth {
		drawGlyph(img, strings.ToUpper(string(pc.Char())), glyph)
	}

	tokenCacheMu.Lock()
	tokenCache[key] = img
	tokenCacheMu.Unlock()
	return img, nil
}

func tokenSource(pc piece.Piece) (string, color.Color) {
	switch {
	case pc.Type == piece.Plinth:
		return plinthSVG, nil
	case pc.Color == piece.White:
		return whiteTokenSVG, whiteGlyphColor
	default:
		return blackTokenSVG, blackGlyphColor
	}
}

func rasterizeSVG(src string, size int) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}
	if icon.ViewBox.W <= 0 {
		icon.ViewBox.W = tokenViewBox
	}
	if icon.ViewBox.H <= 0 {
		icon.ViewBox.H = tokenViewBox
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Transparent), image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)
	return img, nil
}

// drawGlyph stamps text in the middle of dst, scaled up from the bitmap face
// to about half the token height.
func drawGlyph(dst *image.RGBA, text string, clr color.Color) {
	face := basicfont.Face7x13
	d := &font.Drawer{Face: face}
	w := d.MeasureString(text).Ceil()
	h := face.Metrics().Height.Ceil()
	if w <= 0 || h <= 0 {
		return
	}

	small := image.NewRGBA(image.Rect(0, 0, w, h))
	d.Dst = small
	d.Src = image.NewUniform(clr)
	d.Dot = fixed.P(0, face.Metrics().Ascent.Ceil())
	d.DrawString(text)

	size := dst.Bounds().Dx()
	th := size / 2
	tw := th * w / h
	x := (size - tw) / 2
	y := (size - th) / 2
	xdraw.BiLinear.Scale(dst, image.Rect(x, y, x+tw, y+th), small, small.Bounds(), xdraw.Over, nil)
}
