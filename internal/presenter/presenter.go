// Package presenter turns session snapshots into text and images for a
// front end without coupling to the command layer.
package presenter

import (
	"context"
	"strings"

	"github.com/park285/shuuro-session/internal/render"
	"github.com/park285/shuuro-session/pkg/shuurodto"
)

// Presenter delivers formatted messages and board images.
type Presenter struct {
	formatter   *Formatter
	renderer    render.BoardRenderer
	sendMessage func(message string) error
	sendImage   func(png []byte) error
}

func NewPresenter(formatter *Formatter, renderer render.BoardRenderer, sendMessage func(string) error, sendImage func([]byte) error) *Presenter {
	return &Presenter{
		formatter:   formatter,
		renderer:    renderer,
		sendMessage: sendMessage,
		sendImage:   sendImage,
	}
}

func (p *Presenter) Formatter() *Formatter { return p.formatter }

// Message sends text when it is not blank.
func (p *Presenter) Message(text string) error {
	if p == nil || p.sendMessage == nil || strings.TrimSpace(text) == "" {
		return nil
	}
	return p.sendMessage(text)
}

// Board sends the text board, then the rendered image when an image sink and
// renderer are configured.
func (p *Presenter) Board(ctx context.Context, view shuurodto.BoardView) error {
	if p == nil {
		return nil
	}
	if err := p.Message(p.formatter.Board(view)); err != nil {
		return err
	}
	return p.Image(ctx, view)
}

// Image renders view and hands the PNG to the image sink.
func (p *Presenter) Image(ctx context.Context, view shuurodto.BoardView) error {
	if p == nil || p.renderer == nil || p.sendImage == nil {
		return nil
	}
	png, err := p.renderer.RenderPNG(ctx, view, render.Options{Hands: view.Phase == "placement"})
	if err != nil {
		return err
	}
	return p.sendImage(png)
}
