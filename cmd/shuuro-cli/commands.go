package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	appcfg "github.com/park285/shuuro-session/internal/config"
	"github.com/park285/shuuro-session/internal/facade"
	"github.com/park285/shuuro-session/internal/presenter"
	"github.com/park285/shuuro-session/internal/render"
)

// app is one interactive session driven line by line.
type app struct {
	cfg       *appcfg.AppConfig
	logger    *zap.Logger
	session   *facade.Session
	presenter *presenter.Presenter
	renderer  render.BoardRenderer
}

func newApp(cfg *appcfg.AppConfig, logger *zap.Logger, pres *presenter.Presenter) *app {
	a := &app{
		cfg:       cfg,
		logger:    logger,
		presenter: pres,
		renderer:  render.New(cfg.Render.SquareSize),
	}
	a.session = facade.New(cfg.Variant, a.sessionOptions()...)
	return a
}

func (a *app) sessionOptions() []facade.Option {
	opts := []facade.Option{facade.WithLogger(a.logger)}
	if a.cfg.PlinthSeed != 0 {
		opts = append(opts, facade.WithSeed(a.cfg.PlinthSeed))
	}
	return opts
}

func (a *app) say(text string) {
	if err := a.presenter.Message(text); err != nil {
		a.logger.Warn("cli_output_failed", zap.Error(err))
	}
}

func (a *app) fail(err error, color string) {
	f := a.presenter.Formatter()
	a.say(f.Error(facade.DomainError(err), a.session.Phase().String(), colorName(color)))
}

func (a *app) showBoard() {
	a.say(a.presenter.Formatter().Board(a.session.BoardView()))
}

// handle runs one command line and reports whether the loop should stop.
func (a *app) handle(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]
	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}
	f := a.presenter.Formatter()

	switch cmd {
	case "quit", "exit":
		return true
	case "help":
		a.say(f.Help())
	case "board":
		a.showBoard()
	case "buy":
		if err := a.session.Buy(arg); err != nil {
			a.fail(err, "")
			return false
		}
		a.say(a.shopText(buyerColor(arg)))
	case "confirm":
		if err := a.session.Confirm(arg); err != nil {
			a.fail(err, arg)
			return false
		}
		a.say(a.shopText(arg))
		if a.session.Phase().String() == "placement" {
			a.showBoard()
		}
	case "shop":
		if arg == "" {
			a.say(a.shopText("w") + "\n" + a.shopText("b"))
			return false
		}
		a.say(a.shopText(arg))
	case "place":
		if _, err := a.session.Place(arg); err != nil {
			a.fail(err, a.session.SideToMove())
			return false
		}
		a.showBoard()
	case "fight":
		if err := a.session.StartFight(); err != nil {
			a.fail(err, "")
			return false
		}
		a.showBoard()
	case "move":
		if _, err := a.session.MakeMove(strings.Join(args, "")); err != nil {
			a.fail(err, a.session.SideToMove())
			return false
		}
		a.showBoard()
	case "moves":
		if arg == "" {
			arg = a.session.SideToMove()
		}
		if strings.HasSuffix(arg, "@") {
			a.say(f.Moves(a.session.PlaceMoves(strings.TrimSuffix(arg, "@"))))
			return false
		}
		a.say(f.Moves(a.session.LegalMoves(arg)))
	case "history":
		a.say(f.History(a.session.History()))
	case "sfen":
		if len(args) == 0 {
			a.say(a.session.GenerateSFEN())
			return false
		}
		if err := a.session.SetSFEN(strings.Join(args, " ")); err != nil {
			a.fail(err, "")
			return false
		}
		a.showBoard()
	case "render":
		path, err := a.renderTo(ctx, arg)
		if err != nil {
			a.logger.Warn("cli_render_failed", zap.Error(err))
			a.say(f.Error(facade.DomainError(err), a.session.Phase().String(), ""))
			return false
		}
		a.say(f.Rendered(path))
	case "variant":
		a.session.ChangeVariant(arg)
		a.say(f.VariantChanged(a.session.Variant().String(), a.session.ID()))
		a.showBoard()
	default:
		a.say(fmt.Sprintf("unknown command %q, try help", cmd))
	}
	return false
}

func (a *app) shopText(color string) string {
	return a.presenter.Formatter().Shop(
		colorName(color),
		a.session.Credit(color),
		a.session.IsConfirmed(color),
		a.session.ShopItems(color),
	)
}

// renderTo writes the board PNG under the configured output dir unless name
// is absolute.
func (a *app) renderTo(ctx context.Context, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		name = a.session.ID() + ".png"
	}
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(a.cfg.Render.OutputDir, name)
	}
	png, err := a.renderer.RenderPNG(ctx, a.session.BoardView(), render.Options{Hands: true})
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func buyerColor(move string) string {
	letter := strings.TrimPrefix(strings.TrimSpace(move), "+")
	if letter != "" && strings.ToUpper(letter) == letter {
		return "w"
	}
	return "b"
}

func colorName(color string) string {
	switch strings.ToLower(strings.TrimSpace(color)) {
	case "w", "white":
		return "white"
	case "b", "black":
		return "black"
	default:
		return color
	}
}
