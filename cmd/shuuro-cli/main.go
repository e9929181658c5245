package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	appcfg "github.com/park285/shuuro-session/internal/config"
	"github.com/park285/shuuro-session/internal/msgcat"
	"github.com/park285/shuuro-session/internal/obslog"
	"github.com/park285/shuuro-session/internal/presenter"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	closeLog, err := obslog.Init(cfg.Log)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer func() { _ = closeLog() }()
	logger := obslog.L()

	catalog, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		logger.Error("message catalog init error", zap.Error(err))
		_ = closeLog()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := bufio.NewWriter(os.Stdout)
	pres := presenter.NewPresenter(
		presenter.NewFormatter(catalog),
		nil,
		func(message string) error {
			if _, err := fmt.Fprintln(out, message); err != nil {
				return err
			}
			return out.Flush()
		},
		nil,
	)
	a := newApp(cfg, logger, pres)
	logger.Info("cli_started", zap.String("variant", a.session.Variant().String()), zap.String("session_id", a.session.ID()))

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	_ = pres.Message(pres.Formatter().Board(a.session.BoardView()))
	for {
		select {
		case <-ctx.Done():
			logger.Info("cli_stopped", zap.String("cause", "signal"))
			return
		case line, ok := <-lines:
			if !ok || a.handle(ctx, line) {
				logger.Info("cli_stopped", zap.String("session_id", a.session.ID()))
				return
			}
		}
	}
}
