package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/tomz197/starblaster/internal/config"
	"github.com/tomz197/starblaster/internal/desktop"
	"github.com/tomz197/starblaster/internal/game"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "starblaster",
	})
	if lvl, err := log.ParseLevel(config.GetEnv("LOG_LEVEL", "info")); err == nil {
		logger.SetLevel(lvl)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatal("invalid config", "err", err)
	}

	g, err := game.New(cfg, game.Options{})
	if err != nil {
		logger.Fatal("create game", "err", err)
	}

	ebiten.SetWindowSize(int(cfg.Width), int(cfg.Height))
	ebiten.SetWindowTitle("Starblaster")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(config.TargetFPS)

	logger.Info("starting window", "width", cfg.Width, "height", cfg.Height, "targets", cfg.TargetCount)
	if err := ebiten.RunGame(desktop.New(g, logger)); err != nil {
		logger.Fatal("game error", "err", err)
	}
}
