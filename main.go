package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/limbopass/common"
	"github.com/milk9111/limbopass/logger"
	"github.com/milk9111/limbopass/prefabs"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug mode (prefab hot reload, debug logging)")
	assetsDir := flag.String("assets", "assets", "directory holding fonts, audio and glTF scenes")
	skipMenu := flag.Bool("skip-menu", false, "go straight from loading to the game")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn or error")
	flag.Parse()

	level := *logLevel
	if *debug {
		level = "debug"
	}
	logger.Init(logger.Config{Level: level, Format: "console"})

	spec, err := prefabs.LoadGameSpec()
	if err != nil {
		log.Fatal(err)
	}
	if err := spec.Validate(); err != nil {
		log.Fatal(err)
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(common.BaseWidth, common.BaseHeight)
	ebiten.SetWindowTitle(spec.Window.Title)
	ebiten.SetTPS(common.TicksPerSecond)

	game, err := NewGame(spec, Options{AssetsDir: *assetsDir, Debug: *debug, SkipMenu: *skipMenu})
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
