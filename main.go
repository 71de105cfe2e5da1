package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/hajimehoshi/ebiten/v2"

	"ebiten-dungeon/config"
	"ebiten-dungeon/console"
	"ebiten-dungeon/generation"
	"ebiten-dungeon/observability"
	"ebiten-dungeon/screens"
	"ebiten-dungeon/systems/render"
	"ebiten-dungeon/ws"
)

func main() {
	configPath := flag.String("config", "", "YAML generation config, defaults when empty")
	seed := flag.Int64("seed", 0, "generation seed, 0 picks one from the clock")
	cells := flag.Int("cells", 0, "number of scattered cells, 0 keeps the config value")
	mode := flag.String("mode", "view", "print, view, serve or tui")
	addr := flag.String("addr", ":8080", "listen address for serve mode")
	jsonLogs := flag.Bool("json-logs", false, "log as JSON")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	tilesetPath := flag.String("tileset", "", "dual grid tile sheet PNG for the viewer atlas")
	flag.Parse()

	level, err := observability.ParseLevel(*logLevel)
	if err != nil {
		log.Fatal(err)
	}
	logger := observability.NewLogger(os.Stderr, "dungeon", observability.Options{JSON: *jsonLogs, Level: level})

	cfg := config.DefaultGeneration()
	if *configPath != "" {
		if cfg, err = config.LoadGeneration(*configPath); err != nil {
			logger.Errorf("%v", err)
			os.Exit(1)
		}
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *cells > 0 {
		cfg.NumberOfCells = *cells
	}
	if err := cfg.Validate(); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch *mode {
	case "print":
		err = runPrint(ctx, cfg, logger)
	case "serve":
		err = runServe(ctx, cfg, *addr, logger)
	case "tui":
		err = runTUI(ctx, cfg)
	case "view":
		err = runViewer(ctx, cfg, *tilesetPath, logger)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

// runPrint generates one dungeon and writes its grid to stdout
func runPrint(ctx context.Context, cfg config.Generation, logger observability.Logger) error {
	d, err := generation.NewDungeonGenerator(cfg, generation.WithLogger(logger.Slog())).Generate(ctx)
	if d != nil {
		if werr := console.WriteGrid(os.Stdout, d.Grid, nil); werr != nil {
			return werr
		}
		logger.Infof("seed %d: %d rooms, %d corridor cells, %d extra rooms", d.Seed, len(d.Rooms), len(d.Corridors), len(d.ExtraRooms))
	}
	return err
}

func runServe(ctx context.Context, cfg config.Generation, addr string, logger observability.Logger) error {
	server := ws.NewServer(cfg, logger.Slog())
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	logger.Infof("listening on %s", addr)
	if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// runTUI logs nothing since the screen owns the terminal
func runTUI(ctx context.Context, cfg config.Generation) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	gen := generation.NewDungeonGenerator(cfg)
	return console.NewApp(screen, gen, nil).Run(ctx)
}

func runViewer(ctx context.Context, cfg config.Generation, tilesetPath string, logger observability.Logger) error {
	var tileset *render.Tileset
	if tilesetPath != "" {
		ts, err := render.NewTileset(tilesetPath, config.AtlasSourceSize)
		if err != nil {
			return err
		}
		tileset = ts
	}

	viewer := NewDungeonViewer(ctx, cfg, tileset, logger.Slog())
	stack := screens.NewScreenStack(viewer)
	viewer.OnHelp = func() {
		stack.Push(screens.NewModalScreen("Controls", viewerHelp, 360, ebiten.KeyH))
	}

	windowWidth, windowHeight := config.GetWindowSize()
	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle("Dungeon Generator")
	return ebiten.RunGame(stack)
}
