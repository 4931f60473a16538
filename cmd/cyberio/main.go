package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/lixenwraith/cyberio/audio"
	"github.com/lixenwraith/cyberio/blocks"
	"github.com/lixenwraith/cyberio/config"
	"github.com/lixenwraith/cyberio/liquid"
	"github.com/lixenwraith/cyberio/observer"
	"github.com/lixenwraith/cyberio/registry"
	"github.com/lixenwraith/cyberio/snapshot"
	"github.com/lixenwraith/cyberio/world"
)

var (
	configPath  = flag.String("config", "configs/mod.yaml", "Mod config file; empty uses built-in defaults")
	debugFlag   = flag.Bool("debug", false, "Write a debug log to logs/")
	ticksFlag   = flag.Int("ticks", 0, "Run headless for N ticks and print the final state")
	observeAddr = flag.String("observe", "", "Serve the observer websocket on this address, e.g. 127.0.0.1:8089")
	savePath    = flag.String("save", "", "Write a snapshot here on exit")
	loadPath    = flag.String("load", "", "Start from this snapshot instead of the demo layout")
	audioFlag   = flag.Bool("audio", false, "Play state change cues; overrides the config switch")
)

func main() {
	flag.Parse()

	if logFile := setupLogging(*debugFlag); logFile != nil {
		defer logFile.Close()
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "cyberio: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Defaults(), nil
	}
	cfg, err := config.Load(path)
	if errors.Is(err, os.ErrNotExist) && path == "configs/mod.yaml" {
		log.Printf("no %s, using defaults", path)
		return config.Defaults(), nil
	}
	return cfg, err
}

func run() error {
	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	catalog, err := liquid.NewCatalog(cfg.Liquids)
	if err != nil {
		return err
	}

	var cues *audio.Cues
	if *audioFlag || cfg.Audio {
		cues = audio.NewCues()
		if err := cues.Start(); err != nil {
			log.Printf("audio start failed: %v (continuing without audio)", err)
			cues = nil
		} else {
			defer cues.Stop()
		}
	}

	set, err := blocks.Load(cfg, blocks.Env{Liquids: catalog, Cues: cues})
	if err != nil {
		return err
	}
	log.Printf("loaded blocks %v, animations=%v", registry.BlockNames(), cfg.Animations)

	w := world.New(world.WithLogger(log.Default()))
	if *loadPath != "" {
		snap, err := snapshot.Read(*loadPath)
		if err != nil {
			return fmt.Errorf("load %s: %w", *loadPath, err)
		}
		if err := snapshot.Restore(w, snap, registry.GetBlock); err != nil {
			log.Printf("restore %s: %v", *loadPath, err)
		}
	} else {
		buildDemo(w, set)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var hub *observer.Hub
	if *observeAddr != "" {
		hub = observer.NewHub(log.Default())
		go func() {
			if err := hub.Serve(ctx, *observeAddr); err != nil {
				log.Printf("observer: %v", err)
			}
		}()
	}

	sim := &loop{world: w, hub: hub, set: set, rateHz: cfg.TickRateHz}
	if *ticksFlag > 0 {
		sim.headless(ctx, *ticksFlag, os.Stdout)
	} else if err := runInteractive(ctx, sim); err != nil {
		return err
	}

	if *savePath != "" {
		snap, err := snapshot.Capture(w)
		if err != nil {
			log.Printf("capture: %v", err)
		}
		if err := snapshot.Write(*savePath, snap); err != nil {
			return fmt.Errorf("save %s: %w", *savePath, err)
		}
		log.Printf("saved tick %d to %s", w.Tick(), *savePath)
	}
	return nil
}

// crashReport prints a recovered panic with its stack after the screen is gone
func crashReport(what string, r any) {
	fmt.Fprintf(os.Stderr, "\r\n\x1b[31m%s CRASHED: %v\x1b[0m\r\n", what, r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
	os.Exit(1)
}
