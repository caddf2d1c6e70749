/*
This is an example of application that will use the
engine package to test things out
*/
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/kiln/engine"
	"github.com/spaghettifunk/kiln/engine/core"
	"github.com/spaghettifunk/kiln/engine/platform"
	"github.com/spaghettifunk/kiln/engine/platform/desktop"
	"github.com/spaghettifunk/kiln/testbed"
)

func main() {
	configPath := flag.String("config", "", "path to a .toml or .yaml configuration file")
	headless := flag.Bool("headless", false, "run without opening a window; the desktop window receives input only and shows no frames")
	flag.Parse()

	cfg := engine.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = engine.LoadConfig(*configPath); err != nil {
			core.LogFatal("failed to load configuration: %s", err)
		}
	}

	var opts []engine.Option
	if !*headless {
		opts = append(opts, engine.WithWindow(func(cfg *engine.Config, bus *core.EventBus, input *core.InputDevice) platform.Window {
			return desktop.New(cfg.Name, cfg.StartPosX, cfg.StartPosY, bus, input)
		}))
	}

	game, err := engine.New(cfg, opts...)
	if err != nil {
		core.LogFatal("failed to create the game: %s", err)
	}
	defer game.Close()

	if _, err := testbed.Setup(game); err != nil {
		core.LogFatal("failed to set up the testbed: %s", err)
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	// start shutdown goroutine
	go func() {
		// capture sigterm and other system call here
		<-sigCh
		game.Shutdown()
	}()

	if err := game.Run(); err != nil {
		core.LogError("game stopped: %s", err)
		game.Close()
		os.Exit(1)
	}
}
