package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/cantarcan/NazaraEngine/engine"
	"github.com/cantarcan/NazaraEngine/engine/core"
	"github.com/cantarcan/NazaraEngine/testbed"
)

func main() {
	game := testbed.NewTestGame()

	app, err := engine.New(game.Game)
	if err != nil {
		core.LogFatal(err.Error())
		os.Exit(1)
	}

	if err := app.Initialize(); err != nil {
		core.LogFatal(err.Error())
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	go func() {
		<-sigCh
		if err := app.Shutdown(); err != nil {
			core.LogError(err.Error())
		}
	}()

	if err := app.Run(); err != nil {
		core.LogFatal(err.Error())
		os.Exit(1)
	}
}
