package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/joss/hbnb/internal/config"
	"github.com/joss/hbnb/internal/console"
	"github.com/joss/hbnb/internal/domain"
	"github.com/joss/hbnb/internal/logging"
	"github.com/joss/hbnb/internal/runtime"
	"github.com/joss/hbnb/internal/store"
)

// runConsole loads the store and runs the prompt loop on in.
func runConsole(in *os.File, out io.Writer) error {
	if err := config.LoadDotEnv(config.Env().EnvFile); err != nil {
		return fmt.Errorf("load env: %w", err)
	}
	sink, err := logging.OpenSink(config.Env().LogFile)
	if err != nil {
		return err
	}
	defer sink.Close()
	logger := logging.NewWithWriter("hbnb", sink, logging.ParseLevel(config.Env().LogLevel))

	registry := domain.DefaultRegistry()
	fs := store.NewFileStore(config.FileName, registry, logger.Component("storage"))
	if err := fs.Reload(); err != nil {
		if errors.Is(err, store.ErrCorrupt) {
			return fmt.Errorf("cannot start: %w", err)
		}
		return fmt.Errorf("load %s: %w", config.FileName, err)
	}

	interactive := term.IsTerminal(int(in.Fd()))

	shutdown := runtime.NewShutdownManager(runtime.DefaultShutdownTimeout, logger.Component("runtime"))
	shutdown.RegisterSimple("prompt", func() {
		if interactive {
			fmt.Fprintln(out)
		}
	})
	stop := shutdown.ListenForSignals()
	defer stop()

	c := console.New(fs, registry, out, console.Options{
		Prompt:      config.Prompt,
		Interactive: interactive,
		Logger:      logger.Component("console"),
	})
	return c.Run(shutdown.Context(), in)
}
