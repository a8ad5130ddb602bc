package main

import (
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"os"

	"github.com/hubastard/biscuit/engine/core"
	"github.com/hubastard/biscuit/engine/gfx"
	glbackend "github.com/hubastard/biscuit/engine/gfx/gl"
	"github.com/hubastard/biscuit/engine/logging"
	"github.com/hubastard/biscuit/engine/platform"
)

func main() {
	configPath := flag.String("config", "biscuit.yaml", "path to the YAML config")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logging.ParseLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)
	logging.SetLogger(logger)

	var win *platform.GLFWWindow
	var dev *glbackend.Device
	newWindow := func(cfg core.Config) (core.Window, error) {
		w, err := platform.NewGLFWWindow(cfg, nil)
		if err != nil {
			return nil, err
		}
		win = w
		return w, nil
	}
	newDevice := func(core.Window) (gfx.Device, error) {
		d, err := glbackend.NewDevice()
		if err != nil {
			return nil, err
		}
		dev = d
		return d, nil
	}

	err = core.Run(&Game{}, cfg, newWindow, newDevice)
	if dev != nil {
		dev.Release()
	}
	if win != nil {
		win.Destroy()
	}
	if err != nil {
		logger.Error("run", "error", err)
		os.Exit(1)
	}
}

// loadConfig falls back to defaults when the file does not exist.
func loadConfig(path string) (core.Config, error) {
	cfg, err := core.LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		return core.DefaultConfig(), nil
	}
	return cfg, err
}
