package main

import (
	"embed"
	"log"
	"os"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"go.uber.org/zap"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	logger := newLogger()
	defer logger.Sync()

	app := NewApp(logger)

	err := wails.Run(&options.App{
		Title:  "playvolume",
		Width:  1280,
		Height: 800,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		OnStartup: app.startup,
		Bind: []interface{}{
			app,
		},
	})
	if err != nil {
		log.Fatal(err)
	}
}

// newLogger builds the process logger. PLAYVOLUME_DEBUG enables the
// development config with debug-level geometry tracing.
func newLogger() *zap.Logger {
	var logger *zap.Logger
	var err error
	if os.Getenv("PLAYVOLUME_DEBUG") != "" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	return logger
}
