package main

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"go.uber.org/zap"

	"github.com/vidrip/vidrip/internal/config"
	"github.com/vidrip/vidrip/internal/download"
	"github.com/vidrip/vidrip/internal/lang"
	"github.com/vidrip/vidrip/internal/media"
	"github.com/vidrip/vidrip/internal/platform"
	"github.com/vidrip/vidrip/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("starting", zap.String("version", version))

	myApp := app.NewWithID(config.AppID)
	myApp.Settings().SetTheme(ui.NewCompactTheme())

	windowTitle := fmt.Sprintf("%s v%s", config.AppTitle, version)
	myWindow := myApp.NewWindow(windowTitle)
	myWindow.Resize(fyne.NewSize(config.WindowWidth, config.WindowHeight))

	settings := config.NewSettings(myApp)
	downloadsDir := settings.GetDownloadDirectory()
	if err := platform.CreateDirectoryIfNotExists(downloadsDir); err != nil {
		logger.Warn("failed to ensure downloads dir",
			zap.String("dir", downloadsDir),
			zap.Error(err))
	}

	ffmpegPath := platform.FFmpegPath()
	if ffmpegPath == "" {
		logger.Warn("ffmpeg not found, stream merging left to the downloader")
	}

	source := media.NewYTDLPSource(ffmpegPath, logger)
	resolver := lang.NewDefaultResolver()
	downloadSvc := download.NewService(source, resolver, downloadsDir, logger)

	ui.NewRootUI(myWindow, myApp, downloadSvc, resolver, logger)

	myWindow.ShowAndRun()
}
