package main

import (
	"log"
	"os"
	"runtime"
	"time"

	"mtg-card-searcher/internal/config"
	"mtg-card-searcher/internal/controllers"
	"mtg-card-searcher/internal/logger"
	"mtg-card-searcher/internal/services"
	"mtg-card-searcher/internal/shutdown"
	"mtg-card-searcher/internal/views"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"
)

const (
	AppName    = "MTG Card Searcher"
	AppID      = "io.magicthegathering.card-searcher"
	AppVersion = "1.0.0"
)

// Application wires the window, controller and services together
type Application struct {
	fyneApp fyne.App
	window  fyne.Window
	logger  logger.Logger
	config  *config.Config

	controller *controllers.MainController
	view       *views.MainView

	searchService *services.SearchService
	imageService  *services.ImageService

	shutdown *shutdown.Manager
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration failed: %v", err)
	}

	application, err := NewApplication(cfg)
	if err != nil {
		log.Fatalf("Application initialization failed: %v", err)
	}

	application.Run()
}

// NewApplication creates and initializes the application using dependency injection
func NewApplication(cfg *config.Config) (*Application, error) {
	appLogger := logger.New(determineLogLevel(cfg.Logging.Level), cfg.Logging.JSON)

	app.SetMetadata(fyne.AppMetadata{
		ID:      AppID,
		Name:    AppName,
		Version: AppVersion,
	})
	fyneApp := app.NewWithID(AppID)

	window := fyneApp.NewWindow(AppName)
	window.Resize(fyne.NewSize(cfg.Window.Width, cfg.Window.Height))
	window.CenterOnScreen()
	window.SetMaster()

	appLogger.Info("Application", "starting", map[string]interface{}{
		"version":    AppVersion,
		"go_version": runtime.Version(),
		"search_url": cfg.API.SearchURL,
		"timeout":    cfg.API.Timeout.String(),
	})

	shutdownManager := shutdown.NewManager(appLogger, 10*time.Second)

	httpClient := services.NewHTTPClient()
	searchService := services.NewSearchService(httpClient, cfg.API.SearchURL, cfg.API.UserAgent, appLogger)
	imageService := services.NewImageService(httpClient, cfg.API.UserAgent, services.ImageLimits{
		MaxWidth:  cfg.Image.MaxWidth,
		MaxHeight: cfg.Image.MaxHeight,
		MaxBytes:  cfg.Image.MaxBytes,
	}, appLogger)

	mainController := controllers.NewMainController(
		shutdownManager.Context(),
		searchService, imageService,
		appLogger, cfg.API.Timeout,
	)
	mainView := views.NewMainView(window)

	mainView.SetSearchHandler(mainController.Search)
	mainView.SetPreviousHandler(mainController.Previous)
	mainView.SetNextHandler(mainController.Next)
	mainController.SetMainView(mainView)

	shutdownManager.Register("http client", shutdown.ShutdownFunc(httpClient.CloseIdleConnections))
	shutdownManager.Register("controller", mainController)

	application := &Application{
		fyneApp:       fyneApp,
		window:        window,
		logger:        appLogger,
		config:        cfg,
		controller:    mainController,
		view:          mainView,
		searchService: searchService,
		imageService:  imageService,
		shutdown:      shutdownManager,
	}

	application.setupWindowEvents()

	appLogger.Info("Application", "initialization complete", nil)
	return application, nil
}

// Run shows the window and blocks until the application quits
func (app *Application) Run() {
	app.shutdown.Listen(func() {
		fyne.Do(app.fyneApp.Quit)
	})

	app.view.FocusQuery()
	app.view.Show()

	go app.startPerformanceMonitoring()

	app.fyneApp.Run()

	app.shutdown.Shutdown()
	app.logger.Info("Application", "terminated", nil)
}

func (app *Application) setupWindowEvents() {
	app.window.SetOnClosed(func() {
		app.logger.Info("Application", "window closed", nil)
		go app.shutdown.Shutdown()
	})
}

// startPerformanceMonitoring logs request statistics until shutdown
func (app *Application) startPerformanceMonitoring() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			app.logPerformanceMetrics()
		case <-app.shutdown.Context().Done():
			return
		}
	}
}

func (app *Application) logPerformanceMetrics() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	searchStats := app.searchService.GetStats()
	imageStats := app.imageService.GetStats()
	session := app.controller.Session()

	app.logger.Debug("Application", "performance metrics", map[string]interface{}{
		"go_memory_mb":    memStats.Alloc / 1024 / 1024,
		"goroutine_count": runtime.NumGoroutine(),
		"searches":        searchStats.TotalRequests,
		"searches_failed": searchStats.FailedRequests,
		"search_avg_ms":   searchStats.AverageTime.Milliseconds(),
		"images":          imageStats.TotalRequests,
		"images_failed":   imageStats.FailedRequests,
		"image_avg_ms":    imageStats.AverageTime.Milliseconds(),
		"session_state":   session.State.String(),
		"session_results": len(session.Results),
	})
}

// determineLogLevel honours DEBUG=1 over the configured level
func determineLogLevel(configured string) zerolog.Level {
	if os.Getenv("DEBUG") == "1" {
		return zerolog.DebugLevel
	}
	return logger.ParseLevel(configured)
}
