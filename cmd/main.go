package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "timekeeper/docs"
	"timekeeper/internal/clock"
	"timekeeper/internal/config"
	"timekeeper/internal/handlers"
	"timekeeper/internal/hub"
	"timekeeper/internal/logger"
	"timekeeper/internal/notify"
	"timekeeper/internal/notify/sound"
	"timekeeper/internal/repository"
	"timekeeper/internal/repository/db"
	"timekeeper/internal/server"
	"timekeeper/internal/service"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// @title                       Timekeeper API
// @version                     1.0
// @description                 Timers, daily alarms, memos and preferences behind a clock widget.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	// load configs/config.yml plus TIMEKEEPER_* overrides
	cfg, err := config.Load()
	if err != nil {
		logger.Get(logger.InfoLevel, logger.ConsoleFormat).Fatalw("error reading config", "err", err)
	}

	log := logger.Get(cfg.Log.Level, cfg.Log.Format)
	if cfg.Log.Level != logger.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Auth.SigningKey == "" {
		log.Warnw("auth.signing_key is empty; tokens are signed with an empty key")
	}

	conn, err := db.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalw("failed to init sqlite", "path", cfg.DBPath, "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(conn)

	// preferences are shared: the hub records permission answers into them
	// and the dispatcher reads the cached permission back
	prefs := service.NewPreferenceService(repos.Snapshots, cfg.UI.DefaultTheme, log.Named("preferences"))
	widgets := hub.New(hub.Options{
		Permissions: prefs,
		Title:       cfg.Notify.DocumentTitle,
		Log:         log.Named("hub"),
	})
	dispatcher := notify.NewDispatcher(notify.Options{
		Sound:       newSoundPlayer(cfg.Notify),
		System:      widgets,
		Permissions: prefs,
		Visibility:  widgets,
		Flasher:     notify.NewTitleFlasher(clock.System, widgets, cfg.Notify.DocumentTitle, cfg.Notify.FlashInterval),
		Icon:        cfg.Notify.Icon,
		Log:         log.Named("notify"),
	})
	widgets.OnFocus(dispatcher.Focus)

	services := service.NewService(repos, cfg, service.Deps{
		Clock:       clock.System,
		Notifier:    dispatcher,
		Log:         log,
		Preferences: prefs,
	})

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	services.Restore(ctx)

	apiHandler := handlers.NewHandler(services, widgets, log.Named("http"))
	stopWatch := apiHandler.WatchState()
	defer stopWatch()

	// alarm poll and timer loop shutdown
	go services.Runner.Run(ctx)

	srv := server.New(cfg.Port, apiHandler.InitRoutes())
	runHTTPServer(srv, log)

	waitForShutdown(cancel, dispatcher, srv, log)
}

// newSoundPlayer returns nil when no sound file is configured.
func newSoundPlayer(cfg config.NotifyConfig) notify.SoundPlayer {
	if cfg.SoundPath == "" {
		return nil
	}
	return sound.NewBeepPlayer(cfg.SoundPath, cfg.Volume)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, log *logger.Logger) {
	go func() {
		log.Infow("http server listening", "addr", srv.Addr())
		if err := srv.Run(); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, dispatcher *notify.Dispatcher, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines and any title flash
	cancel()
	dispatcher.Stop()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
