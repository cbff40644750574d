package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"city-weather/config"
	v1 "city-weather/internal/controllers/http/v1"
	"city-weather/internal/metrics"
	"city-weather/internal/repositories"
	"city-weather/internal/services/weather"
	"city-weather/pkg/httpserver"
	"city-weather/pkg/logger"
	"city-weather/pkg/observe"
)

// @title City Weather
// @version 1.0.0
// @description Current weather lookup by city, backed by OpenWeatherMap.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @tag.name Weather
// @tag.description Weather search page
func main() {
	ctx, cancel := context.WithCancel(context.Background())

	cnf, err := config.NewConfig(config.DefaultPath)
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}

	level, err := logger.ParseLevel(cnf.LogLevel)
	if err != nil {
		log.Fatalf("cannot parse log level: %v", err)
	}

	writers := []io.Writer{os.Stdout}
	var sentryHook *observe.SentryHook
	if cnf.SentryDSN != "" {
		sentryHook, err = observe.NewSentryHook(cnf.AppEnv, cnf.AppName, cnf.SentryDSN, cnf.IsDevelopment())
		if err != nil {
			log.Printf("sentry disabled: %v", err)
		} else {
			writers = append(writers, sentryHook)
		}
	}

	l := logger.New(cnf.AppName, cnf.AppEnv, level, writers...)
	if sentryHook != nil {
		sentryHook.SetLogger(l)
	}

	registry := metrics.NewRegistry()
	recorder := metrics.NewRecorder(registry)

	repo, err := repositories.InitWeatherRepository(cnf, l)
	if err != nil {
		l.Fatal("cannot init weather repository", map[string]any{"err": err})
	}

	service := weather.NewWeatherService(repo, recorder, l)

	app := httpserver.InitFiberServer(cnf.AppName, httpserver.NewViews(), recorder.HTTPMiddleware())

	v1.NewRouter(
		app,
		service,
		registry,
		l,
	)

	go func() {
		if err := app.Listen(":" + cnf.Port); err != nil {
			l.Error(fmt.Errorf("cannot run the server: %w", err))
			cancel()
		}
	}()

	l.Info("application started successfully", map[string]any{
		"port":                cnf.Port,
		"env":                 cnf.AppEnv,
		"version":             cnf.AppVersion,
		"provider_timeout":    cnf.OpenWeather.TimeoutDuration().String(),
		"classify_rate_limit": cnf.OpenWeather.ClassifyRateLimit,
	})

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer func() {
		l.Warning("stopping application services")
		signal.Stop(sigCh)
		close(sigCh)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			l.Error(fmt.Errorf("cannot shut down the server: %w", err))
		}
		if sentryHook != nil {
			sentryHook.Flush()
		}
		_ = l.Stop()
		cancel()
	}()

	select {
	case <-sigCh:
		fmt.Println("received shutdown signal")
	case <-ctx.Done():
		fmt.Println("context cancelled")
	}
}
