// Package main serves Bauernschach games over a JSON API for hot-seat front ends.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bauernschach/internal/service"
	"bauernschach/internal/transport/http"
)

const gracefulShutdownTimeout = 5 * time.Second

func main() {
	var (
		host     = flag.String("host", "localhost", "API server host")
		port     = flag.Int("port", 8080, "API server port")
		dev      = flag.Bool("dev", false, "Development mode (relaxed rate limits)")
		pidPath  = flag.String("pid", "", "Optional path to write PID file")
		pidLock  = flag.Bool("pid-lock", false, "Lock PID file to allow only one instance (requires -pid)")
		rows     = flag.Int("rows", 8, "Board rows for games created without dimensions")
		columns  = flag.Int("columns", 8, "Board columns for games created without dimensions")
		maxGames = flag.Int("max-games", 1000, "Maximum number of concurrently hosted games")
	)
	flag.Parse()

	if *pidLock && *pidPath == "" {
		log.Fatal("Error: -pid-lock flag requires the -pid flag to be set")
	}
	if *rows <= 0 || *columns <= 0 {
		log.Fatalf("Error: board dimensions must be positive, got %dx%d", *rows, *columns)
	}

	if *pidPath != "" {
		release, err := writePIDFile(*pidPath, *pidLock)
		if err != nil {
			log.Fatalf("Failed to manage PID file: %v", err)
		}
		defer release()
		log.Printf("PID file created at: %s (lock: %v)", *pidPath, *pidLock)
	}

	svc := service.New(service.Config{Rows: *rows, Columns: *columns, MaxGames: *maxGames})
	app := http.NewFiberApp(svc, *dev)

	addr := fmt.Sprintf("%s:%d", *host, *port)
	go func() {
		log.Printf("Bauernschach API listening on: http://%s", addr)
		log.Printf("Default board: %dx%d, game limit: %d", *rows, *columns, *maxGames)
		if *dev {
			log.Printf("Rate Limit: 100 requests/second per IP (DEV MODE)")
		} else {
			log.Printf("Rate Limit: 10 requests/second per IP")
		}
		log.Printf("Health: http://%s/health", addr)

		if err := app.Listen(addr); err != nil {
			log.Printf("API server listen error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Release long-poll waiters before the HTTP server drains connections
	if err := svc.Shutdown(gracefulShutdownTimeout); err != nil {
		log.Printf("Service shutdown error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
