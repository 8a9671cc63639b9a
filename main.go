package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"evidence-tool/config"
	"evidence-tool/screenshot"
)

func main() {
	// Parse command line flags
	outDir := flag.String("out", "evidence", "Root directory for the evidence tree")
	remote := flag.String("remote", "", "DevTools URL of an already-running Chrome (e.g. http://localhost:9222)")
	navTimeout := flag.Duration("nav-timeout", screenshot.DefaultNavTimeout, "Per-page navigation timeout")
	probeTimeout := flag.Duration("probe-timeout", screenshot.DefaultProbeTimeout, "Connected-indicator probe timeout")
	flag.Parse()

	// Load capture requests: file path argument, inline JSON argument, or stdin
	requests, err := config.Load(flag.Arg(0), os.Stdin)
	if err != nil {
		log.Fatalf("Failed to load capture requests: %v", err)
	}

	// Create context with cancel for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling for graceful shutdown
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-signalChan
		log.Printf("Received signal: %v, shutting down gracefully", sig)
		cancel()
		// Allow some time for cleanup then exit if it takes too long
		time.Sleep(5 * time.Second)
		os.Exit(1)
	}()

	s := screenshot.NewScreenshoter(*outDir)
	s.RemoteURL = *remote
	s.NavTimeout = *navTimeout
	s.ProbeTimeout = *probeTimeout

	log.Printf("Starting evidence capture for %d request(s)", len(requests))
	startTime := time.Now()

	summary, err := s.Run(ctx, requests)
	if err != nil {
		log.Printf("Evidence capture aborted: %v", err)
		os.Exit(1)
	}

	log.Printf("Evidence capture completed in %v", time.Since(startTime))

	// Not-connected pages are warnings; only failed captures affect the exit status
	if summary.Failed > 0 {
		os.Exit(1)
	}
}
