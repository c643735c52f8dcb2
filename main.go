package main

import (
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"geoexplorer/internal/cache"
	"geoexplorer/internal/config"
	"geoexplorer/internal/debug"
	"geoexplorer/internal/geo"
	"geoexplorer/internal/metrics"
	"geoexplorer/internal/render"
	"geoexplorer/internal/ui"
	"geoexplorer/internal/viewer"

	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	// .env is optional
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: failed to read .env: %v\n", err)
	}

	os.Exit(run(os.Args[1:]))
}

// run starts the application and returns the process exit code. Resources
// are released by its deferred calls before main exits.
func run(args []string) int {
	flags := flag.NewFlagSet("geoexplorer", flag.ContinueOnError)
	help := flags.Bool("h", false, "Show help message")
	configPath := flags.String("config", envOr("GEOEXPLORER_CONFIG", ""), "Layer registry YAML (default: built-in registry)")
	cacheDir := flags.String("cache", envOr("GEOEXPLORER_CACHE_DIR", ""), "Cache directory for layer and map data (default: ~/.geoexplorer/data)")
	debugLog := flags.String("d", envOr("GEOEXPLORER_LOG", ""), "Debug log file (e.g., debug.log)")
	logLevel := flags.String("log-level", envOr("LOG_LEVEL", "info"), "Log level: trace, debug, info, warn, error")
	aspectRatio := flags.Float64("a", geo.DefaultAspectRatio, "Character aspect ratio - adjust for font width (1.0-4.0, default: 2.0)")
	initialView := flags.String("view", "us-states", "Dataset shown on start")
	initialLayer := flags.String("layer", "", "State loaded on start (e.g., minnesota)")
	metricsAddr := flags.String("metrics", envOr("GEOEXPLORER_METRICS_ADDR", ""), "Serve Prometheus metrics on this address (e.g., :9090)")
	basemap := flags.Bool("basemap", true, "Download and draw Natural Earth state outlines")
	offline := flags.Bool("offline", false, "Only read layers from the disk cache")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	if *help {
		fmt.Println("geoexplorer - Terminal-based geographic boundary browser")
		fmt.Println("\nUsage: geoexplorer [options]")
		fmt.Println("\nOptions:")
		flags.SetOutput(os.Stdout)
		flags.PrintDefaults()
		return 0
	}

	if *aspectRatio < 1.0 || *aspectRatio > 4.0 {
		fmt.Fprintf(os.Stderr, "Error: Aspect ratio must be between 1.0 and 4.0\n")
		return 1
	}

	log := zerolog.Nop()
	if *debugLog != "" {
		logFile, err := os.Create(*debugLog)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to create debug log: %v\n", err)
		} else {
			defer logFile.Close()
			log = debug.New(logFile, *logLevel)
			log.Info().Msg("geoexplorer debug log started")
			fmt.Printf("Debug logging enabled: %s\n", *debugLog)
		}
	}

	fmt.Println("Loading layer registry...")
	var (
		reg *config.Registry
		err error
	)
	if *configPath != "" {
		reg, err = config.LoadFile(*configPath)
	} else {
		reg, err = config.Default()
	}
	if err != nil {
		log.Error().Err(err).Msg("invalid layer registry")
		fmt.Fprintf(os.Stderr, "Error: invalid layer registry: %v\n", err)
		return 1
	}
	fmt.Printf("Loaded %d datasets\n", len(reg.Order))

	m := metrics.New()
	if *metricsAddr != "" {
		srv := &http.Server{
			Addr:              *metricsAddr,
			Handler:           m.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Str("addr", *metricsAddr).Msg("metrics listener stopped")
			}
		}()
		defer srv.Close()
		fmt.Printf("Serving metrics on %s\n", *metricsAddr)
	}

	fmt.Println("Initializing data cache...")
	cacheManager, err := cache.NewManager(*cacheDir,
		cache.WithOffline(*offline),
		cache.WithLogger(log),
		cache.WithMetrics(m),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize cache: %v\n", err)
		return 1
	}

	surface := render.NewSurface(1, 1)
	surface.SetAspectRatio(*aspectRatio)

	if *basemap {
		fmt.Println("Checking Natural Earth data...")
		if err := cacheManager.EnsureBasemap(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to download basemap: %v\n", err)
		} else {
			features, err := geo.LoadBasemap(cacheManager.Dir())
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			}
			surface.SetBasemap(features)
			fmt.Printf("Loaded %d basemap outlines\n", len(features))
		}
	}

	controller := viewer.New(cacheManager, log, m)
	controller.Attach(surface)

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create screen: %v\n", err)
		return 1
	}

	fmt.Printf("Starting geoexplorer (view: %s, aspect: %.1f)...\n", *initialView, *aspectRatio)
	app, err := ui.NewApp(screen, reg, controller, surface, log, ui.Options{
		InitialView:  *initialView,
		InitialLayer: *initialLayer,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create application: %v\n", err)
		return 1
	}

	// Run with panic recovery to ensure terminal is always restored
	func() {
		defer func() {
			if r := recover(); r != nil {
				screen.Fini()
				log.Error().Interface("panic", r).Msg("application panicked")
				fmt.Fprintf(os.Stderr, "\nPanic: %v\n", r)
			}
		}()

		if err := app.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}()

	fmt.Println("\nGoodbye!")
	return 0
}
