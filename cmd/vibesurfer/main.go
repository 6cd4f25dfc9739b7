package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"vibesurfer/internal/config"
	"vibesurfer/internal/debug"
	"vibesurfer/internal/engine"
)

func init() {
	// The GL context lives on the main thread for its whole life
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (defaults apply when omitted)")
	preset := flag.String("preset", "", "Camera preset override: fixed, basic, cinematic, floating")
	elevation := flag.Float64("elevation", 0, "Elevation override in meters (fixed preset)")
	record := flag.Bool("record", false, "Record frames instead of running interactively")
	duration := flag.Float64("duration", 0, "Recording duration in seconds")
	fps := flag.Int("fps", 0, "Recording frame rate")
	outDir := flag.String("out", "", "Recording output directory")
	enableLogging := flag.Bool("log", false, "Enable logging (disabled by default)")
	flag.Parse()

	// Load config (or defaults) and fold in the flag overrides
	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	} else {
		cfg = config.Default()
	}

	if *preset != "" {
		cfg.Camera.Preset = *preset
	}
	if *elevation != 0 {
		cfg.Camera.ElevationOverride = *elevation
	}
	if *record {
		cfg.Recording.Enabled = true
		cfg.Recording.CaptureWAV = true
	}
	if *duration > 0 {
		cfg.Recording.DurationS = *duration
	}
	if *fps > 0 {
		cfg.Recording.FPS = *fps
	}
	if *outDir != "" {
		cfg.Recording.OutputDir = *outDir
	}
	if *enableLogging {
		cfg.Logging.Enabled = true
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := debug.NewLogger(10000)
	defer logger.Shutdown()
	if cfg.Logging.Enabled {
		logger.EnableAll()
		switch cfg.Logging.Level {
		case "error":
			logger.SetMinLevel(debug.LogLevelError)
		case "warning":
			logger.SetMinLevel(debug.LogLevelWarning)
		case "debug":
			logger.SetMinLevel(debug.LogLevelDebug)
		case "trace":
			logger.SetMinLevel(debug.LogLevelTrace)
		default:
			logger.SetMinLevel(debug.LogLevelInfo)
		}
	}

	fmt.Println("vibesurfer")
	fmt.Println("==========")
	fmt.Printf("Camera preset: %s\n", cfg.Camera.Preset)
	fmt.Printf("Grid: %dx%d at %.1fm spacing\n", cfg.Physics.GridSide, cfg.Physics.GridSide, cfg.Physics.GridSpacing)
	if cfg.Recording.Enabled {
		fmt.Printf("Recording: %.1fs at %d fps to %s\n", cfg.Recording.DurationS, cfg.Recording.FPS, cfg.Recording.OutputDir)
	} else {
		fmt.Println("\nControls:")
		fmt.Println("  ESC - Quit")
	}

	eng, err := engine.New(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := eng.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
