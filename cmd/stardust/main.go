package main

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/san-kum/stardust/internal/config"
	"github.com/san-kum/stardust/internal/gui"
	"github.com/san-kum/stardust/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	seed       int64
	verbose    bool
	particles  int
	// terminal host
	menu    bool
	logFile string
	// headless runs
	scenarioName string
	snapTicks    int
	benchTicks   int
	runs         int
	width        int
	height       int
	// output
	bgOut     string
	snapOut   string
	configOut string
	zoom      int
	copyOut   bool
	svgPath   string
)

// main registers the commands and opens the window when no subcommand is
// given. It exits with status 1 if the command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:          "stardust",
		Short:        "interactive stardust particle field",
		SilenceUsage: true,
		RunE:         runWindow,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".stardust", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.Int64Var(&seed, "seed", 0, "random seed (0 picks one from the clock)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.IntVar(&particles, "particles", 0, "override particle count")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "run the field in the terminal",
		RunE:  runTUI,
	}
	tuiCmd.Flags().BoolVar(&menu, "menu", false, "pick a preset from a menu first")
	tuiCmd.Flags().StringVar(&logFile, "log", "", "write logs to this file")

	backgroundCmd := &cobra.Command{
		Use:   "background",
		Short: "render the dithered background to PNG",
		RunE:  renderBackground,
	}
	backgroundCmd.Flags().StringVarP(&bgOut, "out", "o", "background.png", "output path")
	backgroundCmd.Flags().IntVar(&width, "width", 0, "width in pixels (default from config)")
	backgroundCmd.Flags().IntVar(&height, "height", 0, "height in pixels (default from config)")
	backgroundCmd.Flags().IntVar(&zoom, "zoom", 1, "nearest-neighbour upscale factor")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "run a scripted scenario and write the last frame as SVG",
		RunE:  renderSnapshot,
	}
	snapshotCmd.Flags().StringVarP(&snapOut, "out", "o", "snapshot.svg", "output path")
	addRunFlags(snapshotCmd, &snapTicks, 240)

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "run a scripted scenario headlessly and store the result",
		RunE:  benchScenario,
	}
	addRunFlags(benchCmd, &benchTicks, 600)
	benchCmd.Flags().IntVar(&runs, "runs", 1, "parallel runs with consecutive seeds")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgPath, "svg", "", "also write the attracted series as SVG")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration as YAML",
		RunE:  showConfig,
	}
	configCmd.Flags().StringVarP(&configOut, "out", "o", "", "write to file instead of stdout")
	configCmd.Flags().BoolVar(&copyOut, "copy", false, "copy to the clipboard")

	rootCmd.AddCommand(tuiCmd, backgroundCmd, snapshotCmd, benchCmd, listCmd, plotCmd, exportCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// addRunFlags registers the headless run flags. Each command owns its
// ticks variable.
func addRunFlags(cmd *cobra.Command, ticks *int, defaultTicks int) {
	cmd.Flags().StringVar(&scenarioName, "scenario", "swipe", "input script (idle, orbit, swipe, touch-swipe)")
	cmd.Flags().IntVar(ticks, "ticks", defaultTicks, "ticks to simulate")
	cmd.Flags().IntVar(&width, "width", 0, "surface width (default from config)")
	cmd.Flags().IntVar(&height, "height", 0, "surface height (default from config)")
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadConfig resolves preset, then config file, then flags that were set
// explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("particles") {
		cfg.Particles.Count = particles
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("width") && width > 0 {
		cfg.Render.Width = width
	}
	if cmd.Flags().Changed("height") && height > 0 {
		cfg.Render.Height = height
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newRand(cfg *config.Config) *rand.Rand {
	return rand.New(rand.NewSource(cfg.Seed))
}

func runWindow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(os.Stderr)
	log.Info("starting", "particles", cfg.Particles.Count, "seed", cfg.Seed, "preset", preset)
	return gui.Run(cfg, newRand(cfg), log)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var w io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	log := newLogger(w)

	if menu {
		return viz.RunInteractive(newRand(cfg), log)
	}
	return viz.Run(cfg, newRand(cfg), log)
}
