package main

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/atotto/clipboard"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/stardust/internal/config"
	"github.com/san-kum/stardust/internal/dither"
	"github.com/san-kum/stardust/internal/export"
	"github.com/san-kum/stardust/internal/geom"
	"github.com/san-kum/stardust/internal/metrics"
	"github.com/san-kum/stardust/internal/palette"
	"github.com/san-kum/stardust/internal/render"
	"github.com/san-kum/stardust/internal/scenario"
	"github.com/san-kum/stardust/internal/sim"
	"github.com/san-kum/stardust/internal/storage"
	"github.com/spf13/cobra"
)

func renderBackground(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	img, err := dither.Generate(cfg.Render.Width, cfg.Render.Height,
		palette.Parse(cfg.Background.Top), palette.Parse(cfg.Background.Bottom), cfg.Background.Levels)
	if err != nil {
		return err
	}

	f, err := os.Create(bgOut)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := png.Encode(f, dither.Zoom(img, zoom)); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	fmt.Printf("background saved to %s (%dx%d, %d levels)\n", bgOut, cfg.Render.Width*max(zoom, 1), cfg.Render.Height*max(zoom, 1), cfg.Background.Levels)
	return nil
}

func surface(cfg *config.Config) geom.Bounds {
	return geom.NewBounds(float64(cfg.Render.Width), float64(cfg.Render.Height), cfg.Interaction.EdgeBuffer)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func renderSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	script, err := scenario.Get(scenarioName)
	if err != nil {
		return fmt.Errorf("%w (available: %v)", err, scenario.Names())
	}
	log := newLogger(os.Stderr)

	bounds := surface(cfg)
	s := sim.New(cfg, bounds, newRand(cfg))
	rec := metrics.NewRecorder(metrics.Standard()...)
	s.AddObserver(rec)

	ctx, cancel := signalContext()
	defer cancel()

	res, err := sim.Run(ctx, s, script, sim.RunConfig{Ticks: snapTicks, TPS: cfg.Render.TPS})
	if err != nil {
		return err
	}
	log.Debug("scenario finished", "scenario", scenarioName, "ticks", res.StepsTaken, "metrics", rec.Values())

	bg, err := dither.Generate(cfg.Render.Width, cfg.Render.Height,
		palette.Parse(cfg.Background.Top), palette.Parse(cfg.Background.Bottom), cfg.Background.Levels)
	if err != nil {
		return err
	}

	f, err := os.Create(snapOut)
	if err != nil {
		return err
	}
	defer f.Close()

	opts := render.Options{RegularSize: cfg.Particles.RegularSize, BloomOffset: cfg.Render.BloomOffset}
	if err := export.WriteSVG(f, bg, s, bounds.Width, bounds.Height, opts); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Printf("snapshot saved to %s\n", snapOut)
	fmt.Printf("  free: %d  attracted: %d  flicked: %d\n", res.Final.Free, res.Final.Attracted, res.Final.Flicked)
	return nil
}

func benchScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if _, err := scenario.Get(scenarioName); err != nil {
		return fmt.Errorf("%w (available: %v)", err, scenario.Names())
	}
	if runs < 1 {
		return fmt.Errorf("runs must be at least 1, got %d", runs)
	}
	log := newLogger(os.Stderr)

	ctx, cancel := signalContext()
	defer cancel()

	ens := sim.NewEnsemble(cfg, surface(cfg), runs, cfg.Seed, func() sim.Driver {
		script, _ := scenario.Get(scenarioName)
		return script
	})

	fmt.Printf("benchmarking %s: %d particles, %d ticks, %d run(s)\n\n", scenarioName, cfg.Particles.Count, benchTicks, runs)

	start := time.Now()
	results, err := ens.Run(ctx, sim.RunConfig{Ticks: benchTicks, TPS: cfg.Render.TPS})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSEED\tPEAK\tCAPTURED\tFLICKS\tCALM")

	recorders := make([]*metrics.Recorder, len(results))
	for i, res := range results {
		rec := metrics.NewRecorder(metrics.Standard()...)
		for _, st := range res.Stats {
			rec.OnTick(st)
		}
		recorders[i] = rec
		v := rec.Values()
		fmt.Fprintf(w, "%d\t%d\t%.0f\t%.0f\t%.0f\t%.3f\n",
			i, cfg.Seed+int64(i), v["peak_attracted"], v["total_captured"], v["total_flicks"], v["calm"])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	steps := benchTicks * runs
	fmt.Printf("\n%d steps in %v (%.0f steps/sec)\n", steps, elapsed.Round(time.Millisecond), float64(steps)/elapsed.Seconds())

	store := storage.New(dataDir)
	if err := store.Init(); err != nil {
		return fmt.Errorf("failed to init storage: %w", err)
	}

	runID, err := store.Save(storage.RunMetadata{
		Scenario:  scenarioName,
		Preset:    preset,
		Seed:      cfg.Seed,
		TPS:       cfg.Render.TPS,
		Ticks:     benchTicks,
		Particles: cfg.Particles.Count,
		Width:     float64(cfg.Render.Width),
		Height:    float64(cfg.Render.Height),
		Runs:      runs,
		Metrics:   meanValues(recorders),
	}, recorders[0].History)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	log.Debug("run stored", "id", runID, "dir", dataDir)
	fmt.Printf("saved: %s\n", runID)
	return nil
}

// meanValues averages each metric across runs.
func meanValues(recs []*metrics.Recorder) map[string]float64 {
	out := make(map[string]float64)
	for _, r := range recs {
		for k, v := range r.Values() {
			out[k] += v / float64(len(recs))
		}
	}
	return out
}

func listRuns(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	stored, err := store.List()
	if err != nil {
		return err
	}

	if len(stored) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tTICKS\tPARTICLES\tRUNS\tCAPTURED")

	for _, run := range stored {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%.0f\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Ticks,
			run.Particles,
			run.Runs,
			run.Metrics["total_captured"],
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	store := storage.New(dataDir)

	meta, err := store.Load(runID)
	if err != nil {
		return err
	}
	ticks, err := store.LoadTicks(runID)
	if err != nil {
		return err
	}
	if len(ticks) == 0 {
		return fmt.Errorf("run %s has no ticks", runID)
	}

	fmt.Printf("run: %s (%s, %d particles)\n\n", meta.ID, meta.Scenario, meta.Particles)

	series := []struct {
		caption string
		value   func(sim.TickStats) float64
	}{
		{"attracted", func(s sim.TickStats) float64 { return float64(s.Attracted) }},
		{"flicked", func(s sim.TickStats) float64 { return float64(s.Flicked) }},
		{"radius", func(s sim.TickStats) float64 { return s.Radius }},
	}

	for _, sr := range series {
		data := make([]float64, len(ticks))
		for i, t := range ticks {
			data[i] = sr.value(t)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(sr.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if len(meta.Metrics) > 0 {
		names := make([]string, 0, len(meta.Metrics))
		for k := range meta.Metrics {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			fmt.Printf("  %-16s %.3f\n", k, meta.Metrics[k])
		}
	}

	if svgPath != "" {
		data := make([]float64, len(ticks))
		for i, t := range ticks {
			data[i] = float64(t.Attracted)
		}
		if err := os.WriteFile(svgPath, []byte(export.SeriesToSVG(data, 800, 240, "#4eede5")), 0644); err != nil {
			return err
		}
		fmt.Printf("\nsvg saved to %s\n", svgPath)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	return store.ExportJSON(os.Stdout, args[0])
}

func showConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if configOut != "" {
		if err := config.Save(configOut, cfg); err != nil {
			return err
		}
		fmt.Printf("config saved to %s\n", configOut)
		return nil
	}

	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	if copyOut {
		if err := clipboard.WriteAll(string(data)); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		fmt.Println("config copied to clipboard")
		return nil
	}
	fmt.Print(string(data))
	return nil
}
