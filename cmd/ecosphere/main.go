// Command ecosphere runs the procedural planet simulation.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/varkess/ecosphere/internal/api"
	"github.com/varkess/ecosphere/internal/chronicle"
	"github.com/varkess/ecosphere/internal/config"
	"github.com/varkess/ecosphere/internal/telemetry"
	"github.com/varkess/ecosphere/internal/world"
)

func main() {
	var (
		seed       = flag.Int64("seed", 42, "random seed for world generation")
		years      = flag.Int("years", 1000, "number of years to simulate (0 = run until interrupted)")
		configPath = flag.String("config", "", "YAML parameter file overriding the defaults")
		dbPath     = flag.String("db", "", "SQLite chronicle path (empty = chronicle disabled)")
		csvDir     = flag.String("csv", "", "telemetry output directory (empty = telemetry disabled)")
		apiPort    = flag.Int("api-port", 0, "HTTP status API port (0 = API disabled)")
		pace       = flag.Duration("pace", 0, "real-time delay between simulated years")
		snapEvery  = flag.Int("snapshot-interval", 100, "years between chronicle snapshots")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	params := config.Default()
	if *configPath != "" {
		var err error
		params, err = config.Load(*configPath)
		if err != nil {
			slog.Error("failed to load config", "path", *configPath, "error", err)
			os.Exit(1)
		}
		slog.Info("config loaded", "path", *configPath)
	}

	// ── Chronicle ─────────────────────────────────────────────────────
	var db *chronicle.DB
	if *dbPath != "" {
		var err error
		db, err = chronicle.Open(*dbPath)
		if err != nil {
			slog.Error("failed to open chronicle", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		slog.Info("chronicle opened", "path", *dbPath)
	}

	// ── Telemetry ─────────────────────────────────────────────────────
	out, err := telemetry.NewOutputManager(*csvDir)
	if err != nil {
		slog.Error("failed to open telemetry output", "error", err)
		os.Exit(1)
	}
	defer out.Close()
	if err := out.WriteConfig(params); err != nil {
		slog.Error("failed to write telemetry config", "error", err)
	}

	// ── World ─────────────────────────────────────────────────────────
	w := world.New(*seed, params)
	if err := w.Generate(); err != nil {
		slog.Error("world generation failed", "error", err)
		os.Exit(1)
	}

	if db != nil {
		db.SaveMeta("planet_name", w.Name)
		db.SaveMeta("seed", fmt.Sprintf("%d", *seed))
	}

	var mu sync.Mutex
	if *apiPort > 0 {
		srv := &api.Server{World: w, Mu: &mu, DB: db, Port: *apiPort}
		srv.Start()
	}

	// ── Run ───────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	stop := make(chan struct{})
	go func() {
		sig := <-sigCh
		slog.Info("received signal, stopping", "signal", sig)
		close(stop)
	}()

	fmt.Printf("\n%s is alive: %d km across, %d founding species.\n",
		w.Name, w.SizeKm, len(w.Eco.Species))
	if *apiPort > 0 {
		fmt.Printf("API: http://localhost:%d/api/v1/status\n", *apiPort)
	}

	running := true
	for running {
		select {
		case <-stop:
			running = false
			continue
		default:
		}
		if *years > 0 && w.Age >= *years {
			break
		}

		mu.Lock()
		if err := w.SimulateYear(); err != nil {
			mu.Unlock()
			slog.Error("simulation error", "error", err)
			os.Exit(1)
		}
		stats := telemetry.Collect(w)
		events := w.DrainEvents()
		mu.Unlock()

		if err := out.WriteYear(stats); err != nil {
			slog.Error("telemetry write failed", "error", err)
		}
		if db != nil {
			if err := db.AppendEvents(events); err != nil {
				slog.Error("chronicle append failed", "error", err)
			}
			if *snapEvery > 0 && w.Age%*snapEvery == 0 {
				if err := db.SaveSnapshot(w.Age, w.GetSummary()); err != nil {
					slog.Error("chronicle snapshot failed", "error", err)
				}
			}
		}

		if *pace > 0 {
			time.Sleep(*pace)
		}
	}

	// ── Final report ──────────────────────────────────────────────────
	if db != nil {
		if err := db.SaveSnapshot(w.Age, w.GetSummary()); err != nil {
			slog.Error("final snapshot failed", "error", err)
		}
	}

	summary := w.GetSummary()
	fmt.Printf("\nSimulation stopped after %d years on %s.\n", w.Age, w.Name)
	fmt.Printf("Species: %d living, %d extinct. Total population: %d.\n",
		summary.Ecosystem.TotalSpecies, summary.Ecosystem.ExtinctSpecies,
		summary.Ecosystem.TotalPopulation)
	fmt.Printf("Civilizations: %d active, %d fallen.\n",
		summary.Civilizations.ActiveCivilizations, summary.Civilizations.ExtinctCivilizations)
	for _, c := range summary.Civilizations.Details {
		fmt.Printf("  %s: %s tier, population %d, %d cells of territory.\n",
			c.Name, c.TechLevel, c.Population, c.TerritorySize)
	}
}
