package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"
	"github.com/plus3/behave/ecs"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file.")
	duration := flag.Duration("duration", 0, "The total duration the test should run for.")
	entityCount := flag.Int("entities", -1, "The initial number of entities to create.")
	churn := flag.Int("churn", -1, "Entities toggled inactive/active between frames.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	profileMode := flag.String("profile", "", "Write a cpu or mem profile to the working directory.")
	snapshotPath := flag.String("snapshot", "", "Dump the final active entities as YAML to this path.")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error).")
	flag.Parse()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *duration > 0 {
		cfg.Duration = *duration
	}
	if *entityCount >= 0 {
		cfg.Entities = *entityCount
	}
	if *churn >= 0 {
		cfg.ChurnPerFrame = *churn
	}
	if *gcPauseMetrics {
		cfg.GCPauseMetrics = true
	}
	if *profileMode != "" {
		cfg.Profile = *profileMode
	}
	if *snapshotPath != "" {
		cfg.Snapshot = *snapshotPath
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("stress test failed", zap.Error(err))
	}
}

func run(cfg Config, logger *zap.Logger) error {
	switch cfg.Profile {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	}

	priorities, err := cfg.PriorityMix()
	if err != nil {
		return err
	}

	logger.Info("starting stress test",
		zap.Duration("duration", cfg.Duration),
		zap.Int("entities", cfg.Entities),
		zap.Int("churn", cfg.ChurnPerFrame))

	registry := ecs.NewComponentRegistry()
	registerKinds(registry)
	runner := ecs.NewRunner(registry, ecs.WithLogger(logger.Named("runner")))
	defer runner.Close()

	age := &Age{}
	if err := ecs.RegisterBehavior(runner, age); err != nil {
		return err
	}

	entities := make([]*ecs.Entity, 0, cfg.Entities)
	for i := 0; i < cfg.Entities; i++ {
		e, err := spawnEntity(runner, priorities[i%len(priorities)], cfg.Lifetime)
		if err != nil {
			return fmt.Errorf("spawning entity %d: %w", i, err)
		}
		entities = append(entities, e)
	}
	logger.Info("population complete", zap.Int("active", runner.ActiveCount()))

	report := &Report{
		Duration:       cfg.Duration,
		Entities:       cfg.Entities,
		Priorities:     priorities,
		Churn:          cfg.ChurnPerFrame,
		GCPauseMetrics: cfg.GCPauseMetrics,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Duration)
	defer cancel()

	var tick <-chan time.Time
	if cfg.FrameInterval > 0 {
		ticker := time.NewTicker(cfg.FrameInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	startTime := time.Now()
	lastFrameTime := startTime

Loop:
	for {
		if tick != nil {
			select {
			case <-ctx.Done():
				break Loop
			case <-tick:
			}
		} else if ctx.Err() != nil {
			break Loop
		}

		churnEntities(entities, cfg.ChurnPerFrame)

		deltaTime := time.Since(lastFrameTime)
		lastFrameTime = time.Now()

		updateStart := time.Now()
		if err := runner.Update(deltaTime.Seconds()); err != nil {
			logger.Warn("frame reported errors", zap.Error(err))
		}
		report.FrameTime.Samples = append(report.FrameTime.Samples, time.Since(updateStart))
		report.TotalUpdates++
	}

	report.TotalTime = time.Since(startTime)
	report.FrameTime.Finalize()
	report.Expired = age.Expired
	report.ActiveAtEnd = runner.ActiveCount()
	report.Runner = runner.Stats()
	runtime.ReadMemStats(&report.MemStatsEnd)

	logger.Info("simulation finished",
		zap.Int64("updates", report.TotalUpdates),
		zap.Int("expired", report.Expired))

	if cfg.Snapshot != "" {
		if err := dumpSnapshot(runner, cfg.Snapshot); err != nil {
			return err
		}
		logger.Info("snapshot written", zap.String("path", cfg.Snapshot))
	}

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		return fmt.Errorf("generating report: %w", err)
	}
	fmt.Println("--- End of Report ---")
	return nil
}

// churnEntities flips the active flag of n random entities.
func churnEntities(entities []*ecs.Entity, n int) {
	if len(entities) == 0 {
		return
	}
	for range n {
		e := entities[rand.Intn(len(entities))]
		_ = e.SetActive(!e.IsActive())
	}
}

func dumpSnapshot(runner *ecs.Runner, path string) error {
	data, err := yaml.Marshal(runner.Snapshot())
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}
