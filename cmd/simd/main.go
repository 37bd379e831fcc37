package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"CoopSim/internal/config"
	"CoopSim/internal/model"
	"CoopSim/internal/recorder"
	"CoopSim/internal/scenario"
	"CoopSim/internal/scheduler"
	"CoopSim/internal/sim"
	"CoopSim/internal/stats"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] CoopSim starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Baseline token-economy run, recorded week by week
	if err := runBaseline(cfg, rec); err != nil {
		log.Fatalf("[FATAL] baseline run: %v", err)
	}

	// Scenario A/B comparison
	result, err := scenario.Run(cfg.ScenarioConfig())
	if err != nil {
		log.Fatalf("[FATAL] scenario comparison: %v", err)
	}
	log.Printf("[INFO] %s", result.Summary.KeyFindings.WealthImpact)
	log.Printf("[INFO] %s", result.Summary.KeyFindings.EqualityMeasures)
	log.Printf("[INFO] %s", result.Summary.KeyFindings.CommunityHealth)

	// Init scheduler
	sched := scheduler.NewScheduler(cfg, rec)
	if err := sched.RegisterAll(); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing validation task now")
		go sched.RunValidationNow()
	}

	log.Println("[INFO] CoopSim is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	log.Println("[INFO] CoopSim stopped")
}

// runBaseline steps the five-model economy over the scenario horizon
// and records every weekly snapshot under the "baseline" run label.
func runBaseline(cfg *config.Config, rec recorder.Recorder) error {
	simCfg := cfg.SimConfig()
	coordinator := sim.NewCoordinator(simCfg, nil)

	sampler := stats.NewSampler(simCfg.Seed + 1)
	participants := make([]model.Participant, cfg.Scenario.Members)
	for i := range participants {
		participants[i] = model.Participant{
			ID:            fmt.Sprintf("P_%04d", i),
			InitialWealth: sampler.LogNormal(cfg.Scenario.InitialWealthMeanLog, cfg.Scenario.InitialWealthSigmaLog),
		}
	}
	if err := coordinator.Initialize(&model.PopulationConfig{Participants: participants}); err != nil {
		return err
	}

	for week := 1; week <= cfg.Scenario.Weeks; week++ {
		snap, err := coordinator.ProcessWeek(week, nil)
		if err != nil {
			return fmt.Errorf("week %d: %w", week, err)
		}
		if err := rec.RecordSnapshot("baseline", snap); err != nil {
			log.Printf("[ERROR] record snapshot week %d: %v", week, err)
		}
	}

	agg := coordinator.AggregateStatistics()
	log.Printf("[INFO] baseline complete: %d participants, %.0f tokens distributed, $%.0f spent, $%.0f saved",
		agg.Participants, agg.TotalTokensDistributed, agg.TotalSpend, agg.TotalSavingsGenerated)
	return nil
}
