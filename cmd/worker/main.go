package main

import (
	"flag"
	"log"
	"os"

	tactivity "go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"

	"github.com/yourorg/zebra/internal/activities"
	"github.com/yourorg/zebra/internal/config"
	"github.com/yourorg/zebra/internal/logging"
	znmetrics "github.com/yourorg/zebra/internal/metrics"
	"github.com/yourorg/zebra/internal/workflow"
)

func main() {
	cfgPath := flag.String("config", "", "YAML config file")
	flag.Parse()

	cfg := config.Default()
	// Without a config file the worker logs at info; warn is the interactive default.
	cfg.LogLevel = "info"
	if *cfgPath != "" {
		var err error
		if cfg, err = config.LoadFromFile(*cfgPath); err != nil {
			log.Fatal("config:", err)
		}
	}
	cfg.LoadFromEnv()

	// Ensure scratch dir exists and is writable
	_ = os.MkdirAll(cfg.ScratchDir, 0o777)

	zl := logging.New(cfg.LogLevel)
	defer zl.Sync()

	// Metrics server
	znmetrics.Init()
	go func() {
		if err := znmetrics.Serve(cfg.MetricsAddr); err != nil {
			zl.Error("metrics server stopped", zap.Error(err))
		}
	}()

	c, err := client.Dial(client.Options{HostPort: cfg.Temporal.HostPort, Namespace: cfg.Temporal.Namespace})
	if err != nil {
		log.Fatal("temporal client:", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})
	acts := activities.New(activities.Config{ScratchDir: cfg.ScratchDir, Logger: zl})
	// Register activities with explicit names matching workflow.ExecuteActivity calls
	w.RegisterActivityWithOptions(acts.Stripe, tactivity.RegisterOptions{Name: "Activities.Stripe"})
	w.RegisterActivityWithOptions(acts.Assemble, tactivity.RegisterOptions{Name: "Activities.Assemble"})
	w.RegisterActivityWithOptions(acts.CleanupScratch, tactivity.RegisterOptions{Name: "Activities.CleanupScratch"})
	w.RegisterWorkflow(workflow.StripeWorkflow)
	w.RegisterWorkflow(workflow.AssembleWorkflow)
	w.RegisterWorkflow(workflow.RestripeWorkflow)

	zl.Info("worker started",
		zap.String("namespace", cfg.Temporal.Namespace),
		zap.String("taskQueue", cfg.Temporal.TaskQueue),
		zap.String("tmp", cfg.ScratchDir),
		zap.String("metrics", cfg.MetricsAddr),
	)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatal("worker failed:", err)
	}
}
