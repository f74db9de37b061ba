package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"poachwatch/internal/app"
	"poachwatch/internal/config"
	"poachwatch/internal/dto"
	"poachwatch/internal/logger"
	"poachwatch/internal/service"
)

var (
	workers int
	dryRun  bool

	colorRed    = color.New(color.FgRed, color.Bold)
	colorGreen  = color.New(color.FgGreen, color.Bold)
	colorYellow = color.New(color.FgYellow)
	colorCyan   = color.New(color.FgCyan)
)

var rootCmd = &cobra.Command{
	Use:   "poachscan <folder>",
	Short: "Scan a folder of camera images for poaching activity",
	Long: `poachscan runs one detection pass over the images of a folder.

Models are resolved from MODEL_DIR (or MODEL_CANDIDATES_FILE) and an SMS
alert is sent through Twilio when more than 10% of the scored images
contain people. Use --dry-run to log the alert instead of sending it.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runScan,
}

func init() {
	rootCmd.Flags().IntVarP(&workers, "workers", "w", 0, "number of images scored in parallel (default SCAN_WORKERS)")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "log the alert instead of sending an SMS")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		colorRed.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if workers > 0 {
		cfg.ScanWorkers = workers
	}

	log, err := logger.NewLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Close()

	pipeline := app.NewPipeline(cfg, log, app.PipelineOptions{DryRun: dryRun})
	defer pipeline.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	colorCyan.Printf("🔎 Scanning %s\n", args[0])
	outcome := pipeline.Manager.Run(ctx, args[0])
	printOutcome(outcome)

	if outcome.Failed() {
		return fmt.Errorf("run %s: %s", outcome.RunID, outcome.Status)
	}
	return nil
}

func printOutcome(outcome dto.RunOutcome) {
	c := outcome.Counters
	fmt.Printf("Scored: %d  With people: %d  Decode failures: %d  Detector failures: %d\n",
		c.Scored, c.Detected, c.DecodeFailed, c.ScoreFailed)

	switch {
	case outcome.Failed():
		colorRed.Println(outcome.Message)
	case outcome.Status == dto.StatusCancelled:
		colorYellow.Println(outcome.Message)
	case outcome.AlertSent:
		colorRed.Println("🚨 " + outcome.Message)
	case outcome.Message == service.MessageAlertNotSent:
		colorYellow.Println(outcome.Message)
	default:
		colorGreen.Println(outcome.Message)
	}
}
