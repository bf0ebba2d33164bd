package main

import (
	"fmt"
	"io"
	"os"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/iho/payengine/internal/adapter/csvio"
	"github.com/iho/payengine/internal/domain"
	"github.com/iho/payengine/internal/infrastructure/config"
	"github.com/iho/payengine/internal/infrastructure/logger"
	"github.com/iho/payengine/internal/infrastructure/metrics"
	"github.com/iho/payengine/internal/usecase"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "payengine <input.csv>",
		Short: "Replay a payments event stream and print final account balances",
		Long: `payengine replays an ordered stream of deposit, withdrawal, dispute,
resolve and chargeback events from a CSV file and writes the resulting
per-client account table to stdout.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], os.Stdout)
		},
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(inputPath string, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}).
		With().
		Str("run_id", ulid.Make().String()).
		Logger()

	m := metrics.New()
	if cfg.MetricsAddr != "" {
		go serveMetrics(m, cfg.MetricsAddr, log)
	}

	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	ledger := usecase.NewLedger()
	accounts := usecase.NewAccountStore()
	runner := usecase.NewRunner(usecase.NewProcessor(ledger, accounts), log, m)

	result, err := runner.Run(csvio.NewReader(f))
	if err != nil {
		return fmt.Errorf("process %s: %w", inputPath, err)
	}

	snapshot := accounts.Snapshot()

	m.Accounts.Set(float64(len(snapshot)))
	m.LockedAccounts.Set(float64(countLocked(snapshot)))
	m.LedgerEntries.Set(float64(ledger.Len()))

	log.Info().
		Int("applied", result.Applied).
		Int("rejected", result.Rejected).
		Int("accounts", len(snapshot)).
		Msg("replay complete")

	if err := csvio.NewWriter(out).WriteAccounts(snapshot); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}

func serveMetrics(m *metrics.Metrics, addr string, log zerolog.Logger) {
	log.Info().Str("addr", addr).Msg("metrics listener started")

	if err := m.Serve(addr); err != nil {
		log.Error().Err(err).Msg("metrics listener stopped")
	}
}

func countLocked(accounts []*domain.Account) int {
	var n int
	for _, acc := range accounts {
		if acc.Locked {
			n++
		}
	}

	return n
}
