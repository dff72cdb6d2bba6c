package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"recruitdesk/cv-intake/internal/dayrange"
	"recruitdesk/cv-intake/internal/export"
)

var dayCmd = &cobra.Command{
	Use:   "day [YYYY-MM-DD]",
	Short: "List the candidates uploaded on one day (default today, UTC)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		day := time.Now().UTC().Format(dayrange.DayLayout)
		if len(args) == 1 {
			day = args[0]
		}
		return fetchAndPrint(cmd.Context(), day, day)
	},
}

var rangeCmd = &cobra.Command{
	Use:   "range FROM TO",
	Short: "List the candidates uploaded between two days, both included",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return fetchAndPrint(cmd.Context(), args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(dayCmd)
	rootCmd.AddCommand(rangeCmd)
}

func fetchAndPrint(ctx context.Context, from, to string) error {
	config, err := getConfig()
	if err != nil {
		return err
	}
	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("creating a logger: %w", err)
	}
	defer log.Sync()

	res, err := fetch(ctx, config, log, from, to)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("Candidates %s to %s", from, to)
	return writeOutput(config, export.FromRows(res.Candidates), title)
}

// fetch runs the day or range fetch and reports a failure only when
// nothing could be fetched because every call failed.
func fetch(ctx context.Context, config *Config, log *zap.Logger, from, to string) (dayrange.Result, error) {
	res := newFetcher(config, log).FetchRange(ctx, from, to)

	log.Info("fetched candidates",
		zap.String("from", from),
		zap.String("to", to),
		zap.String("outcome", string(res.Outcome)),
		zap.Int("count", len(res.Candidates)))

	if res.Outcome == dayrange.OutcomeFailed {
		err := res.DayErr
		if err == nil {
			err = res.RangeErr
		}
		return res, fmt.Errorf("fetching candidates: %w", err)
	}
	return res, nil
}
