package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"recruitdesk/cv-intake/internal/export"
	"recruitdesk/cv-intake/internal/models"
	"recruitdesk/cv-intake/internal/screening"
)

var screenCmd = &cobra.Command{
	Use:   "screen FROM [TO]",
	Short: "Fetch candidates and evaluate them locally against a vertical",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, to := args[0], args[0]
		if len(args) == 2 {
			to = args[1]
		}

		verticalID, presetID, err := selectRules(cmd)
		if err != nil {
			return err
		}
		rules, err := screening.ResolveRules(verticalID, presetID)
		if err != nil {
			return err
		}

		config, err := getConfig()
		if err != nil {
			return err
		}
		log, err := newLogger()
		if err != nil {
			return fmt.Errorf("creating a logger: %w", err)
		}
		defer log.Sync()

		res, err := fetch(cmd.Context(), config, log, from, to)
		if err != nil {
			return err
		}

		list := evaluateAll(res.Candidates, rules)
		passedOnly, _ := cmd.Flags().GetBool("passed")
		if passedOnly {
			list = passed(list)
		}

		log.Info("screened candidates",
			zap.String("vertical", rules.VerticalID),
			zap.String("preset", rules.PresetID),
			zap.Int("evaluated", len(list)))

		title := fmt.Sprintf("%s screening %s to %s", rules.VerticalID, from, to)
		return writeOutput(config, export.FromEvaluated(list), title)
	},
}

func init() {
	addRuleFlags(screenCmd)
	screenCmd.Flags().Bool("passed", false, "only print candidates that passed")
	rootCmd.AddCommand(screenCmd)
}

// evaluateAll skips rows that have no extracted candidate yet and ranks
// the rest.
func evaluateAll(rows []models.CandidateRow, rules screening.Rules) []screening.Evaluated {
	list := make([]screening.Evaluated, 0, len(rows))
	for _, row := range rows {
		if row.Candidate == nil {
			continue
		}
		list = append(list, screening.Evaluated{
			CandidateRow: row,
			Evaluation:   screening.Evaluate(*row.Candidate, rules),
		})
	}
	screening.Rank(list)
	return list
}

func passed(list []screening.Evaluated) []screening.Evaluated {
	out := list[:0]
	for _, e := range list {
		if e.Evaluation.Passed {
			out = append(out, e)
		}
	}
	return out
}
