package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"recruitdesk/cv-intake/internal/screening"
)

var verticalsCmd = &cobra.Command{
	Use:   "verticals",
	Short: "List the built-in verticals",
	RunE: func(_ *cobra.Command, _ []string) error {
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tMIN SCORE\tMIN YEARS\tCOUNTRIES")
		for _, v := range screening.Verticals() {
			fmt.Fprintf(tw, "%s\t%s\t%.1f\t%d\t%s\n",
				v.ID, v.Name, v.MinScore, v.MinYearsExperience, strings.Join(v.AllowedCountries, ", "))
		}
		return tw.Flush()
	},
}

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List filter presets, optionally for one vertical",
	RunE: func(cmd *cobra.Command, _ []string) error {
		verticalID, _ := cmd.Flags().GetString("vertical")
		if verticalID != "" {
			if _, ok := screening.Vertical(verticalID); !ok {
				return fmt.Errorf("%w: %q", screening.ErrUnknownVertical, verticalID)
			}
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tVERTICAL\tSTRICT\tDESCRIPTION")
		for _, p := range screening.PresetsForVertical(verticalID) {
			fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", p.ID, p.VerticalID, p.Strict, p.Description)
		}
		return tw.Flush()
	},
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the effective rules of a vertical and preset",
	RunE: func(cmd *cobra.Command, _ []string) error {
		verticalID, presetID, err := selectRules(cmd)
		if err != nil {
			return err
		}
		rules, err := screening.ResolveRules(verticalID, presetID)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rules)
	},
}

func init() {
	presetsCmd.Flags().String("vertical", "", "only presets of this vertical")
	addRuleFlags(rulesCmd)

	rootCmd.AddCommand(verticalsCmd)
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(rulesCmd)
}

func addRuleFlags(cmd *cobra.Command) {
	cmd.Flags().String("vertical", "", "vertical id (asked interactively when empty)")
	cmd.Flags().String("preset", "", "preset id, empty for the vertical defaults")
}

// selectRules reads --vertical and --preset, asking for the vertical when
// it was not given.
func selectRules(cmd *cobra.Command) (string, string, error) {
	verticalID, _ := cmd.Flags().GetString("vertical")
	presetID, _ := cmd.Flags().GetString("preset")
	if verticalID != "" {
		return verticalID, presetID, nil
	}

	verticals := screening.Verticals()
	items := make([]string, len(verticals))
	for i, v := range verticals {
		items[i] = fmt.Sprintf("%s (%s)", v.ID, v.Name)
	}

	prompt := promptui.Select{
		Label: "Vertical",
		Items: items,
	}
	idx, _, err := prompt.Run()
	if err != nil {
		return "", "", fmt.Errorf("selecting a vertical: %w", err)
	}
	return verticals[idx].ID, presetID, nil
}
