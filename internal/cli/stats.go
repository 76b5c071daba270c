package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/connmat/pkg/stats"
)

// statsCommand creates the stats command.
func (c *CLI) statsCommand() *cobra.Command {
	var (
		labelsPath string
		hubs       int
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "stats [matrix-file]",
		Short: "Summarize a connectivity matrix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lm, err := loadMatrix(args[0], labelsPath)
			if err != nil {
				return err
			}
			s := stats.Summarize(lm.m, lm.labels, hubs)
			if asJSON {
				enc := json.NewEncoder(stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(s)
			}
			printSummary(args[0], s)
			return nil
		},
	}

	cmd.Flags().StringVar(&labelsPath, "labels", "", "index,label sidecar for a CSV matrix")
	cmd.Flags().IntVar(&hubs, "hubs", stats.DefaultHubs, "number of hub regions to list")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")

	return cmd
}

func printSummary(path string, s stats.Summary) {
	fmt.Fprintln(stdout, StyleTitle.Render(path))
	printKeyValue("Size", fmt.Sprintf("%dx%d", s.Size, s.Size))
	printKeyValue("Total", strconv.Itoa(s.Total))
	printKeyValue("Non-zero", strconv.Itoa(s.NonZero))
	printKeyValue("Density", fmt.Sprintf("%.4f", s.Density))
	printKeyValue("Symmetric", strconv.FormatBool(s.Symmetric))
	printKeyValue("Diagonal", strconv.Itoa(s.Trace))
	printKeyValue("Max cell", strconv.Itoa(s.MaxCell))
	printKeyValue("Out-strength", fmt.Sprintf("%.2f ± %.2f", s.OutStrength.Mean, s.OutStrength.StdDev))
	printKeyValue("In-strength", fmt.Sprintf("%.2f ± %.2f", s.InStrength.Mean, s.InStrength.StdDev))
	for i, h := range s.Hubs {
		key := ""
		if i == 0 {
			key = "Hubs"
		}
		printKeyValue(key, fmt.Sprintf("%d %s", h.Label, StyleDim.Render(fmt.Sprintf("(%.3f)", h.Rank))))
	}
}
