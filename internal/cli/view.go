package cli

import (
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// viewCommand creates the interactive matrix browser.
func (c *CLI) viewCommand() *cobra.Command {
	var labelsPath string

	cmd := &cobra.Command{
		Use:   "view [matrix-file]",
		Short: "Browse a connectivity matrix in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lm, err := loadMatrix(args[0], labelsPath)
			if err != nil {
				return err
			}
			model := NewMatrixModel(filepath.Base(args[0]), lm.m, lm.labels)
			_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().StringVar(&labelsPath, "labels", "", "index,label sidecar for a CSV matrix")

	return cmd
}
