package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"ordercard/internal/order"
	"ordercard/internal/tui"
)

func newEditCmd(a *app) *cobra.Command {
	var draft string

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Open the interactive order editor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			identity, err := a.requireActivation(ctx)
			if err != nil {
				return err
			}

			ed := order.NewEditor(nil, a.logger)
			if draft != "" {
				if err := ed.LoadDraft(draft); err != nil {
					return err
				}
			}

			exporter, deliverer := a.exportPipeline()
			p := tea.NewProgram(
				tui.NewEditorModel(ctx, ed, exporter, deliverer, identity.Company, a.logger),
				tea.WithContext(ctx),
				tea.WithAltScreen(),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("running editor: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&draft, "draft", "", "YAML draft to start from")
	return cmd
}
