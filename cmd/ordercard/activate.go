package main

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"ordercard/internal/activation"
	"ordercard/internal/domain"
	"ordercard/internal/tui"
)

func newActivateCmd(a *app) *cobra.Command {
	var identity domain.UserIdentity
	var code string

	cmd := &cobra.Command{
		Use:   "activate",
		Short: "Activate this copy with a one-time code",
		Long: `Activate this copy with a one-time activation code.

With --code the activation runs non-interactively from the flags; without it
an interactive form is shown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			g, err := a.gate(ctx)
			if err != nil {
				return err
			}

			existing, err := g.Restore(ctx)
			if err != nil {
				return err
			}
			if existing != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Already activated for %s.\n", existing.Company)
				return nil
			}

			if code == "" {
				return runActivationForm(ctx, cmd, g)
			}

			activated, err := g.Submit(ctx, identity, activation.FormatCode(code))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Activated for %s.\n", activated.Company)
			return nil
		},
	}

	cmd.Flags().StringVar(&identity.Name, "name", "", "your name")
	cmd.Flags().StringVar(&identity.Company, "company", "", "company name shown on cards")
	cmd.Flags().StringVar(&identity.Mobile, "mobile", "", "mobile number")
	cmd.Flags().StringVar(&code, "code", "", "activation code, e.g. FVC-XXXX-XXXX-XXXX")
	return cmd
}

func runActivationForm(ctx context.Context, cmd *cobra.Command, g *activation.Gate) error {
	p := tea.NewProgram(
		tui.NewActivationModel(ctx, g),
		tea.WithContext(ctx),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("running activation form: %w", err)
	}

	m := final.(tui.ActivationModel)
	if m.Identity() == nil {
		return errors.New("activation cancelled")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Activated for %s.\n", m.Identity().Company)
	return nil
}
