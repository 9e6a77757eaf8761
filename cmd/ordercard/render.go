package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ordercard/internal/card"
	"ordercard/internal/order"
)

func newRenderCmd(a *app) *cobra.Command {
	var draft, mode string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the card for a draft order as text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			viewMode, err := card.ParseViewMode(mode)
			if err != nil {
				return err
			}
			identity, err := a.requireActivation(cmd.Context())
			if err != nil {
				return err
			}

			ed := order.NewEditor(nil, a.logger)
			if err := ed.LoadDraft(draft); err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), card.Text(card.Render(ed.Order(), viewMode, identity.Company)))
			return nil
		},
	}

	cmd.Flags().StringVar(&draft, "draft", "", "YAML draft order to render")
	cmd.Flags().StringVar(&mode, "mode", string(card.ModeFull), "view mode: full, party or workshop")
	_ = cmd.MarkFlagRequired("draft")
	return cmd
}
