package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ordercard/internal/activation"
	"ordercard/internal/config"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether this copy is activated",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.identityStore()
			if err != nil {
				return err
			}
			identity, err := activation.NewGate(nil, store, a.logger).Restore(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Registry: %s\n", registryLabel(a.cfg.Registry))
			if identity == nil {
				fmt.Fprintln(out, "State:    not activated")
				return nil
			}
			fmt.Fprintln(out, "State:    activated")
			fmt.Fprintf(out, "Name:     %s\n", identity.Name)
			fmt.Fprintf(out, "Company:  %s\n", identity.Company)
			fmt.Fprintf(out, "Mobile:   %s\n", identity.Mobile)
			return nil
		},
	}
}

func registryLabel(cfg config.RegistryConfig) string {
	switch {
	case cfg.Mode == config.RegistryModeMySQL:
		return "mysql"
	case cfg.URL == "":
		return "not configured"
	default:
		return cfg.URL
	}
}

func newDeactivateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate",
		Short: "Forget the stored activation on this machine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.identityStore()
			if err != nil {
				return err
			}
			if err := activation.NewGate(nil, store, a.logger).Deactivate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deactivated.")
			return nil
		},
	}
}
