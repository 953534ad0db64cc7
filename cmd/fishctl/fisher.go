package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newFisherCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fisher",
		Short: "Manage fishers",
	}
	cmd.AddCommand(newFisherAdminCmd())
	return cmd
}

func newFisherAdminCmd() *cobra.Command {
	var revoke bool

	cmd := &cobra.Command{
		Use:   "admin <id>",
		Short: "Grant or revoke admin for a fisher",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid fisher id %q", args[0])
			}

			ctx := cmd.Context()
			store, pool, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := store.SetAdmin(ctx, id, !revoke); err != nil {
				return fmt.Errorf("update fisher %s: %w", id, err)
			}
			if revoke {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Revoked admin for %s\n", id)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Granted admin to %s\n", id)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&revoke, "revoke", false, "Revoke instead of grant")
	return cmd
}
