package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// PingCmd creates the ping command. It needs no session.
func PingCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the catalog API answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.run(cmd.Context(), func(ctx context.Context) error {
				if err := env.App.Ping(ctx); err != nil {
					return err
				}
				fmt.Fprintln(env.Stdout, "ok")
				return nil
			})
		},
	}
}
