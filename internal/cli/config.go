package cli

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/waabox/catalogdeck/internal/config"
)

// ConfigCmd creates the config command.
func ConfigCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the configuration file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration, environment included",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFrom(env.ConfigPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(env.Stdout, "# %s\n", env.ConfigPath)
			return toml.NewEncoder(env.Stdout).Encode(cfg)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:     "set KEY VALUE",
		Short:   "Write one key to the configuration file",
		Example: `  catalogdeck config set endpoint https://catalog.example.com/graphql`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.ReadFile(env.ConfigPath)
			if err != nil {
				return err
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			return config.Save(env.ConfigPath, cfg)
		},
	})
	return cmd
}
