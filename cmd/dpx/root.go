package main

import (
	"github.com/fyrsmithlabs/dpx/internal/registry"
	"github.com/spf13/cobra"
)

func newRootInitCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "root",
		Short: "Manage the registry root",
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the registry root",
		Long: `Create the registry root with the reserved groups "main" and
"playground", a .gitignore excluding project data and a git repository.
Running it again leaves existing content alone.

Examples:
  dpx root init
  dpx root init --root ~/work/projects`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := registry.InitRoot(cmd.Context(), a.root, a.logger); err != nil {
				return err
			}
			cmd.Printf("Registry root ready at %s\n", a.root)
			return nil
		},
	})
	return rootCmd
}
