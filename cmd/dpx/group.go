package main

import (
	"github.com/spf13/cobra"
)

func newGroupCmd(a *app) *cobra.Command {
	groupCmd := &cobra.Command{
		Use:   "group",
		Short: "Manage project groups",
	}

	groupCmd.AddCommand(
		&cobra.Command{
			Use:   "ls",
			Short: "List groups",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				groups, err := a.reg.Groups.List()
				if err != nil {
					return err
				}
				for _, g := range groups {
					cmd.Println(g)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "create <name>",
			Short: "Create a group",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.reg.Groups.Create(cmd.Context(), args[0]); err != nil {
					return err
				}
				cmd.Printf("Created group %s\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "rm <name>",
			Short: "Remove an empty group",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.reg.Groups.Remove(cmd.Context(), args[0]); err != nil {
					return err
				}
				cmd.Printf("Removed group %s\n", args[0])
				return nil
			},
		},
	)
	return groupCmd
}
