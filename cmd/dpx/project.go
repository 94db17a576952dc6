package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/fyrsmithlabs/dpx/internal/project"
	"github.com/fyrsmithlabs/dpx/internal/registry"
	"github.com/spf13/cobra"
)

func newInitCmd(a *app) *cobra.Command {
	var (
		group      string
		playground bool
		url        string
		db         bool
	)

	cmd := &cobra.Command{
		Use:   "init [name]",
		Short: "Create a new project",
		Long: `Create a project, provision its skeleton and lock it.

Without a name a temporary project (~xxxxxx) is created in the playground
group. Project names are unique across all groups.

Examples:
  # Create acme-sales in the main group
  dpx init acme-sales

  # Create a scratch project and pull a dataset into it
  dpx init -u https://www.kaggle.com/datasets/alice/widgets

  # Create a project with a database folder in a custom group
  dpx init churn -g clients --db`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			if name == "" {
				name = registry.TempName()
				if !cmd.Flags().Changed("group") {
					group = registry.PlaygroundGroup
				}
			}
			if playground {
				group = registry.PlaygroundGroup
			}

			h, err := a.reg.Projects.Create(ctx, group, name)
			if err != nil {
				return err
			}
			if db {
				if err := h.ProvisionDatabaseFolder(); err != nil {
					return err
				}
			}

			cmd.Printf("Created project %s in group %s\n", h.Name(), h.Group())
			cmd.Printf("  %s\n", dimStyle.Render(h.Path()))

			if url != "" {
				return acquire(cmd, h, url)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&group, "group", "g", registry.MainGroup, "group to create the project in")
	cmd.Flags().BoolVarP(&playground, "playground", "p", false, "create the project in the playground group")
	cmd.Flags().StringVarP(&url, "url", "u", "", "dataset URL to download into the project")
	cmd.Flags().BoolVar(&db, "db", false, "also create a data/db folder")
	cmd.MarkFlagsMutuallyExclusive("group", "playground")
	return cmd
}

// acquire downloads url into the project and records it as a source.
func acquire(cmd *cobra.Command, h *project.Handle, url string) error {
	path, err := h.AcquireFromURL(cmd.Context(), url)
	if err != nil {
		return err
	}
	if err := h.AppendSource(cmd.Context(), url); err != nil {
		return err
	}
	cmd.Printf("Downloaded %s into %s\n", url, path)
	return nil
}

func newListCmd(a *app) *cobra.Command {
	var (
		groups       []string
		tempsOnly    bool
		nonTempsOnly bool
	)

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List projects",
		Long: `List projects with their group, lock state and temporary flag.

Temporary projects are listed first within each group.

Examples:
  dpx ls
  dpx ls -g main -g clients
  dpx ls --temps`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var selected []string
			if len(groups) > 0 {
				selected = groups
			}

			paths, err := a.reg.Projects.ListPaths(selected, !nonTempsOnly, !tempsOnly)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				cmd.Println("No projects found")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "GROUP\tPROJECT\tSTATE\tTEMP")
			for _, p := range paths {
				h := project.New(p)
				locked, err := h.IsLocked()
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", h.Group(), h.Name(), lockState(locked), tempMarker(h.IsTemporary()))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringSliceVarP(&groups, "group", "g", nil, "groups to list (default: all)")
	cmd.Flags().BoolVarP(&tempsOnly, "temps", "t", false, "list temporary projects only")
	cmd.Flags().BoolVar(&nonTempsOnly, "non-temps", false, "list non-temporary projects only")
	cmd.MarkFlagsMutuallyExclusive("temps", "non-temps")
	return cmd
}

func newLockCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lock <name>",
		Short: "Lock a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.reg.Projects.Open(args[0])
			if err != nil {
				return err
			}
			changed, err := h.Lock(cmd.Context())
			if err != nil {
				return err
			}
			if !changed {
				cmd.Printf("Project %s is already locked\n", h.Name())
				return nil
			}
			cmd.Printf("Project %s is now %s\n", h.Name(), lockState(true))
			return nil
		},
	}
}

func newUnlockCmd(a *app) *cobra.Command {
	var (
		window time.Duration
		wait   bool
	)

	cmd := &cobra.Command{
		Use:   "unlock <name>",
		Short: "Unlock a project",
		Long: `Unlock a project so it can be removed, moved or renamed.

With --for (or --wait, which uses lock.window from the config) the command
keeps running for that long and locks the project again before exiting.
Interrupting it with Ctrl-C also locks the project again.

Examples:
  dpx unlock acme-sales
  dpx unlock acme-sales --for 30s`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.reg.Projects.Open(args[0])
			if err != nil {
				return err
			}

			if wait && window == 0 {
				window = a.cfg.Lock.Window.Duration()
			}
			if window > 0 {
				cmd.Printf("Project %s unlocked for %s\n", h.Name(), window)
				if err := h.UnlockFor(cmd.Context(), window); err != nil {
					return err
				}
				cmd.Printf("Project %s is %s again\n", h.Name(), lockState(true))
				return nil
			}

			changed, err := h.Unlock(cmd.Context())
			if err != nil {
				return err
			}
			if !changed {
				cmd.Printf("Project %s is already unlocked\n", h.Name())
				return nil
			}
			cmd.Printf("Project %s is now %s\n", h.Name(), lockState(false))
			return nil
		},
	}

	cmd.Flags().DurationVar(&window, "for", 0, "relock after this long")
	cmd.Flags().BoolVarP(&wait, "wait", "w", false, "relock after the configured lock window")
	return cmd
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <name>...",
		Short: "Remove unlocked projects",
		Long: `Remove projects and everything in them. Locked projects are refused.

Examples:
  dpx unlock ~a1b2c3 && dpx rm ~a1b2c3`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var errs []error
			for _, name := range args {
				if err := a.reg.Projects.Remove(cmd.Context(), name); err != nil {
					errs = append(errs, err)
					continue
				}
				cmd.Printf("Removed project %s\n", name)
			}
			return errors.Join(errs...)
		},
	}
}

func newMoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mv <name> <group>",
		Short: "Move an unlocked project to another group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.reg.Projects.Move(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			cmd.Printf("Moved project %s to %s\n", args[0], filepath.Join(a.root, args[1]))
			return nil
		},
	}
}

func newRenameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <name> <new-name>",
		Short: "Rename an unlocked project",
		Long: `Rename a project and its notebook. The new name must be unused in
every group. Renaming a temporary project to a regular name keeps it.

Examples:
  dpx rename ~a1b2c3 churn-model`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.reg.Projects.Rename(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			cmd.Printf("Renamed project %s to %s\n", args[0], args[1])
			return nil
		},
	}
}
