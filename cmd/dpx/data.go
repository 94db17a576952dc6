package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newDataListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dls <name>",
		Short: "List a project's data files by stage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.reg.Projects.Open(args[0])
			if err != nil {
				return err
			}
			listing, err := h.ListDataFiles()
			if err != nil {
				return err
			}
			if listing.Empty() {
				cmd.Printf("No data files in %s\n", h.Name())
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, strings.ToUpper(strings.Join(listing.Stages, "\t")))
			for _, row := range listing.Rows() {
				fmt.Fprintln(w, strings.Join(row, "\t"))
			}
			return w.Flush()
		},
	}
}

func newDownloadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dl <name> <url>",
		Short: "Download a dataset into a project",
		Long: `Download a dataset into the project's data/raw folder and record the
URL in references/sources.txt.

Dataset platform pages are fetched through the platform API (credentials
from the config, KAGGLE_USERNAME/KAGGLE_KEY or ~/.kaggle/kaggle.json);
links to .csv/.tsv files or download endpoints are fetched directly.

Examples:
  dpx dl acme-sales https://www.kaggle.com/datasets/alice/widgets
  dpx dl acme-sales https://example.com/exports/sales.csv`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.reg.Projects.Open(args[0])
			if err != nil {
				return err
			}
			return acquire(cmd, h, args[1])
		},
	}
}

func newCopyCmd(a *app) *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "cp <name>",
		Short: "Copy raw data files into the interim stage",
		Long: `Copy every file of data/raw into data/interim as <stem>-copy<ext>.
Existing copies are kept unless --force is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.reg.Projects.Open(args[0])
			if err != nil {
				return err
			}
			created, err := h.CopyRawToInterim(cmd.Context(), overwrite)
			if err != nil {
				return err
			}
			for _, p := range created {
				cmd.Printf("  %s\n", p)
			}
			cmd.Printf("Copied %d file(s) into %s\n", len(created), h.InterimPath())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&overwrite, "force", "f", false, "overwrite existing interim copies")
	return cmd
}

func newSourceCmd(a *app) *cobra.Command {
	sourceCmd := &cobra.Command{
		Use:   "source",
		Short: "Manage a project's recorded sources",
	}

	sourceCmd.AddCommand(&cobra.Command{
		Use:   "add <name> <text>",
		Short: "Record a source without downloading it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.reg.Projects.Open(args[0])
			if err != nil {
				return err
			}
			if err := h.AppendSource(cmd.Context(), args[1]); err != nil {
				return err
			}
			cmd.Printf("Recorded source for %s\n", h.Name())
			return nil
		},
	})
	return sourceCmd
}
