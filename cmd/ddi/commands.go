package main

import (
	"encoding/csv"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Skufu/ddimatrix/internal/dataset"
	"github.com/Skufu/ddimatrix/internal/drugview"
	"github.com/Skufu/ddimatrix/internal/severity"
)

func newFilesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "files [dir]",
		Short: "List pairs files in a data directory, default selection first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "./out"
			if len(args) == 1 {
				dir = args[0]
			}
			files, err := dataset.Discover(dir)
			if err != nil {
				return err
			}
			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), files)
			}
			if len(files) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No *_matrix.xlsx or *_pairs.csv in %s\n", dir)
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tKIND\tSIZE\tMODIFIED")
			for _, f := range files {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", f.Name, f.Kind, f.Size, f.ModTime.Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		},
	}
}

func newMatrixCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "matrix <file>",
		Short: "Print the symmetric CI/MAJ/MOD matrix as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := opts.load(args[0])
			if err != nil {
				return err
			}
			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), snap.Matrix)
			}

			w := csv.NewWriter(cmd.OutOrStdout())
			if err := w.Write(append([]string{""}, snap.Drugs...)); err != nil {
				return err
			}
			for i, row := range snap.Matrix.Cells() {
				if err := w.Write(append([]string{snap.Drugs[i]}, row...)); err != nil {
					return err
				}
			}
			w.Flush()
			return w.Error()
		},
	}
}

func newIndexCmd(opts *options) *cobra.Command {
	var top int
	cmd := &cobra.Command{
		Use:   "index <file>",
		Short: "Rank drugs by their CI/MAJ/MOD interaction counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := opts.load(args[0])
			if err != nil {
				return err
			}
			entries := snap.Index
			if top > 0 && top < len(entries) {
				entries = entries[:top]
			}
			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), entries)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DRUG\tCI\tMAJ\tMOD\tTOTAL")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\n", e.Drug,
					e.Count(severity.Contraindicated), e.Count(severity.Major), e.Count(severity.Moderate), e.Total)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&top, "top", 0, "only print the first n drugs")
	return cmd
}

func newDrugCmd(opts *options) *cobra.Command {
	var tracked bool
	cmd := &cobra.Command{
		Use:   "drug <file> <name>",
		Short: "List every interaction of one drug, most severe first",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := opts.load(args[0])
			if err != nil {
				return err
			}
			var vopts []drugview.Option
			if tracked {
				vopts = append(vopts, drugview.TrackedOnly())
			}
			rows, err := snap.View(args[1], vopts...)
			if err != nil {
				return fmt.Errorf("%s: %w", args[1], err)
			}
			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), rows)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PARTNER\tSEVERITY\tDOCUMENTATION\tSUMMARY")
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Partner, r.Severity, r.Documentation, r.Summary)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&tracked, "tracked", false, "only show CI/MAJ/MOD interactions")
	return cmd
}
