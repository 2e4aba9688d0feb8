package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Skufu/ddimatrix/internal/dataset"
	"github.com/Skufu/ddimatrix/internal/edges"
	"github.com/Skufu/ddimatrix/internal/matrix"
)

type options struct {
	sheet    string
	conflict string
	asJSON   bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "ddi",
		Short: "Build drug-drug interaction matrices from a pairs table",
		Long: `ddi reads a pairs table (a CSV export or a workbook with a "pairs" sheet)
and prints the symmetric severity matrix, the per-drug index, or the
interactions of a single drug.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.sheet, "sheet", edges.DefaultSheet, "worksheet holding the pairs table")
	root.PersistentFlags().StringVar(&opts.conflict, "conflict", matrix.LastWriteWins.String(), "duplicate pair policy: last-write-wins or most-severe-wins")
	root.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "print JSON instead of tables")

	root.AddCommand(
		newFilesCmd(opts),
		newMatrixCmd(opts),
		newIndexCmd(opts),
		newDrugCmd(opts),
	)
	return root
}

// load reads path and builds its snapshot.
func (o *options) load(path string) (*dataset.Snapshot, error) {
	policy, err := matrix.ParseConflictPolicy(o.conflict)
	if err != nil {
		return nil, err
	}
	list, err := edges.LoadFile(path, o.sheet)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return dataset.NewSnapshot(path, "file", list, policy), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
