package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/naivewong/dynbloom/internal/ingest"
)

func newLoadCommand(a *app) *cobra.Command {
	var queries []string
	cmd := &cobra.Command{
		Use:   "load <file.csv>",
		Short: "Add the values of CSV columns to a filter and query it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.newFilter()
			if err != nil {
				return err
			}

			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			n, err := ingest.Load(cmd.Context(), file, a.cfg.Ingest.Columns, f)
			if err != nil {
				return fmt.Errorf("load %s: %w", args[0], err)
			}
			a.log.Info("csv loaded",
				zap.String("file", args[0]),
				zap.Int("values", n),
				zap.Int("segments", f.SegmentCount()),
			)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "loaded %d values into %d segment(s), estimated false positive rate %.4f\n",
				n, f.SegmentCount(), f.EstimatedFalsePositiveRate())
			for _, q := range queries {
				if f.MayContainString(q) {
					fmt.Fprintf(out, "%s: might exist (possible false positive)\n", q)
				} else {
					fmt.Fprintf(out, "%s: definitely absent\n", q)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&queries, "query", "q", nil, "values to look up after loading")
	cmd.Flags().StringSlice("columns", ingest.DefaultColumns, "CSV columns to read")
	return cmd
}
