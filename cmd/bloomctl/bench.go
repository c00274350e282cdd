package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newBenchCommand(a *app) *cobra.Command {
	var (
		records int
		probes  int
		prefix  string
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Insert generated records and measure false negatives and positives",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := a.newFilter()
			if err != nil {
				return err
			}
			key := func(i int) string { return fmt.Sprintf("%s%d", prefix, i) }

			start := time.Now()
			for i := 0; i < records; i++ {
				f.AddString(key(i))
			}
			elapsed := time.Since(start)

			falseNegatives := 0
			for i := 0; i < records; i++ {
				if !f.MayContainString(key(i)) {
					falseNegatives++
				}
			}
			falsePositives := 0
			for i := records; i < records+probes; i++ {
				if f.MayContainString(key(i)) {
					falsePositives++
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "inserted %d records in %s\n", records, elapsed)
			fmt.Fprintf(out, "segments: %d\n", f.SegmentCount())
			fmt.Fprintf(out, "false negatives: %d\n", falseNegatives)
			rate := 0.0
			if probes > 0 {
				rate = float64(falsePositives) / float64(probes)
			}
			fmt.Fprintf(out, "false positive rate over %d non-inserted records: %.2f%% (estimated %.2f%%)\n",
				probes, rate*100, f.EstimatedFalsePositiveRate()*100)
			return nil
		},
	}
	cmd.Flags().IntVar(&records, "records", 1000, "records to insert")
	cmd.Flags().IntVar(&probes, "probes", 1000, "non-inserted records to query")
	cmd.Flags().StringVar(&prefix, "prefix", "record-", "record key prefix")
	return cmd
}
