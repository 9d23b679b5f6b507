package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsRuns int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the lead book and recent pipeline runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		s := e.Service.Stats()
		fmt.Printf("Total leads:     %d\n", s.Total)
		fmt.Printf("Pending:         %d\n", s.Pending)
		fmt.Printf("Contacted:       %d\n", s.Contacted)
		fmt.Printf("Interested:      %d\n", s.Interested)
		fmt.Printf("Rejected:        %d\n", s.Rejected)
		fmt.Printf("Conversion rate: %.1f%%\n", s.ConversionRate*100)

		runs, err := e.Store.ListRuns(ctx, statsRuns)
		if err != nil {
			return err
		}
		if len(runs) > 0 {
			fmt.Printf("\nRecent runs:\n")
			for _, r := range runs {
				fmt.Printf("  %s  %s/%s  results=%d created=%d dup=%d\n",
					r.StartedAt.Format("2006-01-02 15:04"),
					r.Category, r.Location, r.Results, r.Created, r.SkippedDuplicate)
			}
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().IntVar(&statsRuns, "runs", 5, "number of recent runs to show")
	rootCmd.AddCommand(statsCmd)
}
