package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var (
	findCategory string
	findLocation string
)

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Search for new leads in a category and location",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		run, err := e.Pipeline.Run(ctx, findCategory, findLocation)
		if err != nil {
			return eris.Wrap(err, "pipeline run")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	},
}

func init() {
	findCmd.Flags().StringVar(&findCategory, "category", "", "business category, e.g. gym (required)")
	findCmd.Flags().StringVar(&findLocation, "location", "", "location, e.g. Indore (required)")
	_ = findCmd.MarkFlagRequired("category")
	_ = findCmd.MarkFlagRequired("location")
	rootCmd.AddCommand(findCmd)
}
