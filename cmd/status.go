package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var setStatusCmd = &cobra.Command{
	Use:   "set-status <id> <status>",
	Short: "Set a lead's status (pending|contacted|interested|rejected)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := initEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.Service.UpdateStatus(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("lead %s is now %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setStatusCmd)
}
