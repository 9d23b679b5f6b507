package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/leadgen-cli/internal/leads"
)

var sendCmd = &cobra.Command{
	Use:   "send <id>",
	Short: "Send the pitch to a pending lead and mark it contacted",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := initEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.Service.SendLead(cmd.Context(), args[0]); err != nil {
			if eris.Is(err, leads.ErrAlreadyContacted) {
				return eris.Wrap(err, "use force-contact to resend deliberately")
			}
			return err
		}
		fmt.Printf("pitch sent, lead %s marked contacted\n", args[0])
		return nil
	},
}

var forceContactCmd = &cobra.Command{
	Use:   "force-contact <id>",
	Short: "Resend the pitch regardless of status (status is left unchanged)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := initEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.Service.ForceContact(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("pitch resent to lead %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(forceContactCmd)
}
