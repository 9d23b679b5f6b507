package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/leadgen-cli/internal/model"
)

var leadsStatus string

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "List leads, optionally filtered by status",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := initEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		list, err := e.Service.ViewLeads(leadsStatus)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Println("no leads found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tTYPE\tLOCATION\tPHONE\tSTATUS")
		for _, l := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				l.ID, l.Name, l.Type, l.Location, l.Phones[0], l.Status)
		}
		return w.Flush()
	},
}

var infoCmd = &cobra.Command{
	Use:   "info <id>",
	Short: "Show full details for one lead",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := initEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		lead, err := e.Service.LeadInfo(args[0])
		if err != nil {
			return err
		}
		printLead(lead)
		return nil
	},
}

func printLead(l model.Lead) {
	fmt.Printf("ID:        %s\n", l.ID)
	fmt.Printf("Name:      %s\n", l.Name)
	fmt.Printf("Type:      %s\n", l.Type)
	fmt.Printf("Location:  %s\n", l.Location)
	fmt.Printf("Phones:    %s\n", strings.Join(l.Phones, ", "))
	fmt.Printf("Source:    %s\n", l.Source)
	fmt.Printf("Website:   %s\n", l.HasWebsite)
	fmt.Printf("App:       %s\n", l.HasApp)
	fmt.Printf("Reason:    %s\n", l.PresenceReason)
	fmt.Printf("Status:    %s\n", l.Status)
	fmt.Printf("Added:     %s\n", l.AddedAt.Format("2006-01-02 15:04"))
	if l.ContactedAt != nil {
		fmt.Printf("Contacted: %s\n", l.ContactedAt.Format("2006-01-02 15:04"))
	}
	fmt.Printf("\nPitch:\n%s\n", l.Pitch)
}

func init() {
	leadsCmd.Flags().StringVar(&leadsStatus, "status", "", "filter by status (pending|contacted|interested|rejected)")
	rootCmd.AddCommand(leadsCmd)
	rootCmd.AddCommand(infoCmd)
}
