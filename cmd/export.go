package main

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx/v2"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the lead book to an xlsx workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := initEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		f := xlsx.NewFile()
		sheet, err := f.AddSheet("Leads")
		if err != nil {
			return eris.Wrap(err, "export: add sheet")
		}

		header := sheet.AddRow()
		for _, h := range []string{"ID", "Name", "Type", "Location", "Phones", "Status", "Website", "App", "Source", "Added", "Pitch"} {
			header.AddCell().SetString(h)
		}

		for _, l := range e.Registry.Snapshot() {
			row := sheet.AddRow()
			row.AddCell().SetString(l.ID)
			row.AddCell().SetString(l.Name)
			row.AddCell().SetString(l.Type)
			row.AddCell().SetString(l.Location)
			row.AddCell().SetString(strings.Join(l.Phones, ", "))
			row.AddCell().SetString(string(l.Status))
			row.AddCell().SetString(string(l.HasWebsite))
			row.AddCell().SetString(string(l.HasApp))
			row.AddCell().SetString(l.Source)
			row.AddCell().SetString(l.AddedAt.Format("2006-01-02 15:04"))
			row.AddCell().SetString(l.Pitch)
		}

		if err := f.Save(exportOut); err != nil {
			return eris.Wrapf(err, "export: save %s", exportOut)
		}
		fmt.Printf("exported %d leads to %s\n", len(e.Registry.Snapshot()), exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "leads.xlsx", "output file path")
	rootCmd.AddCommand(exportCmd)
}
