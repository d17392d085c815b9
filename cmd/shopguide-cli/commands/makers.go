package commands

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(makersCmd)
}

var makersCmd = &cobra.Command{
	Use:   "makers <keyword>",
	Short: "Lists the manufacturer facets found for a keyword.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		service := newService()

		makers, err := service.SearchOptions(cmd.Context(), args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}

		t := newTable()
		t.AppendHeader(table.Row{"Name", "Code"})
		for _, m := range makers {
			t.AppendRow(table.Row{m.Name, m.Code})
		}
		t.Render()
	},
}
