package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var pickMakers *[]string

func init() {
	pickMakers = pickCmd.Flags().StringArray(
		"maker", nil,
		"Manufacturer code to filter by (repeatable), as printed by `makers`.",
	)
	rootCmd.AddCommand(pickCmd)
}

var pickCmd = &cobra.Command{
	Use:   "pick <keyword> [--maker <code> ...]",
	Short: "Composes the 3+4+3 pick: cheapest, most popular and promotional items, deduplicated.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		service := newService()

		picked, err := service.UniqueProducts(cmd.Context(), args[0], *pickMakers)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		if len(picked) == 0 {
			fmt.Println("no results")
			return
		}

		renderProducts(picked)
		maybeWriteCsv(picked)
	},
}
