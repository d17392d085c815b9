package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var searchOrder *string
var searchMakers *[]string
var searchLimit *int

func init() {
	searchOrder = searchCmd.Flags().String(
		"order", "reco_goods",
		"Sort order: price_0/낮은가격, reco_goods/인기상품 or event_goods/행사상품.",
	)
	searchMakers = searchCmd.Flags().StringArray(
		"maker", nil,
		"Manufacturer code to filter by (repeatable), as printed by `makers`.",
	)
	searchLimit = searchCmd.Flags().Int("limit", 20, "Maximum number of records.")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <keyword> [--order <order>] [--maker <code> ...] [--limit <n>]",
	Short: "Searches one ordering and prints the matching records.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		service := newService()

		found, err := service.SearchProducts(
			cmd.Context(), args[0], *searchOrder, *searchMakers, *searchLimit,
		)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}

		renderProducts(found)
		maybeWriteCsv(found)
	},
}
