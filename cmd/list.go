package main

import (
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/joaoccaldas/coinsnap-collector/internal/model"
	"github.com/joaoccaldas/coinsnap-collector/internal/view"
)

var (
	listQuery string
	listSort  string
	listOrder string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the collection, filtered and sorted",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		col, closeStore, err := initCollection(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		derived := view.Derive(col.All(), view.Query{
			Text:  listQuery,
			By:    model.ParseSortKey(listSort),
			Order: model.ParseSortOrder(listOrder),
		})

		if len(derived.Coins) == 0 {
			cmd.Println("no coins")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		defer w.Flush()

		header := []string{"ID", "NAME", "COUNTRY", "YEAR", "VALUE", ""}
		w.Write([]byte(strings.Join(header, "\t") + "\n"))
		for _, c := range derived.Coins {
			w.Write([]byte(strings.Join(coinRow(c), "\t") + "\n"))
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "filter by name or country substring")
	listCmd.Flags().StringVar(&listSort, "sort", "date", "sort key: date, value, year, name")
	listCmd.Flags().StringVar(&listOrder, "order", "desc", "sort order: asc or desc")
	rootCmd.AddCommand(listCmd)
}
