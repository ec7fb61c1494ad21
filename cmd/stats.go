package main

import (
	"github.com/spf13/cobra"

	"github.com/joaoccaldas/coinsnap-collector/internal/view"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show dashboard aggregates for the collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		col, closeStore, err := initCollection(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		s := view.Aggregate(col.All())

		cmd.Printf("coins:        %d\n", s.Count)
		cmd.Printf("total value:  %s\n", formatValue(s.TotalValue))
		cmd.Printf("rare coins:   %d\n", s.RareCount)
		if s.Highest != nil {
			cmd.Printf("most valuable: %s (%s)\n", s.Highest.Name, formatValue(s.Highest.Value))
		}

		if len(s.ByComposition) > 0 {
			cmd.Println("\nby composition:")
			for _, b := range s.ByComposition {
				cmd.Printf("  %-16s %d\n", b.Key, b.Count)
			}
		}
		if len(s.ByCountry) > 0 {
			cmd.Println("\ntop countries:")
			for _, b := range s.ByCountry {
				cmd.Printf("  %-16s %d\n", b.Key, b.Count)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
