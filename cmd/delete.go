package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a coin from the collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		col, closeStore, err := initCollection(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		coin, err := findCoin(col, args[0])
		if err != nil {
			return err
		}

		if !col.Remove(ctx, coin.ID) {
			return eris.Errorf("no coin with id %s", coin.ID)
		}

		cmd.Printf("deleted %s (%s)\n", coin.Name, coin.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
