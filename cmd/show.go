package main

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/joaoccaldas/coinsnap-collector/internal/collection"
	"github.com/joaoccaldas/coinsnap-collector/internal/model"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one coin in full detail",
	Long:  "Looks a coin up by its id. A unique id prefix is accepted.",
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

		cmd.Printf("id:            %s\n", coin.ID)
		cmd.Printf("name:          %s\n", coin.Name)
		cmd.Printf("country:       %s\n", coin.Country)
		cmd.Printf("year:          %s\n", formatYearPtr(coin.Year))
		cmd.Printf("denomination:  %s\n", coin.Denomination)
		cmd.Printf("composition:   %s\n", coin.Composition)
		cmd.Printf("condition:     %s\n", coin.Condition)
		cmd.Printf("value:         %s\n", formatValue(coin.Value))
		cmd.Printf("rare:          %v\n", coin.IsRare)
		if coin.IsRare && coin.RarityDetails != "" {
			cmd.Printf("rarity:        %s\n", coin.RarityDetails)
		}
		if coin.Description != "" {
			cmd.Printf("description:   %s\n", coin.Description)
		}
		cmd.Printf("added:         %s\n", coin.DateAdded.Format("2006-01-02 15:04"))
		cmd.Printf("front image:   %s\n", coin.FrontImageURL)
		cmd.Printf("back image:    %s\n", coin.BackImageURL)
		for _, src := range coin.Sources {
			cmd.Printf("source:        %s\n", src)
		}
		return nil
	},
}

// findCoin resolves an id or unique id prefix to a record.
func findCoin(col *collection.Collection, id string) (model.Coin, error) {
	if coin, ok := col.Get(id); ok {
		return coin, nil
	}

	var matches []model.Coin
	for _, c := range col.All() {
		if strings.HasPrefix(c.ID, id) {
			matches = append(matches, c)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return model.Coin{}, eris.Errorf("no coin with id %s", id)
	default:
		return model.Coin{}, eris.Errorf("id prefix %s is ambiguous (%d matches)", id, len(matches))
	}
}

func init() {
	rootCmd.AddCommand(showCmd)
}
