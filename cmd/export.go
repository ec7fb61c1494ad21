package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx/v2"
	"gopkg.in/yaml.v3"

	"github.com/joaoccaldas/coinsnap-collector/internal/model"
	"github.com/joaoccaldas/coinsnap-collector/internal/view"
)

var (
	exportFormat string
	exportOut    string
	exportQuery  string
	exportSort   string
	exportOrder  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the collection to json, yaml, or xlsx",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		col, closeStore, err := initCollection(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		derived := view.Derive(col.All(), view.Query{
			Text:  exportQuery,
			By:    model.ParseSortKey(exportSort),
			Order: model.ParseSortOrder(exportOrder),
		})

		switch exportFormat {
		case "json":
			err = exportJSON(derived.Coins, exportOut)
		case "yaml":
			err = exportYAML(derived.Coins, exportOut)
		case "xlsx":
			err = exportXLSX(derived.Coins, exportOut)
		default:
			return eris.Errorf("unknown export format: %s", exportFormat)
		}
		if err != nil {
			return err
		}

		cmd.Printf("exported %d coins to %s\n", len(derived.Coins), exportOut)
		return nil
	},
}

func exportJSON(coins []model.Coin, path string) error {
	data, err := json.MarshalIndent(coins, "", "  ")
	if err != nil {
		return eris.Wrap(err, "export: marshal json")
	}
	return eris.Wrap(os.WriteFile(path, data, 0o644), "export: write json")
}

func exportYAML(coins []model.Coin, path string) error {
	data, err := yaml.Marshal(coins)
	if err != nil {
		return eris.Wrap(err, "export: marshal yaml")
	}
	return eris.Wrap(os.WriteFile(path, data, 0o644), "export: write yaml")
}

var xlsxHeader = []string{
	"ID", "Name", "Country", "Denomination", "Year", "Value (USD)",
	"Composition", "Condition", "Rare", "Rarity Details", "Date Added",
}

func exportXLSX(coins []model.Coin, path string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Collection")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range xlsxHeader {
		header.AddCell().Value = h
	}

	for _, c := range coins {
		row := sheet.AddRow()
		row.AddCell().Value = c.ID
		row.AddCell().Value = c.Name
		row.AddCell().Value = c.Country
		row.AddCell().Value = c.Denomination
		row.AddCell().Value = formatYearPtr(c.Year)
		row.AddCell().SetFloat(c.Value)
		row.AddCell().Value = c.Composition
		row.AddCell().Value = c.Condition
		row.AddCell().SetBool(c.IsRare)
		row.AddCell().Value = c.RarityDetails
		row.AddCell().Value = c.DateAdded.Format("2006-01-02")
	}

	return eris.Wrapf(file.Save(path), "export: save %s", path)
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "export format: json, yaml, or xlsx")
	exportCmd.Flags().StringVar(&exportOut, "out", "collection-export.json", "output file path")
	exportCmd.Flags().StringVarP(&exportQuery, "query", "q", "", "filter by name or country substring")
	exportCmd.Flags().StringVar(&exportSort, "sort", "date", "sort key: date, value, year, name")
	exportCmd.Flags().StringVar(&exportOrder, "order", "desc", "sort order: asc or desc")
	rootCmd.AddCommand(exportCmd)
}
