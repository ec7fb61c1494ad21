package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/joaoccaldas/coinsnap-collector/internal/app"
	"github.com/joaoccaldas/coinsnap-collector/pkg/vision"
)

var (
	addFront  string
	addBack   string
	addSets   []string
	addDryRun bool
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Identify a coin from two photos and add it to the collection",
	Long:  "Sends the front and back photos to the vision identifier, shows the resulting draft, applies any --set overrides, and saves the coin. A failed identification leaves the collection untouched.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		col, closeStore, err := initCollection(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		identifier, err := initIdentifier()
		if err != nil {
			return err
		}

		frontImg, frontPath, err := readImage(addFront)
		if err != nil {
			return err
		}
		backImg, backPath, err := readImage(addBack)
		if err != nil {
			return err
		}

		state := app.NewState()
		state = app.Reduce(ctx, state, app.StartAdd{}, col)
		state = app.Reduce(ctx, state, app.Captured{FrontURL: frontPath, BackURL: backPath}, col)

		dispatcher := app.NewDispatcher(identifier)
		dispatcher.Submit(ctx, frontImg, backImg)
		outcome := <-dispatcher.Outcomes()

		if outcome.Err != nil {
			state = app.Reduce(ctx, state, app.IdentifyFailed{Err: outcome.Err}, col)
			return eris.New(state.Err)
		}
		state = app.Reduce(ctx, state, app.Identified{Result: *outcome.Result}, col)

		for _, kv := range addSets {
			name, value, found := strings.Cut(kv, "=")
			if !found {
				return eris.Errorf("invalid --set %q, expected field=value", kv)
			}
			state = app.Reduce(ctx, state, app.EditPendingField{Name: name, Value: value}, col)
		}

		printPending(cmd, state.Pending)

		if addDryRun {
			app.Reduce(ctx, state, app.Cancel{}, col)
			cmd.Println("dry run: nothing saved")
			return nil
		}

		state = app.Reduce(ctx, state, app.Save{}, col)
		if state.Err != "" {
			return eris.New(state.Err)
		}

		saved := col.All()[0]
		cmd.Printf("saved %s (%s)\n", saved.Name, saved.ID)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addFront, "front", "", "path to the front-face photo (required)")
	addCmd.Flags().StringVar(&addBack, "back", "", "path to the back-face photo (defaults to the front photo)")
	addCmd.Flags().StringArrayVar(&addSets, "set", nil, "override a draft field before saving, e.g. --set condition=VF")
	addCmd.Flags().BoolVar(&addDryRun, "dry-run", false, "identify and show the draft without saving")
	addCmd.MarkFlagRequired("front")
	rootCmd.AddCommand(addCmd)
}

// initIdentifier builds the Anthropic-backed vision client from config.
func initIdentifier() (vision.Identifier, error) {
	if cfg.Anthropic.Key == "" {
		return nil, eris.New("anthropic.key is not configured (set COINSNAP_ANTHROPIC_KEY)")
	}
	perMin := cfg.Anthropic.RequestsPerMin
	if perMin <= 0 {
		perMin = 30
	}
	return vision.NewClient(cfg.Anthropic.Key,
		vision.WithModel(cfg.Anthropic.Model),
		vision.WithMaxTokens(cfg.Anthropic.MaxTokens),
		vision.WithLimiter(rate.NewLimiter(rate.Limit(perMin/60), 1)),
	), nil
}

// readImage loads a photo from disk and returns it together with the
// absolute path stored as the coin's image reference.
func readImage(path string) (vision.Image, string, error) {
	if path == "" {
		return vision.Image{}, "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return vision.Image{}, "", eris.Wrapf(err, "read image %s", path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return vision.Image{MediaType: imageMediaType(path), Data: data}, abs, nil
}

func imageMediaType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

func printPending(cmd *cobra.Command, p *app.Pending) {
	if p == nil {
		return
	}
	d := p.Draft
	cmd.Printf("name:          %s\n", d.Name)
	cmd.Printf("country:       %s\n", d.Country)
	cmd.Printf("year:          %s\n", formatYearPtr(d.Year))
	cmd.Printf("denomination:  %s\n", d.Denomination)
	cmd.Printf("composition:   %s\n", d.Composition)
	cmd.Printf("condition:     %s\n", d.Condition)
	cmd.Printf("value:         %s\n", formatValue(d.EstimatedValue))
	cmd.Printf("rare:          %v\n", d.IsRare)
	if d.IsRare && d.RarityDetails != "" {
		cmd.Printf("rarity:        %s\n", d.RarityDetails)
	}
	if d.Description != "" {
		cmd.Printf("description:   %s\n", d.Description)
	}
	for _, src := range d.Sources {
		cmd.Printf("source:        %s\n", src)
	}
	fmt.Fprintln(cmd.OutOrStdout())
}
