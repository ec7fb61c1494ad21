package view

import "github.com/joaoccaldas/coinsnap-collector/internal/model"

// Query bundles the display parameters a user can change.
type Query struct {
	Text  string          `json:"text"`
	By    model.SortKey   `json:"sortBy"`
	Order model.SortOrder `json:"sortOrder"`
}

// View is the fully derived display state: the filtered and sorted list plus
// aggregates over the filtered subset.
type View struct {
	Coins   []model.Coin `json:"coins"`
	Summary Summary      `json:"summary"`
}

// Derive recomputes the View for a snapshot and query. Filter first, then
// sort, then aggregate over what remains visible.
func Derive(coins []model.Coin, q Query) View {
	filtered := Filter(coins, q.Text)
	return View{
		Coins:   Sort(filtered, q.By, q.Order),
		Summary: Aggregate(filtered),
	}
}
