// Package view derives display data from a collection snapshot. Every
// function here is pure: the input slice is never mutated and derivation
// never fails, an empty collection just yields empty results.
package view

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/joaoccaldas/coinsnap-collector/internal/model"
)

// Filter retains coins whose name or country contains the query as a
// case-insensitive substring. An empty query retains everything.
func Filter(coins []model.Coin, query string) []model.Coin {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		out := make([]model.Coin, len(coins))
		copy(out, coins)
		return out
	}

	var out []model.Coin
	for _, c := range coins {
		if strings.Contains(strings.ToLower(c.Name), query) ||
			strings.Contains(strings.ToLower(c.Country), query) {
			out = append(out, c)
		}
	}
	return out
}

// Sort returns a sorted copy of the collection. The sort is stable, so ties
// keep their prior relative order. Descending is the negated ascending
// comparator, not a separately defined order.
func Sort(coins []model.Coin, by model.SortKey, order model.SortOrder) []model.Coin {
	out := make([]model.Coin, len(coins))
	copy(out, coins)

	cmp := comparator(by)
	if order == model.OrderDesc {
		asc := cmp
		cmp = func(a, b model.Coin) int { return -asc(a, b) }
	}

	sort.SliceStable(out, func(i, j int) bool {
		return cmp(out[i], out[j]) < 0
	})
	return out
}

func comparator(by model.SortKey) func(a, b model.Coin) int {
	switch by {
	case model.SortByValue:
		return func(a, b model.Coin) int {
			switch {
			case a.Value < b.Value:
				return -1
			case a.Value > b.Value:
				return 1
			default:
				return 0
			}
		}
	case model.SortByYear:
		return compareYear
	case model.SortByName:
		// A fresh collator per call: collate.Collator carries internal
		// buffers and is not safe for concurrent use.
		coll := collate.New(language.Und)
		return func(a, b model.Coin) int {
			return coll.CompareString(a.Name, b.Name)
		}
	default:
		return func(a, b model.Coin) int {
			switch {
			case a.DateAdded.Before(b.DateAdded):
				return -1
			case a.DateAdded.After(b.DateAdded):
				return 1
			default:
				return 0
			}
		}
	}
}

// compareYear orders unknown years below every known year. This is a display
// placeholder policy: an unknown year is not a claim the coin dates to any
// particular year.
func compareYear(a, b model.Coin) int {
	switch {
	case !a.HasYear() && !b.HasYear():
		return 0
	case !a.HasYear():
		return -1
	case !b.HasYear():
		return 1
	case *a.Year < *b.Year:
		return -1
	case *a.Year > *b.Year:
		return 1
	default:
		return 0
	}
}
