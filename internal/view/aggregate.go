package view

import (
	"sort"
	"strings"

	"github.com/joaoccaldas/coinsnap-collector/internal/model"
)

// topCountries caps the country distribution on the dashboard.
const topCountries = 5

// compositionSeparators delimit the primary material in a composition string:
// everything before the first separator is the grouping key, so
// "Copper (95%), Zinc" and "copper/nickel" both group under "copper".
const compositionSeparators = ",;/("

// Bucket is one slice of a distribution.
type Bucket struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Summary holds the dashboard aggregates for a collection snapshot.
type Summary struct {
	Count         int         `json:"count"`
	TotalValue    float64     `json:"totalValue"`
	Highest       *model.Coin `json:"highest,omitempty"`
	RareCount     int         `json:"rareCount"`
	ByComposition []Bucket    `json:"byComposition,omitempty"`
	ByCountry     []Bucket    `json:"byCountry,omitempty"`
}

// Aggregate computes the Summary for a snapshot. Highest is the first coin
// encountered with the maximum value; nil for an empty collection.
func Aggregate(coins []model.Coin) Summary {
	s := Summary{Count: len(coins)}

	compositions := newDistribution()
	countries := newDistribution()

	for _, c := range coins {
		s.TotalValue += c.Value
		if c.IsRare {
			s.RareCount++
		}
		if s.Highest == nil || c.Value > s.Highest.Value {
			coin := c
			s.Highest = &coin
		}
		compositions.add(CompositionKey(c.Composition))
		countries.add(countryKey(c.Country))
	}

	s.ByComposition = compositions.buckets()
	s.ByCountry = countries.buckets()
	if len(s.ByCountry) > topCountries {
		s.ByCountry = s.ByCountry[:topCountries]
	}
	return s
}

// CompositionKey reduces a free-text composition to its primary material.
func CompositionKey(composition string) string {
	key := composition
	if idx := strings.IndexAny(key, compositionSeparators); idx >= 0 {
		key = key[:idx]
	}
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return "unknown"
	}
	return key
}

func countryKey(country string) string {
	country = strings.TrimSpace(country)
	if country == "" {
		return "Unknown"
	}
	return country
}

// distribution counts keys while remembering first-encounter order, so that
// equal counts tie-break deterministically.
type distribution struct {
	counts map[string]int
	order  []string
}

func newDistribution() *distribution {
	return &distribution{counts: make(map[string]int)}
}

func (d *distribution) add(key string) {
	if _, seen := d.counts[key]; !seen {
		d.order = append(d.order, key)
	}
	d.counts[key]++
}

func (d *distribution) buckets() []Bucket {
	if len(d.order) == 0 {
		return nil
	}
	out := make([]Bucket, 0, len(d.order))
	for _, key := range d.order {
		out = append(out, Bucket{Key: key, Count: d.counts[key]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}
