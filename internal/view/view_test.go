package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joaoccaldas/coinsnap-collector/internal/model"
)

func intp(v int) *int { return &v }

func testCoins() []model.Coin {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []model.Coin{
		{ID: "a", Name: "Wheat Penny", Country: "United States", Value: 5, Year: intp(1990), DateAdded: base},
		{ID: "b", Name: "Gold Sovereign", Country: "United Kingdom", Value: 20, DateAdded: base.Add(time.Hour)},
		{ID: "c", Name: "Silver Florin", Country: "Australia", Value: 20, Year: intp(2001), DateAdded: base.Add(2 * time.Hour)},
	}
}

func ids(coins []model.Coin) []string {
	out := make([]string, len(coins))
	for i, c := range coins {
		out[i] = c.ID
	}
	return out
}

func TestFilterEmptyQueryKeepsAll(t *testing.T) {
	coins := testCoins()
	got := Filter(coins, "")
	assert.Equal(t, coins, got)
}

func TestFilterMatchesNameOrCountry(t *testing.T) {
	coins := testCoins()

	byName := Filter(coins, "penny")
	require.Len(t, byName, 1)
	assert.Equal(t, "a", byName[0].ID)

	byCountry := Filter(coins, "united")
	assert.Equal(t, []string{"a", "b"}, ids(byCountry))

	assert.Empty(t, Filter(coins, "drachma"))
}

func TestFilterIsCaseInsensitive(t *testing.T) {
	coins := testCoins()
	assert.Equal(t, ids(Filter(coins, "PENNY")), ids(Filter(coins, "penny")))
}

func TestFilterTrimsQueryWhitespace(t *testing.T) {
	coins := testCoins()
	assert.Equal(t, ids(Filter(coins, "penny")), ids(Filter(coins, "  penny  ")))
	assert.Equal(t, coins, Filter(coins, "   "))
}

func TestSortDoesNotMutateInput(t *testing.T) {
	coins := testCoins()
	Sort(coins, model.SortByValue, model.OrderDesc)
	assert.Equal(t, []string{"a", "b", "c"}, ids(coins))
}

func TestSortDescIsNegatedAsc(t *testing.T) {
	coins := []model.Coin{
		{ID: "a", Value: 3},
		{ID: "b", Value: 1},
		{ID: "c", Value: 2},
	}
	asc := Sort(coins, model.SortByValue, model.OrderAsc)
	desc := Sort(coins, model.SortByValue, model.OrderDesc)

	for i := range asc {
		assert.Equal(t, asc[i].ID, desc[len(desc)-1-i].ID)
	}
}

func TestSortByValueDescStableTies(t *testing.T) {
	// A(5) B(20) C(20): the B/C tie keeps its prior relative order.
	got := Sort(testCoins(), model.SortByValue, model.OrderDesc)
	assert.Equal(t, []string{"b", "c", "a"}, ids(got))
}

func TestSortByYearUnknownFirst(t *testing.T) {
	got := Sort(testCoins(), model.SortByYear, model.OrderAsc)
	assert.Equal(t, []string{"b", "a", "c"}, ids(got))

	// Unknown years always precede known ones in ascending order.
	coins := []model.Coin{
		{ID: "x", Year: intp(0)},
		{ID: "y"},
	}
	got = Sort(coins, model.SortByYear, model.OrderAsc)
	assert.Equal(t, []string{"y", "x"}, ids(got))
}

func TestSortByDate(t *testing.T) {
	got := Sort(testCoins(), model.SortByDate, model.OrderDesc)
	assert.Equal(t, []string{"c", "b", "a"}, ids(got))
}

func TestSortByNameIsLocaleAware(t *testing.T) {
	coins := []model.Coin{
		{ID: "1", Name: "cherry"},
		{ID: "2", Name: "Banana"},
		{ID: "3", Name: "apple"},
	}
	// Byte order would put "Banana" first; a collator orders alphabetically.
	got := Sort(coins, model.SortByName, model.OrderAsc)
	assert.Equal(t, []string{"3", "2", "1"}, ids(got))
}

func TestDerive(t *testing.T) {
	v := Derive(testCoins(), Query{Text: "united", By: model.SortByValue, Order: model.OrderAsc})
	assert.Equal(t, []string{"a", "b"}, ids(v.Coins))
	assert.Equal(t, 2, v.Summary.Count)
	assert.Equal(t, 25.0, v.Summary.TotalValue)
}
