package model

import "time"

// Coin is the sole persisted entity: one catalogued coin in the collection.
// JSON field names stay camelCase for compatibility with records persisted by
// earlier versions of the tool.
type Coin struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Country       string    `json:"country"`
	Denomination  string    `json:"denomination"`
	Composition   string    `json:"composition"`
	Description   string    `json:"description"`
	Condition     string    `json:"condition"`
	Year          *int      `json:"year,omitempty"`
	Value         float64   `json:"value"`
	IsRare        bool      `json:"isRare"`
	RarityDetails string    `json:"rarityDetails"`
	DateAdded     time.Time `json:"dateAdded"`
	FrontImageURL string    `json:"frontImageUrl"`
	BackImageURL  string    `json:"backImageUrl"`
	Sources       []string  `json:"sources,omitempty"`
}

// HasYear reports whether the coin has a known mint year. A nil Year means
// the year is unknown, which is distinct from year zero.
func (c Coin) HasYear() bool {
	return c.Year != nil
}

// SortKey selects the field a listing is ordered by.
type SortKey string

const (
	SortByDate  SortKey = "date"
	SortByValue SortKey = "value"
	SortByYear  SortKey = "year"
	SortByName  SortKey = "name"
)

// SortOrder is the direction of a listing order.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// ParseSortKey maps user input to a SortKey, defaulting to SortByDate.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortByValue, SortByYear, SortByName:
		return SortKey(s)
	default:
		return SortByDate
	}
}

// ParseSortOrder maps user input to a SortOrder, defaulting to OrderDesc so
// the most recently added coins list first.
func ParseSortOrder(s string) SortOrder {
	if SortOrder(s) == OrderAsc {
		return OrderAsc
	}
	return OrderDesc
}
