// Package vision identifies and appraises coins from photographs using the
// Anthropic Messages API. Both faces of the coin are sent as image blocks in
// a single request and the reply is parsed into an Identification.
package vision

import (
	"context"

	"github.com/rotisserie/eris"
)

// ErrNoPayload is returned when the model reply contains no locatable JSON
// object. This is the only fatal parse outcome; malformed individual fields
// are coerced instead.
var ErrNoPayload = eris.New("vision: no structured payload in reply")

// Identifier is the capture-side collaborator contract: two images in, one
// identification (or one error) out.
type Identifier interface {
	Identify(ctx context.Context, front, back Image) (*Identification, error)
}

// Image is a captured coin face ready for upload.
type Image struct {
	MediaType string // e.g. "image/jpeg"
	Data      []byte
}

// Identification is the structured result of a vision call. Year is nil when
// the model could not date the coin.
type Identification struct {
	Name           string   `json:"name"`
	Year           *int     `json:"year"`
	Country        string   `json:"country"`
	Denomination   string   `json:"denomination"`
	EstimatedValue float64  `json:"estimatedValue"`
	Composition    string   `json:"composition"`
	Description    string   `json:"description"`
	Condition      string   `json:"condition"`
	IsRare         bool     `json:"isRare"`
	RarityDetails  string   `json:"rarityDetails"`
	Sources        []string `json:"sources,omitempty"`
}
