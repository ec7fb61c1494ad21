// Package normalize converts loosely-typed coin data into canonical records.
//
// Input comes from two places: identification results returned by the vision
// collaborator, and persisted records loaded from storage, which may predate
// the current field layout. Normalization is total: unknown or missing fields
// receive safe defaults and no input ever produces an error.
package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joaoccaldas/coinsnap-collector/internal/model"
	"github.com/joaoccaldas/coinsnap-collector/pkg/vision"
)

// Legacy records stored a single photo under a variety of names. The chains
// are ordered: the first populated candidate wins. A missing back image falls
// back to the front chain so every record renders two faces.
var (
	frontImageCandidates = []string{"frontImageUrl", "imageUrl", "image", "photoUrl"}
	backImageCandidates  = []string{"backImageUrl"}
)

// Normalize builds a canonical Coin from a raw record. It never fails and is
// idempotent: normalizing an already-canonical record yields an equal value.
func Normalize(raw map[string]any) model.Coin {
	c := model.Coin{
		ID:            asString(raw["id"]),
		Name:          asString(raw["name"]),
		Country:       asString(raw["country"]),
		Denomination:  asString(raw["denomination"]),
		Composition:   asString(raw["composition"]),
		Description:   asString(raw["description"]),
		Condition:     asString(raw["condition"]),
		Year:          coerceYear(raw["year"]),
		Value:         CoerceValue(raw["value"]),
		IsRare:        asBool(raw["isRare"]),
		RarityDetails: asString(raw["rarityDetails"]),
		DateAdded:     coerceTime(raw["dateAdded"]),
		Sources:       asStrings(raw["sources"]),
	}

	if c.ID == "" {
		c.ID = uuid.New().String()
	}

	c.FrontImageURL = firstString(raw, frontImageCandidates)
	c.BackImageURL = firstString(raw, backImageCandidates)
	if c.BackImageURL == "" {
		c.BackImageURL = c.FrontImageURL
	}

	return c
}

// FromIdentification builds a fresh canonical record from a vision result
// plus the two captured image references. The id and dateAdded are assigned
// here, once, and never change afterwards.
func FromIdentification(ident vision.Identification, frontURL, backURL string) model.Coin {
	if backURL == "" {
		backURL = frontURL
	}
	value := ident.EstimatedValue
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		value = 0
	}
	return model.Coin{
		ID:            uuid.New().String(),
		Name:          strings.TrimSpace(ident.Name),
		Country:       strings.TrimSpace(ident.Country),
		Denomination:  strings.TrimSpace(ident.Denomination),
		Composition:   strings.TrimSpace(ident.Composition),
		Description:   strings.TrimSpace(ident.Description),
		Condition:     strings.TrimSpace(ident.Condition),
		Year:          ident.Year,
		Value:         value,
		IsRare:        ident.IsRare,
		RarityDetails: strings.TrimSpace(ident.RarityDetails),
		DateAdded:     time.Now().UTC(),
		FrontImageURL: frontURL,
		BackImageURL:  backURL,
		Sources:       ident.Sources,
	}
}

// CoerceValue turns any appraisal value into a finite non-negative float.
// Currency-formatted strings ("$12.50", "12,50 EUR") are stripped to digits
// and a decimal point before parsing; unparsable input is worth nothing.
func CoerceValue(v any) float64 {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n < 0 {
			return 0
		}
		return n
	case float32:
		return CoerceValue(float64(n))
	case int:
		return CoerceValue(float64(n))
	case int64:
		return CoerceValue(float64(n))
	case string:
		cleaned := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' || r == '.' {
				return r
			}
			return -1
		}, n)
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0
		}
		return CoerceValue(f)
	default:
		return 0
	}
}

// coerceYear maps numeric input to a year and everything else to unknown.
// Unknown is nil, never zero: zero only ever appears as a sort placeholder,
// not as stored data.
func coerceYear(v any) *int {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return nil
		}
		y := int(n)
		return &y
	case float32:
		return coerceYear(float64(n))
	case int:
		y := n
		return &y
	case int64:
		y := int(n)
		return &y
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return nil
		}
		return &i
	default:
		return nil
	}
}

func coerceTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t.UTC()
	case string:
		if ts, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return ts.UTC()
		}
	case float64:
		// Epoch milliseconds, as written by the earliest releases.
		if t > 0 {
			return time.UnixMilli(int64(t)).UTC()
		}
	}
	return time.Now().UTC()
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

func asBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		switch strings.ToLower(b) {
		case "true", "yes", "1":
			return true
		}
		return false
	case float64:
		return b != 0
	default:
		return false
	}
}

func asStrings(v any) []string {
	switch list := v.(type) {
	case []string:
		if len(list) == 0 {
			return nil
		}
		out := make([]string, len(list))
		copy(out, list)
		return out
	case []any:
		var out []string
		for _, item := range list {
			if s := asString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func firstString(raw map[string]any, candidates []string) string {
	for _, key := range candidates {
		if s := asString(raw[key]); s != "" {
			return s
		}
	}
	return ""
}
