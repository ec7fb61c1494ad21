package vision

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// parseIdentification parses the model reply into an Identification. Field
// level garbage is coerced (a currency string for estimatedValue, a string
// year, a missing isRare), so the only failure mode is a reply with no JSON
// object at all.
func parseIdentification(text string) (*Identification, error) {
	cleaned := cleanJSON(text)

	var raw map[string]any
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, ErrNoPayload
	}

	ident := &Identification{
		Name:           asString(raw["name"]),
		Year:           asYear(raw["year"]),
		Country:        asString(raw["country"]),
		Denomination:   asString(raw["denomination"]),
		EstimatedValue: asValue(raw["estimatedValue"]),
		Composition:    asString(raw["composition"]),
		Description:    asString(raw["description"]),
		Condition:      asString(raw["condition"]),
		IsRare:         asBool(raw["isRare"]),
		RarityDetails:  asString(raw["rarityDetails"]),
		Sources:        asStrings(raw["sources"]),
	}
	// Some replies nest the grade under conditionEstimate.
	if ident.Condition == "" {
		ident.Condition = asString(raw["conditionEstimate"])
	}
	return ident, nil
}

// cleanJSON strips markdown code fences and surrounding prose, keeping the
// outermost JSON object.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return ""
	}
}

func asYear(v any) *int {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return nil
		}
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

func asValue(v any) float64 {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n < 0 {
			return 0
		}
		return n
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
		return f
	default:
		return 0
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
	default:
		return false
	}
}

func asStrings(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range list {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
