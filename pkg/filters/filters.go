package filters

import "strings"

const (
	Alphabets                = "Alphabets"
	Numbers                  = "Numbers"
	HighestLowercaseAlphabet = "Highest lowercase alphabet"
)

var labels = []string{Alphabets, Numbers, HighestLowercaseAlphabet}

// Option pairs a display label with the response key it resolves to.
type Option struct {
	Label string `json:"label"`
	Key   string `json:"key"`
}

// Labels returns the filter labels in display order.
func Labels() []string {
	return append([]string{}, labels...)
}

// Options returns the filters with their normalised keys in display order.
func Options() []Option {
	out := make([]Option, 0, len(labels))
	for _, label := range labels {
		out = append(out, Option{Label: label, Key: Key(label)})
	}
	return out
}

// Key lowercases label and replaces spaces with underscores.
func Key(label string) string {
	return strings.ReplaceAll(strings.ToLower(label), " ", "_")
}

// Known reports whether label is one of the fixed filters.
func Known(label string) bool {
	for _, candidate := range labels {
		if candidate == label {
			return true
		}
	}
	return false
}

// Clean keeps known labels in the order given, dropping duplicates.
func Clean(selected []string) []string {
	if len(selected) == 0 {
		return nil
	}
	out := make([]string, 0, len(selected))
	seen := make(map[string]struct{}, len(selected))
	for _, label := range selected {
		label = strings.TrimSpace(label)
		if !Known(label) {
			continue
		}
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
