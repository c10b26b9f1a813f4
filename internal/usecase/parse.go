package usecase

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-json"

	"github.com/furnishly/backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	nonPriceCharsRegex = regexp.MustCompile(`[^0-9.]`)
	dimensionRegex     = regexp.MustCompile(`(?i)([\d.]+)"?([DWH])`)
	imageURLRegex      = regexp.MustCompile(`https?://[^\s,'"\]]+`)
)

// missingSentinels are values the source dataset uses for "no value"
var missingSentinels = map[string]bool{
	"":     true,
	"nan":  true,
	"None": true,
	"null": true,
}

// listParser turns a serialized list field into its elements. ok=false
// hands the raw value to the next parser in the chain.
type listParser func(raw string) (items []string, ok bool)

// categoryParsers is tried in order; the loose parser always succeeds
var categoryParsers = []listParser{parseQuotedList, parseLooseCategories}

// imageParsers is tried in order; URL extraction always succeeds
var imageParsers = []listParser{parseQuotedList, extractImageURLs}

func runParsers(raw string, parsers []listParser) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	for _, parse := range parsers {
		if items, ok := parse(raw); ok {
			return items
		}
	}
	return nil
}

// ParseCategories parses a categories field such as "['Home', 'Sofas']".
// Malformed values fall back to a bracket-stripping comma split that drops
// tokens of two characters or fewer.
func ParseCategories(raw string) []string {
	return runParsers(raw, categoryParsers)
}

// ParseImages parses an images field into trimmed URLs
func ParseImages(raw string) []string {
	return runParsers(raw, imageParsers)
}

// MainCategory returns the first parsed category, or "" when there is none
func MainCategory(raw string) string {
	cats := ParseCategories(raw)
	if len(cats) == 0 {
		return ""
	}
	return cats[0]
}

// parseQuotedList decodes a list literal as JSON after switching single
// quotes to double quotes. Entries are trimmed and empty ones dropped.
func parseQuotedList(raw string) ([]string, bool) {
	normalized := strings.ReplaceAll(raw, "'", `"`)

	var items []string
	if err := json.Unmarshal([]byte(normalized), &items); err != nil || items == nil {
		return nil, false
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out, true
}

// parseLooseCategories strips brackets and quotes and splits on commas
func parseLooseCategories(raw string) ([]string, bool) {
	stripped := strings.NewReplacer("[", "", "]", "", "'", "", `"`, "").Replace(raw)

	var out []string
	for _, part := range strings.Split(stripped, ",") {
		part = strings.TrimSpace(part)
		if utf8.RuneCountInString(part) > 2 {
			out = append(out, part)
		}
	}
	return out, true
}

func extractImageURLs(raw string) ([]string, bool) {
	return imageURLRegex.FindAllString(raw, -1), true
}

// ParsePrice extracts a usable price from strings like "$1,234.50".
// Returns ok=false for missing values, unparseable numbers and anything
// outside the open interval (0, 1_000_000).
func ParsePrice(raw string) (float64, bool) {
	if missingSentinels[raw] {
		return 0, false
	}

	cleaned := nonPriceCharsRegex.ReplaceAllString(raw, "")
	if cleaned == "" || cleaned == "." {
		return 0, false
	}

	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	if price <= 0 || price >= 1_000_000 {
		return 0, false
	}
	return price, true
}

// ParseDimensions reads values like `24"D x 18"W x 36"H`. Later occurrences
// of the same dimension overwrite earlier ones.
func ParseDimensions(raw string) domain.Dimensions {
	var dims domain.Dimensions
	for _, match := range dimensionRegex.FindAllStringSubmatch(raw, -1) {
		value, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			continue
		}
		switch strings.ToUpper(match[2]) {
		case "D":
			dims.Depth = &value
		case "W":
			dims.Width = &value
		case "H":
			dims.Height = &value
		}
	}
	return dims
}

// round2 rounds to two decimal places, halves to even
func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}
