package usecase

import (
	"regexp"
	"strings"

	"github.com/furnishly/backend/internal/domain"
	"github.com/furnishly/backend/internal/logging"
)

// Compiled regex patterns for text preprocessing
var (
	// Matches measurements like `24"`, "36 in", "120 cm", "5.5 ft", "40 lbs"
	measurementPattern = regexp.MustCompile(`(?i)\b\d+(\.\d+)?\s*("|''|inch(es)?|in\b|cm\b|mm\b|ft\b|feet\b|lbs?\b|pounds?\b|kg\b)`)

	// Matches set/piece counts like "set of 4", "2-piece", "3 pcs"
	pieceCountPattern = regexp.MustCompile(`(?i)\bset\s+of\s+\d+\b|\b\d+[-\s]*(piece|pieces|pcs|pc|pack|pk)\b`)

	nonAlnumSpacePattern = regexp.MustCompile(`[^a-z0-9\s]`)
	multiSpacePattern    = regexp.MustCompile(`\s+`)
)

// maxQueryLength bounds the text sent to the embedding backend
const maxQueryLength = 200

// queryNoiseWords carry no retrieval signal in furniture queries
var queryNoiseWords = map[string]bool{
	// Marketing terms
	"best":       true,
	"premium":    true,
	"quality":    true,
	"new":        true,
	"perfect":    true,
	"beautiful":  true,
	"stylish":    true,
	"cheap":      true,
	"affordable": true,

	// Request phrasing
	"looking": true,
	"want":    true,
	"need":    true,
	"find":    true,
	"show":    true,
	"me":      true,
	"some":    true,
	"please":  true,

	// Generic terms that don't narrow anything down
	"item":      true,
	"product":   true,
	"furniture": true,
}

// TextPreprocessor normalizes queries and product text before embedding
type TextPreprocessor struct {
	enableDebugLogging bool
}

// NewTextPreprocessor creates a new text preprocessor
func NewTextPreprocessor(enableDebugLogging bool) *TextPreprocessor {
	return &TextPreprocessor{enableDebugLogging: enableDebugLogging}
}

// PreprocessQuery cleans a free-text shopping query for semantic search.
// Removes measurements, piece counts and noise words, then normalizes.
func (p *TextPreprocessor) PreprocessQuery(query string) string {
	if query == "" {
		return ""
	}

	cleaned := measurementPattern.ReplaceAllString(query, " ")
	cleaned = pieceCountPattern.ReplaceAllString(cleaned, " ")
	cleaned = CleanText(cleaned)
	cleaned = p.removeNoiseWords(cleaned)

	if len(cleaned) > maxQueryLength {
		cleaned = cleaned[:maxQueryLength]
		// Cut at a word boundary when there is one reasonably close
		if lastSpace := strings.LastIndex(cleaned, " "); lastSpace > maxQueryLength/2 {
			cleaned = cleaned[:lastSpace]
		}
	}

	// Nothing useful left: fall back to the plain normalized query
	if cleaned == "" {
		cleaned = CleanText(query)
	}

	if p.enableDebugLogging {
		logging.Debug().Str("input", query).Str("output", cleaned).Msg("query preprocessed")
	}

	return cleaned
}

// removeNoiseWords drops marketing and filler words
func (p *TextPreprocessor) removeNoiseWords(s string) string {
	var kept []string
	for _, word := range strings.Fields(s) {
		if !queryNoiseWords[word] {
			kept = append(kept, word)
		}
	}
	return strings.Join(kept, " ")
}

// CombinedText concatenates the fields that describe a product for
// embedding: title, brand, description, main category, material, color.
func (p *TextPreprocessor) CombinedText(product domain.Product) string {
	parts := []string{
		product.Field(domain.FieldTitle),
		product.Field(domain.FieldBrand),
		product.Field(domain.FieldDescription),
		MainCategory(product.Field(domain.FieldCategories)),
		product.Field(domain.FieldMaterial),
		product.Field(domain.FieldColor),
	}
	return CleanText(strings.Join(parts, " "))
}

// CleanText lower-cases text, replaces anything but ASCII letters, digits
// and whitespace with a space, and collapses runs of whitespace.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ToLower(text)
	text = nonAlnumSpacePattern.ReplaceAllString(text, " ")
	text = multiSpacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
