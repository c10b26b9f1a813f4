package usecase

import (
	"strings"

	"github.com/furnishly/backend/internal/domain"
	"github.com/tmc/langchaingo/prompts"
)

// featureExcerptLength caps how much of the stored description is fed to the
// model as "key features"
const featureExcerptLength = 200

var descriptionPrompt = prompts.NewPromptTemplate(
	`You are a creative furniture product description writer. Generate an engaging and persuasive product description based on the following details:

Product Title: {{.title}}
Brand: {{.brand}}
Category: {{.category}}
Material: {{.material}}
Color: {{.color}}
Price: {{.price}}
Key Features: {{.features}}

Write a compelling 2-3 sentence product description that:
1. Highlights the product's unique features and benefits
2. Uses descriptive and appealing language
3. Appeals to the target customer's lifestyle and needs
4. Maintains a professional yet friendly tone

Product Description:`,
	[]string{"title", "brand", "category", "material", "color", "price", "features"},
)

var summaryPrompt = prompts.NewPromptTemplate(
	`Based on the search query: "{{.query}}"

I found {{.num_products}} furniture items that match your needs:

{{.product_titles}}

Generate a friendly 1-2 sentence introduction to these recommendations that:
1. Acknowledges the user's search intent
2. Briefly highlights what makes these products suitable
3. Encourages exploration

Introduction:`,
	[]string{"query", "num_products", "product_titles"},
)

// BuildDescriptionPrompt renders the marketing-copy prompt for p, filling
// missing attributes with neutral defaults
func BuildDescriptionPrompt(p domain.Product) (string, error) {
	features := "Stylish and functional design"
	if desc := p.Field(domain.FieldDescription); desc != "" {
		features = truncateRunes(desc, featureExcerptLength)
	}

	return descriptionPrompt.Format(map[string]any{
		"title":    fieldOr(p, domain.FieldTitle, "Furniture Item"),
		"brand":    fieldOr(p, domain.FieldBrand, "Unknown Brand"),
		"category": orDefault(MainCategory(p.Field(domain.FieldCategories)), "Furniture"),
		"material": fieldOr(p, domain.FieldMaterial, "Quality Materials"),
		"color":    fieldOr(p, domain.FieldColor, "Versatile Color"),
		"price":    fieldOr(p, domain.FieldPrice, "Affordable"),
		"features": features,
	})
}

// BuildSummaryPrompt renders the recommendation introduction prompt
func BuildSummaryPrompt(query string, products []domain.Product) (string, error) {
	titles := make([]string, len(products))
	for i, p := range products {
		titles[i] = "- " + fieldOr(p, domain.FieldTitle, "Product")
	}

	return summaryPrompt.Format(map[string]any{
		"query":          query,
		"num_products":   len(products),
		"product_titles": strings.Join(titles, "\n"),
	})
}

func fieldOr(p domain.Product, name, fallback string) string {
	return orDefault(p.Field(name), fallback)
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
