package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/furnishly/backend/config"
	"github.com/furnishly/backend/internal/app"
	"github.com/furnishly/backend/internal/domain"
	"github.com/furnishly/backend/internal/logging"
	"github.com/furnishly/backend/internal/usecase"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logging.Fatal().Err(err).Msg("command failed")
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "catalog",
		Usage: "Inspect and index the Furnishly product catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file (default: search ./, ./config, /etc/furnishly)",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Override logging level (debug, info, warn, error)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "recommend",
				Usage:     "Rank products against a free-text query",
				ArgsUsage: "<query>",
				Action:    recommendCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of products to print",
						Value:   usecase.DefaultRecommendationLimit,
					},
				},
			},
			{
				Name:   "analytics",
				Usage:  "Print catalog analytics",
				Action: analyticsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format (json, yaml)",
						Value:   "json",
					},
				},
			},
			{
				Name:      "describe",
				Usage:     "Print a product and its generated description",
				ArgsUsage: "<product-id>",
				Action:    describeCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Generate descriptions for every product in the catalog",
					},
				},
			},
			{
				Name:   "index",
				Usage:  "Embed every product into the configured vector index",
				Action: indexCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of products embedded per request",
						Value: usecase.DefaultIndexBatchSize,
					},
				},
			},
		},
	}
}

// setup loads configuration and builds the application for a command
func setup(c *cli.Context) (*app.App, error) {
	cfg, err := config.LoadFile(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	level := cfg.Logging.Level
	if l := c.String("log-level"); l != "" {
		level = l
	}
	logging.Init(logging.Config{Level: level, Format: "console", Output: c.App.ErrWriter})

	return app.New(c.Context, cfg)
}

func recommendCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return errors.New("query is required")
	}

	a, err := setup(c)
	if err != nil {
		return err
	}
	defer a.Close()

	limit := c.Int("limit")
	products, err := a.Recommend.Recommend(c.Context, &domain.RecommendRequest{
		Query:              query,
		NumRecommendations: &limit,
	})
	if err != nil {
		return err
	}

	out := c.App.Writer
	if len(products) == 0 {
		fmt.Fprintf(out, "No products match %q\n", query)
		return nil
	}
	for i, p := range products {
		printProductLine(out, i+1, p)
	}

	if a.Descriptions.Enabled() {
		summary, err := a.Descriptions.Summarize(c.Context, query, products)
		if err != nil {
			logging.Warn().Err(err).Msg("summary generation failed")
			return nil
		}
		fmt.Fprintf(out, "\n%s\n", summary)
	}
	return nil
}

func analyticsCommand(c *cli.Context) error {
	format := c.String("format")
	if format != "json" && format != "yaml" {
		return fmt.Errorf("unsupported format %q (want json or yaml)", format)
	}

	a, err := setup(c)
	if err != nil {
		return err
	}
	defer a.Close()

	analytics, err := a.Analytics.Analytics(c.Context)
	if err != nil {
		return err
	}
	return writeAnalytics(c.App.Writer, analytics, format)
}

func writeAnalytics(w io.Writer, analytics *domain.Analytics, format string) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(analytics); err != nil {
			return err
		}
		return enc.Close()
	}

	data, err := json.MarshalIndent(analytics, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func describeCommand(c *cli.Context) error {
	if c.Bool("all") {
		return describeAllCommand(c)
	}

	id := c.Args().First()
	if id == "" {
		return errors.New("product id is required")
	}

	a, err := setup(c)
	if err != nil {
		return err
	}
	defer a.Close()

	product, err := a.Products.GetProduct(c.Context, id)
	if err != nil {
		return err
	}

	out := c.App.Writer
	printProductLine(out, 1, product)
	for _, field := range []string{domain.FieldCategories, domain.FieldMaterial, domain.FieldColor, domain.FieldPackageDimensions} {
		if v := product.Field(field); v != "" {
			fmt.Fprintf(out, "   %s: %s\n", field, v)
		}
	}
	for _, url := range usecase.ParseImages(product.Field(domain.FieldImages)) {
		fmt.Fprintf(out, "   image: %s\n", url)
	}

	description := product.Field(domain.FieldDescription)
	if a.Descriptions.Enabled() {
		generated, err := a.Descriptions.Describe(c.Context, product)
		if err != nil {
			logging.Warn().Err(err).Msg("description generation failed")
		} else {
			description = generated
		}
	}
	if description != "" {
		fmt.Fprintf(out, "\n%s\n", description)
	}
	return nil
}

func describeAllCommand(c *cli.Context) error {
	a, err := setup(c)
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.Descriptions.Enabled() {
		return domain.ErrGenerationDisabled
	}
	if a.Catalog.Empty() {
		return domain.ErrDataUnavailable
	}

	products := a.Catalog.Products()
	descriptions, err := a.Descriptions.DescribeBatch(c.Context, products)
	if err != nil {
		return err
	}

	out := c.App.Writer
	for i, p := range products {
		fmt.Fprintf(out, "%s\t%s\n", p.ID(), descriptions[i])
	}
	return nil
}

func indexCommand(c *cli.Context) error {
	a, err := setup(c)
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.Semantic.Enabled() {
		return domain.ErrSemanticDisabled
	}
	if a.Catalog.Empty() {
		return domain.ErrDataUnavailable
	}

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	n, err := a.Semantic.Index(ctx, c.Int("batch-size"))
	fmt.Fprintf(c.App.Writer, "Indexed %d of %d products\n", n, a.Catalog.Len())
	if err != nil {
		return err
	}

	stats, err := a.Semantic.Stats(ctx)
	if err != nil {
		logging.Warn().Err(err).Msg("could not read index stats")
		return nil
	}
	fmt.Fprintf(c.App.Writer, "Index holds %d vectors of dimension %d\n", stats.VectorCount, stats.Dimension)
	return nil
}

func printProductLine(w io.Writer, rank int, p domain.Product) {
	fmt.Fprintf(w, "%2d. %s  [%s]\n", rank, orDash(p.Field(domain.FieldTitle)), p.ID())
	fmt.Fprintf(w, "    brand: %s  price: %s\n", orDash(p.Field(domain.FieldBrand)), orDash(p.Field(domain.FieldPrice)))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
