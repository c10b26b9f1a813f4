package dataset

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/furnishly/backend/internal/domain"
)

//go:embed embedded/products.json
var embeddedProducts []byte

// EmbeddedSource reads the dataset compiled into the binary. The repository
// ships an empty array; release builds drop the real dataset in before building.
type EmbeddedSource struct {
	data []byte
}

// NewEmbeddedSource returns the source over the built-in dataset
func NewEmbeddedSource() *EmbeddedSource {
	return &EmbeddedSource{data: embeddedProducts}
}

func (s *EmbeddedSource) Name() string { return "embedded" }

func (s *EmbeddedSource) Load(ctx context.Context) ([]domain.Product, error) {
	return decodeProducts(s.data)
}

// JSONFileSource reads a JSON array of field mappings from disk
type JSONFileSource struct {
	path string
}

// NewJSONFileSource returns a source reading path
func NewJSONFileSource(path string) *JSONFileSource {
	return &JSONFileSource{path: path}
}

func (s *JSONFileSource) Name() string { return "json:" + s.path }

func (s *JSONFileSource) Load(ctx context.Context) ([]domain.Product, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	return decodeProducts(data)
}

// decodeProducts accepts any JSON scalar as a field value. Numbers keep their
// literal text and bools are stringified; nulls are dropped so the field reads
// as absent.
func decodeProducts(data []byte) ([]domain.Product, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var rows []map[string]any
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		p := make(domain.Product, len(row))
		for k, v := range row {
			switch val := v.(type) {
			case nil:
				continue
			case string:
				p[k] = val
			case json.Number:
				p[k] = val.String()
			case bool:
				p[k] = strconv.FormatBool(val)
			default:
				raw, err := json.Marshal(val)
				if err != nil {
					continue
				}
				p[k] = string(raw)
			}
		}
		products = append(products, p)
	}
	return products, nil
}

// CSVSource reads the first CSV that exists among candidate paths
type CSVSource struct {
	paths []string
	found string
}

// NewCSVSource returns a source probing paths in order
func NewCSVSource(paths ...string) *CSVSource {
	return &CSVSource{paths: paths}
}

func (s *CSVSource) Name() string {
	if s.found != "" {
		return "csv:" + s.found
	}
	return "csv"
}

func (s *CSVSource) Load(ctx context.Context) ([]domain.Product, error) {
	path, err := firstExisting(s.paths)
	if err != nil {
		return nil, err
	}
	s.found = path

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readCSV(ctx, f)
}

func firstExisting(paths []string) (string, error) {
	for _, p := range paths {
		info, err := os.Stat(p)
		if err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("csv file not found, tried %s: %w", strings.Join(paths, ", "), os.ErrNotExist)
}

// readCSV maps each row onto the header. Short rows leave the trailing
// fields absent; extra cells beyond the header are ignored.
func readCSV(ctx context.Context, r io.Reader) ([]domain.Product, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	var products []domain.Product
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", len(products)+2, err)
		}

		p := make(domain.Product, len(header))
		for i, name := range header {
			if i >= len(record) {
				break
			}
			if name == "" {
				continue
			}
			p[name] = record[i]
		}
		products = append(products, p)
	}

	return products, nil
}
