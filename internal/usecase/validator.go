package usecase

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/shelflens/backend/internal/domain"
)

// nonPriceCharsRegex strips everything except digits and the decimal point
// from a model-supplied price string like "$3.50" or "3.50 USD".
var nonPriceCharsRegex = regexp.MustCompile(`[^0-9.]`)

// replySchemaLoader holds the JSON Schema rendering of the reply contract.
// Built once; gojsonschema loaders are safe for reuse.
var replySchemaLoader = gojsonschema.NewGoLoader(replyJSONSchema())

// replyJSONSchema renders the shared reply contract into a draft JSON
// Schema. Top-level fields are checked strictly; price-history entries are
// only required to be objects, since malformed entries are dropped during
// normalization instead of failing the record.
func replyJSONSchema() map[string]interface{} {
	props := make(map[string]interface{}, len(domain.ReplyContract))
	for _, f := range domain.ReplyContract {
		switch f.Kind {
		case domain.FieldStringArray:
			props[f.Name] = map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string"},
			}
		case domain.FieldPriceHistory:
			props[f.Name] = map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "object"},
			}
		default:
			props[f.Name] = map[string]interface{}{"type": "string"}
		}
	}

	return map[string]interface{}{
		"type":       "object",
		"required":   domain.RequiredFields(),
		"properties": props,
	}
}

// rawRecord is the loosely-typed shape of a reply before normalization
type rawRecord struct {
	ProductName    string                   `json:"productName"`
	ParentCompany  string                   `json:"parentCompany"`
	PriceHistory   []map[string]interface{} `json:"priceHistory"`
	Ingredients    []string                 `json:"ingredients"`
	Content        string                   `json:"content"`
	GoodContent    []string                 `json:"goodContent"`
	HarmfulContent []string                 `json:"harmfulContent"`
	CustomerInfo   string                   `json:"customerInfo"`
}

// ValidateRecord parses the raw reply text, enforces the reply contract and
// normalizes the price history into numeric USD values. All contract
// violations are collected and reported in a single error; an individual
// unparseable price entry is dropped rather than failing the record.
func ValidateRecord(rawText string) (*domain.ProductRecord, error) {
	result, err := gojsonschema.Validate(replySchemaLoader, gojsonschema.NewStringLoader(rawText))
	if err != nil {
		return nil, &domain.ValidationError{Kind: domain.ValidationMalformedJSON, Cause: err}
	}

	if !result.Valid() {
		fields := make([]string, 0, len(result.Errors()))
		for _, resultErr := range result.Errors() {
			fields = append(fields, resultErr.Field())
		}
		return nil, domain.NewValidationError(domain.ValidationMissingField, fields...)
	}

	var raw rawRecord
	if err := json.Unmarshal([]byte(rawText), &raw); err != nil {
		return nil, &domain.ValidationError{Kind: domain.ValidationMalformedJSON, Cause: err}
	}

	if strings.TrimSpace(raw.ProductName) == "" {
		return nil, domain.NewValidationError(domain.ValidationEmptyRequired, domain.FieldProductName)
	}

	return &domain.ProductRecord{
		ProductName:    raw.ProductName,
		ParentCompany:  raw.ParentCompany,
		PriceHistory:   normalizePriceHistory(raw.PriceHistory),
		Ingredients:    raw.Ingredients,
		Content:        raw.Content,
		GoodContent:    raw.GoodContent,
		HarmfulContent: raw.HarmfulContent,
		CustomerInfo:   raw.CustomerInfo,
	}, nil
}

// normalizePriceHistory converts loosely-typed entries into PricePoints,
// preserving insertion order. Entries without a usable year or a parseable
// non-negative price are skipped.
func normalizePriceHistory(entries []map[string]interface{}) []domain.PricePoint {
	points := make([]domain.PricePoint, 0, len(entries))
	for _, entry := range entries {
		year, ok := yearValue(entry[domain.PriceKeyYear])
		if !ok {
			continue
		}
		price, ok := priceValue(entry[domain.PriceKeyPrice])
		if !ok {
			continue
		}
		points = append(points, domain.PricePoint{Year: year, PriceUSD: price})
	}
	return points
}

func yearValue(v interface{}) (int, bool) {
	f, ok := v.(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

// priceValue accepts either a price string ("$3.50", "3.50 USD", "₹3.50")
// or a bare number, and yields a finite non-negative float.
func priceValue(v interface{}) (float64, bool) {
	switch p := v.(type) {
	case string:
		stripped := nonPriceCharsRegex.ReplaceAllString(p, "")
		if stripped == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(stripped, 64)
		if err != nil {
			return 0, false
		}
		return f, validPrice(f)
	case float64:
		return p, validPrice(p)
	}
	return 0, false
}

func validPrice(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f >= 0
}
