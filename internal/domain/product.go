package domain

// QueryMode selects how a product lookup is performed
type QueryMode string

const (
	// QueryByName looks a product up by its typed name
	QueryByName QueryMode = "by_name"

	// QueryByImage identifies the product from an attached photo first
	QueryByImage QueryMode = "by_image"
)

// SupportedLanguages is the enumerated set of language tags the prompt
// templates accept. The model is instructed to answer in the selected one.
var SupportedLanguages = []string{
	"en-US", "es-ES", "fr-FR", "de-DE", "hi-IN", "ja-JP",
}

// IsSupportedLanguage reports whether tag is in SupportedLanguages
func IsSupportedLanguage(tag string) bool {
	for _, l := range SupportedLanguages {
		if l == tag {
			return true
		}
	}
	return false
}

// QueryRequest is one product lookup as issued by the caller. Exactly one
// of ProductName or ImageData must be set, matching Mode.
type QueryRequest struct {
	Mode          QueryMode `json:"mode"`
	Language      string    `json:"language"`
	ProductName   string    `json:"productName,omitempty"`
	ImageData     []byte    `json:"-"`
	ImageMIMEType string    `json:"imageMimeType,omitempty"`
}

// Validate checks the mode/payload contract before anything reaches the
// transport. A mismatch is a programmer error, reported as
// ErrContractViolation.
func (r *QueryRequest) Validate() error {
	if r == nil {
		return ErrContractViolation
	}
	if !IsSupportedLanguage(r.Language) {
		return ErrContractViolation
	}
	switch r.Mode {
	case QueryByName:
		if r.ProductName == "" || len(r.ImageData) > 0 {
			return ErrContractViolation
		}
	case QueryByImage:
		if len(r.ImageData) == 0 || r.ImageMIMEType == "" || r.ProductName != "" {
			return ErrContractViolation
		}
	default:
		return ErrContractViolation
	}
	return nil
}

// PricePoint is one normalized entry of a product's price history.
// Order within a ProductRecord is chronological as supplied by the model.
type PricePoint struct {
	Year     int     `json:"year"`
	PriceUSD float64 `json:"priceUsd"`
}

// ProductRecord is the validated, typed result of one successful retrieval.
// All string and list fields other than PriceHistory are guaranteed present
// after validation; PriceHistory may be empty.
type ProductRecord struct {
	ProductName    string       `json:"productName"`
	ParentCompany  string       `json:"parentCompany"`
	PriceHistory   []PricePoint `json:"priceHistory"`
	Ingredients    []string     `json:"ingredients"`
	Content        string       `json:"content"`
	GoodContent    []string     `json:"goodContent"`
	HarmfulContent []string     `json:"harmfulContent"`
	CustomerInfo   string       `json:"customerInfo"`
}

// DisplayPrice is a currency-converted rendering of one price point
type DisplayPrice struct {
	Year    int    `json:"year"`
	Display string `json:"display"`
}

// DerivedView holds the presentation values computed from a ProductRecord.
// It is recomputed per request and never persisted.
type DerivedView struct {
	HealthRiskPercent int            `json:"healthRiskPercent"`
	Currency          string         `json:"currency"`
	PriceHistory      []DisplayPrice `json:"priceHistory"`
}
