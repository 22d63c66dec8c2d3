package domain

// FieldKind is the coarse type a reply field must carry. The inference
// service is constrained to these shapes and the validator re-checks them,
// so the two can never drift apart.
type FieldKind string

const (
	FieldString       FieldKind = "string"
	FieldStringArray  FieldKind = "string_array"
	FieldPriceHistory FieldKind = "price_history"
)

// SchemaField describes one required field of the reply contract
type SchemaField struct {
	Name        string
	Kind        FieldKind
	Description string
}

// Reply field names as the model is instructed to emit them
const (
	FieldProductName    = "productName"
	FieldParentCompany  = "parentCompany"
	FieldPriceHistoryK  = "priceHistory"
	FieldIngredients    = "ingredients"
	FieldContent        = "content"
	FieldGoodContent    = "goodContent"
	FieldHarmfulContent = "harmfulContent"
	FieldCustomerInfo   = "customerInfo"
)

// Keys of a single price-history entry
const (
	PriceKeyYear  = "year"
	PriceKeyPrice = "price"
)

// ReplyContract is the single declaration of the reply shape. It is
// rendered into the generation constraint sent to the inference service
// and into the JSON Schema the validator enforces.
var ReplyContract = []SchemaField{
	{Name: FieldProductName, Kind: FieldString, Description: "Official product name"},
	{Name: FieldParentCompany, Kind: FieldString, Description: "Company that owns the product"},
	{Name: FieldPriceHistoryK, Kind: FieldPriceHistory, Description: "Approximate USD price per year since launch"},
	{Name: FieldIngredients, Kind: FieldStringArray, Description: "5-7 key ingredients"},
	{Name: FieldContent, Kind: FieldString, Description: "Short description of the product contents"},
	{Name: FieldGoodContent, Kind: FieldStringArray, Description: "Ingredients considered beneficial"},
	{Name: FieldHarmfulContent, Kind: FieldStringArray, Description: "Ingredients considered harmful"},
	{Name: FieldCustomerInfo, Kind: FieldString, Description: "Notice a customer should know before buying"},
}

// RequiredFields returns the names of every contract field, in order
func RequiredFields() []string {
	names := make([]string, 0, len(ReplyContract))
	for _, f := range ReplyContract {
		names = append(names, f.Name)
	}
	return names
}
