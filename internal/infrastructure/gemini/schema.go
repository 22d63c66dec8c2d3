package gemini

import "github.com/shelflens/backend/internal/domain"

// Schema mirrors the generation-constraint schema format accepted by the
// generateContent API. Type names are upper-case per that API.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// ResponseSchema renders the shared reply contract into the constraint
// attached to every request, so the service is instructed to emit exactly
// the shape the validator will later enforce.
func ResponseSchema() *Schema {
	props := make(map[string]*Schema, len(domain.ReplyContract))
	for _, f := range domain.ReplyContract {
		props[f.Name] = fieldSchema(f)
	}

	return &Schema{
		Type:       "OBJECT",
		Properties: props,
		Required:   domain.RequiredFields(),
	}
}

func fieldSchema(f domain.SchemaField) *Schema {
	switch f.Kind {
	case domain.FieldStringArray:
		return &Schema{
			Type:        "ARRAY",
			Description: f.Description,
			Items:       &Schema{Type: "STRING"},
		}
	case domain.FieldPriceHistory:
		return &Schema{
			Type:        "ARRAY",
			Description: f.Description,
			Items: &Schema{
				Type: "OBJECT",
				Properties: map[string]*Schema{
					domain.PriceKeyYear:  {Type: "INTEGER"},
					domain.PriceKeyPrice: {Type: "STRING"},
				},
				Required: []string{domain.PriceKeyYear, domain.PriceKeyPrice},
			},
		}
	default:
		return &Schema{Type: "STRING", Description: f.Description}
	}
}
