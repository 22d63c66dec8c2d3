package gemini

import (
	"encoding/base64"
	"fmt"

	"github.com/shelflens/backend/internal/domain"
)

// byNameTemplate asks for the structured fields of a named product.
// Placeholders: product name, language tag.
const byNameTemplate = `Give me structured details about the consumer product "%s".
Include the parent company, a mocked price history in USD with one entry per year since the product launched, 5-7 key ingredients, a short description of what the product contains, the ingredients split into beneficial and harmful ones, and a short notice a customer should read before buying.
Write every textual value in the language %s.`

// byImageTemplate asks the model to identify the product in the attached
// image first, then produce the same structured fields.
// Placeholder: language tag.
const byImageTemplate = `Identify the consumer product shown in the attached image, then give me structured details about it.
Include the parent company, a mocked price history in USD with one entry per year since the product launched, 5-7 key ingredients, a short description of what the product contains, the ingredients split into beneficial and harmful ones, and a short notice a customer should read before buying.
Write every textual value in the language %s.`

// InlineData is a base64-encoded binary attachment of a prompt
type InlineData struct {
	MIMEType string
	Data     string
}

// Part is one message part, either text or an inline attachment
type Part struct {
	Text   string
	Inline *InlineData
}

// Prompt is the fully assembled instruction payload for one request
type Prompt struct {
	Parts []Part
}

// BuildPrompt constructs the instruction text and, for image lookups, the
// attached payload for a query. Pure construction; the only failure mode
// is a mode/payload contract violation.
func BuildPrompt(req *domain.QueryRequest) (*Prompt, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	switch req.Mode {
	case domain.QueryByName:
		return &Prompt{Parts: []Part{
			{Text: fmt.Sprintf(byNameTemplate, req.ProductName, req.Language)},
		}}, nil
	case domain.QueryByImage:
		return &Prompt{Parts: []Part{
			{Text: fmt.Sprintf(byImageTemplate, req.Language)},
			{Inline: &InlineData{
				MIMEType: req.ImageMIMEType,
				Data:     base64.StdEncoding.EncodeToString(req.ImageData),
			}},
		}}, nil
	}

	return nil, domain.ErrContractViolation
}
