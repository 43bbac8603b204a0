package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type FormFieldInput struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Label       string   `json:"label"`
	Required    bool     `json:"required"`
	Options     []string `json:"options,omitempty"`
	Description string   `json:"description,omitempty"`
}

type ReplaceFormSchemaRequest struct {
	Fields []FormFieldInput `json:"fields"`
}

// Validate checks the request envelope; field-level integrity (unique ids,
// dropdown options and so on) is the schema's own concern.
func (req *ReplaceFormSchemaRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Fields, validation.Required, validation.Length(1, 50)),
	)
}
