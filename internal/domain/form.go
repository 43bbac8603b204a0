package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
	FieldNumber   FieldType = "number"
	FieldDate     FieldType = "date"
	FieldDropdown FieldType = "dropdown"
	FieldFile     FieldType = "file"
)

func (ft FieldType) IsValid() bool {
	switch ft {
	case FieldText, FieldTextarea, FieldNumber, FieldDate, FieldDropdown, FieldFile:
		return true
	}

	return false
}

var (
	ErrSchemaInvalid = errors.New("form schema is invalid")
	ErrFormInvalid   = errors.New("form response is invalid")
)

type FormField struct {
	ID          string    `json:"id"`
	Type        FieldType `json:"type"`
	Label       string    `json:"label"`
	Required    bool      `json:"required"`
	Options     []string  `json:"options,omitempty"`
	Description string    `json:"description,omitempty"`
}

type FormSchema struct {
	ID      uint        `json:"id"`
	EventID uint        `json:"event_id"`
	Fields  []FormField `json:"fields"`
}

// FormResponse holds one user's answers to an event's registration form,
// keyed by field id. Values arrive as decoded JSON (string, float64 or nil).
type FormResponse struct {
	ID       string         `json:"id"`
	FormID   uint           `json:"form_id"`
	UserID   uint           `json:"user_id"`
	Response map[string]any `json:"response"`
}

// Validate checks the schema's own integrity: field ids must be unique and
// non-empty, field types known, and options present exactly for dropdowns.
func (s FormSchema) Validate() error {
	seen := make(map[string]bool, len(s.Fields))

	for _, f := range s.Fields {
		if f.ID == "" {
			return fmt.Errorf("field %q has no id: %w", f.Label, ErrSchemaInvalid)
		}
		if seen[f.ID] {
			return fmt.Errorf("duplicate field id %q: %w", f.ID, ErrSchemaInvalid)
		}
		seen[f.ID] = true

		if !f.Type.IsValid() {
			return fmt.Errorf("field %q has unknown type %q: %w", f.ID, f.Type, ErrSchemaInvalid)
		}
		if f.Label == "" {
			return fmt.Errorf("field %q has no label: %w", f.ID, ErrSchemaInvalid)
		}

		if f.Type == FieldDropdown && len(f.Options) == 0 {
			return fmt.Errorf("dropdown field %q has no options: %w", f.ID, ErrSchemaInvalid)
		}
		if f.Type != FieldDropdown && len(f.Options) > 0 {
			return fmt.Errorf("field %q carries options but is not a dropdown: %w", f.ID, ErrSchemaInvalid)
		}
	}

	return nil
}

// ValidateResponse checks a submitted answer set against the schema. Keys not
// declared by the schema are ignored.
func (s FormSchema) ValidateResponse(resp map[string]any) error {
	for _, f := range s.Fields {
		v, ok := resp[f.ID]
		if !ok || v == nil {
			if f.Required {
				return fmt.Errorf("field %q is required: %w", f.Label, ErrFormInvalid)
			}

			continue
		}

		if err := f.validateValue(v); err != nil {
			return err
		}
	}

	return nil
}

func (f FormField) validateValue(v any) error {
	switch f.Type {
	case FieldNumber:
		if _, ok := v.(float64); !ok {
			return fmt.Errorf("field %q must be a number: %w", f.Label, ErrFormInvalid)
		}

	case FieldDate:
		str, ok := v.(string)
		if !ok {
			return fmt.Errorf("field %q must be a date string: %w", f.Label, ErrFormInvalid)
		}
		if _, err := time.Parse("2006-01-02", str); err != nil {
			return fmt.Errorf("field %q must be a YYYY-MM-DD date: %w", f.Label, ErrFormInvalid)
		}

	case FieldDropdown:
		str, ok := v.(string)
		if !ok {
			return fmt.Errorf("field %q must be a string: %w", f.Label, ErrFormInvalid)
		}
		found := false
		for _, opt := range f.Options {
			if opt == str {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("field %q must be one of its options: %w", f.Label, ErrFormInvalid)
		}
		if f.Required && str == "" {
			return fmt.Errorf("field %q is required: %w", f.Label, ErrFormInvalid)
		}

	default: // text, textarea, file
		str, ok := v.(string)
		if !ok {
			return fmt.Errorf("field %q must be a string: %w", f.Label, ErrFormInvalid)
		}
		if f.Required && strings.TrimSpace(str) == "" {
			return fmt.Errorf("field %q is required: %w", f.Label, ErrFormInvalid)
		}
	}

	return nil
}
