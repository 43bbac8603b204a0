package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormSchema_Validate(t *testing.T) {
	tests := []struct {
		name    string
		fields  []FormField
		wantErr bool
	}{
		{
			name: "valid mixed schema",
			fields: []FormField{
				{ID: "name", Type: FieldText, Label: "Full name", Required: true},
				{ID: "dob", Type: FieldDate, Label: "Date of birth"},
				{ID: "shirt", Type: FieldDropdown, Label: "Shirt size", Options: []string{"S", "M", "L"}},
			},
		},
		{name: "empty schema is valid", fields: nil},
		{
			name: "missing field id",
			fields: []FormField{
				{ID: "", Type: FieldText, Label: "Name"},
			},
			wantErr: true,
		},
		{
			name: "duplicate field id",
			fields: []FormField{
				{ID: "name", Type: FieldText, Label: "Name"},
				{ID: "name", Type: FieldText, Label: "Name again"},
			},
			wantErr: true,
		},
		{
			name: "unknown field type",
			fields: []FormField{
				{ID: "x", Type: "checkbox", Label: "X"},
			},
			wantErr: true,
		},
		{
			name: "missing label",
			fields: []FormField{
				{ID: "x", Type: FieldText},
			},
			wantErr: true,
		},
		{
			name: "dropdown without options",
			fields: []FormField{
				{ID: "shirt", Type: FieldDropdown, Label: "Shirt size"},
			},
			wantErr: true,
		},
		{
			name: "options on a non-dropdown",
			fields: []FormField{
				{ID: "name", Type: FieldText, Label: "Name", Options: []string{"a"}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FormSchema{Fields: tt.fields}.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrSchemaInvalid))
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestFormSchema_ValidateResponse(t *testing.T) {
	schema := FormSchema{
		Fields: []FormField{
			{ID: "name", Type: FieldText, Label: "Full name", Required: true},
			{ID: "age", Type: FieldNumber, Label: "Age"},
			{ID: "dob", Type: FieldDate, Label: "Date of birth"},
			{ID: "shirt", Type: FieldDropdown, Label: "Shirt size", Options: []string{"S", "M", "L"}},
			{ID: "bio", Type: FieldTextarea, Label: "Bio"},
		},
	}

	tests := []struct {
		name    string
		resp    map[string]any
		wantErr bool
	}{
		{
			name: "complete valid response",
			resp: map[string]any{
				"name":  "Ada Lovelace",
				"age":   float64(28),
				"dob":   "1997-12-10",
				"shirt": "M",
				"bio":   "first year",
			},
		},
		{
			name: "optional fields omitted",
			resp: map[string]any{"name": "Ada"},
		},
		{
			name:    "required field missing",
			resp:    map[string]any{"age": float64(20)},
			wantErr: true,
		},
		{
			name:    "required field nil",
			resp:    map[string]any{"name": nil},
			wantErr: true,
		},
		{
			name:    "required field blank",
			resp:    map[string]any{"name": "   "},
			wantErr: true,
		},
		{
			name:    "number as string",
			resp:    map[string]any{"name": "Ada", "age": "28"},
			wantErr: true,
		},
		{
			name:    "malformed date",
			resp:    map[string]any{"name": "Ada", "dob": "12/10/1997"},
			wantErr: true,
		},
		{
			name:    "dropdown value outside options",
			resp:    map[string]any{"name": "Ada", "shirt": "XXL"},
			wantErr: true,
		},
		{
			name: "unknown keys are ignored",
			resp: map[string]any{"name": "Ada", "nickname": "countess"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := schema.ValidateResponse(tt.resp)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrFormInvalid))
				return
			}

			require.NoError(t, err)
		})
	}
}
