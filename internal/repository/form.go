package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/campushub/campus-api/internal/domain"
	"github.com/campushub/campus-api/internal/repository/dao"
)

var ErrFormSchemaNotFound = dao.ErrFormSchemaNotFound

type FormDAO interface {
	UpsertSchema(ctx context.Context, schema dao.FormSchema) (dao.FormSchema, error)
	FindSchemaByEventID(ctx context.Context, eventID uint) (dao.FormSchema, error)
	FindResponseByID(ctx context.Context, id string) (dao.FormResponse, error)
}

type FormRepository struct {
	dao FormDAO
}

func NewFormRepository(dao FormDAO) *FormRepository {
	return &FormRepository{
		dao: dao,
	}
}

// ReplaceSchema stores an event's form schema, overwriting any previous one.
func (r *FormRepository) ReplaceSchema(ctx context.Context, schema domain.FormSchema) (domain.FormSchema, error) {
	fields, err := json.Marshal(schema.Fields)
	if err != nil {
		return domain.FormSchema{}, fmt.Errorf("json.Marshal -> %w", err)
	}

	saved, err := r.dao.UpsertSchema(ctx, dao.FormSchema{
		EventID: schema.EventID,
		Fields:  fields,
	})
	if err != nil {
		return domain.FormSchema{}, fmt.Errorf("r.dao.UpsertSchema -> %w", err)
	}

	return r.schemaDaoToDomain(saved)
}

func (r *FormRepository) FindSchemaByEventID(ctx context.Context, eventID uint) (domain.FormSchema, error) {
	found, err := r.dao.FindSchemaByEventID(ctx, eventID)
	if err != nil {
		return domain.FormSchema{}, fmt.Errorf("r.dao.FindSchemaByEventID -> %w", err)
	}

	return r.schemaDaoToDomain(found)
}

func (r *FormRepository) FindResponseByID(ctx context.Context, id string) (domain.FormResponse, error) {
	found, err := r.dao.FindResponseByID(ctx, id)
	if err != nil {
		return domain.FormResponse{}, fmt.Errorf("r.dao.FindResponseByID -> %w", err)
	}

	var values map[string]any
	if err := json.Unmarshal(found.Response, &values); err != nil {
		return domain.FormResponse{}, fmt.Errorf("json.Unmarshal -> %w", err)
	}

	return domain.FormResponse{
		ID:       found.ID,
		FormID:   found.FormID,
		UserID:   found.UserID,
		Response: values,
	}, nil
}

func (r *FormRepository) schemaDaoToDomain(s dao.FormSchema) (domain.FormSchema, error) {
	var fields []domain.FormField
	if err := json.Unmarshal(s.Fields, &fields); err != nil {
		return domain.FormSchema{}, fmt.Errorf("json.Unmarshal -> %w", err)
	}

	return domain.FormSchema{
		ID:      s.ID,
		EventID: s.EventID,
		Fields:  fields,
	}, nil
}
