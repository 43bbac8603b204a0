package service

import (
	"context"
	"fmt"

	"github.com/campushub/campus-api/internal/domain"
	"github.com/campushub/campus-api/internal/repository"
)

var ErrFormSchemaNotFound = repository.ErrFormSchemaNotFound

type FormRepository interface {
	ReplaceSchema(ctx context.Context, schema domain.FormSchema) (domain.FormSchema, error)
	FindSchemaByEventID(ctx context.Context, eventID uint) (domain.FormSchema, error)
	FindResponseByID(ctx context.Context, id string) (domain.FormResponse, error)
}

type FormService struct {
	repo   FormRepository
	events EventRepository
}

func NewFormService(repo FormRepository, events EventRepository) *FormService {
	return &FormService{
		repo:   repo,
		events: events,
	}
}

// ReplaceSchema swaps an event's registration form wholesale. Only the
// event's organizer may do this.
func (s *FormService) ReplaceSchema(ctx context.Context, eventID, callerID uint, fields []domain.FormField) (domain.FormSchema, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return domain.FormSchema{}, fmt.Errorf("s.events.FindByID -> %w", err)
	}

	if event.OrganizerID != callerID {
		return domain.FormSchema{}, ErrNotOrganizer
	}

	schema := domain.FormSchema{
		EventID: eventID,
		Fields:  fields,
	}
	if err := schema.Validate(); err != nil {
		return domain.FormSchema{}, err
	}

	saved, err := s.repo.ReplaceSchema(ctx, schema)
	if err != nil {
		return domain.FormSchema{}, fmt.Errorf("s.repo.ReplaceSchema -> %w", err)
	}

	return saved, nil
}

func (s *FormService) GetSchema(ctx context.Context, eventID uint) (domain.FormSchema, error) {
	schema, err := s.repo.FindSchemaByEventID(ctx, eventID)
	if err != nil {
		return domain.FormSchema{}, fmt.Errorf("s.repo.FindSchemaByEventID -> %w", err)
	}

	return schema, nil
}
