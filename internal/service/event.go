package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/campushub/campus-api/internal/domain"
	"github.com/campushub/campus-api/internal/repository"
)

var (
	ErrEventNotFound = repository.ErrEventNotFound
	ErrNotOrganizer  = errors.New("only the event organizer may do this")
)

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	FindByID(ctx context.Context, id uint) (domain.Event, error)
	FindAll(ctx context.Context) ([]domain.Event, error)
}

type EventService struct {
	repo EventRepository
}

func NewEventService(repo EventRepository) *EventService {
	return &EventService{
		repo: repo,
	}
}

func (s *EventService) CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error) {
	event.Title = strings.TrimSpace(event.Title)
	if event.Title == "" {
		return domain.Event{}, fmt.Errorf("event title is required: %w", ErrInvalidInput)
	}

	if !event.ParticipationType.IsValid() {
		return domain.Event{}, fmt.Errorf("participation type must be solo, team or both: %w", ErrInvalidInput)
	}

	if event.Capacity != nil && *event.Capacity <= 0 {
		return domain.Event{}, fmt.Errorf("capacity must be positive: %w", ErrInvalidInput)
	}

	if event.MinTeamSize < 0 || event.MaxTeamSize < 0 {
		return domain.Event{}, fmt.Errorf("team size bounds must not be negative: %w", ErrInvalidInput)
	}
	if event.MinTeamSize > 0 && event.MaxTeamSize > 0 && event.MinTeamSize > event.MaxTeamSize {
		return domain.Event{}, fmt.Errorf("min team size exceeds max team size: %w", ErrInvalidInput)
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *EventService) GetEvent(ctx context.Context, id uint) (domain.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return event, nil
}

func (s *EventService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	events, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return events, nil
}
