package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/campushub/campus-api/internal/domain"
	"github.com/campushub/campus-api/internal/repository"
)

var (
	ErrEventFull          = repository.ErrEventFull
	ErrAlreadyRegistered  = repository.ErrAlreadyRegistered
	ErrNotRegistered      = repository.ErrNotRegistered
	ErrTeamCodeNotFound   = repository.ErrTeamCodeNotFound
	ErrTeamNameTaken      = repository.ErrTeamNameTaken
	ErrJoinCodesExhausted = repository.ErrJoinCodesExhausted

	ErrInvalidInput = errors.New("invalid registration input")
)

type RegistrationRepository interface {
	Register(ctx context.Context, params repository.RegisterParams) (*uint, error)
	Unregister(ctx context.Context, eventID, userID uint) error
	FindByEventAndUser(ctx context.Context, eventID, userID uint) (domain.Registration, error)
}

type RegistrationTeamRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Team, error)
	FindMembers(ctx context.Context, teamID uint) ([]domain.TeamMember, error)
}

type RegistrationUserRepository interface {
	FindByIDs(ctx context.Context, ids []uint) ([]domain.User, error)
}

// RegistrationService drives the whole registration flow: input checks, form
// response staging, team composition, then the single transactional write.
type RegistrationService struct {
	repo   RegistrationRepository
	events EventRepository
	forms  FormRepository
	teams  RegistrationTeamRepository
	users  RegistrationUserRepository
}

func NewRegistrationService(
	repo RegistrationRepository,
	events EventRepository,
	forms FormRepository,
	teams RegistrationTeamRepository,
	users RegistrationUserRepository,
) *RegistrationService {
	return &RegistrationService{
		repo:   repo,
		events: events,
		forms:  forms,
		teams:  teams,
		users:  users,
	}
}

// Register registers a user for an event, solo or as part of a team, and
// returns the bound team id (nil for solo).
func (s *RegistrationService) Register(ctx context.Context, eventID, userID uint, input domain.RegistrationInput) (*uint, error) {
	if input.ParticipationType != domain.ParticipationSolo && input.ParticipationType != domain.ParticipationTeam {
		return nil, fmt.Errorf("participation type must be solo or team: %w", ErrInvalidInput)
	}

	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.events.FindByID -> %w", err)
	}

	if !event.Accepts(input.ParticipationType) {
		return nil, fmt.Errorf("event does not accept %v registrations: %w", input.ParticipationType, ErrInvalidInput)
	}

	params := repository.RegisterParams{
		EventID: eventID,
		UserID:  userID,
	}

	if input.FormData != nil {
		formResponse, err := s.stageFormResponse(ctx, eventID, userID, input.FormData)
		if err != nil {
			return nil, err
		}
		params.FormResponse = formResponse
	}

	if input.ParticipationType == domain.ParticipationTeam {
		if err := s.applyTeamInput(event, userID, input, &params); err != nil {
			return nil, err
		}

		if err := s.assertMembersExist(ctx, params.Members); err != nil {
			return nil, err
		}
	}

	teamID, err := s.repo.Register(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("s.repo.Register -> %w", err)
	}

	return teamID, nil
}

// stageFormResponse validates submitted answers against the event's schema
// and builds the response row. Answers for an event without a schema are
// accepted and dropped.
func (s *RegistrationService) stageFormResponse(ctx context.Context, eventID, userID uint, formData map[string]any) (*domain.FormResponse, error) {
	schema, err := s.forms.FindSchemaByEventID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrFormSchemaNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("s.forms.FindSchemaByEventID -> %w", err)
	}

	if err := schema.ValidateResponse(formData); err != nil {
		return nil, err
	}

	return &domain.FormResponse{
		ID:       uuid.NewString(),
		FormID:   schema.ID,
		UserID:   userID,
		Response: formData,
	}, nil
}

func (s *RegistrationService) applyTeamInput(event domain.Event, userID uint, input domain.RegistrationInput, params *repository.RegisterParams) error {
	switch input.TeamAction {
	case domain.TeamActionCreate:
		name := strings.TrimSpace(input.TeamName)
		if name == "" {
			return fmt.Errorf("team name is required: %w", ErrInvalidInput)
		}

		// The leader counts towards the team size.
		total := len(input.Members) + 1
		if err := domain.ValidateTeamSize(total, event.MinTeamSize, event.MaxTeamSize); err != nil {
			return err
		}

		members := make([]domain.TeamMember, len(input.Members))
		for i, m := range input.Members {
			if m.UserID == 0 {
				return fmt.Errorf("every team member must be a registered user: %w", ErrInvalidInput)
			}

			members[i] = domain.TeamMember{
				UserID:    m.UserID,
				Name:      m.Name,
				Email:     m.Email,
				Role:      m.Role,
				AvatarURL: m.AvatarURL,
				Status:    domain.MemberStatusPending,
			}
		}

		params.NewTeam = &domain.Team{
			EventID:  event.ID,
			Name:     name,
			LeaderID: userID,
		}
		params.Members = members

	case domain.TeamActionJoin:
		code := strings.ToUpper(strings.TrimSpace(input.TeamCode))
		if code == "" {
			return fmt.Errorf("team code is required: %w", ErrInvalidInput)
		}

		params.JoinCode = code

	default:
		return fmt.Errorf("team action must be create or join: %w", ErrInvalidInput)
	}

	return nil
}

// assertMembersExist checks every declared team member against the user store.
func (s *RegistrationService) assertMembersExist(ctx context.Context, members []domain.TeamMember) error {
	if len(members) == 0 {
		return nil
	}

	seen := make(map[uint]bool, len(members))
	ids := make([]uint, 0, len(members))
	for _, m := range members {
		if !seen[m.UserID] {
			seen[m.UserID] = true
			ids = append(ids, m.UserID)
		}
	}

	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("s.users.FindByIDs -> %w", err)
	}

	if len(users) != len(ids) {
		return fmt.Errorf("every team member must be a registered user: %w", ErrInvalidInput)
	}

	return nil
}

// Unregister removes the caller's registration. A team leader's departure
// deletes the team and its members; a plain member only leaves the roster.
func (s *RegistrationService) Unregister(ctx context.Context, eventID, userID uint) error {
	if err := s.repo.Unregister(ctx, eventID, userID); err != nil {
		return fmt.Errorf("s.repo.Unregister -> %w", err)
	}

	return nil
}

// RegistrationDetail is a caller's registration with its team and form
// context, if any.
type RegistrationDetail struct {
	Registration domain.Registration  `json:"registration"`
	Team         *domain.Team         `json:"team,omitempty"`
	Members      []domain.TeamMember  `json:"members,omitempty"`
	FormResponse *domain.FormResponse `json:"form_response,omitempty"`
}

func (s *RegistrationService) GetRegistration(ctx context.Context, eventID, userID uint) (RegistrationDetail, error) {
	registration, err := s.repo.FindByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return RegistrationDetail{}, fmt.Errorf("s.repo.FindByEventAndUser -> %w", err)
	}

	detail := RegistrationDetail{Registration: registration}

	if registration.TeamID != nil {
		team, err := s.teams.FindByID(ctx, *registration.TeamID)
		if err != nil {
			return RegistrationDetail{}, fmt.Errorf("s.teams.FindByID -> %w", err)
		}
		detail.Team = &team

		members, err := s.teams.FindMembers(ctx, team.ID)
		if err != nil {
			return RegistrationDetail{}, fmt.Errorf("s.teams.FindMembers -> %w", err)
		}
		detail.Members = members
	}

	if registration.FormResponseID != nil {
		formResponse, err := s.forms.FindResponseByID(ctx, *registration.FormResponseID)
		if err != nil {
			return RegistrationDetail{}, fmt.Errorf("s.forms.FindResponseByID -> %w", err)
		}
		detail.FormResponse = &formResponse
	}

	return detail, nil
}
