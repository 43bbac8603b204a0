package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/campushub/campus-api/internal/domain"
	"github.com/campushub/campus-api/internal/repository/dao"
)

var (
	ErrEventFull          = dao.ErrEventFull
	ErrAlreadyRegistered  = dao.ErrAlreadyRegistered
	ErrNotRegistered      = dao.ErrNotRegistered
	ErrJoinCodesExhausted = dao.ErrJoinCodesExhausted
)

type RegistrationDAO interface {
	Register(ctx context.Context, plan dao.RegistrationPlan) (*uint, error)
	Unregister(ctx context.Context, eventID, userID uint) error
	FindByEventAndUser(ctx context.Context, eventID, userID uint) (dao.Registration, error)
}

// RegisterParams is the domain-typed write set assembled by the registration
// engine; the repository translates it into a transactional dao plan.
type RegisterParams struct {
	EventID      uint
	UserID       uint
	FormResponse *domain.FormResponse
	NewTeam      *domain.Team
	Members      []domain.TeamMember
	JoinCode     string
}

type RegistrationRepository struct {
	dao RegistrationDAO
}

func NewRegistrationRepository(dao RegistrationDAO) *RegistrationRepository {
	return &RegistrationRepository{
		dao: dao,
	}
}

func (r *RegistrationRepository) Register(ctx context.Context, params RegisterParams) (*uint, error) {
	plan := dao.RegistrationPlan{
		EventID:  params.EventID,
		UserID:   params.UserID,
		JoinCode: params.JoinCode,
	}

	if params.FormResponse != nil {
		values, err := json.Marshal(params.FormResponse.Response)
		if err != nil {
			return nil, fmt.Errorf("json.Marshal -> %w", err)
		}

		plan.FormResponse = &dao.FormResponse{
			ID:       params.FormResponse.ID,
			FormID:   params.FormResponse.FormID,
			UserID:   params.FormResponse.UserID,
			Response: values,
		}
	}

	if params.NewTeam != nil {
		plan.NewTeam = &dao.Team{
			EventID:  params.NewTeam.EventID,
			Name:     params.NewTeam.Name,
			LeaderID: params.NewTeam.LeaderID,
		}

		plan.Members = make([]dao.TeamMember, len(params.Members))
		for i, m := range params.Members {
			plan.Members[i] = dao.TeamMember{
				UserID:    m.UserID,
				Name:      m.Name,
				Email:     m.Email,
				Role:      m.Role,
				AvatarURL: m.AvatarURL,
				Status:    m.Status,
			}
		}
	}

	teamID, err := r.dao.Register(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("r.dao.Register -> %w", err)
	}

	return teamID, nil
}

func (r *RegistrationRepository) Unregister(ctx context.Context, eventID, userID uint) error {
	if err := r.dao.Unregister(ctx, eventID, userID); err != nil {
		return fmt.Errorf("r.dao.Unregister -> %w", err)
	}

	return nil
}

func (r *RegistrationRepository) FindByEventAndUser(ctx context.Context, eventID, userID uint) (domain.Registration, error) {
	found, err := r.dao.FindByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("r.dao.FindByEventAndUser -> %w", err)
	}

	return domain.Registration{
		ID:             found.ID,
		EventID:        found.EventID,
		UserID:         found.UserID,
		TeamID:         found.TeamID,
		FormResponseID: found.FormResponseID,
		CreatedAt:      found.CreatedAt,
	}, nil
}
