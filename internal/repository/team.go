package repository

import (
	"context"
	"fmt"

	"github.com/campushub/campus-api/internal/domain"
	"github.com/campushub/campus-api/internal/repository/dao"
)

var (
	ErrTeamNotFound     = dao.ErrTeamNotFound
	ErrTeamCodeNotFound = dao.ErrTeamCodeNotFound
	ErrTeamNameTaken    = dao.ErrTeamNameTaken
)

type TeamDAO interface {
	FindByCode(ctx context.Context, code string, eventID uint) (dao.Team, error)
	FindByID(ctx context.Context, id uint) (dao.Team, error)
	FindMembers(ctx context.Context, teamID uint) ([]dao.TeamMember, error)
}

type TeamRepository struct {
	dao TeamDAO
}

func NewTeamRepository(dao TeamDAO) *TeamRepository {
	return &TeamRepository{
		dao: dao,
	}
}

func (r *TeamRepository) FindByCode(ctx context.Context, code string, eventID uint) (domain.Team, error) {
	found, err := r.dao.FindByCode(ctx, code, eventID)
	if err != nil {
		return domain.Team{}, fmt.Errorf("r.dao.FindByCode -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *TeamRepository) FindByID(ctx context.Context, id uint) (domain.Team, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Team{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *TeamRepository) FindMembers(ctx context.Context, teamID uint) ([]domain.TeamMember, error) {
	found, err := r.dao.FindMembers(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindMembers -> %w", err)
	}

	members := make([]domain.TeamMember, len(found))
	for i, m := range found {
		members[i] = domain.TeamMember{
			ID:        m.ID,
			TeamID:    m.TeamID,
			UserID:    m.UserID,
			Name:      m.Name,
			Email:     m.Email,
			Role:      m.Role,
			AvatarURL: m.AvatarURL,
			Status:    m.Status,
		}
	}

	return members, nil
}

func (r *TeamRepository) daoToDomain(t dao.Team) domain.Team {
	return domain.Team{
		ID:        t.ID,
		EventID:   t.EventID,
		Name:      t.Name,
		Code:      t.Code,
		LeaderID:  t.LeaderID,
		CreatedAt: t.CreatedAt,
	}
}
