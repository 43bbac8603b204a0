package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamCodeNotFound = errors.New("invalid team code")
	ErrTeamNameTaken    = errors.New("team name already taken for this event")
)

type Team struct {
	ID uint `gorm:"primaryKey"`

	EventID  uint   `gorm:"not null;index;uniqueIndex:idx_teams_event_name"`
	Name     string `gorm:"not null;uniqueIndex:idx_teams_event_name"`
	Code     string `gorm:"not null;uniqueIndex:idx_teams_code"`
	LeaderID uint   `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
}

type TeamMember struct {
	ID uint `gorm:"primaryKey"`

	TeamID    uint   `gorm:"not null;index"`
	UserID    uint   `gorm:"not null"`
	Name      string `gorm:"not null"`
	Email     string `gorm:"not null"`
	Role      string
	AvatarURL string
	Status    string `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
}

type TeamDAO struct {
	db *gorm.DB
}

func NewTeamDAO(db *gorm.DB) *TeamDAO {
	return &TeamDAO{
		db: db,
	}
}

// FindByCode looks a team up by join code, scoped to an event. A code from
// another event is treated as unknown even if the string matches.
func (d *TeamDAO) FindByCode(ctx context.Context, code string, eventID uint) (Team, error) {
	var team Team

	result := d.db.WithContext(ctx).First(&team, "code = ? AND event_id = ?", code, eventID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Team{}, ErrTeamCodeNotFound
		}

		return Team{}, result.Error
	}

	return team, nil
}

func (d *TeamDAO) FindByID(ctx context.Context, id uint) (Team, error) {
	var team Team

	result := d.db.WithContext(ctx).First(&team, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Team{}, ErrTeamNotFound
		}

		return Team{}, result.Error
	}

	return team, nil
}

func (d *TeamDAO) FindMembers(ctx context.Context, teamID uint) ([]TeamMember, error) {
	var members []TeamMember

	result := d.db.WithContext(ctx).Where("team_id = ?", teamID).Order("id").Find(&members)
	if result.Error != nil {
		return nil, result.Error
	}

	return members, nil
}
