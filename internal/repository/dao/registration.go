package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/campushub/campus-api/internal/domain"
)

var (
	ErrEventFull            = errors.New("event is full")
	ErrAlreadyRegistered    = errors.New("already registered for this event")
	ErrNotRegistered        = errors.New("not registered")
	ErrJoinCodesExhausted   = errors.New("could not generate a unique team code")
	ErrUnregisterFailed     = errors.New("failed to unregister")
	ErrRegistrationConflict = errors.New("registration conflict")
)

const joinCodeAttempts = 5

type Registration struct {
	ID uint `gorm:"primaryKey"`

	EventID        uint `gorm:"not null;uniqueIndex:idx_registrations_event_user"`
	UserID         uint `gorm:"not null;uniqueIndex:idx_registrations_event_user"`
	TeamID         *uint
	FormResponseID *string

	CreatedAt time.Time `gorm:"not null"`
}

// RegistrationPlan is the full write set of one registration attempt,
// assembled by the service and executed atomically here. Exactly one of
// NewTeam and JoinCode may be set; both empty means a solo registration.
type RegistrationPlan struct {
	EventID      uint
	UserID       uint
	FormResponse *FormResponse
	NewTeam      *Team
	Members      []TeamMember
	JoinCode     string
}

type RegistrationDAO struct {
	db *gorm.DB
}

func NewRegistrationDAO(db *gorm.DB) *RegistrationDAO {
	return &RegistrationDAO{
		db: db,
	}
}

// Register performs the whole registration write set in one transaction:
// capacity-gated counter increment, optional form response, optional team
// creation or join, then the registration row itself. Any failure rolls the
// whole set back.
func (d *RegistrationDAO) Register(ctx context.Context, plan RegistrationPlan) (*uint, error) {
	var teamID *uint

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The condition makes the increment double as the capacity gate, so two
		// concurrent registrants cannot both take the last slot.
		result := tx.Model(&Event{}).
			Where("id = ? AND (capacity IS NULL OR participants_count < capacity)", plan.EventID).
			UpdateColumn("participants_count", gorm.Expr("participants_count + 1"))
		if result.Error != nil {
			return fmt.Errorf("increment participants_count -> %w", result.Error)
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&Event{}).Where("id = ?", plan.EventID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrEventNotFound
			}

			return ErrEventFull
		}

		if plan.FormResponse != nil {
			if err := tx.Create(plan.FormResponse).Error; err != nil {
				return fmt.Errorf("insert form response -> %w", err)
			}
		}

		switch {
		case plan.NewTeam != nil:
			if err := d.assertMembersUnregistered(tx, plan.EventID, plan.Members); err != nil {
				return err
			}

			if err := d.insertTeam(tx, plan.NewTeam); err != nil {
				return err
			}

			for i := range plan.Members {
				plan.Members[i].TeamID = plan.NewTeam.ID
			}
			if len(plan.Members) > 0 {
				if err := tx.Create(&plan.Members).Error; err != nil {
					return fmt.Errorf("insert team members -> %w", err)
				}
			}

			teamID = &plan.NewTeam.ID

		case plan.JoinCode != "":
			var team Team
			result := tx.First(&team, "code = ? AND event_id = ?", plan.JoinCode, plan.EventID)
			if result.Error != nil {
				if errors.Is(result.Error, gorm.ErrRecordNotFound) {
					return ErrTeamCodeNotFound
				}

				return result.Error
			}

			teamID = &team.ID
		}

		registration := Registration{
			EventID: plan.EventID,
			UserID:  plan.UserID,
			TeamID:  teamID,
		}
		if plan.FormResponse != nil {
			registration.FormResponseID = &plan.FormResponse.ID
		}

		if err := tx.Create(&registration).Error; err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) &&
				pgErr.Code == pgerrcode.UniqueViolation &&
				pgErr.ConstraintName == "idx_registrations_event_user" {
				return ErrAlreadyRegistered
			}

			return fmt.Errorf("insert registration -> %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return teamID, nil
}

// assertMembersUnregistered rejects team creation when any supplied member
// already holds a registration for the event.
func (d *RegistrationDAO) assertMembersUnregistered(tx *gorm.DB, eventID uint, members []TeamMember) error {
	if len(members) == 0 {
		return nil
	}

	ids := make([]uint, len(members))
	for i, m := range members {
		ids[i] = m.UserID
	}

	var taken []uint
	err := tx.Model(&Registration{}).
		Where("event_id = ? AND user_id IN ?", eventID, ids).
		Pluck("user_id", &taken).Error
	if err != nil {
		return fmt.Errorf("check member registrations -> %w", err)
	}

	if len(taken) > 0 {
		return &domain.MembersAlreadyRegisteredError{UserIDs: taken}
	}

	return nil
}

// insertTeam creates the team, regenerating the join code on a collision.
// Each attempt runs in a savepoint so a failed insert does not poison the
// surrounding transaction.
func (d *RegistrationDAO) insertTeam(tx *gorm.DB, team *Team) error {
	for attempt := 0; attempt < joinCodeAttempts; attempt++ {
		team.Code = domain.NewJoinCode()

		err := tx.Transaction(func(inner *gorm.DB) error {
			return inner.Create(team).Error
		})
		if err == nil {
			return nil
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			switch pgErr.ConstraintName {
			case "idx_teams_code":
				team.ID = 0
				continue
			case "idx_teams_event_name":
				return ErrTeamNameTaken
			}
		}

		return fmt.Errorf("insert team -> %w", err)
	}

	return ErrJoinCodesExhausted
}

// Unregister reverses a registration in one transaction. A leader takes the
// whole team down with them; a plain member only removes their own row.
func (d *RegistrationDAO) Unregister(ctx context.Context, eventID, userID uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var registration Registration
		result := tx.First(&registration, "event_id = ? AND user_id = ?", eventID, userID)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return ErrNotRegistered
			}

			return result.Error
		}

		if registration.TeamID != nil {
			var team Team
			if err := tx.First(&team, *registration.TeamID).Error; err != nil {
				return fmt.Errorf("load team -> %w", err)
			}

			if team.LeaderID == userID {
				if err := tx.Where("team_id = ?", team.ID).Delete(&TeamMember{}).Error; err != nil {
					return fmt.Errorf("delete team members -> %w", err)
				}
				if err := tx.Delete(&team).Error; err != nil {
					return fmt.Errorf("delete team -> %w", err)
				}
			} else {
				err := tx.Where("team_id = ? AND user_id = ?", team.ID, userID).Delete(&TeamMember{}).Error
				if err != nil {
					return fmt.Errorf("delete team member -> %w", err)
				}
			}
		}

		if err := tx.Delete(&Registration{}, registration.ID).Error; err != nil {
			return fmt.Errorf("delete registration -> %w", err)
		}

		err := tx.Model(&Event{}).
			Where("id = ? AND participants_count > 0", eventID).
			UpdateColumn("participants_count", gorm.Expr("participants_count - 1")).Error
		if err != nil {
			return fmt.Errorf("decrement participants_count -> %w", err)
		}

		return nil
	})
}

func (d *RegistrationDAO) FindByEventAndUser(ctx context.Context, eventID, userID uint) (Registration, error) {
	var registration Registration

	result := d.db.WithContext(ctx).First(&registration, "event_id = ? AND user_id = ?", eventID, userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Registration{}, ErrNotRegistered
		}

		return Registration{}, result.Error
	}

	return registration, nil
}
