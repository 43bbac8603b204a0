package domain

import (
	"fmt"
	"time"
)

type TeamAction string

const (
	TeamActionCreate TeamAction = "create"
	TeamActionJoin   TeamAction = "join"
)

type Registration struct {
	ID             uint      `json:"id"`
	EventID        uint      `json:"event_id"`
	UserID         uint      `json:"user_id"`
	TeamID         *uint     `json:"team_id"`
	FormResponseID *string   `json:"form_response_id"`
	CreatedAt      time.Time `json:"created_at"`
}

type TeamMemberInput struct {
	UserID    uint
	Name      string
	Email     string
	Role      string
	AvatarURL string
}

// RegistrationInput is the participation request the engine orchestrates.
type RegistrationInput struct {
	ParticipationType ParticipationType
	TeamAction        TeamAction
	TeamName          string
	TeamCode          string
	Members           []TeamMemberInput
	FormData          map[string]any
}

// MembersAlreadyRegisteredError lists supplied team members who already hold
// a registration for the event.
type MembersAlreadyRegisteredError struct {
	UserIDs []uint
}

func (e *MembersAlreadyRegisteredError) Error() string {
	return fmt.Sprintf("members already registered for this event: %v", e.UserIDs)
}
