package domain

import "time"

type ParticipationType string

const (
	ParticipationSolo ParticipationType = "solo"
	ParticipationTeam ParticipationType = "team"
	ParticipationBoth ParticipationType = "both"
)

func (pt ParticipationType) IsValid() bool {
	return pt == ParticipationSolo || pt == ParticipationTeam || pt == ParticipationBoth
}

type Event struct {
	ID                uint              `json:"id"`
	Title             string            `json:"title"`
	Description       string            `json:"description"`
	Capacity          *int              `json:"capacity"`
	ParticipantsCount int               `json:"participants_count"`
	ParticipationType ParticipationType `json:"participation_type"`
	MinTeamSize       int               `json:"min_team_size"`
	MaxTeamSize       int               `json:"max_team_size"`
	OrganizerID       uint              `json:"organizer_id"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// Accepts reports whether the event allows the requested kind of registration.
func (e Event) Accepts(pt ParticipationType) bool {
	if e.ParticipationType == ParticipationBoth {
		return pt == ParticipationSolo || pt == ParticipationTeam
	}

	return e.ParticipationType == pt
}

// IsFull reports whether the event has reached its capacity.
// Events without a capacity are never full.
func (e Event) IsFull() bool {
	return e.Capacity != nil && e.ParticipantsCount >= *e.Capacity
}
