package domain

import (
	"crypto/rand"
	"fmt"
	"time"
)

const (
	// Defaults applied when an event does not set its own team size bounds.
	DefaultMinTeamSize = 1
	DefaultMaxTeamSize = 5

	JoinCodeLength = 6

	MemberStatusPending = "pending"
)

const joinCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

type Team struct {
	ID        uint      `json:"id"`
	EventID   uint      `json:"event_id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	LeaderID  uint      `json:"leader_id"`
	CreatedAt time.Time `json:"created_at"`
}

type TeamMember struct {
	ID        uint   `json:"id"`
	TeamID    uint   `json:"team_id"`
	UserID    uint   `json:"user_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Status    string `json:"status"`
}

// TeamSizeError reports a leader-inclusive team size outside the event's bounds.
type TeamSizeError struct {
	Total int
	Min   int
	Max   int
}

func (e *TeamSizeError) Error() string {
	return fmt.Sprintf("team must have between %d and %d members, got %d", e.Min, e.Max, e.Total)
}

// ValidateTeamSize checks a leader-inclusive member count against the event's
// bounds, falling back to the defaults when a bound is unset (zero).
func ValidateTeamSize(total, min, max int) error {
	if min <= 0 {
		min = DefaultMinTeamSize
	}
	if max <= 0 {
		max = DefaultMaxTeamSize
	}

	if total < min || total > max {
		return &TeamSizeError{Total: total, Min: min, Max: max}
	}

	return nil
}

// NewJoinCode returns a 6-character uppercase alphanumeric team code.
// Uniqueness is enforced by the database; callers regenerate on conflict.
func NewJoinCode() string {
	buf := make([]byte, JoinCodeLength)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("crypto/rand is unavailable: %v", err))
	}

	for i, b := range buf {
		buf[i] = joinCodeAlphabet[int(b)%len(joinCodeAlphabet)]
	}

	return string(buf)
}
