package request

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type TeamMemberInput struct {
	UserID    uint   `json:"userId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatar_url"`
}

// RegisterRequest is the participation payload submitted by the registration
// wizard. Team fields only apply when participationType is "team".
type RegisterRequest struct {
	ParticipationType string            `json:"participationType"`
	TeamAction        string            `json:"teamAction"`
	TeamName          string            `json:"teamName"`
	TeamCode          string            `json:"teamCode"`
	Members           []TeamMemberInput `json:"members"`
	FormData          map[string]any    `json:"formData"`
}

func (req *RegisterRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.ParticipationType, validation.Required, validation.In("solo", "team")),
		validation.Field(&req.TeamAction, validation.In("create", "join")),
		validation.Field(&req.Members, validation.Each(validation.By(validateTeamMember))),
	)
	if err != nil {
		return err
	}

	if req.ParticipationType == "team" && req.TeamAction == "" {
		return fmt.Errorf("teamAction is required for team registrations")
	}

	return nil
}

func validateTeamMember(value interface{}) error {
	member, ok := value.(TeamMemberInput)
	if !ok {
		return fmt.Errorf("invalid team member")
	}

	return validation.ValidateStruct(&member,
		validation.Field(&member.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&member.Email, validation.Required, is.Email),
		validation.Field(&member.Role, validation.Length(0, 50)),
	)
}
