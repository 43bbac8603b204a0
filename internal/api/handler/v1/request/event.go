package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateEventRequest struct {
	Title             string `json:"title"`
	Description       string `json:"description"`
	Capacity          *int   `json:"capacity"`
	ParticipationType string `json:"participation_type"`
	MinTeamSize       int    `json:"min_team_size"`
	MaxTeamSize       int    `json:"max_team_size"`
}

func (req *CreateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Description, validation.Length(0, 2000)),
		validation.Field(&req.ParticipationType, validation.Required, validation.In("solo", "team", "both")),
		validation.Field(&req.MinTeamSize, validation.Min(0)),
		validation.Field(&req.MaxTeamSize, validation.Min(0)),
	)
}
