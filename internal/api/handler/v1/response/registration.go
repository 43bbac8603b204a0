package response

// RegisterResponse acknowledges a successful registration. TeamID is null for
// solo registrations.
type RegisterResponse struct {
	Success bool  `json:"success"`
	TeamID  *uint `json:"teamId"`
}

type UnregisterResponse struct {
	Success bool `json:"success"`
}
