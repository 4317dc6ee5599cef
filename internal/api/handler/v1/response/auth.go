package response

import "github.com/questguild/questboard-api/internal/domain"

type LoginResponse struct {
	Token     string           `json:"token"`
	Moderator domain.Moderator `json:"moderator"`
}
