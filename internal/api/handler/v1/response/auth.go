package response

import (
	"github.com/sunridge-camp/portal-api/internal/domain"
)

type SessionResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}
