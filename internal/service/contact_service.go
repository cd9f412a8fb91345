package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// ContactMessage is a submission of the public contact form.
type ContactMessage struct {
	Name    string
	Email   string
	Message string
}

// ContactService accepts contact form submissions. Messages are only
// logged; nothing is stored or mailed.
type ContactService struct{}

// NewContactService creates a ContactService instance.
func NewContactService() *ContactService {
	return &ContactService{}
}

// Submit records the message in the request scoped log.
func (s *ContactService) Submit(ctx context.Context, msg ContactMessage) {
	zerolog.Ctx(ctx).Info().
		Str("name", strings.TrimSpace(msg.Name)).
		Str("email", strings.TrimSpace(msg.Email)).
		Str("message", strings.TrimSpace(msg.Message)).
		Msg("contact form submitted")
}
