package listeners

import (
	"context"

	"idm_backend/internal/email"
	"idm_backend/internal/events"
)

// EmailListener turns verification and reset events into outgoing mail.
type EmailListener struct {
	provider email.Provider
}

func NewEmailListener(provider email.Provider) *EmailListener {
	return &EmailListener{provider: provider}
}

func (l *EmailListener) Handle(ctx context.Context, ev events.Event) error {
	switch e := ev.(type) {
	case events.VerificationRequested:
		return l.provider.SendVerification(e.Email, e.Token)
	case events.PasswordResetRequested:
		return l.provider.SendPasswordReset(e.User.Email, e.Token)
	}
	return nil
}
