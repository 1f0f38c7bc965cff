package email

// Provider sends transactional email.
type Provider interface {
	Send(email *Email) error

	// SendVerification mails the verification link for the token.
	SendVerification(to string, token string) error

	// SendPasswordReset mails the reset link for the token.
	SendPasswordReset(to string, token string) error
}
