package email

// MockProvider records messages instead of sending them. Used in tests
// and when no SMTP host is configured.
type MockProvider struct {
	Sent []Email
}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (p *MockProvider) Send(email *Email) error {
	p.Sent = append(p.Sent, *email)
	return nil
}

func (p *MockProvider) SendVerification(to, token string) error {
	return p.Send(&Email{To: []string{to}, Subject: "Verify your email address", Body: token})
}

func (p *MockProvider) SendPasswordReset(to, token string) error {
	return p.Send(&Email{To: []string{to}, Subject: "Reset your password", Body: token})
}
