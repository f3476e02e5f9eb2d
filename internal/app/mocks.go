package app

import (
	"swipetonpro_backend/internal/email"
	"swipetonpro_backend/internal/logger"
)

// MockEmailProvider используется при выключенной почте (локальная
// разработка, тесты): письма только пишутся в лог.
type MockEmailProvider struct{}

var _ email.Provider = (*MockEmailProvider)(nil)

func (m *MockEmailProvider) Send(msg *email.Email) error {
	logger.Debug("email skipped (mock provider)", "to", msg.To, "subject", msg.Subject)
	return nil
}

func (m *MockEmailProvider) SendTemplate(to []string, subject string, templateName string, data email.TemplateData) error {
	logger.Debug("email skipped (mock provider)", "to", to, "subject", subject, "template", templateName)
	return nil
}

func (m *MockEmailProvider) Validate() error { return nil }
func (m *MockEmailProvider) Close() error    { return nil }
