package services

import (
	"sync"
	"time"

	"swipetonpro_backend/internal/email"
	"swipetonpro_backend/internal/logger"
	"swipetonpro_backend/internal/models"
)

// MailService - транзакционные письма. Отправка асинхронная,
// ошибки SMTP только логируются.
type MailService interface {
	SendWelcome(user *models.User)
	SendMatch(user *models.User, other *models.User)
	SendDocumentStatus(user *models.User, doc *models.Document)
	SendAdminInvitation(to string, role models.AdminRole, token string, expiresAt time.Time)
	// Wait дожидается писем в полете (graceful shutdown, тесты)
	Wait()
}

type MailServiceImpl struct {
	provider email.Provider
	appURL   string
	wg       sync.WaitGroup
}

func NewMailService(provider email.Provider, appURL string) *MailServiceImpl {
	return &MailServiceImpl{
		provider: provider,
		appURL:   appURL,
	}
}

func (s *MailServiceImpl) SendWelcome(user *models.User) {
	s.send(user.Email, "Bienvenue sur SwipeTonPro", email.TemplateWelcome, email.TemplateData{
		"Name":     user.FirstName,
		"UserType": string(user.UserType),
	})
}

func (s *MailServiceImpl) SendMatch(user *models.User, other *models.User) {
	s.send(user.Email, "Vous avez un nouveau match", email.TemplateMatch, email.TemplateData{
		"Name":      user.FirstName,
		"OtherName": other.FirstName,
	})
}

func (s *MailServiceImpl) SendDocumentStatus(user *models.User, doc *models.Document) {
	s.send(user.Email, "Mise à jour de votre document", email.TemplateDocumentStatus, email.TemplateData{
		"Status":       string(doc.Status),
		"DocumentName": doc.Name,
		"Comment":      doc.AdminComment,
	})
}

func (s *MailServiceImpl) SendAdminInvitation(to string, role models.AdminRole, token string, expiresAt time.Time) {
	s.send(to, "Invitation administrateur", email.TemplateAdminInvitation, email.TemplateData{
		"Role":      string(role),
		"Token":     token,
		"ExpiresAt": expiresAt.Format("02/01/2006 15:04"),
	})
}

func (s *MailServiceImpl) Wait() {
	s.wg.Wait()
}

func (s *MailServiceImpl) send(to, subject, templateName string, data email.TemplateData) {
	if s.provider == nil || to == "" {
		return
	}
	data["AppURL"] = s.appURL

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.provider.SendTemplate([]string{to}, subject, templateName, data); err != nil {
			logger.Error("failed to send email", "template", templateName, "to", to, "error", err)
			return
		}
		logger.Debug("email sent", "template", templateName, "to", to)
	}()
}
