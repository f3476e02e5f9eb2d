package email

// Provider отправляет письма. В проде это SMTPProvider, при выключенной
// почте - заглушка из app.
type Provider interface {
	Send(email *Email) error
	SendTemplate(to []string, subject string, templateName string, data TemplateData) error
	Validate() error
	Close() error
}

// TemplateRenderer рендерит именованные html-шаблоны
type TemplateRenderer interface {
	Render(templateName string, data TemplateData) (string, error)
	AddTemplate(name string, template string) error
}
