package email

// Email - готовое к отправке письмо, тело всегда HTML из шаблона
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
}

type TemplateData map[string]interface{}
