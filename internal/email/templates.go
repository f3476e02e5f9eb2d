package email

import (
	"fmt"
	"html/template"
	"strings"
	"sync"
)

const (
	TemplateWelcome         = "welcome"
	TemplateMatch           = "match"
	TemplateDocumentStatus  = "document_status"
	TemplateAdminInvitation = "admin_invitation"
)

var defaultTemplates = map[string]string{
	TemplateWelcome: `<h2>Bienvenue sur SwipeTonPro, {{.Name}} !</h2>
<p>Votre compte {{.UserType}} est créé.</p>
{{if eq .UserType "artisan"}}<p>Ajoutez vos documents (KBIS, pièce d'identité) pour faire valider votre profil.</p>{{end}}
<p><a href="{{.AppURL}}">Ouvrir l'application</a></p>`,

	TemplateMatch: `<h2>Nouveau match !</h2>
<p>Bonjour {{.Name}}, vous avez un match avec {{.OtherName}}.</p>
<p><a href="{{.AppURL}}/matches">Voir mes matchs</a></p>`,

	TemplateDocumentStatus: `<h2>Votre document a été {{if eq .Status "validated"}}validé{{else}}refusé{{end}}</h2>
<p>Document : {{.DocumentName}}</p>
{{if .Comment}}<p>Commentaire : {{.Comment}}</p>{{end}}`,

	TemplateAdminInvitation: `<h2>Invitation administrateur SwipeTonPro</h2>
<p>Vous êtes invité en tant que {{.Role}}.</p>
<p>Votre code d'invitation : <b>{{.Token}}</b> (valable jusqu'au {{.ExpiresAt}})</p>
<p><a href="{{.AppURL}}/admin/invitation?token={{.Token}}">Activer mon compte</a></p>`,
}

// TemplateManager хранит разобранные html-шаблоны писем
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

// NewTemplateManager сразу загружает встроенные шаблоны
func NewTemplateManager() *TemplateManager {
	tm := &TemplateManager{
		templates: make(map[string]*template.Template),
	}
	for name, body := range defaultTemplates {
		if err := tm.AddTemplate(name, body); err != nil {
			panic(fmt.Sprintf("invalid built-in email template %s: %v", name, err))
		}
	}
	return tm
}

func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[templateName]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

func (tm *TemplateManager) AddTemplate(name string, templateStr string) error {
	tpl, err := template.New(name).Option("missingkey=zero").Parse(templateStr)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()
	return nil
}
