package email

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateManager_BuiltIns(t *testing.T) {
	tm := NewTemplateManager()

	html, err := tm.Render(TemplateWelcome, TemplateData{"Name": "Jean", "UserType": "artisan", "AppURL": "https://app.test"})
	require.NoError(t, err)
	assert.Contains(t, html, "Jean")
	assert.Contains(t, html, "KBIS")

	html, err = tm.Render(TemplateDocumentStatus, TemplateData{"Status": "rejected", "DocumentName": "kbis.pdf", "Comment": "illisible"})
	require.NoError(t, err)
	assert.Contains(t, html, "refusé")
	assert.Contains(t, html, "illisible")

	_, err = tm.Render("missing", nil)
	assert.Error(t, err)
}

func TestSMTPProvider_Validate(t *testing.T) {
	p := NewSMTPProvider(&SMTPConfig{Host: "smtp.test", Port: 465}, NewTemplateManager())
	assert.Error(t, p.Validate())

	p = NewSMTPProvider(&SMTPConfig{Host: "smtp.test", Port: 465, FromEmail: "noreply@swipetonpro.fr"}, nil)
	assert.NoError(t, p.Validate())
	assert.Error(t, p.SendTemplate([]string{"a@b.fr"}, "s", TemplateWelcome, nil))
}

func TestSMTPProvider_BuildMessage(t *testing.T) {
	p := NewSMTPProvider(&SMTPConfig{Host: "smtp.test", Port: 465, FromEmail: "noreply@swipetonpro.fr", FromName: "SwipeTonPro"}, nil)

	m := p.buildMessage(&Email{To: []string{"jean@test.fr"}, Subject: "Nouveau match", HTMLBody: "<p>Bonjour</p>"})
	assert.Equal(t, []string{"jean@test.fr"}, m.GetHeader("To"))
	assert.Equal(t, []string{"Nouveau match"}, m.GetHeader("Subject"))
	require.Len(t, m.GetHeader("From"), 1)
	assert.Contains(t, m.GetHeader("From")[0], "noreply@swipetonpro.fr")

	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "text/html")
	assert.Contains(t, buf.String(), "<p>Bonjour</p>")

	assert.Error(t, p.Send(&Email{Subject: "vide"}))
}
