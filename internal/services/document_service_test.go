package services

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"swipetonpro_backend/internal/email"
	"swipetonpro_backend/internal/models"
	"swipetonpro_backend/internal/services/dto"
	"swipetonpro_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pdfBody = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

func uploadKbis(t *testing.T, env *testEnv, userID string) *models.Document {
	t.Helper()
	doc, err := env.documents.Upload(context.Background(), env.db, userID, &dto.DocumentUpload{
		DocumentType: string(models.DocumentTypeKbis),
		Filename:     "kbis.pdf",
		Size:         int64(len(pdfBody)),
		File:         bytes.NewReader(pdfBody),
	})
	require.NoError(t, err)
	return doc
}

// pendingArtisan - только что зарегистрированный артизан без проверки
func pendingArtisan(t *testing.T, env *testEnv) *models.User {
	t.Helper()
	artisan := testutil.CreateArtisan(t, env.db, 0)
	require.NoError(t, env.db.Model(&models.User{}).Where("id = ?", artisan.ID).Update("status", models.UserStatusGhost).Error)
	require.NoError(t, env.db.Model(&models.ArtisanProfile{}).Where("user_id = ?", artisan.ID).
		Update("validation_status", models.ValidationStatusPending).Error)
	return artisan
}

func TestDocumentUpload_SniffsContent(t *testing.T) {
	env := newTestEnv(t)
	artisan := pendingArtisan(t, env)

	doc := uploadKbis(t, env, artisan.ID)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.Equal(t, models.DocumentStatusPending, doc.Status)
	assert.Equal(t, "kbis.pdf", doc.Name)
	assert.NotEmpty(t, doc.URL)

	// расширение не спасает текстовый файл
	_, err := env.documents.Upload(context.Background(), env.db, artisan.ID, &dto.DocumentUpload{
		DocumentType: string(models.DocumentTypeKbis),
		Filename:     "fake.pdf",
		Size:         11,
		File:         bytes.NewReader([]byte("hello world")),
	})
	requireAppError(t, err, http.StatusUnsupportedMediaType)

	_, err = env.documents.Upload(context.Background(), env.db, artisan.ID, &dto.DocumentUpload{
		DocumentType: string(models.DocumentTypeKbis),
		Filename:     "huge.pdf",
		Size:         11 << 20,
		File:         bytes.NewReader(pdfBody),
	})
	requireAppError(t, err, http.StatusRequestEntityTooLarge)

	docs, err := env.documents.ListMine(context.Background(), env.db, artisan.ID)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestDocumentDecide_ValidatesArtisanOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	artisan := pendingArtisan(t, env)
	admin := testutil.CreateAdmin(t, env.db, models.AdminRoleAdmin)
	doc := uploadKbis(t, env, artisan.ID)

	decided, err := env.documents.Decide(ctx, env.db, admin.ID, doc.ID, models.DocumentStatusValidated, "ok", nil)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentStatusValidated, decided.Status)
	require.NotNil(t, decided.ValidatedBy)
	assert.Equal(t, admin.ID, *decided.ValidatedBy)

	user := testutil.Reload(t, env.db, artisan.ID)
	assert.Equal(t, models.UserStatusValidated, user.Status)
	var profile models.ArtisanProfile
	require.NoError(t, env.db.First(&profile, "user_id = ?", artisan.ID).Error)
	assert.Equal(t, models.ValidationStatusValidated, profile.ValidationStatus)

	// повтор того же решения ничего не меняет
	again, err := env.documents.Decide(ctx, env.db, admin.ID, doc.ID, models.DocumentStatusValidated, "ok", nil)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentStatusValidated, again.Status)

	var notifications int64
	require.NoError(t, env.db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", artisan.ID, models.NotificationDocumentStatus).Count(&notifications).Error)
	assert.Equal(t, int64(1), notifications)

	env.mailer.Wait()
	assert.Contains(t, env.mail.templates(), email.TemplateDocumentStatus)
}

func TestDocumentDecide_RejectKeepsProfilePending(t *testing.T) {
	env := newTestEnv(t)
	artisan := pendingArtisan(t, env)
	admin := testutil.CreateAdmin(t, env.db, models.AdminRoleAdmin)
	doc := uploadKbis(t, env, artisan.ID)

	decided, err := env.documents.Decide(context.Background(), env.db, admin.ID, doc.ID, models.DocumentStatusRejected, "illisible", nil)
	require.NoError(t, err)
	assert.Equal(t, "illisible", decided.AdminComment)

	var profile models.ArtisanProfile
	require.NoError(t, env.db.First(&profile, "user_id = ?", artisan.ID).Error)
	assert.Equal(t, models.ValidationStatusPending, profile.ValidationStatus)
	assert.Equal(t, models.UserStatusGhost, testutil.Reload(t, env.db, artisan.ID).Status)

	_, err = env.documents.Decide(context.Background(), env.db, admin.ID, doc.ID, models.DocumentStatusPending, "", nil)
	requireAppError(t, err, http.StatusBadRequest)
}
