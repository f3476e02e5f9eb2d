package validator

import (
	"log"

	"swipetonpro_backend/internal/auth"
	"swipetonpro_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует кастомные теги, основанные на statuses.go
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-user-type", oneOf(
		string(models.UserTypeParticulier),
		string(models.UserTypeArtisan),
	))
	mustRegister("is-user-status", oneOf(
		string(models.UserStatusGhost),
		string(models.UserStatusValidated),
		string(models.UserStatusSuspended),
	))
	mustRegister("is-swipe-action", oneOf(
		string(models.SwipeActionLike),
		string(models.SwipeActionDislike),
	))
	mustRegister("is-message-type", oneOf(
		string(models.MessageTypeText),
		string(models.MessageTypeQuoteRequest),
		string(models.MessageTypeMeetingRequest),
	))
	mustRegister("is-document-type", oneOf(
		string(models.DocumentTypeKbis),
		string(models.DocumentTypeCarteIdentite),
		string(models.DocumentTypeJustificatifDomicile),
		string(models.DocumentTypeDiplome),
		string(models.DocumentTypePortfolio),
		string(models.DocumentTypeOther),
	))
	mustRegister("is-document-status", oneOf(
		string(models.DocumentStatusPending),
		string(models.DocumentStatusValidated),
		string(models.DocumentStatusRejected),
	))
	mustRegister("is-report-status", oneOf(
		string(models.ReportStatusResolved),
		string(models.ReportStatusDismissed),
	))
	mustRegister("is-admin-role", oneOf(
		string(models.AdminRoleSuperAdmin),
		string(models.AdminRoleAdmin),
		string(models.AdminRoleSupport),
	))
	mustRegister("is-admin-permission", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == "" || auth.IsValidPermission(value)
	})
	// profession проверяется по справочнику models.Professions
	mustRegister("is-profession", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == "" || models.IsKnownProfession(value)
	})
}

// oneOf - пустое значение пропускаем, для этого есть 'required'
func oneOf(allowed ...string) validator.Func {
	set := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		set[a] = struct{}{}
	}
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		_, ok := set[value]
		return ok
	}
}
