package models

type UserType string
type UserStatus string
type ValidationStatus string
type SwipeAction string
type MessageType string
type DocumentType string
type DocumentStatus string
type ProjectStatus string
type ReportStatus string
type AdminRole string
type PaymentKind string
type PaymentStatus string

const (
	UserTypeParticulier UserType = "particulier"
	UserTypeArtisan     UserType = "artisan"

	// ghost - зарегистрирован, но не проверен модерацией
	UserStatusGhost     UserStatus = "ghost"
	UserStatusValidated UserStatus = "validated"
	UserStatusSuspended UserStatus = "suspended"

	ValidationStatusPending   ValidationStatus = "pending"
	ValidationStatusValidated ValidationStatus = "validated"
	ValidationStatusRejected  ValidationStatus = "rejected"

	SwipeActionLike    SwipeAction = "like"
	SwipeActionDislike SwipeAction = "dislike"

	MessageTypeText           MessageType = "text"
	MessageTypeQuoteRequest   MessageType = "quote_request"
	MessageTypeMeetingRequest MessageType = "meeting_request"

	DocumentTypeKbis                 DocumentType = "kbis"
	DocumentTypeCarteIdentite        DocumentType = "carte_identite"
	DocumentTypeJustificatifDomicile DocumentType = "justificatif_domicile"
	DocumentTypeDiplome              DocumentType = "diplome"
	DocumentTypePortfolio            DocumentType = "portfolio"
	DocumentTypeOther                DocumentType = "other"

	DocumentStatusPending   DocumentStatus = "pending"
	DocumentStatusValidated DocumentStatus = "validated"
	DocumentStatusRejected  DocumentStatus = "rejected"

	ProjectStatusOpen   ProjectStatus = "open"
	ProjectStatusClosed ProjectStatus = "closed"

	ReportStatusPending   ReportStatus = "pending"
	ReportStatusResolved  ReportStatus = "resolved"
	ReportStatusDismissed ReportStatus = "dismissed"

	AdminRoleSuperAdmin AdminRole = "super_admin"
	AdminRoleAdmin      AdminRole = "admin"
	AdminRoleSupport    AdminRole = "support"

	PaymentKindCredits    PaymentKind = "credits"
	PaymentKindPack       PaymentKind = "pack"
	PaymentKindConnection PaymentKind = "connection"

	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
	PaymentStatusExpired PaymentStatus = "expired"
)

// Professions - справочник профессий, который знает фронтенд
var Professions = []string{
	"electricien",
	"plombier",
	"menuisier",
	"peintre",
	"macon",
	"carreleur",
	"chauffagiste",
	"couvreur",
	"jardinier",
	"serrurier",
	"plaquiste",
	"renovation",
}

func IsKnownProfession(p string) bool {
	for _, known := range Professions {
		if known == p {
			return true
		}
	}
	return false
}
