package services

// ServiceContainer содержит все сервисы приложения.
// Собирается в app.initializeServices.
type ServiceContainer struct {
	AuthService         AuthService
	UserService         UserService
	ProfileService      ProfileService
	ProjectService      ProjectService
	SwipeService        SwipeService
	MatchService        MatchService
	DocumentService     DocumentService
	CreditService       CreditService
	ConfigService       ConfigService
	NotificationService NotificationService
	ReportService       ReportService
	AuditService        AuditService
	AdminAuthService    AdminAuthService
	AdminService        AdminService
	AdminTeamService    AdminTeamService
	MailService         MailService
}
