package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler            *AuthHandler
	UserHandler            *UserHandler
	ProfileHandler         *ProfileHandler
	ProjectHandler         *ProjectHandler
	SwipeHandler           *SwipeHandler
	MatchHandler           *MatchHandler
	DocumentHandler        *DocumentHandler
	CreditHandler          *CreditHandler
	NotificationHandler    *NotificationHandler
	AdminHandler           *AdminHandler
	AdminModerationHandler *AdminModerationHandler
	AdminTeamHandler       *AdminTeamHandler
}
