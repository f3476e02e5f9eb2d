package apperrors

import "net/http"

/*
Предопределенные доменные ошибки. Сервисы возвращают их напрямую,
репозитории - свои sentinel-ошибки, которые сервисы маппят сюда.
*/

// --- Auth ---

var ErrEmailAlreadyExists = New(CodeAlreadyExists, "auth", "Email already registered", http.StatusConflict)

var ErrInvalidCredentials = New(CodeInvalidCredentials, "auth", "Invalid email or password", http.StatusUnauthorized)

var ErrInvalidToken = New(CodeInvalidToken, "auth", "Invalid or expired token", http.StatusUnauthorized)

var ErrUserSuspended = New(CodeForbidden, "auth", "Your account has been suspended", http.StatusForbidden)

// ErrTooManyAttempts - логин заблокирован лимитером попыток (429)
var ErrTooManyAttempts = New(CodeTooManyAttempts, "auth", "Too many login attempts, try again later", http.StatusTooManyRequests)

var ErrInsufficientPermissions = New(CodeForbidden, "auth", "Insufficient permissions", http.StatusForbidden)

var ErrInvalidUserType = New(CodeForbidden, "auth", "Operation not allowed for this user type", http.StatusForbidden)

// --- Users / profiles ---

var ErrUserNotFound = New(CodeNotFound, "user", "User not found", http.StatusNotFound)

var ErrProfileNotFound = New(CodeNotFound, "profile", "Profile not found", http.StatusNotFound)

var ErrCannotModifySelf = New(CodeForbidden, "admin", "Operation on self is not allowed", http.StatusForbidden)

// --- Swipes / matches ---

var ErrSelfSwipe = New(CodeInvalidOperation, "swipe", "You cannot swipe yourself", http.StatusBadRequest)

var ErrDuplicateSwipe = New(CodeAlreadyExists, "swipe", "Target already swiped", http.StatusConflict)

var ErrSwipeTargetNotFound = New(CodeNotFound, "swipe", "Swipe target not found", http.StatusNotFound)

// ErrInsufficientCredits - нет кредитов для лайка/буста/разблокировки (402)
var ErrInsufficientCredits = New(CodePaymentRequired, "credits", "Not enough credits", http.StatusPaymentRequired)

var ErrBoostDisabled = New(CodeInvalidOperation, "boost", "Boost is currently disabled", http.StatusBadRequest)

var ErrMatchNotFound = New(CodeNotFound, "match", "Match not found", http.StatusNotFound)

var ErrNotMatchParticipant = New(CodeForbidden, "match", "You are not a participant of this match", http.StatusForbidden)

var ErrChatLocked = New(CodeForbidden, "match", "Chat is locked for this match", http.StatusForbidden)

// --- Projects ---

var ErrProjectNotFound = New(CodeNotFound, "project", "Project not found", http.StatusNotFound)

var ErrInvalidBudget = New(CodeInvalidOperation, "project", "budget_min must not exceed budget_max", http.StatusBadRequest)

// --- Documents / uploads ---

var ErrDocumentNotFound = New(CodeNotFound, "document", "Document not found", http.StatusNotFound)

var ErrFileTooLarge = New(CodeValidationFailed, "upload", "File size exceeds the allowed limit", http.StatusRequestEntityTooLarge)

var ErrInvalidFileType = New(CodeValidationFailed, "upload", "The provided file type is not allowed", http.StatusUnsupportedMediaType)

// --- Payments ---

var ErrUnknownPack = New(CodeInvalidOperation, "payment", "Unknown subscription pack", http.StatusBadRequest)

var ErrPaymentNotFound = New(CodeNotFound, "payment", "Payment not found", http.StatusNotFound)

var ErrPaymentProvider = New(CodeExternalServiceError, "payment", "Payment provider error", http.StatusBadGateway)

// --- Admin ---

var ErrAdminNotFound = New(CodeNotFound, "admin", "Admin not found", http.StatusNotFound)

var ErrAdminAlreadyExists = New(CodeAlreadyExists, "admin", "An admin with this email already exists", http.StatusConflict)

var ErrInvitationInvalid = New(CodeInvalidToken, "admin", "Invitation is invalid or expired", http.StatusBadRequest)

var ErrReportNotFound = New(CodeNotFound, "report", "Report not found", http.StatusNotFound)

var ErrAdminInactive = New(CodeForbidden, "admin", "Admin account is not active", http.StatusForbidden)
