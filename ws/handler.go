package ws

import (
	"net/http"
	"strings"

	"swipetonpro_backend/internal/auth"
	"swipetonpro_backend/internal/logger"
	"swipetonpro_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type Handler struct {
	hub      *Hub
	tokens   *auth.TokenManager
	upgrader websocket.Upgrader
}

// NewHandler: пустой allowedOrigins или "*" пропускает любой Origin
func NewHandler(hub *Hub, tokens *auth.TokenManager, allowedOrigins []string) *Handler {
	h := &Handler{hub: hub, tokens: tokens}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[strings.TrimRight(o, "/")] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(set) == 0 {
			return true
		}
		_, ok := set[strings.TrimRight(origin, "/")]
		return ok
	}
}

// ServeWS godoc
// @Summary WebSocket уведомлений
// @Description Токен передается в query ?token= или в заголовке Authorization
// @Tags notifications
// @Param token query string false "JWT пользователя"
// @Success 101
// @Failure 401 {object} apperrors.AppError
// @Router /ws [get]
func (h *Handler) ServeWS(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			token = strings.TrimPrefix(header, "Bearer ")
		}
	}
	if token == "" {
		apperrors.HandleError(c, apperrors.ErrInvalidToken)
		return
	}

	claims, err := h.tokens.ParseToken(token)
	if err != nil {
		apperrors.HandleError(c, apperrors.ErrInvalidToken)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade сам пишет ответ клиенту
		logger.CtxWarn(c.Request.Context(), "ws upgrade failed", "error", err)
		return
	}

	client := newClient(h.hub, conn, claims.UserID)
	if !h.hub.add(client) {
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
