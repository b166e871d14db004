package live

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"safaribook/internal/domain"
	"safaribook/internal/pkg/response"
)

type Authenticator interface {
	Authenticate(header string) (domain.Member, error)
}

type Handler struct {
	hub      *Hub
	auth     Authenticator
	upgrader websocket.Upgrader
}

// NewHandler accepts sockets from allowedOrigins; an empty list allows any
// origin since every socket is authenticated by token anyway.
func NewHandler(hub *Hub, auth Authenticator, allowedOrigins []string) *Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return &Handler{
		hub:  hub,
		auth: auth,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || origin == "" || allowed[origin]
			},
		},
	}
}

func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	admin.GET("/live", h.Serve)
}

// Serve upgrades GET /admin/live?token=JWT. Browsers cannot set headers on
// a websocket handshake, so the token may come in the query string.
func (h *Handler) Serve(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if token := c.Query("token"); token != "" {
		header = "Bearer " + token
	}

	member, err := h.auth.Authenticate(header)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	if !member.IsAdmin {
		response.Error(c, http.StatusForbidden, "Access denied. Admins only.")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.hub.log.WithError(err).Warn("live: websocket upgrade failed")
		return
	}

	h.hub.log.WithField("user_id", member.ID).Info("live: admin connected")
	h.hub.serve(conn, member.ID)
	h.hub.log.WithField("user_id", member.ID).Info("live: admin disconnected")
}
