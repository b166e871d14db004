package live

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safaribook/internal/domain"
	"safaribook/internal/pkg/logger"
)

type stubAuth map[string]domain.Member

func (s stubAuth) Authenticate(header string) (domain.Member, error) {
	if m, ok := s[strings.TrimPrefix(header, "Bearer ")]; ok {
		return m, nil
	}
	return domain.Member{}, errors.New("bad token")
}

func newLiveServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub(logger.Discard())
	auth := stubAuth{
		"admin": {ID: 1, IsAdmin: true},
		"user":  {ID: 2},
	}
	r := gin.New()
	NewHandler(hub, auth, nil).RegisterRoutes(r.Group("/api/admin"))

	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, srv
}

func wsURL(srv *httptest.Server, token string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/admin/live?token=" + token
}

func TestHub_AdminReceivesEvents(t *testing.T) {
	hub, srv := newLiveServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "admin"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 5*time.Millisecond)

	hub.Publish(domain.BookingEvent{Type: domain.EventBookingCreated, Booking: &domain.Booking{ID: 9}})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var evt domain.BookingEvent
	require.NoError(t, json.Unmarshal(msg, &evt))
	assert.Equal(t, domain.EventBookingCreated, evt.Type)
	assert.Equal(t, int64(9), evt.Booking.ID)
}

func TestHub_RejectsNonAdmin(t *testing.T) {
	_, srv := newLiveServer(t)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "user"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(wsURL(srv, "nope"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHub_PublishWithoutClients(t *testing.T) {
	hub := NewHub(logger.Discard())
	assert.NotPanics(t, func() {
		hub.Publish(domain.BookingEvent{Type: domain.EventBookingDeleted})
	})
}
