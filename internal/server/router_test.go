package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safaribook/internal/config"
	"safaribook/internal/database"
	"safaribook/internal/domain"
	"safaribook/internal/modules/notification"
	"safaribook/internal/pkg/cache"
	"safaribook/internal/pkg/logger"
	"safaribook/internal/repository"
)

type recordingMail struct {
	mu   sync.Mutex
	msgs []notification.Message
}

func (m *recordingMail) Enqueue(msg notification.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = append(m.msgs, msg)
	return nil
}

func (m *recordingMail) kinds() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.msgs))
	for _, msg := range m.msgs {
		out = append(out, msg.Kind)
	}
	return out
}

type testApp struct {
	router http.Handler
	db     *database.DB
	mail   *recordingMail
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	g, err := database.Connect(":memory:")
	require.NoError(t, err)
	db := database.New(g, database.RetryPolicy{Attempts: 1}, logger.Discard())
	report := db.EnsureSchema(context.Background(), repository.Schema())
	require.Empty(t, report.Failures)

	cfg := &config.Config{
		AppEnv:         "test",
		JWTSecret:      "test-secret",
		JWTTTL:         time.Hour,
		UploadDir:      t.TempDir(),
		UploadMaxBytes: 1 << 20,
		CacheTTL:       time.Minute,
		SiteBaseURL:    "https://example.test",
		Mail:           config.MailConfig{AdminEmail: "ops@example.test"},
	}

	mail := &recordingMail{}
	r := NewRouter(Deps{
		Config: cfg,
		DB:     db,
		Cache:  cache.NewMemory(cfg.CacheTTL),
		Mail:   mail,
		Log:    logger.Discard(),
	})
	return &testApp{router: r, db: db, mail: mail}
}

func (a *testApp) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (a *testApp) signup(t *testing.T, name, email string) string {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/auth/signup", "",
		fmt.Sprintf(`{"name":%q,"email":%q,"password":"secret123"}`, name, email))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	decode(t, w, &resp)
	return resp.Token
}

func (a *testApp) adminToken(t *testing.T) string {
	t.Helper()
	a.signup(t, "Ops", "admin@example.test")
	_, err := repository.NewUserRepository(a.db).SetAdmin(context.Background(), "admin@example.test", true)
	require.NoError(t, err)

	w := a.do(t, http.MethodPost, "/api/auth/login", "", `{"email":"admin@example.test","password":"secret123"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	decode(t, w, &resp)
	return resp.Token
}

func TestRouter_Health(t *testing.T) {
	app := newTestApp(t)
	w := app.do(t, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRouter_GuestBookingIsStoredAsGuest(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodPost, "/api/bookings", "",
		`{"booking_type":"safari","item_id":7,"start_date":"2025-06-01","end_date":"2025-06-01","guests":2,"name":"Asha","contact":"9999999999","email":"asha@example.com"}`)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var body map[string]any
	decode(t, w, &body)
	assert.Equal(t, "guest", body["user_type"])
	assert.Contains(t, body, "user_id")
	assert.Nil(t, body["user_id"])
	assert.Equal(t, "pending", body["status"])
	assert.ElementsMatch(t, []string{notification.KindBookingReceived, notification.KindAdminAlert}, app.mail.kinds())
}

func TestRouter_GuestBookingMissingFields(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodPost, "/api/bookings", "", `{"booking_type":"hotel"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body struct {
		Error   string   `json:"error"`
		Details []string `json:"details"`
	}
	decode(t, w, &body)
	assert.Equal(t, []string{"item_id", "start_date", "email"}, body.Details)
	assert.Empty(t, app.mail.kinds())
}

func TestRouter_MemberBookingFallsBackToProfileEmail(t *testing.T) {
	app := newTestApp(t)
	token := app.signup(t, "Ravi", "ravi@example.test")

	w := app.do(t, http.MethodPost, "/api/bookings", token,
		`{"booking_type":"hotel","item_id":"3","start_date":"2025-07-10","end_date":"2025-07-12"}`)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var body map[string]any
	decode(t, w, &body)
	assert.Equal(t, "member", body["user_type"])
	assert.NotNil(t, body["user_id"])
	assert.Equal(t, "ravi@example.test", body["email"])
	assert.Equal(t, "Ravi", body["name"])
}

func TestRouter_UnknownHotelIs404(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/api/hotels/42", "", "")

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Hotel not found"}`, w.Body.String())
}

func TestRouter_StatusChangeRequiresAdmin(t *testing.T) {
	app := newTestApp(t)
	token := app.signup(t, "Ravi", "ravi@example.test")

	w := app.do(t, http.MethodPatch, "/api/bookings/1/status", token, `{"status":"confirmed"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(t, http.MethodPatch, "/api/bookings/1/status", "", `{"status":"confirmed"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_AdminConfirmQueuesConfirmation(t *testing.T) {
	app := newTestApp(t)
	admin := app.adminToken(t)

	w := app.do(t, http.MethodPost, "/api/bookings", "",
		`{"booking_type":"safari","item_id":7,"start_date":"2025-06-01","guests":2,"email":"asha@example.com"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created domain.Booking
	decode(t, w, &created)

	path := fmt.Sprintf("/api/bookings/%d/status", created.ID)
	w = app.do(t, http.MethodPatch, path, admin, `{"status":"confirmed","amount":15000}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated map[string]any
	decode(t, w, &updated)
	assert.Equal(t, "confirmed", updated["status"])
	assert.Contains(t, app.mail.kinds(), notification.KindBookingConfirmed)

	w = app.do(t, http.MethodPatch, path, admin, `{"status":"pending"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodPatch, "/api/bookings/9999/status", admin, `{"status":"confirmed"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_AdminHotelKeepsImageOrder(t *testing.T) {
	app := newTestApp(t)
	admin := app.adminToken(t)

	w := app.do(t, http.MethodPost, "/api/admin/hotels", admin,
		`{"name":"Leopard Lodge","slug":"leopard-lodge","city_slug":"jawai","price":8000,"images":["b.jpg","a.jpg","c.jpg"],"discount_percent":10}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = app.do(t, http.MethodGet, "/api/hotels/leopard-lodge", "", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var hotel domain.Hotel
	decode(t, w, &hotel)
	assert.Equal(t, []string{"b.jpg", "a.jpg", "c.jpg"}, hotel.Images)
	assert.Equal(t, 10, hotel.DiscountPercent)

	w = app.do(t, http.MethodPost, "/api/admin/hotels", "", `{"name":"x","city_slug":"jawai"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_ListingCacheUntilInventoryChanges(t *testing.T) {
	app := newTestApp(t)
	admin := app.adminToken(t)
	hotels := repository.NewHotelRepository(app.db)

	require.NoError(t, hotels.Create(context.Background(), &domain.Hotel{Name: "First", Slug: "first", CitySlug: "jawai"}))

	first := app.do(t, http.MethodGet, "/api/hotels?city=jawai", "", "")
	require.Equal(t, http.StatusOK, first.Code)

	// written behind the cache's back
	require.NoError(t, hotels.Create(context.Background(), &domain.Hotel{Name: "Hidden", Slug: "hidden", CitySlug: "jawai"}))

	second := app.do(t, http.MethodGet, "/api/hotels?city=jawai", "", "")
	assert.Equal(t, first.Body.String(), second.Body.String())

	w := app.do(t, http.MethodPost, "/api/admin/hotels", admin, `{"name":"Third","city_slug":"jawai"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	third := app.do(t, http.MethodGet, "/api/hotels?city=jawai", "", "")
	var list []domain.Hotel
	decode(t, third, &list)
	assert.Len(t, list, 3)
}

func TestRouter_DeleteHotelCascades(t *testing.T) {
	app := newTestApp(t)
	admin := app.adminToken(t)
	hotel := &domain.Hotel{Name: "Gone", Slug: "gone", CitySlug: "jawai"}
	require.NoError(t, repository.NewHotelRepository(app.db).Create(context.Background(), hotel))

	w := app.do(t, http.MethodPost, "/api/bookings", "",
		fmt.Sprintf(`{"booking_type":"hotel","item_id":%d,"start_date":"2025-06-01","email":"a@example.com"}`, hotel.ID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = app.do(t, http.MethodDelete, fmt.Sprintf("/api/admin/hotels/%d", hotel.ID), admin, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = app.do(t, http.MethodGet, "/api/bookings", admin, "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []domain.Booking
	decode(t, w, &list)
	assert.Empty(t, list)

	w = app.do(t, http.MethodDelete, fmt.Sprintf("/api/admin/hotels/%d", hotel.ID), admin, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_ReviewsNeedTypeAndItem(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/api/reviews?type=hotel", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	token := app.signup(t, "Meera", "meera@example.test")
	w = app.do(t, http.MethodPost, "/api/reviews", token,
		`{"item_type":"hotel","item_id":1,"rating":5,"comment":"Loved it"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = app.do(t, http.MethodGet, "/api/reviews?type=hotel&itemId=1", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var reviews []domain.Review
	decode(t, w, &reviews)
	require.Len(t, reviews, 1)
	assert.Equal(t, "Meera", reviews[0].UserName)
}

func TestRouter_SitemapListsInventory(t *testing.T) {
	app := newTestApp(t)
	hotel := &domain.Hotel{Name: "Lodge", Slug: "lodge", CitySlug: "jawai"}
	require.NoError(t, repository.NewHotelRepository(app.db).Create(context.Background(), hotel))

	w := app.do(t, http.MethodGet, "/sitemap.xml", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), fmt.Sprintf("https://example.test/hotels/%d", hotel.ID))
}

func TestRouter_UnknownRoute(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/api/nope", "", "")

	require.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]any
	decode(t, w, &body)
	assert.Equal(t, "Route not found", body["error"])
	assert.Equal(t, "/api/nope", body["requested_url"])
}

func TestRouter_AdminSafariAcceptsTitle(t *testing.T) {
	app := newTestApp(t)
	admin := app.adminToken(t)

	w := app.do(t, http.MethodPost, "/api/admin/safaris", admin,
		`{"title":"Night Drive","city_slug":"jawai","price":3000,"duration":"2 hours"}`)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var safari domain.Safari
	decode(t, w, &safari)
	assert.Equal(t, "Night Drive", safari.Name)
	assert.Regexp(t, `^night-drive-[0-9a-f]{8}$`, safari.Slug)

	w = app.do(t, http.MethodPost, "/api/admin/safaris", admin, `{"city_slug":"jawai"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
