package sitemap

import (
	"context"
	"encoding/xml"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safaribook/internal/domain"
)

type stubInventory struct{}

func (stubInventory) ListHotels(context.Context, string) ([]domain.Hotel, error) {
	return []domain.Hotel{{ID: 4}}, nil
}

func (stubInventory) ListSafaris(context.Context, string) ([]domain.Safari, error) {
	return []domain.Safari{{ID: 7}, {ID: 8}}, nil
}

func TestSitemap(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(stubInventory{}, "https://jawai.example.com/")
	h.now = func() time.Time { return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC) }
	r := gin.New()
	h.RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/xml")

	var set urlSet
	require.NoError(t, xml.Unmarshal(w.Body.Bytes(), &set))
	assert.Len(t, set.URLs, len(staticPages)+3)
	assert.Equal(t, "https://jawai.example.com/", set.URLs[0].Loc)
	assert.Equal(t, "https://jawai.example.com/hotels/4", set.URLs[len(staticPages)].Loc)
	assert.Equal(t, "https://jawai.example.com/safaris/8", set.URLs[len(set.URLs)-1].Loc)
	assert.Equal(t, "2025-06-01", set.URLs[0].LastMod)
}
