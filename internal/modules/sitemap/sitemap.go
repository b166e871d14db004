// Package sitemap renders /sitemap.xml from the static pages and the
// current hotel and safari inventory.
package sitemap

import (
	"context"
	"encoding/xml"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"safaribook/internal/domain"
)

const xmlns = "http://www.sitemaps.org/schemas/sitemap/0.9"

type Inventory interface {
	ListHotels(ctx context.Context, citySlug string) ([]domain.Hotel, error)
	ListSafaris(ctx context.Context, citySlug string) ([]domain.Safari, error)
}

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	Xmlns   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

type urlEntry struct {
	XMLName    xml.Name `xml:"url"`
	Loc        string   `xml:"loc"`
	LastMod    string   `xml:"lastmod"`
	ChangeFreq string   `xml:"changefreq"`
	Priority   string   `xml:"priority"`
}

type page struct {
	path       string
	changeFreq string
	priority   string
}

var staticPages = []page{
	{"/", "daily", "1.0"},
	{"/safaris", "daily", "0.9"},
	{"/hotels", "daily", "0.9"},
	{"/celebrate", "weekly", "0.8"},
	{"/contact", "monthly", "0.5"},
	{"/legal", "monthly", "0.3"},
}

type Handler struct {
	inventory Inventory
	baseURL   string
	now       func() time.Time
}

func NewHandler(inventory Inventory, baseURL string) *Handler {
	return &Handler{
		inventory: inventory,
		baseURL:   strings.TrimRight(baseURL, "/"),
		now:       time.Now,
	}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/sitemap.xml", h.Serve)
}

func (h *Handler) Serve(c *gin.Context) {
	ctx := c.Request.Context()
	hotels, err := h.inventory.ListHotels(ctx, "")
	if err != nil {
		_ = c.Error(err)
		c.Status(http.StatusInternalServerError)
		return
	}
	safaris, err := h.inventory.ListSafaris(ctx, "")
	if err != nil {
		_ = c.Error(err)
		c.Status(http.StatusInternalServerError)
		return
	}

	today := h.now().UTC().Format("2006-01-02")
	set := urlSet{Xmlns: xmlns}
	for _, p := range staticPages {
		set.URLs = append(set.URLs, urlEntry{Loc: h.baseURL + p.path, LastMod: today, ChangeFreq: p.changeFreq, Priority: p.priority})
	}
	for _, hotel := range hotels {
		set.URLs = append(set.URLs, h.itemEntry("/hotels/", hotel.ID, today))
	}
	for _, safari := range safaris {
		set.URLs = append(set.URLs, h.itemEntry("/safaris/", safari.ID, today))
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		_ = c.Error(err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", append([]byte(xml.Header), out...))
}

func (h *Handler) itemEntry(prefix string, id int64, today string) urlEntry {
	return urlEntry{
		Loc:        h.baseURL + prefix + strconv.FormatInt(id, 10),
		LastMod:    today,
		ChangeFreq: "weekly",
		Priority:   "0.7",
	}
}
