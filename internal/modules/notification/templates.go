package notification

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	BrandName       = "Jawai Unfiltered"
	amountOnRequest = "On request"
)

var pages = map[string]*template.Template{}

func init() {
	funcs := template.FuncMap{"upper": strings.ToUpper}
	for _, kind := range []string{KindBookingReceived, KindAdminAlert, KindBookingConfirmed, KindWelcome} {
		pages[kind] = template.Must(template.New(kind).Funcs(funcs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+kind+".html"))
	}
}

// emailData feeds every template; each page reads the fields it needs.
type emailData struct {
	Brand string
	Year  int

	Name        string
	Email       string
	Contact     string
	UserType    string
	ServiceType string
	BookingID   int64
	ItemID      int64
	Dates       string
	TimeSlot    string
	Guests      string
	Amount      string

	AdminURL string
	LoginURL string
}

func render(kind string, data emailData) (string, error) {
	t, ok := pages[kind]
	if !ok {
		return "", fmt.Errorf("no template for %q", kind)
	}
	data.Brand = BrandName
	if data.Year == 0 {
		data.Year = time.Now().Year()
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", fmt.Errorf("render %s: %w", kind, err)
	}
	return buf.String(), nil
}

// formatDate turns 2025-06-01 into "Sunday, 1 June 2025". Unparseable
// input is returned unchanged.
func formatDate(s string) string {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return s
	}
	return t.Format("Monday, 2 January 2006")
}

func formatDates(start, end string) string {
	if end == "" || end == start {
		return formatDate(start)
	}
	return formatDate(start) + " to " + formatDate(end)
}

func formatGuests(n int) string {
	if n < 1 {
		n = 1
	}
	if n == 1 {
		return "1 Adult"
	}
	return humanize.Comma(int64(n)) + " Adults"
}

// formatAmount renders rupees with grouping, or the on-request placeholder.
func formatAmount(amount *float64) string {
	if amount == nil || *amount <= 0 {
		return amountOnRequest
	}
	return "₹" + humanize.CommafWithDigits(*amount, 2)
}
