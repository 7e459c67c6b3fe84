package notify

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"bookmyflower/internal/models"

	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"money": func(v float64) string {
		return "₹" + decimal.NewFromFloat(v).StringFixed(2)
	},
	"lineTotal": func(item models.OrderItem) float64 {
		return decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))).InexactFloat64()
	},
	"date": func(t time.Time) string {
		return t.Format("02 Jan 2006, 15:04")
	},
	"upper": strings.ToUpper,
	"title": func(s models.OrderStatus) string {
		if s == "" {
			return ""
		}
		return strings.ToUpper(string(s[:1])) + string(s[1:])
	},
}

// Composer renders notification emails.
type Composer struct {
	from        string
	adminEmail  string
	frontendURL string
	tpl         *template.Template
}

func NewComposer(from, adminEmail, frontendURL string) (*Composer, error) {
	tpl, err := template.New("email").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}
	return &Composer{
		from:        from,
		adminEmail:  adminEmail,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		tpl:         tpl,
	}, nil
}

type orderView struct {
	Order       *models.Order
	FrontendURL string
}

func (c *Composer) render(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := c.tpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}

func (c *Composer) orderEmail(kind, tplName, to, subject string, order *models.Order) (Email, error) {
	html, err := c.render(tplName, orderView{Order: order, FrontendURL: c.frontendURL})
	if err != nil {
		return Email{}, err
	}
	return Email{Kind: kind, From: c.from, To: to, Subject: subject, HTML: html}, nil
}

// OrderConfirmation is sent to the customer once an order is stored.
func (c *Composer) OrderConfirmation(order *models.Order) (Email, error) {
	return c.orderEmail(KindOrderConfirmation, "order_confirmation", order.CustomerDetails.Email,
		fmt.Sprintf("Order Confirmation - %s", order.OrderID), order)
}

// AdminOrderAlert tells the shop owner about a new order.
func (c *Composer) AdminOrderAlert(order *models.Order) (Email, error) {
	return c.orderEmail(KindAdminAlert, "admin_order_alert", c.adminEmail,
		fmt.Sprintf("New Order Received - %s", order.OrderID), order)
}

// StatusUpdate tells the customer their order moved to a new status.
func (c *Composer) StatusUpdate(order *models.Order) (Email, error) {
	return c.orderEmail(KindStatusUpdate, "status_update", order.CustomerDetails.Email,
		fmt.Sprintf("Order %s is now %s", order.OrderID, order.OrderStatus), order)
}

func (c *Composer) PasswordReset(user *models.User, token string, validFor time.Duration) (Email, error) {
	html, err := c.render("password_reset", struct {
		Name     string
		ResetURL string
		ValidFor string
	}{
		Name:     user.Name,
		ResetURL: fmt.Sprintf("%s/reset-password/%s", c.frontendURL, token),
		ValidFor: fmt.Sprintf("%.0f minutes", validFor.Minutes()),
	})
	if err != nil {
		return Email{}, err
	}
	return Email{Kind: KindPasswordReset, From: c.from, To: user.Email, Subject: "Password Reset Request", HTML: html}, nil
}
