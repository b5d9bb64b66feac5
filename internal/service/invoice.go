package service

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/Skotchmaster/autoparts_shop/internal/models"
)

var invoiceTmpl = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"money": FormatAmount,
	"date":  formatDate,
	"line": func(it models.CartItem) string {
		return fmt.Sprintf("%-32.32s %5d %12s %12s", it.Part.Name, it.Quantity, FormatAmount(it.Part.Price), FormatAmount(it.LineTotal()))
	},
}).Parse(`INVOICE
Order:           {{.Code}}
Issued:          {{date .Issued}}
Shipping method: {{if .ShippingMethod}}{{.ShippingMethod}}{{else}}-{{end}}
Delivery date:   {{if .DeliveryDate}}{{date .DeliveryDate}}{{else}}-{{end}}

{{printf "%-32s %5s %12s %12s" "Item" "Qty" "Unit price" "Line total"}}
{{range .Items}}{{line .}}
{{end}}
Total: {{money .TotalPrice}}
`))

// RenderInvoice lists the order lines at current part prices; the total is the
// one frozen at checkout.
func RenderInvoice(o *models.Order) (string, error) {
	data := struct {
		*models.Order
		Issued time.Time
	}{o, time.Now()}

	var b strings.Builder
	if err := invoiceTmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render invoice %s: %w", o.Code, err)
	}
	return b.String(), nil
}

// FormatAmount prints minor units as a decimal with two fraction digits.
func FormatAmount(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}

func formatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format(time.DateOnly)
	case *time.Time:
		if t == nil {
			return "-"
		}
		return t.UTC().Format(time.DateOnly)
	}
	return "-"
}

func confirmationSubject(code string) string {
	return "Order Confirmation #" + code
}

func confirmationBody(name string, total int64) string {
	return fmt.Sprintf("Dear %s,\n\nYour order has been placed successfully.\nTotal price: %s.\n\nThank you for shopping!", name, FormatAmount(total))
}

func paymentFailedBody(code string) string {
	return "Payment for order " + code + " failed. The order will not be shipped."
}
