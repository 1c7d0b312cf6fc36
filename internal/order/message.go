package order

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"pos/internal/domain"

	"github.com/shopspring/decimal"
)

const whatsAppBaseURL = "https://wa.me/"

type Message struct {
	SellerName  string
	BuyerName   string
	Lines       []domain.CartLine
	TotalPrice  float64
	InvoiceLink string
	OrderNotes  string
}

// FormatMessage renders the order as the text block handed to WhatsApp.
// Callers validate the order first; the formatter never rejects input.
func FormatMessage(msg Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Seller:* %s\n", msg.SellerName)
	fmt.Fprintf(&b, "*Buyer:* %s\n", msg.BuyerName)
	b.WriteString("*Items:*\n")
	for _, line := range msg.Lines {
		fmt.Fprintf(&b, "- %s %s (x%d)", line.Code, line.Name, line.Quantity)
		if notes := strings.TrimSpace(line.Notes); notes != "" {
			fmt.Fprintf(&b, " - %s", notes)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "*Total Price:* $%s\n", FormatMoney(msg.TotalPrice))
	if msg.InvoiceLink != "" {
		fmt.Fprintf(&b, "*Invoice Link:* %s\n", msg.InvoiceLink)
	}
	fmt.Fprintf(&b, "*Order Notes:* %s", msg.OrderNotes)
	return b.String()
}

// FormatMoney is the only place amounts are rounded: two decimals, for
// display. Non-finite amounts are rendered as strconv spells them.
func FormatMoney(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return strconv.FormatFloat(amount, 'f', 2, 64)
	}
	return decimal.NewFromFloat(amount).StringFixed(2)
}

// WhatsAppURL builds the wa.me deep link. The phone number keeps digits
// only, as wa.me expects.
func WhatsAppURL(phone, text string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	return whatsAppBaseURL + digits + "?text=" + encodeURIComponent(text)
}

func encodeURIComponent(text string) string {
	return strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}
