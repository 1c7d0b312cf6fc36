package service

import (
	"context"
	"strings"

	"pos/internal/cart"
	"pos/internal/domain"
	"pos/internal/order"
	"pos/internal/session"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ExportResult struct {
	Message     string         `json:"message"`
	WhatsAppURL string         `json:"whatsapp_url"`
	InvoiceID   string         `json:"invoice_id"`
	InvoiceLink string         `json:"invoice_link,omitempty"`
	Invoice     domain.Invoice `json:"invoice"`
}

// ExportOrder validates the order against the current cart, stores the
// invoice and builds the WhatsApp message and link. A rejected order
// leaves the cart and the remembered order inputs untouched. The cart is
// kept after a successful export.
func (s *Service) ExportOrder(ctx context.Context, sess *session.Session, req order.ExportRequest) (ExportResult, error) {
	req = req.Normalized()

	var result ExportResult
	err := sess.WithOrder(func(ledger *cart.Ledger, draft order.ExportRequest) (order.ExportRequest, error) {
		lines := ledger.Lines()
		if err := order.Validate(req, s.opts.Buyers, lines); err != nil {
			return draft, err
		}

		invoice, err := s.repo.CreateInvoice(ctx, buildInvoice(sess.Username, req, lines))
		if err != nil {
			return draft, err
		}

		link := s.invoiceLink(invoice.ID)
		message := order.FormatMessage(order.Message{
			SellerName:  req.SellerName,
			BuyerName:   req.BuyerName,
			Lines:       lines,
			TotalPrice:  ledger.Total(),
			InvoiceLink: link,
			OrderNotes:  req.OrderNotes,
		})
		result = ExportResult{
			Message:     message,
			WhatsAppURL: order.WhatsAppURL(s.opts.WhatsAppPhone, message),
			InvoiceID:   invoice.ID,
			InvoiceLink: link,
			Invoice:     invoice,
		}
		return req, nil
	})
	if err != nil {
		return ExportResult{}, err
	}

	s.logAction(ctx, sess.Username, domain.ActionOrderExport, "Order exported",
		req.BuyerName+" "+order.FormatMoney(result.Invoice.TotalAmount))
	return result, nil
}

func (s *Service) GetInvoice(ctx context.Context, id string) (domain.Invoice, error) {
	return s.repo.GetInvoice(ctx, strings.TrimSpace(id))
}

func (s *Service) invoiceLink(id string) string {
	base := strings.TrimRight(strings.TrimSpace(s.opts.PublicBaseURL), "/")
	if base == "" {
		return ""
	}
	return base + "/api/v1/invoices/" + id
}

func buildInvoice(owner string, req order.ExportRequest, lines []domain.CartLine) domain.Invoice {
	invoiceLines := make([]domain.InvoiceLine, 0, len(lines))
	for _, line := range lines {
		lineTotal := decimal.NewFromFloat(line.Price).Mul(decimal.NewFromInt(int64(line.Quantity)))
		invoiceLines = append(invoiceLines, domain.InvoiceLine{
			Code:      line.Code,
			Name:      line.Name,
			Price:     line.Price,
			Quantity:  line.Quantity,
			Notes:     line.Notes,
			LineTotal: lineTotal.InexactFloat64(),
		})
	}
	return domain.Invoice{
		ID:         uuid.NewString(),
		Owner:      owner,
		SellerName: req.SellerName,
		BuyerName:  req.BuyerName,
		OrderNotes: req.OrderNotes,
		Lines:      invoiceLines,
	}
}
