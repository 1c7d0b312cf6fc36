package service

import (
	"context"
	"strings"

	"pos/internal/cart"
	"pos/internal/domain"
	"pos/internal/order"
	"pos/internal/session"
)

type CartView struct {
	Lines        []domain.CartLine   `json:"lines"`
	LineCount    int                 `json:"line_count"`
	TotalQty     int                 `json:"total_qty"`
	Total        float64             `json:"total"`
	TotalDisplay string              `json:"total_display"`
	Order        order.ExportRequest `json:"order"`
}

func newCartView(ledger *cart.Ledger, draft order.ExportRequest) CartView {
	total := ledger.Total()
	return CartView{
		Lines:        ledger.Lines(),
		LineCount:    ledger.Len(),
		TotalQty:     ledger.Quantity(),
		Total:        total,
		TotalDisplay: order.FormatMoney(total),
		Order:        draft,
	}
}

func (s *Service) Cart(sess *session.Session) CartView {
	var view CartView
	_ = sess.WithOrder(func(ledger *cart.Ledger, draft order.ExportRequest) (order.ExportRequest, error) {
		view = newCartView(ledger, draft)
		return draft, nil
	})
	return view
}

// AddToCart looks the product up in the seller's list and adds one unit.
// The cart line keeps the price the product had at that moment.
func (s *Service) AddToCart(ctx context.Context, sess *session.Session, code string) (CartView, error) {
	product, err := s.repo.GetProduct(ctx, sess.Username, strings.TrimSpace(code))
	if err != nil {
		return CartView{}, err
	}
	return s.mutateCart(sess, func(ledger *cart.Ledger) bool {
		ledger.Add(product)
		return true
	})
}

func (s *Service) AdjustCartItem(sess *session.Session, code string, delta int) (CartView, error) {
	return s.mutateCart(sess, func(ledger *cart.Ledger) bool {
		return ledger.AdjustQuantity(code, delta)
	})
}

func (s *Service) SetCartNotes(sess *session.Session, code, notes string) (CartView, error) {
	return s.mutateCart(sess, func(ledger *cart.Ledger) bool {
		return ledger.SetNotes(code, strings.TrimSpace(notes))
	})
}

func (s *Service) RemoveCartItem(sess *session.Session, code string) (CartView, error) {
	return s.mutateCart(sess, func(ledger *cart.Ledger) bool {
		return ledger.Remove(code)
	})
}

func (s *Service) ClearCart(sess *session.Session) CartView {
	view, _ := s.mutateCart(sess, func(ledger *cart.Ledger) bool {
		ledger.Clear()
		return true
	})
	return view
}

func (s *Service) mutateCart(sess *session.Session, fn func(*cart.Ledger) bool) (CartView, error) {
	var view CartView
	err := sess.WithOrder(func(ledger *cart.Ledger, draft order.ExportRequest) (order.ExportRequest, error) {
		if !fn(ledger) {
			return draft, ErrNotInCart
		}
		view = newCartView(ledger, draft)
		return draft, nil
	})
	return view, err
}
