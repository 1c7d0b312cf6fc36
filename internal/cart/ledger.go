package cart

import (
	"math"

	"pos/internal/domain"
)

// Ledger is an ordered cart keyed by product code. It is not safe for
// concurrent use; the owning session serializes access.
type Ledger struct {
	lines []domain.CartLine
}

func NewLedger() *Ledger {
	return &Ledger{}
}

// Add puts one unit of the product in the cart, appending a new line the
// first time the code is seen.
func (l *Ledger) Add(product domain.Product) domain.CartLine {
	if idx := l.indexOf(product.Code); idx >= 0 {
		l.lines[idx].Quantity = addQuantity(l.lines[idx].Quantity, 1)
		return l.lines[idx]
	}
	line := domain.CartLine{Product: product, Quantity: 1}
	l.lines = append(l.lines, line)
	return line
}

// AdjustQuantity moves the line's quantity by delta, floored at zero and
// saturating at math.MaxInt, then drops every line whose quantity is zero.
// It reports whether the code was in the cart.
func (l *Ledger) AdjustQuantity(code string, delta int) bool {
	idx := l.indexOf(code)
	if idx < 0 {
		return false
	}
	l.lines[idx].Quantity = max(0, addQuantity(l.lines[idx].Quantity, delta))

	kept := l.lines[:0]
	for _, line := range l.lines {
		if line.Quantity > 0 {
			kept = append(kept, line)
		}
	}
	l.lines = kept
	return true
}

func (l *Ledger) Remove(code string) bool {
	idx := l.indexOf(code)
	if idx < 0 {
		return false
	}
	return l.AdjustQuantity(code, -l.lines[idx].Quantity)
}

func (l *Ledger) SetNotes(code, notes string) bool {
	idx := l.indexOf(code)
	if idx < 0 {
		return false
	}
	l.lines[idx].Notes = notes
	return true
}

func (l *Ledger) Clear() {
	l.lines = nil
}

// Lines returns a copy of the cart in insertion order.
func (l *Ledger) Lines() []domain.CartLine {
	out := make([]domain.CartLine, len(l.lines))
	copy(out, l.lines)
	return out
}

func (l *Ledger) Len() int {
	return len(l.lines)
}

func (l *Ledger) Quantity() int {
	total := 0
	for _, line := range l.lines {
		total = addQuantity(total, line.Quantity)
	}
	return total
}

// Total is the unrounded sum of price*quantity.
func (l *Ledger) Total() float64 {
	return Total(l.lines)
}

func Total(lines []domain.CartLine) float64 {
	sum := 0.0
	for _, line := range lines {
		sum += line.LineTotal()
	}
	return sum
}

func (l *Ledger) indexOf(code string) int {
	for idx, line := range l.lines {
		if line.Code == code {
			return idx
		}
	}
	return -1
}

func addQuantity(a, b int) int {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return math.MaxInt
	case b < 0 && a < math.MinInt-b:
		return math.MinInt
	}
	return a + b
}
