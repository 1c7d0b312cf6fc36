package repository

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"pos/internal/domain"
)

// MemoryRepository keeps everything in process memory. It is the default
// store when no database is configured and loses its data on restart.
type MemoryRepository struct {
	mu       sync.RWMutex
	now      func() time.Time
	products map[string][]domain.Product
	invoices map[string]domain.Invoice
	actions  []domain.ActionEntry
}

func NewMemory() *MemoryRepository {
	return &MemoryRepository{
		now:      time.Now,
		products: make(map[string][]domain.Product),
		invoices: make(map[string]domain.Invoice),
	}
}

func (m *MemoryRepository) ReplaceProducts(_ context.Context, owner string, products []domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[owner] = slices.Clone(products)
	return nil
}

func (m *MemoryRepository) ListProducts(_ context.Context, owner, search string) ([]domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	search = strings.TrimSpace(search)
	items := make([]domain.Product, 0, len(m.products[owner]))
	for _, p := range m.products[owner] {
		if matchesSearch(search, p.Code, p.Name) {
			items = append(items, p)
		}
	}
	return items, nil
}

func (m *MemoryRepository) GetProduct(_ context.Context, owner, code string) (domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.products[owner] {
		if p.Code == code {
			return p, nil
		}
	}
	return domain.Product{}, ErrNotFound
}

func (m *MemoryRepository) SaveProduct(_ context.Context, owner, originalCode string, p domain.Product) (domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.products[owner]
	if originalCode == "" {
		if slices.ContainsFunc(list, func(existing domain.Product) bool { return existing.Code == p.Code }) {
			return domain.Product{}, ErrConflict
		}
		m.products[owner] = append(list, p)
		return p, nil
	}

	target := slices.IndexFunc(list, func(existing domain.Product) bool { return existing.Code == originalCode })
	if target < 0 {
		return domain.Product{}, ErrNotFound
	}

	updated := make([]domain.Product, 0, len(list))
	for idx, existing := range list {
		switch {
		case idx == target:
			updated = append(updated, p)
		case existing.Code == p.Code:
		default:
			updated = append(updated, existing)
		}
	}
	m.products[owner] = updated
	return p, nil
}

func (m *MemoryRepository) DeleteProduct(_ context.Context, owner, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.products[owner]
	kept := slices.DeleteFunc(slices.Clone(list), func(p domain.Product) bool { return p.Code == code })
	if len(kept) == len(list) {
		return ErrNotFound
	}
	m.products[owner] = kept
	return nil
}

func (m *MemoryRepository) CreateInvoice(_ context.Context, invoice domain.Invoice) (domain.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.invoices[invoice.ID]; exists {
		return domain.Invoice{}, fmt.Errorf("insert invoice: duplicate id %s", invoice.ID)
	}
	invoice.TotalQty, invoice.TotalAmount = invoiceTotals(invoice.Lines)
	invoice.Lines = slices.Clone(invoice.Lines)
	invoice.CreatedAt = m.now().UTC()
	m.invoices[invoice.ID] = invoice
	return invoice, nil
}

func (m *MemoryRepository) GetInvoice(_ context.Context, id string) (domain.Invoice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	invoice, ok := m.invoices[id]
	if !ok {
		return domain.Invoice{}, ErrNotFound
	}
	invoice.Lines = slices.Clone(invoice.Lines)
	return invoice, nil
}

func (m *MemoryRepository) LogAction(_ context.Context, username, actionType, title, details string) error {
	actionType = strings.TrimSpace(actionType)
	title = strings.TrimSpace(title)
	if actionType == "" || title == "" {
		return fmt.Errorf("action_type and title are required")
	}
	if details == "" {
		details = "-"
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions = append(m.actions, domain.ActionEntry{
		ActionID:   int64(len(m.actions) + 1),
		CreatedAt:  m.now().UTC(),
		Username:   username,
		ActionType: actionType,
		Title:      title,
		Details:    details,
	})
	return nil
}

// ListActions returns matching actions newest first.
func (m *MemoryRepository) ListActions(_ context.Context, limit, offset int, search string) ([]domain.ActionEntry, error) {
	limit = normalizeLimit(limit)
	offset = normalizeOffset(offset)

	matched := m.matchActions(strings.TrimSpace(search))
	if offset >= len(matched) {
		return []domain.ActionEntry{}, nil
	}
	end := min(offset+limit, len(matched))
	return matched[offset:end], nil
}

func (m *MemoryRepository) CountActions(_ context.Context, search string) (int, error) {
	return len(m.matchActions(strings.TrimSpace(search))), nil
}

func (m *MemoryRepository) matchActions(search string) []domain.ActionEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]domain.ActionEntry, 0, len(m.actions))
	for i := len(m.actions) - 1; i >= 0; i-- {
		action := m.actions[i]
		if matchesSearch(search, action.Title, action.Details, action.Username) {
			items = append(items, action)
		}
	}
	return items
}
