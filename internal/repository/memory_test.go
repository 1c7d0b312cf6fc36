package repository

import (
	"context"
	"fmt"
	"math"
	"testing"

	"pos/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(t *testing.T, products ...domain.Product) *MemoryRepository {
	t.Helper()
	repo := NewMemory()
	require.NoError(t, repo.ReplaceProducts(context.Background(), "ana", products))
	return repo
}

func TestMemoryReplaceProductsKeepsOrderAndOwner(t *testing.T) {
	ctx := context.Background()
	repo := seeded(t,
		domain.Product{Code: "B2", Name: "Gadget", Price: 2},
		domain.Product{Code: "A1", Name: "Widget", Price: 1},
		domain.Product{Code: "A1", Name: "Widget v2", Price: 3},
	)

	items, err := repo.ListProducts(ctx, "ana", "")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "B2", items[0].Code)
	assert.Equal(t, "Widget v2", items[2].Name)

	other, err := repo.ListProducts(ctx, "bob", "")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestMemoryListProductsSearch(t *testing.T) {
	repo := seeded(t,
		domain.Product{Code: "MUG-1", Name: "Blue Mug", Price: 5},
		domain.Product{Code: "TEE-1", Name: "Shirt", Price: 10},
	)

	items, err := repo.ListProducts(context.Background(), "ana", "mug")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "MUG-1", items[0].Code)
}

func TestMemorySaveProductAddRejectsExistingCode(t *testing.T) {
	ctx := context.Background()
	repo := seeded(t, domain.Product{Code: "A1", Name: "Widget", Price: 1})

	_, err := repo.SaveProduct(ctx, "ana", "", domain.Product{Code: "A1", Name: "Other", Price: 2})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = repo.SaveProduct(ctx, "ana", "", domain.Product{Code: "B2", Name: "Gadget", Price: 2})
	require.NoError(t, err)
	items, _ := repo.ListProducts(ctx, "ana", "")
	assert.Equal(t, []string{"A1", "B2"}, codes(items))
}

func TestMemorySaveProductEditIsLastWriteWins(t *testing.T) {
	ctx := context.Background()
	repo := seeded(t,
		domain.Product{Code: "A1", Name: "Widget", Price: 1},
		domain.Product{Code: "B2", Name: "Gadget", Price: 2},
		domain.Product{Code: "C3", Name: "Gizmo", Price: 3},
	)

	_, err := repo.SaveProduct(ctx, "ana", "C3", domain.Product{Code: "A1", Name: "Gizmo renamed", Price: 4})
	require.NoError(t, err)

	items, err := repo.ListProducts(ctx, "ana", "")
	require.NoError(t, err)
	assert.Equal(t, []domain.Product{
		{Code: "B2", Name: "Gadget", Price: 2},
		{Code: "A1", Name: "Gizmo renamed", Price: 4},
	}, items)

	_, err = repo.SaveProduct(ctx, "ana", "missing", domain.Product{Code: "X", Name: "X"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryDeleteProduct(t *testing.T) {
	ctx := context.Background()
	repo := seeded(t,
		domain.Product{Code: "A1", Name: "Widget", Price: 1},
		domain.Product{Code: "A1", Name: "Widget dup", Price: 1},
		domain.Product{Code: "B2", Name: "Gadget", Price: 2},
	)

	require.NoError(t, repo.DeleteProduct(ctx, "ana", "A1"))
	items, _ := repo.ListProducts(ctx, "ana", "")
	assert.Equal(t, []string{"B2"}, codes(items))

	assert.ErrorIs(t, repo.DeleteProduct(ctx, "ana", "A1"), ErrNotFound)
	_, err := repo.GetProduct(ctx, "ana", "A1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryInvoices(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()

	created, err := repo.CreateInvoice(ctx, domain.Invoice{
		ID:    "inv-1",
		Owner: "ana",
		Lines: []domain.InvoiceLine{
			{Code: "A1", Name: "Widget", Price: 2.5, Quantity: 3, LineTotal: 7.5},
			{Code: "B2", Name: "Gadget", Price: 1, Quantity: 1, LineTotal: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, created.TotalQty)
	assert.InDelta(t, 8.5, created.TotalAmount, 1e-9)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repo.GetInvoice(ctx, "inv-1")
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = repo.CreateInvoice(ctx, domain.Invoice{ID: "inv-1"})
	assert.Error(t, err)

	_, err = repo.GetInvoice(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryActions(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()

	for i := 1; i <= 5; i++ {
		require.NoError(t, repo.LogAction(ctx, "ana", domain.ActionImport, fmt.Sprintf("Import %d", i), ""))
	}
	require.NoError(t, repo.LogAction(ctx, "bob", domain.ActionLogin, "Login", "bob signed in"))
	assert.Error(t, repo.LogAction(ctx, "ana", "", "x", ""))

	items, err := repo.ListActions(ctx, 2, 0, "")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Login", items[0].Title)
	assert.Equal(t, "Import 5", items[1].Title)
	assert.Equal(t, "-", items[1].Details)

	items, err = repo.ListActions(ctx, 10, 100, "")
	require.NoError(t, err)
	assert.Empty(t, items)

	count, err := repo.CountActions(ctx, "BOB")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNormalizeLimitAndOffset(t *testing.T) {
	assert.Equal(t, 200, normalizeLimit(0))
	assert.Equal(t, 1000, normalizeLimit(5000))
	assert.Equal(t, 15, normalizeLimit(15))
	assert.Equal(t, 0, normalizeOffset(-3))
}

func codes(items []domain.Product) []string {
	out := make([]string, len(items))
	for i, p := range items {
		out[i] = p.Code
	}
	return out
}

func TestInvoiceTotalsSaturateQuantityAndIgnoreLineTotal(t *testing.T) {
	qty, amount := invoiceTotals([]domain.InvoiceLine{
		{Code: "A1", Price: 2.5, Quantity: math.MaxInt, LineTotal: math.Inf(1)},
		{Code: "B2", Price: 1, Quantity: 3, LineTotal: 3},
	})
	assert.Equal(t, math.MaxInt, qty)
	assert.False(t, math.IsInf(amount, 0))
	assert.InDelta(t, 2.5*float64(math.MaxInt), amount, 1e6)
}

func TestLikePatternEscapesWildcards(t *testing.T) {
	assert.Equal(t, "%mug%", likePattern("mug"))
	assert.Equal(t, `%50\%\_OFF%`, likePattern("50%_OFF"))
	assert.Equal(t, `%a\\b%`, likePattern(`a\b`))
}

func TestMemorySearchTreatsWildcardsLiterally(t *testing.T) {
	repo := seeded(t,
		domain.Product{Code: "50%OFF", Name: "Promo", Price: 1},
		domain.Product{Code: "A_1", Name: "Widget", Price: 1},
		domain.Product{Code: "AB1", Name: "Gadget", Price: 1},
	)

	items, err := repo.ListProducts(context.Background(), "ana", "A_")
	require.NoError(t, err)
	assert.Equal(t, []string{"A_1"}, codes(items))

	items, err = repo.ListProducts(context.Background(), "ana", "%")
	require.NoError(t, err)
	assert.Equal(t, []string{"50%OFF"}, codes(items))
}
