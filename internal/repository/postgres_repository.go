package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pos/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ReplaceProducts swaps the owner's whole product list for the imported
// one in a single transaction. Row order is kept in the position column.
func (r *Repository) ReplaceProducts(ctx context.Context, owner string, products []domain.Product) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace products tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM products WHERE owner = $1", owner); err != nil {
		return fmt.Errorf("clear products: %w", err)
	}

	rows := make([][]any, 0, len(products))
	for idx, p := range products {
		rows = append(rows, []any{owner, idx + 1, p.Code, p.Name, p.Price})
	}
	if _, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"products"},
		[]string{"owner", "position", "code", "name", "price"},
		pgx.CopyFromRows(rows),
	); err != nil {
		return fmt.Errorf("copy products: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace products tx: %w", err)
	}
	return nil
}

func (r *Repository) ListProducts(ctx context.Context, owner, search string) ([]domain.Product, error) {
	search = strings.TrimSpace(search)
	rows, err := r.pool.Query(ctx, `
		SELECT
			code,
			name,
			price::double precision
		FROM products
		WHERE owner = $1
		  AND ($2 = '' OR code ILIKE $3 ESCAPE '\' OR name ILIKE $3 ESCAPE '\')
		ORDER BY position ASC
	`, owner, search, likePattern(search))
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		p, err := scanProductRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

func (r *Repository) GetProduct(ctx context.Context, owner, code string) (domain.Product, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT
			code,
			name,
			price::double precision
		FROM products
		WHERE owner = $1 AND code = $2
		ORDER BY position ASC
		LIMIT 1
	`, owner, code)
	product, err := scanProductRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, ErrNotFound
		}
		return domain.Product{}, fmt.Errorf("get product %q: %w", code, err)
	}
	return product, nil
}

// SaveProduct adds a product when originalCode is empty and edits the
// first entry holding originalCode otherwise. An edit wins over every
// other entry that already uses the new code.
func (r *Repository) SaveProduct(ctx context.Context, owner, originalCode string, p domain.Product) (domain.Product, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Product{}, fmt.Errorf("begin save product tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if originalCode == "" {
		var exists bool
		if err := tx.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM products WHERE owner = $1 AND code = $2)",
			owner, p.Code,
		).Scan(&exists); err != nil {
			return domain.Product{}, fmt.Errorf("check product code: %w", err)
		}
		if exists {
			return domain.Product{}, ErrConflict
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO products (owner, position, code, name, price)
			SELECT $1, COALESCE(MAX(position), 0) + 1, $2, $3, $4
			FROM products
			WHERE owner = $1
		`, owner, p.Code, p.Name, p.Price); err != nil {
			return domain.Product{}, fmt.Errorf("insert product: %w", err)
		}
	} else {
		var position int
		if err := tx.QueryRow(ctx, `
			SELECT position
			FROM products
			WHERE owner = $1 AND code = $2
			ORDER BY position ASC
			LIMIT 1
			FOR UPDATE
		`, owner, originalCode).Scan(&position); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.Product{}, ErrNotFound
			}
			return domain.Product{}, fmt.Errorf("lock product %q: %w", originalCode, err)
		}

		if _, err := tx.Exec(ctx,
			"DELETE FROM products WHERE owner = $1 AND code = $2 AND position <> $3",
			owner, p.Code, position,
		); err != nil {
			return domain.Product{}, fmt.Errorf("drop superseded products: %w", err)
		}
		if _, err := tx.Exec(ctx, `
			UPDATE products
			SET code = $3, name = $4, price = $5
			WHERE owner = $1 AND position = $2
		`, owner, position, p.Code, p.Name, p.Price); err != nil {
			return domain.Product{}, fmt.Errorf("update product: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Product{}, fmt.Errorf("commit save product tx: %w", err)
	}
	return p, nil
}

func (r *Repository) DeleteProduct(ctx context.Context, owner, code string) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM products WHERE owner = $1 AND code = $2", owner, code)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) CreateInvoice(ctx context.Context, invoice domain.Invoice) (domain.Invoice, error) {
	invoice.TotalQty, invoice.TotalAmount = invoiceTotals(invoice.Lines)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Invoice{}, fmt.Errorf("begin invoice tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, `
		INSERT INTO invoices (
			id,
			owner,
			seller_name,
			buyer_name,
			order_notes,
			total_qty,
			total_amount
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`,
		invoice.ID,
		invoice.Owner,
		invoice.SellerName,
		invoice.BuyerName,
		invoice.OrderNotes,
		invoice.TotalQty,
		invoice.TotalAmount,
	).Scan(&invoice.CreatedAt); err != nil {
		return domain.Invoice{}, fmt.Errorf("insert invoice: %w", err)
	}

	for idx, line := range invoice.Lines {
		if _, err := tx.Exec(ctx, `
			INSERT INTO invoice_lines (
				invoice_id,
				position,
				code,
				name,
				price,
				quantity,
				notes,
				line_total
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, invoice.ID, idx+1, line.Code, line.Name, line.Price, line.Quantity, line.Notes, line.LineTotal); err != nil {
			return domain.Invoice{}, fmt.Errorf("insert invoice line: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Invoice{}, fmt.Errorf("commit invoice tx: %w", err)
	}
	return invoice, nil
}

func (r *Repository) GetInvoice(ctx context.Context, id string) (domain.Invoice, error) {
	var invoice domain.Invoice
	if err := r.pool.QueryRow(ctx, `
		SELECT
			id,
			owner,
			seller_name,
			buyer_name,
			order_notes,
			total_qty,
			total_amount::double precision,
			created_at
		FROM invoices
		WHERE id = $1
	`, id).Scan(
		&invoice.ID,
		&invoice.Owner,
		&invoice.SellerName,
		&invoice.BuyerName,
		&invoice.OrderNotes,
		&invoice.TotalQty,
		&invoice.TotalAmount,
		&invoice.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Invoice{}, ErrNotFound
		}
		return domain.Invoice{}, fmt.Errorf("get invoice %s: %w", id, err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT
			code,
			name,
			price::double precision,
			quantity,
			notes,
			line_total::double precision
		FROM invoice_lines
		WHERE invoice_id = $1
		ORDER BY position ASC
	`, id)
	if err != nil {
		return domain.Invoice{}, fmt.Errorf("get invoice lines %s: %w", id, err)
	}
	defer rows.Close()

	invoice.Lines = make([]domain.InvoiceLine, 0)
	for rows.Next() {
		var line domain.InvoiceLine
		if err := rows.Scan(
			&line.Code,
			&line.Name,
			&line.Price,
			&line.Quantity,
			&line.Notes,
			&line.LineTotal,
		); err != nil {
			return domain.Invoice{}, fmt.Errorf("scan invoice line: %w", err)
		}
		invoice.Lines = append(invoice.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return domain.Invoice{}, fmt.Errorf("iterate invoice lines: %w", err)
	}
	return invoice, nil
}

func (r *Repository) LogAction(ctx context.Context, username, actionType, title, details string) error {
	actionType = strings.TrimSpace(actionType)
	title = strings.TrimSpace(title)
	if actionType == "" || title == "" {
		return fmt.Errorf("action_type and title are required")
	}
	if details == "" {
		details = "-"
	}
	if _, err := r.pool.Exec(ctx, `
		INSERT INTO actions (
			username,
			action_type,
			title,
			details
		) VALUES ($1, $2, $3, $4)
	`, username, actionType, title, details); err != nil {
		return fmt.Errorf("log action: %w", err)
	}
	return nil
}

func (r *Repository) ListActions(ctx context.Context, limit, offset int, search string) ([]domain.ActionEntry, error) {
	limit = normalizeLimit(limit)
	offset = normalizeOffset(offset)
	search = strings.TrimSpace(search)

	rows, err := r.pool.Query(ctx, `
		SELECT
			id,
			created_at,
			username,
			action_type,
			title,
			details
		FROM actions
		WHERE ($1 = '' OR title ILIKE $2 ESCAPE '\' OR details ILIKE $2 ESCAPE '\' OR username ILIKE $2 ESCAPE '\')
		ORDER BY id DESC
		LIMIT $3 OFFSET $4
	`, search, likePattern(search), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	defer rows.Close()

	items := make([]domain.ActionEntry, 0)
	for rows.Next() {
		var row domain.ActionEntry
		if err := rows.Scan(
			&row.ActionID,
			&row.CreatedAt,
			&row.Username,
			&row.ActionType,
			&row.Title,
			&row.Details,
		); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		items = append(items, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate actions: %w", err)
	}
	return items, nil
}

func (r *Repository) CountActions(ctx context.Context, search string) (int, error) {
	search = strings.TrimSpace(search)
	var count int
	if err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)::int
		FROM actions
		WHERE ($1 = '' OR title ILIKE $2 ESCAPE '\' OR details ILIKE $2 ESCAPE '\' OR username ILIKE $2 ESCAPE '\')
	`, search, likePattern(search)).Scan(&count); err != nil {
		return 0, fmt.Errorf("count actions: %w", err)
	}
	return count, nil
}

func scanProductRow(row pgx.Row) (domain.Product, error) {
	var p domain.Product
	if err := row.Scan(&p.Code, &p.Name, &p.Price); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}
