package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/nexuspoint/pkg/domain"
)

// OrdersRepository handles order persistence. Every query is scoped to an organization.
type OrdersRepository struct {
	db *sql.DB
}

// NewOrdersRepository creates a new orders repository.
func NewOrdersRepository(db *sql.DB) *OrdersRepository {
	return &OrdersRepository{db: db}
}

const defaultOrderLimit = 100

const orderColumns = `
	id, organization_id, branch_id, external_order_id, source, status, customer_name,
	customer_phone, items, subtotal::text, discount::text, total::text, notes,
	created_at, updated_at, accepted_at, completed_at
`

func scanOrder(row interface{ Scan(...any) error }) (*domain.Order, error) {
	o := &domain.Order{}
	var items []byte
	err := row.Scan(
		&o.ID, &o.OrganizationID, &o.BranchID, &o.ExternalOrderID, &o.Source, &o.Status, &o.CustomerName,
		&o.CustomerPhone, &items, &o.Subtotal, &o.Discount, &o.Total, &o.Notes,
		&o.CreatedAt, &o.UpdatedAt, &o.AcceptedAt, &o.CompletedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("decode order items: %w", err)
	}
	return o, nil
}

// List returns the organization's orders, newest first.
func (r *OrdersRepository) List(ctx context.Context, organizationID uuid.UUID, f domain.OrderFilter) ([]*domain.Order, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultOrderLimit
	}
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE organization_id = $1
		  AND ($2::uuid IS NULL OR branch_id = $2)
		  AND ($3::text IS NULL OR status = $3)
		  AND ($4::text IS NULL OR source = $4)
		ORDER BY created_at DESC
		LIMIT $5
	`
	rows, err := r.db.QueryContext(ctx, query, organizationID, f.BranchID, f.Status, f.Source, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []*domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// Get retrieves an order by ID within an organization.
func (r *OrdersRepository) Get(ctx context.Context, organizationID, id uuid.UUID) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 AND organization_id = $2`
	return scanOrder(r.db.QueryRowContext(ctx, query, id, organizationID))
}

// Create inserts an order with its item snapshot.
func (r *OrdersRepository) Create(ctx context.Context, o *domain.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("encode order items: %w", err)
	}
	query := `
		INSERT INTO orders (id, organization_id, branch_id, external_order_id, source, status,
		                    customer_name, customer_phone, items, subtotal, discount, total, notes,
		                    created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err = r.db.ExecContext(ctx, query,
		o.ID, o.OrganizationID, o.BranchID, o.ExternalOrderID, o.Source, o.Status,
		o.CustomerName, o.CustomerPhone, items, o.Subtotal, o.Discount, o.Total, o.Notes,
		o.CreatedAt, o.UpdatedAt,
	)
	return err
}

// UpdateStatus moves an order from one status to another. The update only
// applies while the order is still in the expected status; otherwise
// domain.ErrInvalidOrderTransition is returned.
func (r *OrdersRepository) UpdateStatus(ctx context.Context, organizationID, id uuid.UUID, from, to domain.OrderStatus, at time.Time) (*domain.Order, error) {
	query := `
		UPDATE orders
		SET status = $4,
		    updated_at = $5,
		    accepted_at = CASE WHEN $4 = 'accepted' THEN $5 ELSE accepted_at END,
		    completed_at = CASE WHEN $4 = 'completed' THEN $5 ELSE completed_at END
		WHERE id = $1 AND organization_id = $2 AND status = $3
		RETURNING ` + orderColumns
	o, err := scanOrder(r.db.QueryRowContext(ctx, query, id, organizationID, from, to, at))
	if errors.Is(err, domain.ErrOrderNotFound) {
		return nil, domain.ErrInvalidOrderTransition
	}
	return o, err
}
