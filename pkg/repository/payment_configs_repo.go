package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/tendant/nexuspoint/pkg/domain"
)

// PaymentConfigsRepository handles payment config persistence. Every query is scoped to an organization.
type PaymentConfigsRepository struct {
	db *sql.DB
}

// NewPaymentConfigsRepository creates a new payment configs repository.
func NewPaymentConfigsRepository(db *sql.DB) *PaymentConfigsRepository {
	return &PaymentConfigsRepository{db: db}
}

const paymentConfigColumns = `
	id, organization_id, branch_id, prompt_pay_id, prompt_pay_name, shop_logo_url,
	receipt_header, receipt_footer, created_at, updated_at
`

func scanPaymentConfig(row interface{ Scan(...any) error }) (*domain.PaymentConfig, error) {
	c := &domain.PaymentConfig{}
	err := row.Scan(
		&c.ID, &c.OrganizationID, &c.BranchID, &c.PromptPayID, &c.PromptPayName, &c.ShopLogoURL,
		&c.ReceiptHeader, &c.ReceiptFooter, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPaymentConfigNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// List returns all payment configs of an organization, the default first.
func (r *PaymentConfigsRepository) List(ctx context.Context, organizationID uuid.UUID) ([]*domain.PaymentConfig, error) {
	query := `
		SELECT ` + paymentConfigColumns + `
		FROM payment_configs
		WHERE organization_id = $1
		ORDER BY branch_id NULLS FIRST
	`
	rows, err := r.db.QueryContext(ctx, query, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	configs := []*domain.PaymentConfig{}
	for rows.Next() {
		c, err := scanPaymentConfig(rows)
		if err != nil {
			return nil, err
		}
		configs = append(configs, c)
	}
	return configs, rows.Err()
}

// GetEffective retrieves the branch config, falling back to the organization default.
func (r *PaymentConfigsRepository) GetEffective(ctx context.Context, organizationID uuid.UUID, branchID *uuid.UUID) (*domain.PaymentConfig, error) {
	query := `
		SELECT ` + paymentConfigColumns + `
		FROM payment_configs
		WHERE organization_id = $1 AND (branch_id IS NULL OR branch_id = $2::uuid)
		ORDER BY branch_id NULLS LAST
		LIMIT 1
	`
	return scanPaymentConfig(r.db.QueryRowContext(ctx, query, organizationID, branchID))
}

// Upsert creates or replaces the config for (organization, branch).
func (r *PaymentConfigsRepository) Upsert(ctx context.Context, c *domain.PaymentConfig) (*domain.PaymentConfig, error) {
	query := `
		INSERT INTO payment_configs (id, organization_id, branch_id, prompt_pay_id, prompt_pay_name,
		                             shop_logo_url, receipt_header, receipt_footer, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		ON CONFLICT (organization_id, COALESCE(branch_id, '00000000-0000-0000-0000-000000000000'::uuid))
		DO UPDATE SET prompt_pay_id = EXCLUDED.prompt_pay_id,
		              prompt_pay_name = EXCLUDED.prompt_pay_name,
		              shop_logo_url = EXCLUDED.shop_logo_url,
		              receipt_header = EXCLUDED.receipt_header,
		              receipt_footer = EXCLUDED.receipt_footer,
		              updated_at = EXCLUDED.updated_at
		RETURNING ` + paymentConfigColumns
	return scanPaymentConfig(r.db.QueryRowContext(ctx, query,
		c.ID, c.OrganizationID, c.BranchID, c.PromptPayID, c.PromptPayName,
		c.ShopLogoURL, c.ReceiptHeader, c.ReceiptFooter, c.UpdatedAt,
	))
}

// Delete removes a payment config within an organization.
func (r *PaymentConfigsRepository) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM payment_configs WHERE id = $1 AND organization_id = $2`, id, organizationID,
	)
	if err != nil {
		return err
	}
	return rowsAffectedOr(result, domain.ErrPaymentConfigNotFound)
}
