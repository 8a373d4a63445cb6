package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/tendant/nexuspoint/pkg/domain"
)

// DashboardRepository computes dashboard aggregates. Every query is scoped to an organization.
type DashboardRepository struct {
	db *sql.DB
}

// NewDashboardRepository creates a new dashboard repository.
func NewDashboardRepository(db *sql.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// Stats returns revenue, order count, available menu items and member count.
// Orders and menu items are narrowed to a branch when branchID is set.
func (r *DashboardRepository) Stats(ctx context.Context, organizationID uuid.UUID, branchID *uuid.UUID) (*domain.DashboardStats, error) {
	query := `
		SELECT
			(SELECT COALESCE(SUM(total), 0)::text FROM orders
			 WHERE organization_id = $1 AND ($2::uuid IS NULL OR branch_id = $2)),
			(SELECT COUNT(*) FROM orders
			 WHERE organization_id = $1 AND ($2::uuid IS NULL OR branch_id = $2)),
			(SELECT COUNT(*) FROM menu_items
			 WHERE organization_id = $1 AND is_available = TRUE AND ($2::uuid IS NULL OR branch_id = $2)),
			(SELECT COUNT(*) FROM memberships WHERE organization_id = $1)
	`
	stats := &domain.DashboardStats{}
	err := r.db.QueryRowContext(ctx, query, organizationID, branchID).Scan(
		&stats.Revenue, &stats.TotalOrders, &stats.ActiveItems, &stats.TotalUsers,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
