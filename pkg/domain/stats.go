package domain

// DashboardStats summarizes an organization's activity.
type DashboardStats struct {
	Revenue     string `json:"revenue"`
	TotalOrders int    `json:"totalOrders"`
	ActiveItems int    `json:"activeItems"`
	TotalUsers  int    `json:"totalUsers"`
}

// EmptyDashboardStats is returned when the caller has no organization.
func EmptyDashboardStats() *DashboardStats {
	return &DashboardStats{Revenue: "0"}
}
