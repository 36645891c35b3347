package domain

import "time"

// Session describes an issued access token. Sessions are never persisted.
type Session struct {
	Token     string
	TokenType string
	ExpiresAt time.Time
}

// DashboardStats aggregates counters shown on the dashboard.
type DashboardStats struct {
	TotalUsers  int
	UsersByRole map[UserRole]int
	ActiveUsers int
	Departments int
	GeneratedAt time.Time
}
