// Package domain defines the tenant-scoped reporting contracts. Every
// operation takes the tenant ID explicitly and filters on it first; an
// unknown tenant yields empty results, never an error.
package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Limits applied to ranked reports.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// ClampLimit normalizes a requested row limit into [1, MaxLimit].
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

type Service interface {
	DashboardMetrics(ctx context.Context, tenantID snowflake.ID, window *DateWindow) (*DashboardMetrics, error)
	TopProducts(ctx context.Context, tenantID snowflake.ID, limit int) ([]ProductSales, error)
	TopObjections(ctx context.Context, tenantID snowflake.ID, limit int) ([]ObjectionSummary, error)
	TopContactReasons(ctx context.Context, tenantID snowflake.ID, limit int) ([]ContactReasonSummary, error)
	SalesOverTime(ctx context.Context, tenantID snowflake.ID, period Period) ([]SalesPoint, error)
	ConversationsOverTime(ctx context.Context, tenantID snowflake.ID, period Period) ([]ConversationPoint, error)
	SalesReport(ctx context.Context, tenantID snowflake.ID, window *DateWindow) ([]SaleRecord, error)
	ConversationsReport(ctx context.Context, tenantID snowflake.ID, window *DateWindow) ([]ConversationRecord, error)
}

// DashboardMetrics aggregates each entity independently over the window.
// The counters are never derived from a joined row set, so one entity's
// cardinality cannot inflate another's totals.
type DashboardMetrics struct {
	TotalConversations     int64   `json:"total_conversations"`
	CompletedConversations int64   `json:"completed_conversations"`
	TotalSales             int64   `json:"total_sales"`
	TotalRevenue           float64 `json:"total_revenue"`
	TotalObjections        int64   `json:"total_objections"`
	HandledObjections      int64   `json:"handled_objections"`
	TotalContactReasons    int64   `json:"total_contact_reasons"`
}

// ProductSales ranks a product by confirmed sales.
type ProductSales struct {
	ProductID    string  `json:"product_id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Category     string  `json:"category"`
	SalesCount   int64   `json:"sales_count"`
	TotalRevenue float64 `json:"total_revenue"`
}

// ObjectionSummary groups objections by type with a handling rate.
type ObjectionSummary struct {
	ObjectionType string  `json:"objection_type"`
	Count         int64   `json:"count"`
	HandledCount  int64   `json:"handled_count"`
	SuccessRate   float64 `json:"success_rate"`
}

// ContactReasonSummary groups contact reasons by category.
type ContactReasonSummary struct {
	Category      string `json:"category"`
	Count         int64  `json:"count"`
	ResolvedCount int64  `json:"resolved_count"`
}

// SalesPoint is one day of confirmed sales.
type SalesPoint struct {
	Date       string  `json:"date"`
	SalesCount int64   `json:"sales_count"`
	Revenue    float64 `json:"revenue"`
}

// ConversationPoint is one day of conversation activity.
type ConversationPoint struct {
	Date           string `json:"date"`
	Total          int64  `json:"total"`
	CompletedCount int64  `json:"completed_count"`
}

// SaleRecord is one transaction row for export.
type SaleRecord struct {
	Date          string  `json:"date"`
	ProductName   string  `json:"product_name"`
	Quantity      int64   `json:"quantity"`
	UnitPrice     float64 `json:"unit_price"`
	TotalAmount   float64 `json:"total_amount"`
	Status        string  `json:"status"`
	PaymentMethod string  `json:"payment_method"`
}

// ConversationRecord is one conversation row for export.
type ConversationRecord struct {
	Date         string `json:"date"`
	CustomerName string `json:"customer_name"`
	Status       string `json:"status"`
	Channel      string `json:"channel"`
	Duration     int64  `json:"duration"`
}
