package service

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/convodash/convodash/internal/analytics/domain"
	"github.com/convodash/convodash/internal/clock"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
}

func NewService(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("analytics.service"),
		clock: p.Clock,
	}
}

// windowClause appends inclusive bounds on col for the given window. The
// column name is always a literal from this package, never caller input.
func windowClause(col string, window *domain.DateWindow) (string, []any) {
	if window == nil {
		return "", nil
	}
	clause := ""
	args := []any{}
	if !window.Start.IsZero() {
		clause += fmt.Sprintf(" AND %s >= ?", col)
		args = append(args, window.Start)
	}
	if !window.End.IsZero() {
		clause += fmt.Sprintf(" AND %s <= ?", col)
		args = append(args, window.End)
	}
	return clause, args
}

type countPairRow struct {
	Total   int64 `gorm:"column:total"`
	Matched int64 `gorm:"column:matched"`
}

type salesTotalsRow struct {
	Total   int64   `gorm:"column:total"`
	Revenue float64 `gorm:"column:revenue"`
}

func (s *Service) DashboardMetrics(ctx context.Context, tenantID snowflake.ID, window *domain.DateWindow) (*domain.DashboardMetrics, error) {
	if tenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}

	metrics := &domain.DashboardMetrics{}

	// Each entity is aggregated on its own so row multiplicity in one
	// table can never skew another table's counters.
	var conversations countPairRow
	clause, args := windowClause("started_at", window)
	query := `
		SELECT COUNT(*) AS total,
		       COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0) AS matched
		FROM conversations
		WHERE tenant_id = ?` + clause
	if err := s.db.WithContext(ctx).Raw(query, append([]any{tenantID}, args...)...).Scan(&conversations).Error; err != nil {
		return nil, err
	}
	metrics.TotalConversations = conversations.Total
	metrics.CompletedConversations = conversations.Matched

	// Sale count is status-independent; only revenue is gated on confirmed.
	var sales salesTotalsRow
	clause, args = windowClause("sale_date", window)
	query = `
		SELECT COUNT(*) AS total,
		       COALESCE(SUM(CASE WHEN status = 'confirmed' THEN total_amount ELSE 0 END), 0) AS revenue
		FROM sales
		WHERE tenant_id = ?` + clause
	if err := s.db.WithContext(ctx).Raw(query, append([]any{tenantID}, args...)...).Scan(&sales).Error; err != nil {
		return nil, err
	}
	metrics.TotalSales = sales.Total
	metrics.TotalRevenue = sales.Revenue

	var objections countPairRow
	clause, args = windowClause("occurred_at", window)
	query = `
		SELECT COUNT(*) AS total,
		       COALESCE(SUM(CASE WHEN was_handled THEN 1 ELSE 0 END), 0) AS matched
		FROM objections
		WHERE tenant_id = ?` + clause
	if err := s.db.WithContext(ctx).Raw(query, append([]any{tenantID}, args...)...).Scan(&objections).Error; err != nil {
		return nil, err
	}
	metrics.TotalObjections = objections.Total
	metrics.HandledObjections = objections.Matched

	var contacts countPairRow
	clause, args = windowClause("occurred_at", window)
	query = `
		SELECT COUNT(*) AS total, 0 AS matched
		FROM contact_reasons
		WHERE tenant_id = ?` + clause
	if err := s.db.WithContext(ctx).Raw(query, append([]any{tenantID}, args...)...).Scan(&contacts).Error; err != nil {
		return nil, err
	}
	metrics.TotalContactReasons = contacts.Total

	return metrics, nil
}

type productSalesRow struct {
	ProductID    snowflake.ID `gorm:"column:product_id"`
	Name         string       `gorm:"column:name"`
	Price        float64      `gorm:"column:price"`
	Category     string       `gorm:"column:category"`
	SalesCount   int64        `gorm:"column:sales_count"`
	TotalRevenue float64      `gorm:"column:total_revenue"`
}

func (s *Service) TopProducts(ctx context.Context, tenantID snowflake.ID, limit int) ([]domain.ProductSales, error) {
	if tenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}
	limit = domain.ClampLimit(limit)

	var rows []productSalesRow
	query := `
		SELECT p.id AS product_id,
		       p.name AS name,
		       p.price AS price,
		       p.category AS category,
		       COUNT(s.id) AS sales_count,
		       COALESCE(SUM(s.total_amount), 0) AS total_revenue
		FROM products p
		LEFT JOIN sales s
		       ON s.product_id = p.id
		      AND s.tenant_id = p.tenant_id
		      AND s.status = 'confirmed'
		WHERE p.tenant_id = ?
		GROUP BY p.id, p.name, p.price, p.category
		ORDER BY sales_count DESC, total_revenue DESC, p.name ASC
		LIMIT ?`

	if err := s.db.WithContext(ctx).Raw(query, tenantID, limit).Scan(&rows).Error; err != nil {
		return nil, err
	}

	products := make([]domain.ProductSales, 0, len(rows))
	for _, row := range rows {
		products = append(products, domain.ProductSales{
			ProductID:    row.ProductID.String(),
			Name:         row.Name,
			Price:        row.Price,
			Category:     row.Category,
			SalesCount:   row.SalesCount,
			TotalRevenue: row.TotalRevenue,
		})
	}
	return products, nil
}

type objectionSummaryRow struct {
	ObjectionType string  `gorm:"column:objection_type"`
	Total         int64   `gorm:"column:total"`
	HandledCount  int64   `gorm:"column:handled_count"`
	SuccessRate   float64 `gorm:"column:success_rate"`
}

func (s *Service) TopObjections(ctx context.Context, tenantID snowflake.ID, limit int) ([]domain.ObjectionSummary, error) {
	if tenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}
	limit = domain.ClampLimit(limit)

	var rows []objectionSummaryRow
	query := `
		SELECT objection_type,
		       COUNT(*) AS total,
		       COALESCE(SUM(CASE WHEN was_handled THEN 1 ELSE 0 END), 0) AS handled_count,
		       ROUND(COALESCE(SUM(CASE WHEN was_handled THEN 1 ELSE 0 END), 0) * 100.0 / COUNT(*), 2) AS success_rate
		FROM objections
		WHERE tenant_id = ?
		GROUP BY objection_type
		ORDER BY total DESC, objection_type ASC
		LIMIT ?`

	if err := s.db.WithContext(ctx).Raw(query, tenantID, limit).Scan(&rows).Error; err != nil {
		return nil, err
	}

	summaries := make([]domain.ObjectionSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, domain.ObjectionSummary{
			ObjectionType: row.ObjectionType,
			Count:         row.Total,
			HandledCount:  row.HandledCount,
			SuccessRate:   row.SuccessRate,
		})
	}
	return summaries, nil
}

type contactReasonRow struct {
	Category      string `gorm:"column:category"`
	Total         int64  `gorm:"column:total"`
	ResolvedCount int64  `gorm:"column:resolved_count"`
}

func (s *Service) TopContactReasons(ctx context.Context, tenantID snowflake.ID, limit int) ([]domain.ContactReasonSummary, error) {
	if tenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}
	limit = domain.ClampLimit(limit)

	var rows []contactReasonRow
	query := `
		SELECT category,
		       COUNT(*) AS total,
		       COALESCE(SUM(CASE WHEN resolution_status = 'resolved' THEN 1 ELSE 0 END), 0) AS resolved_count
		FROM contact_reasons
		WHERE tenant_id = ?
		GROUP BY category
		ORDER BY total DESC, category ASC
		LIMIT ?`

	if err := s.db.WithContext(ctx).Raw(query, tenantID, limit).Scan(&rows).Error; err != nil {
		return nil, err
	}

	summaries := make([]domain.ContactReasonSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, domain.ContactReasonSummary{
			Category:      row.Category,
			Count:         row.Total,
			ResolvedCount: row.ResolvedCount,
		})
	}
	return summaries, nil
}

type salesPointRow struct {
	Day        string  `gorm:"column:day"`
	SalesCount int64   `gorm:"column:sales_count"`
	Revenue    float64 `gorm:"column:revenue"`
}

func (s *Service) SalesOverTime(ctx context.Context, tenantID snowflake.ID, period domain.Period) ([]domain.SalesPoint, error) {
	if tenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}
	cutoff := period.CutoffFrom(s.clock.Now())

	var rows []salesPointRow
	query := `
		SELECT CAST(DATE(sale_date) AS TEXT) AS day,
		       COUNT(*) AS sales_count,
		       COALESCE(SUM(total_amount), 0) AS revenue
		FROM sales
		WHERE tenant_id = ?
		  AND status = 'confirmed'
		  AND sale_date >= ?
		GROUP BY DATE(sale_date)
		ORDER BY day ASC`

	if err := s.db.WithContext(ctx).Raw(query, tenantID, cutoff).Scan(&rows).Error; err != nil {
		return nil, err
	}

	points := make([]domain.SalesPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, domain.SalesPoint{
			Date:       row.Day,
			SalesCount: row.SalesCount,
			Revenue:    row.Revenue,
		})
	}
	return points, nil
}

type conversationPointRow struct {
	Day            string `gorm:"column:day"`
	Total          int64  `gorm:"column:total"`
	CompletedCount int64  `gorm:"column:completed_count"`
}

func (s *Service) ConversationsOverTime(ctx context.Context, tenantID snowflake.ID, period domain.Period) ([]domain.ConversationPoint, error) {
	if tenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}
	cutoff := period.CutoffFrom(s.clock.Now())

	var rows []conversationPointRow
	query := `
		SELECT CAST(DATE(started_at) AS TEXT) AS day,
		       COUNT(*) AS total,
		       COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0) AS completed_count
		FROM conversations
		WHERE tenant_id = ?
		  AND started_at >= ?
		GROUP BY DATE(started_at)
		ORDER BY day ASC`

	if err := s.db.WithContext(ctx).Raw(query, tenantID, cutoff).Scan(&rows).Error; err != nil {
		return nil, err
	}

	points := make([]domain.ConversationPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, domain.ConversationPoint{
			Date:           row.Day,
			Total:          row.Total,
			CompletedCount: row.CompletedCount,
		})
	}
	return points, nil
}

type saleRecordRow struct {
	Day           string  `gorm:"column:day"`
	ProductName   string  `gorm:"column:product_name"`
	Quantity      int64   `gorm:"column:quantity"`
	UnitPrice     float64 `gorm:"column:unit_price"`
	TotalAmount   float64 `gorm:"column:total_amount"`
	Status        string  `gorm:"column:status"`
	PaymentMethod string  `gorm:"column:payment_method"`
}

func (s *Service) SalesReport(ctx context.Context, tenantID snowflake.ID, window *domain.DateWindow) ([]domain.SaleRecord, error) {
	if tenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}

	clause, args := windowClause("s.sale_date", window)
	query := `
		SELECT CAST(DATE(s.sale_date) AS TEXT) AS day,
		       COALESCE(p.name, '') AS product_name,
		       s.quantity AS quantity,
		       s.unit_price AS unit_price,
		       s.total_amount AS total_amount,
		       s.status AS status,
		       s.payment_method AS payment_method
		FROM sales s
		LEFT JOIN products p ON p.id = s.product_id
		WHERE s.tenant_id = ?` + clause + `
		ORDER BY s.sale_date ASC, s.id ASC`

	var rows []saleRecordRow
	if err := s.db.WithContext(ctx).Raw(query, append([]any{tenantID}, args...)...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]domain.SaleRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, domain.SaleRecord{
			Date:          row.Day,
			ProductName:   row.ProductName,
			Quantity:      row.Quantity,
			UnitPrice:     row.UnitPrice,
			TotalAmount:   row.TotalAmount,
			Status:        row.Status,
			PaymentMethod: row.PaymentMethod,
		})
	}
	return records, nil
}

type conversationRecordRow struct {
	Day          string `gorm:"column:day"`
	CustomerName string `gorm:"column:customer_name"`
	Status       string `gorm:"column:status"`
	Channel      string `gorm:"column:channel"`
	Duration     int64  `gorm:"column:duration"`
}

func (s *Service) ConversationsReport(ctx context.Context, tenantID snowflake.ID, window *domain.DateWindow) ([]domain.ConversationRecord, error) {
	if tenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}

	clause, args := windowClause("started_at", window)
	query := `
		SELECT CAST(DATE(started_at) AS TEXT) AS day,
		       customer_name,
		       status,
		       channel,
		       duration
		FROM conversations
		WHERE tenant_id = ?` + clause + `
		ORDER BY started_at ASC, id ASC`

	var rows []conversationRecordRow
	if err := s.db.WithContext(ctx).Raw(query, append([]any{tenantID}, args...)...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]domain.ConversationRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, domain.ConversationRecord{
			Date:         row.Day,
			CustomerName: row.CustomerName,
			Status:       row.Status,
			Channel:      row.Channel,
			Duration:     row.Duration,
		})
	}
	return records, nil
}
