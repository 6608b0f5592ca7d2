// Package export renders report rows as CSV downloads. Every value is
// quoted, including empty ones, so output bytes are stable across dialects
// and reruns of identical data.
package export

import (
	"bytes"
	"errors"
	"strconv"
	"strings"

	"github.com/convodash/convodash/internal/analytics/domain"
)

var (
	ErrEmptyResult = errors.New("nothing to export")
	ErrUnknownType = errors.New("unknown export type")
)

// Export types accepted on the wire.
const (
	TypeSales         = "sales"
	TypeConversations = "conversations"
	TypeProducts      = "products"
	TypeObjections    = "objections"
)

// ContentType is the MIME type for rendered exports.
const ContentType = "text/csv"

// ParseType validates a wire export type.
func ParseType(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case TypeSales:
		return TypeSales, nil
	case TypeConversations:
		return TypeConversations, nil
	case TypeProducts:
		return TypeProducts, nil
	case TypeObjections:
		return TypeObjections, nil
	default:
		return "", ErrUnknownType
	}
}

// Filename returns the attachment filename for an export type.
func Filename(exportType string) string {
	return exportType + "_export.csv"
}

// MarshalSales renders sale records in their fixed column order.
func MarshalSales(records []domain.SaleRecord) ([]byte, error) {
	if len(records) == 0 {
		return nil, ErrEmptyResult
	}
	header := []string{"date", "product_name", "quantity", "unit_price", "total_amount", "status", "payment_method"}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.Date,
			r.ProductName,
			formatInt(r.Quantity),
			formatAmount(r.UnitPrice),
			formatAmount(r.TotalAmount),
			r.Status,
			r.PaymentMethod,
		})
	}
	return render(header, rows), nil
}

// MarshalConversations renders conversation records.
func MarshalConversations(records []domain.ConversationRecord) ([]byte, error) {
	if len(records) == 0 {
		return nil, ErrEmptyResult
	}
	header := []string{"date", "customer_name", "status", "channel", "duration"}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.Date,
			r.CustomerName,
			r.Status,
			r.Channel,
			formatInt(r.Duration),
		})
	}
	return render(header, rows), nil
}

// MarshalProducts renders ranked product rows.
func MarshalProducts(records []domain.ProductSales) ([]byte, error) {
	if len(records) == 0 {
		return nil, ErrEmptyResult
	}
	header := []string{"product_id", "name", "price", "category", "sales_count", "total_revenue"}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.ProductID,
			r.Name,
			formatAmount(r.Price),
			r.Category,
			formatInt(r.SalesCount),
			formatAmount(r.TotalRevenue),
		})
	}
	return render(header, rows), nil
}

// MarshalObjections renders objection summaries.
func MarshalObjections(records []domain.ObjectionSummary) ([]byte, error) {
	if len(records) == 0 {
		return nil, ErrEmptyResult
	}
	header := []string{"objection_type", "count", "handled_count", "success_rate"}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.ObjectionType,
			formatInt(r.Count),
			formatInt(r.HandledCount),
			formatAmount(r.SuccessRate),
		})
	}
	return render(header, rows), nil
}

// render quotes every cell unconditionally; encoding/csv only quotes when
// forced, which would make output depend on cell content.
func render(header []string, rows [][]string) []byte {
	var buf bytes.Buffer
	writeRow(&buf, header)
	for _, row := range rows {
		writeRow(&buf, row)
	}
	return buf.Bytes()
}

func writeRow(buf *bytes.Buffer, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		buf.WriteByte('"')
	}
	buf.WriteByte('\n')
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
