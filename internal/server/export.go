package server

import (
	"fmt"
	"net/http"

	"github.com/bwmarrin/snowflake"
	analyticsdomain "github.com/convodash/convodash/internal/analytics/domain"
	"github.com/convodash/convodash/internal/export"
	"github.com/gin-gonic/gin"
)

const exportDefaultDays = 365

func (s *Server) Export(c *gin.Context) {
	tenant, ok := tenantFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	exportType, err := export.ParseType(c.Param("type"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	window, err := parseWindowParams(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	payload, err := s.renderExport(c, tenant.ID, exportType, window)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.auditSvc.Record(c.Request.Context(), &tenant.ID, "export_data", "report exported", map[string]any{
		"type": exportType,
	})

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(exportType)))
	c.Data(http.StatusOK, export.ContentType, payload)
}

func (s *Server) renderExport(c *gin.Context, tenantID snowflake.ID, exportType string, window *analyticsdomain.DateWindow) ([]byte, error) {
	ctx := c.Request.Context()

	switch exportType {
	case export.TypeSales:
		if window == nil {
			window = analyticsdomain.LastDays(s.clock.Now(), exportDefaultDays)
		}
		records, err := s.analyticsSvc.SalesReport(ctx, tenantID, window)
		if err != nil {
			return nil, err
		}
		return export.MarshalSales(records)
	case export.TypeConversations:
		if window == nil {
			window = analyticsdomain.LastDays(s.clock.Now(), exportDefaultDays)
		}
		records, err := s.analyticsSvc.ConversationsReport(ctx, tenantID, window)
		if err != nil {
			return nil, err
		}
		return export.MarshalConversations(records)
	case export.TypeProducts:
		records, err := s.analyticsSvc.TopProducts(ctx, tenantID, analyticsdomain.MaxLimit)
		if err != nil {
			return nil, err
		}
		return export.MarshalProducts(records)
	case export.TypeObjections:
		records, err := s.analyticsSvc.TopObjections(ctx, tenantID, analyticsdomain.MaxLimit)
		if err != nil {
			return nil, err
		}
		return export.MarshalObjections(records)
	default:
		return nil, export.ErrUnknownType
	}
}
