package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) GetDashboardMetrics(c *gin.Context) {
	tenant, ok := tenantFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	window, err := parseWindowParams(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	metrics, err := s.analyticsSvc.DashboardMetrics(c.Request.Context(), tenant.ID, window)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.auditSvc.Record(c.Request.Context(), &tenant.ID, "view_dashboard", "dashboard metrics viewed", nil)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    metrics,
	})
}

func (s *Server) GetTopProducts(c *gin.Context) {
	tenant, ok := tenantFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	products, err := s.analyticsSvc.TopProducts(c.Request.Context(), tenant.ID, parseLimitParam(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    products,
	})
}

func (s *Server) GetTopObjections(c *gin.Context) {
	tenant, ok := tenantFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	objections, err := s.analyticsSvc.TopObjections(c.Request.Context(), tenant.ID, parseLimitParam(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    objections,
	})
}

func (s *Server) GetTopContactReasons(c *gin.Context) {
	tenant, ok := tenantFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	reasons, err := s.analyticsSvc.TopContactReasons(c.Request.Context(), tenant.ID, parseLimitParam(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    reasons,
	})
}

func (s *Server) GetSalesOverTime(c *gin.Context) {
	tenant, ok := tenantFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	period, err := parsePeriodParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	points, err := s.analyticsSvc.SalesOverTime(c.Request.Context(), tenant.ID, period)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    points,
	})
}

func (s *Server) GetConversationsOverTime(c *gin.Context) {
	tenant, ok := tenantFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	period, err := parsePeriodParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	points, err := s.analyticsSvc.ConversationsOverTime(c.Request.Context(), tenant.ID, period)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    points,
	})
}
