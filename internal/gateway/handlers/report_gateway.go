package handlers

import (
	"net/http"

	"catering-backoffice/internal/services/availability"
	"catering-backoffice/internal/services/reports"

	"github.com/gin-gonic/gin"
)

type ReportHTTPHandler struct {
	reports      *reports.Service
	availability *availability.Service
}

func NewReportHTTPHandler(rs *reports.Service, as *availability.Service) *ReportHTTPHandler {
	return &ReportHTTPHandler{reports: rs, availability: as}
}

type AvailabilityQuery struct {
	Date  string `form:"date"`
	Skill string `form:"skill"`
}

func (h *ReportHTTPHandler) Availability(c *gin.Context) {
	var q AvailabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid query parameters"))
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := h.availability.Query(ctx, q.Date, q.Skill)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ReportHTTPHandler) Salary(c *gin.Context) {
	var q reports.Query
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid query parameters"))
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	report, err := h.reports.Salary(ctx, q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
